package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	goNotes "github.com/MrEthical07/goNotes"
	"github.com/MrEthical07/goNotes/jwt"
	"github.com/gin-gonic/gin"
)

const identityKey = "goNotes.identity"

// Rejection messages written as {"message": ...} with status 401.
const (
	MessageNoToken      = "No token, authorization denied"
	MessageInvalidToken = "Token is not valid"
	MessageExpiredToken = "Token expired"
)

// Authenticator is the part of [goNotes.Engine] the guard needs.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*goNotes.Identity, error)
}

// IdentityFromContext returns the identity stored by [RequireAuth].
func IdentityFromContext(c *gin.Context) (*goNotes.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*goNotes.Identity)
	return id, ok && id != nil
}

// RequireAuth rejects requests without a valid "Authorization: Bearer <token>" header and
// stores the verified identity for downstream handlers.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth == nil {
			abort(c, MessageInvalidToken)
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abort(c, MessageNoToken)
			return
		}

		id, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, jwt.ErrExpired) {
				abort(c, MessageExpiredToken)
				return
			}
			abort(c, MessageInvalidToken)
			return
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

// ClientContext copies the client IP and User-Agent into the request context so the engine
// can throttle by IP and attribute audit events.
func ClientContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := goNotes.WithClientIP(c.Request.Context(), c.ClientIP())
		ctx = goNotes.WithUserAgent(ctx, c.Request.UserAgent())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func abort(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": message})
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if len(value) < len(bearer) || !strings.EqualFold(value[:len(bearer)], bearer) {
		return "", false
	}

	token := strings.TrimSpace(value[len(bearer):])
	if token == "" {
		return "", false
	}

	return token, true
}
