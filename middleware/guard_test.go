package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	goNotes "github.com/MrEthical07/goNotes"
	"github.com/MrEthical07/goNotes/jwt"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeAuthenticator struct {
	tokens map[string]string
	err    error
	got    string
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, token string) (*goNotes.Identity, error) {
	f.got = token
	if f.err != nil {
		return nil, f.err
	}
	sub, ok := f.tokens[token]
	if !ok {
		return nil, fmt.Errorf("%w: %w", goNotes.ErrUnauthorized, jwt.ErrSignature)
	}
	return &goNotes.Identity{UserID: sub}, nil
}

func newGuardedRouter(auth Authenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", RequireAuth(auth), func(c *gin.Context) {
		id, ok := IdentityFromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, id.UserID)
	})
	return r
}

func serve(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	auth := &fakeAuthenticator{tokens: map[string]string{"good": "u1"}}
	rec := serve(newGuardedRouter(auth), "Bearer good")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", rec.Body.String())
	assert.Equal(t, "good", auth.got)
}

func TestRequireAuthSchemeIsCaseInsensitive(t *testing.T) {
	auth := &fakeAuthenticator{tokens: map[string]string{"good": "u1"}}
	rec := serve(newGuardedRouter(auth), "bearer good")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuthRejections(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		err     error
		message string
	}{
		{name: "missing header", header: "", message: MessageNoToken},
		{name: "wrong scheme", header: "Basic abc", message: MessageNoToken},
		{name: "empty token", header: "Bearer   ", message: MessageNoToken},
		{name: "unknown token", header: "Bearer forged", message: MessageInvalidToken},
		{
			name:    "expired token",
			header:  "Bearer old",
			err:     fmt.Errorf("%w: %w", goNotes.ErrUnauthorized, jwt.ErrExpired),
			message: MessageExpiredToken,
		},
		{
			name:    "engine failure",
			header:  "Bearer any",
			err:     errors.New("boom"),
			message: MessageInvalidToken,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			auth := &fakeAuthenticator{tokens: map[string]string{}, err: tc.err}
			rec := serve(newGuardedRouter(auth), tc.header)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"message":%q}`, tc.message), rec.Body.String())
		})
	}
}

func TestRequireAuthNilAuthenticator(t *testing.T) {
	rec := serve(newGuardedRouter(nil), "Bearer x")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
