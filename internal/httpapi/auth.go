package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	goNotes "github.com/MrEthical07/goNotes"
	"github.com/MrEthical07/goNotes/middleware"
	"github.com/MrEthical07/goNotes/notes"
	"github.com/gin-gonic/gin"
)

type handlers struct {
	auth   Auth
	notes  *notes.Service
	logger *slog.Logger
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string             `json:"token"`
	User  goNotes.UserRecord `json:"user"`
}

func (h *handlers) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, messageBadBody)
		return
	}

	res, err := h.auth.Register(c.Request.Context(), goNotes.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, authResponse{Token: res.Token, User: res.User})
	case errors.Is(err, goNotes.ErrInvalidInput):
		h.fail(c, http.StatusBadRequest, messageRegisterFields)
	case errors.Is(err, goNotes.ErrAccountExists):
		h.fail(c, http.StatusBadRequest, messageUserExists)
	case errors.Is(err, goNotes.ErrRegisterRateLimited):
		h.fail(c, http.StatusTooManyRequests, messageTooManySignups)
	case errors.Is(err, goNotes.ErrBackendUnavailable):
		_ = c.Error(err)
		h.fail(c, http.StatusServiceUnavailable, messageServiceUnavail)
	default:
		h.serverError(c, "register", err)
	}
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, messageBadBody)
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, authResponse{Token: res.Token, User: res.User})
	case errors.Is(err, goNotes.ErrInvalidInput):
		h.fail(c, http.StatusBadRequest, messageLoginFields)
	case errors.Is(err, goNotes.ErrInvalidCredentials):
		h.fail(c, http.StatusUnauthorized, messageInvalidLogin)
	case errors.Is(err, goNotes.ErrLoginRateLimited):
		h.fail(c, http.StatusTooManyRequests, messageTooManyAttempts)
	case errors.Is(err, goNotes.ErrBackendUnavailable):
		_ = c.Error(err)
		h.fail(c, http.StatusServiceUnavailable, messageServiceUnavail)
	default:
		h.serverError(c, "login", err)
	}
}

func (h *handlers) me(c *gin.Context) {
	id, ok := middleware.IdentityFromContext(c)
	if !ok {
		h.fail(c, http.StatusUnauthorized, middleware.MessageInvalidToken)
		return
	}

	user, err := h.auth.Me(c.Request.Context(), id.UserID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, user)
	case errors.Is(err, goNotes.ErrUserNotFound):
		h.fail(c, http.StatusNotFound, messageUserNotFound)
	default:
		h.serverError(c, "load user", err)
	}
}
