package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	messageServerError     = "Server error"
	messageServiceUnavail  = "Service unavailable"
	messageNotFound        = "Not found"
	messageBadBody         = "Invalid request body"
	messageRegisterFields  = "Please provide name, email and password"
	messageLoginFields     = "Please provide email and password"
	messageUserExists      = "User already exists"
	messageInvalidLogin    = "Invalid credentials"
	messageTooManyAttempts = "Too many login attempts, please try again later"
	messageTooManySignups  = "Too many registrations, please try again later"
	messageUserNotFound    = "User not found"
	messageTitleRequired   = "Title is required"
	messageNoteNotFound    = "Note not found"
	messageNoteDeleted     = "Note deleted"
)

func (h *handlers) fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

// serverError records err for the request log and hides it from the client.
func (h *handlers) serverError(c *gin.Context, op string, err error) {
	_ = c.Error(err)
	h.logger.ErrorContext(c.Request.Context(), op+" failed", slog.Any("error", err))
	h.fail(c, http.StatusInternalServerError, messageServerError)
}
