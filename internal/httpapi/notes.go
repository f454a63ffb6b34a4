package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/MrEthical07/goNotes/middleware"
	"github.com/MrEthical07/goNotes/notes"
	"github.com/gin-gonic/gin"
)

type createNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *handlers) userID(c *gin.Context) (string, bool) {
	id, ok := middleware.IdentityFromContext(c)
	if !ok {
		h.fail(c, http.StatusUnauthorized, middleware.MessageInvalidToken)
		return "", false
	}
	return id.UserID, true
}

func (h *handlers) listNotes(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	list, err := h.notes.List(c.Request.Context(), userID)
	if err != nil {
		h.serverError(c, "list notes", err)
		return
	}
	if list == nil {
		list = []notes.Note{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *handlers) createNote(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, messageBadBody)
		return
	}

	note, err := h.notes.Create(c.Request.Context(), userID, req.Title, req.Content)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, note)
	case errors.Is(err, notes.ErrTitleRequired):
		h.fail(c, http.StatusBadRequest, messageTitleRequired)
	default:
		h.serverError(c, "create note", err)
	}
}

func (h *handlers) updateNote(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		h.fail(c, http.StatusBadRequest, messageBadBody)
		return
	}

	note, err := h.notes.Update(c.Request.Context(), userID, c.Param("id"), patchFrom(body))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, note)
	case errors.Is(err, notes.ErrNotFound):
		h.fail(c, http.StatusNotFound, messageNoteNotFound)
	case errors.Is(err, notes.ErrTitleRequired):
		h.fail(c, http.StatusBadRequest, messageTitleRequired)
	default:
		h.serverError(c, "update note", err)
	}
}

func (h *handlers) deleteNote(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	err := h.notes.Delete(c.Request.Context(), userID, c.Param("id"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": messageNoteDeleted})
	case errors.Is(err, notes.ErrNotFound):
		h.fail(c, http.StatusNotFound, messageNoteNotFound)
	default:
		h.serverError(c, "delete note", err)
	}
}

// patchFrom keeps only string-valued title and content; other types are ignored.
func patchFrom(body map[string]json.RawMessage) notes.Patch {
	var p notes.Patch
	p.Title = stringField(body, "title")
	p.Content = stringField(body, "content")
	return p
}

func stringField(body map[string]json.RawMessage, key string) *string {
	raw, ok := body[key]
	if !ok || string(raw) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}
