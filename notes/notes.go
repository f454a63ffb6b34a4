// Package notes owns the per-user note model and the rules every store call goes
// through: a title is required on create, updates are partial, and a note belongs to
// exactly one user.
package notes

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotFound reports a missing note or one owned by another user.
	ErrNotFound = errors.New("note not found")
	// ErrTitleRequired reports a create without a title.
	ErrTitleRequired = errors.New("title is required")
)

// Note is a single user-owned note. JSON names match what the web client reads.
type Note struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"user"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Title   *string
	Content *string
}

func (p Patch) empty() bool {
	return p.Title == nil && p.Content == nil
}

// Store persists notes. Every method is scoped to userID; a note owned by someone else
// must look exactly like a missing one and yield [ErrNotFound].
type Store interface {
	ListNotes(ctx context.Context, userID string) ([]Note, error)
	CreateNote(ctx context.Context, note Note) (Note, error)
	GetNote(ctx context.Context, userID, id string) (Note, error)
	UpdateNote(ctx context.Context, userID, id string, patch Patch, at time.Time) (Note, error)
	DeleteNote(ctx context.Context, userID, id string) error
}

// Service applies note rules on top of a Store.
type Service struct {
	store Store
	now   func() time.Time
}

// Option configures a [Service].
type Option func(*Service)

// WithClock replaces the clock used for createdAt and updatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the user's notes, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Note, error) {
	return s.store.ListNotes(ctx, userID)
}

// Create stores a note. The title must not be blank; content may be empty.
func (s *Service) Create(ctx context.Context, userID, title, content string) (Note, error) {
	if strings.TrimSpace(title) == "" {
		return Note{}, ErrTitleRequired
	}

	now := s.now().UTC()
	return s.store.CreateNote(ctx, Note{
		UserID:    userID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// Update applies patch to the user's note and returns the result. An empty patch returns
// the note unchanged, and so does not bump updatedAt.
func (s *Service) Update(ctx context.Context, userID, id string, patch Patch) (Note, error) {
	if patch.empty() {
		return s.store.GetNote(ctx, userID, id)
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return Note{}, ErrTitleRequired
	}
	return s.store.UpdateNote(ctx, userID, id, patch, s.now().UTC())
}

// Delete removes the user's note.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.store.DeleteNote(ctx, userID, id)
}
