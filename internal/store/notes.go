package store

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/goNotes/notes"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notes implements [notes.Store].
type Notes struct {
	db *gorm.DB
}

var _ notes.Store = (*Notes)(nil)

func (n *Notes) ListNotes(ctx context.Context, userID string) ([]notes.Note, error) {
	var rows []noteRow
	err := n.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]notes.Note, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.note())
	}
	return out, nil
}

func (n *Notes) CreateNote(ctx context.Context, in notes.Note) (notes.Note, error) {
	row := noteRow{
		ID:        uuid.NewString(),
		UserID:    in.UserID,
		Title:     in.Title,
		Content:   in.Content,
		CreatedAt: in.CreatedAt,
		UpdatedAt: in.UpdatedAt,
	}
	if err := n.db.WithContext(ctx).Create(&row).Error; err != nil {
		return notes.Note{}, err
	}
	return row.note(), nil
}

func (n *Notes) GetNote(ctx context.Context, userID, id string) (notes.Note, error) {
	var row noteRow
	err := n.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notes.Note{}, notes.ErrNotFound
		}
		return notes.Note{}, err
	}
	return row.note(), nil
}

func (n *Notes) UpdateNote(ctx context.Context, userID, id string, patch notes.Patch, at time.Time) (notes.Note, error) {
	updates := map[string]any{"updated_at": at}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Content != nil {
		updates["content"] = *patch.Content
	}

	var out notes.Note
	err := n.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&noteRow{}).Where("id = ? AND user_id = ?", id, userID).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notes.ErrNotFound
		}

		var row noteRow
		if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
			return err
		}
		out = row.note()
		return nil
	})
	if err != nil {
		return notes.Note{}, err
	}
	return out, nil
}

func (n *Notes) DeleteNote(ctx context.Context, userID, id string) error {
	res := n.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&noteRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notes.ErrNotFound
	}
	return nil
}

func (r noteRow) note() notes.Note {
	return notes.Note{
		ID:        r.ID,
		UserID:    r.UserID,
		Title:     r.Title,
		Content:   r.Content,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}
