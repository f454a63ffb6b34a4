package store

import (
	"context"
	"errors"

	goNotes "github.com/MrEthical07/goNotes"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Users implements [goNotes.UserStore].
type Users struct {
	db *gorm.DB
}

var _ goNotes.UserStore = (*Users)(nil)

func (u *Users) CreateUser(ctx context.Context, in goNotes.NewUser) (goNotes.UserRecord, error) {
	row := userRow{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
	}
	if err := u.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return goNotes.UserRecord{}, goNotes.ErrAccountExists
		}
		return goNotes.UserRecord{}, err
	}
	return row.record(), nil
}

func (u *Users) GetUserByEmail(ctx context.Context, email string) (goNotes.UserRecord, error) {
	return u.first(ctx, "email = ?", email)
}

func (u *Users) GetUserByID(ctx context.Context, userID string) (goNotes.UserRecord, error) {
	return u.first(ctx, "id = ?", userID)
}

func (u *Users) first(ctx context.Context, query string, arg string) (goNotes.UserRecord, error) {
	var row userRow
	if err := u.db.WithContext(ctx).Where(query, arg).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return goNotes.UserRecord{}, goNotes.ErrUserNotFound
		}
		return goNotes.UserRecord{}, err
	}
	return row.record(), nil
}

func (r userRow) record() goNotes.UserRecord {
	return goNotes.UserRecord{
		UserID:       r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt.UTC(),
	}
}
