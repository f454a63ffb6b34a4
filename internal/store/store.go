// Package store persists users and notes in SQLite through gorm.
//
// # What this package must NOT do
//
//   - Hash or verify passwords; it stores the credential string it is given.
//   - Return a note to anyone but its owner.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type userRow struct {
	ID           string `gorm:"primaryKey;size:36"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userRow) TableName() string { return "users" }

type noteRow struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserID    string `gorm:"index;not null"`
	Title     string `gorm:"not null"`
	Content   string
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (noteRow) TableName() string { return "notes" }

// DB owns the gorm handle shared by [Users] and [Notes].
type DB struct {
	gorm *gorm.DB
}

// Open connects to the SQLite database at dsn and migrates the schema. dsn is a file path
// or a "file:" URI such as "file:notes?mode=memory&cache=shared".
func Open(dsn string) (*DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", dsn, err)
	}
	return New(db)
}

// New wraps an existing gorm handle and migrates the schema.
func New(db *gorm.DB) (*DB, error) {
	if db == nil {
		return nil, errors.New("store requires database handle")
	}
	if err := db.AutoMigrate(&userRow{}, &noteRow{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &DB{gorm: db}, nil
}

func (d *DB) Users() *Users { return &Users{db: d.gorm} }

func (d *DB) Notes() *Notes { return &Notes{db: d.gorm} }

// Ping checks the underlying connection.
func (d *DB) Ping(ctx context.Context) error {
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *DB) Close() error {
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
