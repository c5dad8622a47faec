package db

import (
	"context"
	"errors"
	"strings"

	"github.com/gooberdetector/facedetect/internal/models"
)

// ErrNotFound is returned when no saved_photos row matches the requested id
var ErrNotFound = errors.New("photo not found")

// PhotoStore persists SavedPhoto metadata rows
type PhotoStore interface {
	// Migrate creates the saved_photos table if it does not exist
	Migrate(ctx context.Context) error
	// Insert appends a row, assigning ID and, when zero, SavedAt
	Insert(ctx context.Context, photo *models.SavedPhoto) error
	// List returns every row, most recently saved first
	List(ctx context.Context) ([]models.SavedPhoto, error)
	Get(ctx context.Context, id int64) (*models.SavedPhoto, error)
	Delete(ctx context.Context, id int64) error
	Close() error
}

// Open picks a backend from the DSN scheme: postgres:// and postgresql:// use
// a pgx pool, mysql:// uses gorm's MySQL driver, anything else is treated as
// a SQLite path (optionally prefixed with sqlite://).
func Open(ctx context.Context, dsn string) (PhotoStore, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return NewPostgresStore(ctx, dsn)
	case strings.HasPrefix(dsn, "mysql://"):
		return NewMySQLStore(strings.TrimPrefix(dsn, "mysql://"))
	default:
		return NewSQLiteStore(strings.TrimPrefix(dsn, "sqlite://"))
	}
}
