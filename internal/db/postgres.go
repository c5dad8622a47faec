package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gooberdetector/facedetect/internal/models"
)

// PostgresStore keeps saved_photos in PostgreSQL through a pgx pool
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore initializes the PostgreSQL connection pool
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	log.Println("Connected to PostgreSQL")
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS saved_photos (
			id BIGSERIAL PRIMARY KEY,
			filename VARCHAR(255) NOT NULL UNIQUE,
			original_filename VARCHAR(255) NOT NULL,
			saved_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			face_count INT NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS saved_photos_saved_at_idx ON saved_photos (saved_at)`,
	}
	for _, q := range queries {
		if _, err := s.pool.Exec(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, photo *models.SavedPhoto) error {
	if photo.SavedAt.IsZero() {
		photo.SavedAt = time.Now().UTC()
	}
	query := `INSERT INTO saved_photos (filename, original_filename, saved_at, face_count) VALUES ($1, $2, $3, $4) RETURNING id`
	return s.pool.QueryRow(ctx, query, photo.Filename, photo.OriginalFilename, photo.SavedAt, photo.FaceCount).Scan(&photo.ID)
}

func (s *PostgresStore) List(ctx context.Context) ([]models.SavedPhoto, error) {
	query := `SELECT id, filename, original_filename, saved_at, face_count FROM saved_photos ORDER BY saved_at DESC, id DESC`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	photos := make([]models.SavedPhoto, 0)
	for rows.Next() {
		var p models.SavedPhoto
		if err := rows.Scan(&p.ID, &p.Filename, &p.OriginalFilename, &p.SavedAt, &p.FaceCount); err != nil {
			return nil, err
		}
		p.SavedAt = p.SavedAt.UTC()
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (*models.SavedPhoto, error) {
	var p models.SavedPhoto
	query := `SELECT id, filename, original_filename, saved_at, face_count FROM saved_photos WHERE id = $1`
	err := s.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Filename, &p.OriginalFilename, &p.SavedAt, &p.FaceCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.SavedAt = p.SavedAt.UTC()
	return &p, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM saved_photos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
