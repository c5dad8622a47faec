package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gooberdetector/facedetect/internal/models"
)

// GormStore keeps saved_photos in SQLite or MySQL through gorm
type GormStore struct {
	db *gorm.DB
}

// NewSQLiteStore opens (creating if needed) the SQLite database file at path.
func NewSQLiteStore(path string) (*GormStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open(sqlite.DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %s: %w", path, err)
	}
	// A single writer avoids "database is locked" under concurrent saves
	sqlDB.SetMaxOpenConns(1)

	db, err := gorm.Open(sqlite.Dialector{DriverName: sqlite.DriverName, DSN: path, Conn: sqlDB}, gormConfig())
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("open sqlite database %s: %w", path, err)
	}

	log.Printf("Connected to SQLite at %s", path)
	return &GormStore{db: db}, nil
}

// NewMySQLStore connects with a go-sql-driver DSN (user:pass@tcp(host:3306)/name).
func NewMySQLStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(mysql.Open(withParseTime(dsn)), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open mysql database: %w", err)
	}

	log.Println("Connected to MySQL")
	return &GormStore{db: db}, nil
}

// withParseTime makes the MySQL driver scan DATETIME columns into time.Time.
func withParseTime(dsn string) string {
	if strings.Contains(dsn, "parseTime=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&parseTime=true"
	}
	return dsn + "?parseTime=true"
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func (s *GormStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&models.SavedPhoto{})
}

func (s *GormStore) Insert(ctx context.Context, photo *models.SavedPhoto) error {
	if photo.SavedAt.IsZero() {
		photo.SavedAt = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Create(photo).Error
}

func (s *GormStore) List(ctx context.Context) ([]models.SavedPhoto, error) {
	photos := make([]models.SavedPhoto, 0)
	if err := s.db.WithContext(ctx).Order("saved_at desc").Order("id desc").Find(&photos).Error; err != nil {
		return nil, err
	}
	for i := range photos {
		photos[i].SavedAt = photos[i].SavedAt.UTC()
	}
	return photos, nil
}

func (s *GormStore) Get(ctx context.Context, id int64) (*models.SavedPhoto, error) {
	var p models.SavedPhoto
	err := s.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.SavedAt = p.SavedAt.UTC()
	return &p, nil
}

func (s *GormStore) Delete(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&models.SavedPhoto{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
