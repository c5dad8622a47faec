package services

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gooberdetector/facedetect/internal/codec"
	"github.com/gooberdetector/facedetect/internal/db"
	"github.com/gooberdetector/facedetect/internal/detector"
	"github.com/gooberdetector/facedetect/internal/metrics"
	"github.com/gooberdetector/facedetect/internal/models"
)

// PhotoService composes decoding, detection, the storage directory and the
// metadata store.
type PhotoService struct {
	detector  detector.Detector
	store     db.PhotoStore
	uploadDir string
	now       func() time.Time

	// last filename timestamp handed out; keeps names strictly increasing
	mu       sync.Mutex
	lastSave time.Time
}

func NewPhotoService(d detector.Detector, store db.PhotoStore, uploadDir string) *PhotoService {
	return &PhotoService{
		detector:  d,
		store:     store,
		uploadDir: uploadDir,
		now:       time.Now,
	}
}

// DetectFaces decodes the data URL and runs the classifier once. Undecodable
// payloads yield an empty face list rather than an error.
func (s *PhotoService) DetectFaces(ctx context.Context, req models.ImageRequest) ([]models.Face, error) {
	if req.Image == nil {
		return nil, ErrNoImage
	}

	img, err := codec.DecodeDataURL(*req.Image)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues(metrics.ClientErrorType).Inc()
		log.Printf("Error detecting faces: %v", err)
		return []models.Face{}, nil
	}

	return s.detect(img)
}

func (s *PhotoService) detect(img image.Image) ([]models.Face, error) {
	started := time.Now()
	faces, err := s.detector.Detect(img)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues(metrics.ServerErrorType).Inc()
		return nil, fmt.Errorf("%w: %v", ErrDetection, err)
	}
	if faces == nil {
		faces = []models.Face{}
	}
	metrics.ObserveDetection(started, len(faces))
	return faces, nil
}

// SavePhoto decodes the image, detects faces once, draws the boxes on the
// color frame, writes the JPEG and records the row. The file is written
// before the row is inserted; if the insert fails the file is removed again.
func (s *PhotoService) SavePhoto(ctx context.Context, req models.ImageRequest) (*models.SavedPhoto, error) {
	if req.Image == nil {
		return nil, ErrNoImage
	}

	img, err := codec.DecodeDataURL(*req.Image)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues(metrics.ClientErrorType).Inc()
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	faces, err := s.detect(img)
	if err != nil {
		return nil, err
	}

	annotated := codec.Annotate(img, faces)

	savedAt := s.nextTimestamp()
	filename := PhotoFilename(savedAt)
	path := filepath.Join(s.uploadDir, filename)

	if err := codec.WriteJPEG(path, annotated); err != nil {
		return nil, storageErr("write photo", err)
	}

	photo := &models.SavedPhoto{
		Filename:         filename,
		OriginalFilename: filename,
		SavedAt:          savedAt,
		FaceCount:        len(faces),
	}
	if err := s.store.Insert(ctx, photo); err != nil {
		// Try to cleanup file if DB insert fails
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			log.Printf("Error [save_photo]: orphaned file %s: %v", path, rmErr)
		}
		return nil, storageErr("insert photo", err)
	}

	metrics.PhotosSavedTotal.Inc()
	return photo, nil
}

// ListPhotos returns every saved photo, newest first.
func (s *PhotoService) ListPhotos(ctx context.Context) ([]models.PhotoResponse, error) {
	photos, err := s.store.List(ctx)
	if err != nil {
		return nil, storageErr("list photos", err)
	}

	resp := make([]models.PhotoResponse, 0, len(photos))
	for _, p := range photos {
		resp = append(resp, p.Response())
	}
	return resp, nil
}

// PhotoPath resolves filename inside the storage directory. Anything that is
// not a plain file name, or does not exist, is reported as ErrNotFound.
func (s *PhotoService) PhotoPath(filename string) (string, error) {
	if filename == "" || filename == "." || filename == ".." ||
		filename != filepath.Base(filename) || strings.ContainsAny(filename, `/\`) {
		return "", ErrNotFound
	}

	path := filepath.Join(s.uploadDir, filename)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", ErrNotFound
	}
	return path, nil
}

// DeletePhoto removes the backing file, then the row. The two steps are
// independent: a failure after the file is gone leaves the row in place.
func (s *PhotoService) DeletePhoto(ctx context.Context, id int64) error {
	photo, err := s.store.Get(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return fmt.Errorf("photo %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return storageErr("load photo", err)
	}

	path := filepath.Join(s.uploadDir, photo.Filename)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return storageErr("delete photo file", err)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("photo %d: %w", id, ErrNotFound)
		}
		return storageErr("delete photo", err)
	}
	metrics.PhotosDeletedTotal.Inc()
	return nil
}

// InitDB creates the saved_photos table if needed.
func (s *PhotoService) InitDB(ctx context.Context) error {
	if err := s.store.Migrate(ctx); err != nil {
		return storageErr("initialize database", err)
	}
	return nil
}

// nextTimestamp returns the current UTC time at microsecond precision,
// bumped forward when it would repeat or precede the previous save.
func (s *PhotoService) nextTimestamp() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.now().UTC().Truncate(time.Microsecond)
	if !t.After(s.lastSave) {
		t = s.lastSave.Add(time.Microsecond)
	}
	s.lastSave = t
	return t
}

// PhotoFilename renders photo_<YYYYMMDD_HHMMSS_ffffff>.jpg for t in UTC.
func PhotoFilename(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("photo_%s_%06d.jpg", t.Format("20060102_150405"), t.Nanosecond()/1000)
}
