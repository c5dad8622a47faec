package services

import (
	"errors"

	"github.com/gooberdetector/facedetect/internal/metrics"
)

var (
	// ErrNoImage means the request body carried no "image" field
	ErrNoImage = errors.New("no image data provided")
	// ErrDecode means the image payload could not be decoded
	ErrDecode = errors.New("failed to decode image")
	// ErrNotFound means the photo row or file does not exist
	ErrNotFound = errors.New("photo not found")
	// ErrDetection means the classifier failed on a decodable image
	ErrDetection = errors.New("face detection failed")
)

// StorageError reports a filesystem or database failure during an otherwise valid request
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	metrics.ErrorsTotal.WithLabelValues(metrics.StorageErrorType).Inc()
	return &StorageError{Op: op, Err: err}
}
