// Package detector defines the face detection contract. The OpenCV backed
// implementation lives in the cascade subpackage so this package and its
// mocks build without cgo.
package detector

import (
	"image"

	"github.com/gooberdetector/facedetect/internal/models"
)

//go:generate mockgen -source=detector.go -destination=mocks/mock_detector.go

// Detector finds faces in a decoded color frame
type Detector interface {
	Detect(img image.Image) ([]models.Face, error)
}
