package cascade

import (
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"github.com/gooberdetector/facedetect/internal/detector"
	"github.com/gooberdetector/facedetect/internal/models"
)

// Cascade parameters. Fixed policy, not runtime tunable.
const (
	ScaleFactor  = 1.1
	MinNeighbors = 4
)

var _ detector.Detector = (*Detector)(nil)

// Detector runs a pretrained Haar frontal-face cascade.
type Detector struct {
	mu         sync.Mutex
	classifier gocv.CascadeClassifier
}

// New loads the cascade XML once. The returned detector is shared by all
// requests and must be closed at shutdown.
func New(path string) (*Detector, error) {
	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(path) {
		classifier.Close()
		return nil, fmt.Errorf("failed to load cascade classifier from %s", path)
	}
	return &Detector{classifier: classifier}, nil
}

// Detect converts img to grayscale and returns every face rectangle the
// classifier reports. A nil or empty frame yields an empty slice.
func (d *Detector) Detect(img image.Image) ([]models.Face, error) {
	faces := make([]models.Face, 0)
	if img == nil || img.Bounds().Empty() {
		return faces, nil
	}

	frame, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("convert frame: %w", err)
	}
	defer frame.Close()
	if frame.Empty() {
		return faces, nil
	}

	gray := gocv.NewMat()
	defer gray.Close()
	// ImageToMatRGB lays pixels out in OpenCV's BGR channel order
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)

	d.mu.Lock()
	rects := d.classifier.DetectMultiScaleWithParams(gray, ScaleFactor, MinNeighbors, 0, image.Point{}, image.Point{})
	d.mu.Unlock()

	for _, r := range rects {
		faces = append(faces, models.Face{
			X:      r.Min.X,
			Y:      r.Min.Y,
			Width:  r.Dx(),
			Height: r.Dy(),
		})
	}
	return faces, nil
}

// Close releases the native classifier.
func (d *Detector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.classifier.Close(); err != nil {
		return fmt.Errorf("close cascade classifier: %w", err)
	}
	return nil
}
