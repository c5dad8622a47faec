// Package codec converts between data-URL payloads, decoded frames and JPEG files on disk.
package codec

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"os"
	"strings"

	// Registered container formats accepted by DecodeDataURL.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/gooberdetector/facedetect/internal/models"
)

const (
	// BoxThickness is the stroke width of face annotations in pixels
	BoxThickness = 2
	// JPEGQuality is used for every saved photo
	JPEGQuality = 95
)

// BoxColor is the annotation stroke color.
var BoxColor = color.RGBA{R: 0, G: 255, B: 0, A: 255}

// ErrUndecodable is returned when a payload does not hold a readable image.
var ErrUndecodable = errors.New("undecodable image")

// DecodeDataURL splits "<prefix>,<base64>" on the first comma and decodes the
// payload as a color image.
func DecodeDataURL(dataURL string) (image.Image, error) {
	_, payload, ok := strings.Cut(dataURL, ",")
	if !ok {
		return nil, fmt.Errorf("%w: missing data URL separator", ErrUndecodable)
	}

	raw, err := decodeBase64(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	return img, nil
}

func decodeBase64(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if raw, err := base64.StdEncoding.DecodeString(payload); err == nil {
		return raw, nil
	}
	// Browsers occasionally strip padding
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
}

// Annotate returns a copy of img with a green outline drawn around every face.
// The source image is left untouched.
func Annotate(img image.Image, faces []models.Face) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)

	for _, f := range faces {
		drawBox(out, image.Rect(f.X, f.Y, f.X+f.Width, f.Y+f.Height))
	}
	return out
}

// drawBox strokes r with BoxThickness, centered on the rectangle edge like
// OpenCV's rectangle primitive.
func drawBox(dst *image.RGBA, r image.Rectangle) {
	src := image.NewUniform(BoxColor)
	half := BoxThickness / 2
	edges := []image.Rectangle{
		image.Rect(r.Min.X-half, r.Min.Y-half, r.Max.X+BoxThickness-half, r.Min.Y+BoxThickness-half), // top
		image.Rect(r.Min.X-half, r.Max.Y-half, r.Max.X+BoxThickness-half, r.Max.Y+BoxThickness-half), // bottom
		image.Rect(r.Min.X-half, r.Min.Y-half, r.Min.X+BoxThickness-half, r.Max.Y+BoxThickness-half), // left
		image.Rect(r.Max.X-half, r.Min.Y-half, r.Max.X+BoxThickness-half, r.Max.Y+BoxThickness-half), // right
	}
	for _, e := range edges {
		e = e.Intersect(dst.Bounds())
		if e.Empty() {
			continue
		}
		draw.Draw(dst, e, src, image.Point{}, draw.Src)
	}
}

// WriteJPEG encodes img to a new file at path. An existing file is never
// touched; the error then matches os.ErrExist.
func WriteJPEG(path string, img image.Image) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
