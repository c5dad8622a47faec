package codec

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gooberdetector/facedetect/internal/models"
)

func grayImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 128, G: 128, B: 128, A: 255})
		}
	}
	return img
}

func pngDataURL(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestDecodeDataURL(t *testing.T) {
	img, err := DecodeDataURL(pngDataURL(t, grayImage(100, 100)))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestDecodeDataURL_JPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, grayImage(40, 30), nil))
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	img, err := DecodeDataURL(dataURL)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 40, 30), img.Bounds())
}

func TestDecodeDataURL_UnpaddedPayload(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, grayImage(8, 8)))
	dataURL := "data:image/png;base64," + base64.RawStdEncoding.EncodeToString(buf.Bytes())

	_, err := DecodeDataURL(dataURL)
	require.NoError(t, err)
}

func TestDecodeDataURL_Undecodable(t *testing.T) {
	cases := map[string]string{
		"no separator":   "data:image/png;base64",
		"bad base64":     "data:image/png;base64,@@@not-base64@@@",
		"not an image":   "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("hello world")),
		"empty payload":  "data:image/png;base64,",
		"empty data url": "",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			img, err := DecodeDataURL(in)
			assert.Nil(t, img)
			assert.ErrorIs(t, err, ErrUndecodable)
		})
	}
}

func TestAnnotate(t *testing.T) {
	src := grayImage(100, 100)
	out := Annotate(src, []models.Face{{X: 10, Y: 10, Width: 20, Height: 20}})

	assert.Equal(t, BoxColor, out.RGBAAt(10, 10), "top-left corner")
	assert.Equal(t, BoxColor, out.RGBAAt(20, 10), "top edge")
	assert.Equal(t, BoxColor, out.RGBAAt(30, 20), "right edge")
	assert.Equal(t, BoxColor, out.RGBAAt(20, 30), "bottom edge")
	assert.Equal(t, color.RGBA{R: 128, G: 128, B: 128, A: 255}, out.RGBAAt(20, 20), "interior untouched")
	assert.Equal(t, color.RGBA{R: 128, G: 128, B: 128, A: 255}, out.RGBAAt(50, 50), "outside untouched")

	// Source frame is not modified
	assert.Equal(t, color.RGBA{R: 128, G: 128, B: 128, A: 255}, src.RGBAAt(10, 10))
}

func TestAnnotate_ClipsToFrame(t *testing.T) {
	out := Annotate(grayImage(20, 20), []models.Face{{X: 0, Y: 0, Width: 50, Height: 50}})
	assert.Equal(t, image.Rect(0, 0, 20, 20), out.Bounds())
	assert.Equal(t, BoxColor, out.RGBAAt(0, 0))
}

func TestAnnotate_NoFaces(t *testing.T) {
	src := grayImage(10, 10)
	out := Annotate(src, nil)
	assert.Equal(t, src.Pix, out.Pix)
}

func TestWriteJPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo_test.jpg")
	require.NoError(t, WriteJPEG(path, grayImage(64, 48)))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 48, cfg.Height)
}

func TestWriteJPEG_KeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo_test.jpg")
	require.NoError(t, os.WriteFile(path, []byte("earlier photo"), 0644))

	err := WriteJPEG(path, grayImage(4, 4))
	require.ErrorIs(t, err, os.ErrExist)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "earlier photo", string(data))
}

func TestWriteJPEG_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "photo.jpg")
	assert.Error(t, WriteJPEG(path, grayImage(4, 4)))
}
