package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"math"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
)

// EncodedImage is a PNG ready to return from a tool call.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Scale resizes img by factor with nearest-neighbour sampling, so mask and
// index pixels stay crisp. A factor of 1, or one that is not positive, returns
// img unchanged. Each dimension is at least one pixel.
func Scale(img image.Image, factor float64) image.Image {
	if factor <= 0 || factor == 1 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return img
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return img
	}
	width := max(1, int(math.Round(float64(bounds.Dx())*factor)))
	height := max(1, int(math.Round(float64(bounds.Dy())*factor)))
	return transform.Resize(img, width, height, transform.NearestNeighbor)
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeBase64 encodes img as a base64 PNG.
func EncodeBase64(img image.Image) (*EncodedImage, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return nil, err
	}
	return &EncodedImage{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    "image/png",
	}, nil
}

// SavePNG writes img to path. The path must carry a .png extension.
func SavePNG(img image.Image, path string) error {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".png" {
		return fmt.Errorf("cannot save %s: extension %q is not .png", path, ext)
	}
	if err := imaging.Save(img, path, imaging.PNGCompressionLevel(png.DefaultCompression)); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
