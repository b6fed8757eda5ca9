package spectral

import (
	"image"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ToUint8 converts a [0,1] index into an 8-bit gray image.
//
// Each sample becomes floor(x*255), truncated rather than rounded, and is
// clamped to [0,255] so that values drifting slightly outside [0,1] (or NaN,
// which maps to 0) cannot wrap. Pixel (x, y) of the image is index row y,
// column x.
func ToUint8(index mat.Matrix) *image.Gray {
	rows, cols := index.Dims()
	img := image.NewGray(image.Rect(0, 0, cols, rows))
	for y := 0; y < rows; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+cols]
		for x := range row {
			row[x] = Quantize(index.At(y, x))
		}
	}
	return img
}

// Quantize converts one [0,1] sample the way ToUint8 does.
func Quantize(v float64) uint8 {
	q := math.Floor(v * 255)
	if !(q > 0) {
		return 0
	}
	if q > 255 {
		return 255
	}
	return uint8(q)
}
