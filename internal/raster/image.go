package raster

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	"gonum.org/v1/gonum/mat"
)

// Open opens a raster file, choosing the reader from the file extension.
func Open(path string) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".fits", ".fit", ".fts":
		return OpenFITS(path)
	case ".tif", ".tiff":
		return openTIFF(path)
	default:
		return OpenImage(path)
	}
}

// OpenImage decodes an image file and exposes its channels as bands.
//
// Band layout depends on the decoded color model:
//   - Gray, Gray16: 1 band (luminance)
//   - NRGBA, NRGBA64: 4 bands (R, G, B, A)
//   - RGBA, RGBA64: 4 bands when any pixel is translucent, else 3
//   - everything else (YCbCr, paletted, CMYK): 3 bands (R, G, B)
//
// The PNG and TIFF decoders return RGBA models for files without an alpha
// sample, so an opaque RGBA image never exposes a constant fourth band.
//
// Samples keep the native bit depth: 16-bit models yield values in [0, 65535],
// all others [0, 255]. Color samples are not alpha-premultiplied, so a fourth
// channel carrying e.g. near-infrared does not darken the visible bands.
func OpenImage(path string) (*Memory, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return FromImage(img)
}

// FromImage converts an already decoded image into a raster.
// See OpenImage for the band layout.
func FromImage(img image.Image) (*Memory, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("image is empty (%dx%d)", width, height)
	}

	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return NewMemory(grayPlane(img))
	}

	channels := 3
	if hasAlphaSample(img) {
		channels = 4
	}
	shift := uint(8)
	switch img.(type) {
	case *image.RGBA64, *image.NRGBA64:
		shift = 0
	}

	planes := make([][]float64, channels)
	for i := range planes {
		planes[i] = make([]float64, width*height)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := nrgba64At(img, x+bounds.Min.X, y+bounds.Min.Y)
			i := y*width + x
			planes[0][i] = float64(c.R >> shift)
			planes[1][i] = float64(c.G >> shift)
			planes[2][i] = float64(c.B >> shift)
			if channels == 4 {
				planes[3][i] = float64(c.A >> shift)
			}
		}
	}

	bands := make([]*mat.Dense, channels)
	for i, p := range planes {
		bands[i] = mat.NewDense(height, width, p)
	}
	return NewMemory(bands...)
}

// hasAlphaSample reports whether img carries a fourth sample per pixel.
func hasAlphaSample(img image.Image) bool {
	switch m := img.(type) {
	case *image.NRGBA, *image.NRGBA64:
		return true
	case *image.RGBA:
		return !m.Opaque()
	case *image.RGBA64:
		return !m.Opaque()
	}
	return false
}

// nrgba64At reads a non-premultiplied sample. NRGBA images are read directly
// so that samples under partial alpha survive without rounding.
func nrgba64At(img image.Image, x, y int) color.NRGBA64 {
	switch m := img.(type) {
	case *image.NRGBA:
		c := m.NRGBAAt(x, y)
		return color.NRGBA64{
			R: uint16(c.R) * 0x101,
			G: uint16(c.G) * 0x101,
			B: uint16(c.B) * 0x101,
			A: uint16(c.A) * 0x101,
		}
	case *image.NRGBA64:
		return m.NRGBA64At(x, y)
	}
	return color.NRGBA64Model.Convert(img.At(x, y)).(color.NRGBA64)
}

// OpenStack builds a raster from single-band image files, one band per path.
//
// Color images contribute their luminance. All files must share the same
// dimensions.
func OpenStack(paths ...string) (*Memory, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("band stack needs at least one file")
	}

	bands := make([]*mat.Dense, len(paths))
	for i, p := range paths {
		img, err := imaging.Open(p)
		if err != nil {
			return nil, fmt.Errorf("band %d (%s): failed to decode image: %w", i+1, p, err)
		}
		if img.Bounds().Empty() {
			return nil, fmt.Errorf("band %d (%s): image is empty", i+1, p)
		}
		bands[i] = grayPlane(img)
	}
	return NewMemory(bands...)
}

// grayPlane extracts luminance at the image's native depth: [0,65535] for
// 16-bit color models, [0,255] otherwise.
func grayPlane(img image.Image) *mat.Dense {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	data := make([]float64, width*height)

	if g, ok := img.(*image.Gray); ok {
		for y := 0; y < height; y++ {
			off := g.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			row := g.Pix[off : off+width]
			for x, v := range row {
				data[y*width+x] = float64(v)
			}
		}
		return mat.NewDense(height, width, data)
	}

	shift := uint(8)
	switch img.(type) {
	case *image.Gray16, *image.RGBA64, *image.NRGBA64:
		shift = 0
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.Gray16Model.Convert(img.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.Gray16)
			data[y*width+x] = float64(c.Y >> shift)
		}
	}
	return mat.NewDense(height, width, data)
}
