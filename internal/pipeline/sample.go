package pipeline

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/spectral-tools-mcp/internal/raster"
	"github.com/ironsheep/spectral-tools-mcp/internal/spectral"
)

// Sample is every pipeline value at one pixel.
type Sample struct {
	X int `json:"x"`
	Y int `json:"y"`

	// Raw band samples.
	Green float64 `json:"green"`
	Red   float64 `json:"red"`
	NIR   float64 `json:"nir"`

	// Normalized differences in [-1,1] before rescaling.
	NDVI float64 `json:"ndvi"`
	NDWI float64 `json:"ndwi"`

	// Indices rescaled to [0,1], as rendered.
	VegetationIndex float64 `json:"vegetation_index"`
	WaterIndex      float64 `json:"water_index"`

	// QuantizedVegetation is the 8-bit value the edge detector sees.
	QuantizedVegetation uint8 `json:"quantized_vegetation"`
}

// SampleAt reads the bands named by bands at pixel (x, y) and evaluates both
// indices there. Coordinates are 0-based with the origin at the top-left.
//
// Band errors are reported as for RunWithBands.
func SampleAt(src raster.Source, bands spectral.BandConfig, x, y int) (*Sample, error) {
	if x < 0 || y < 0 || x >= src.Width() || y >= src.Height() {
		return nil, fmt.Errorf("coordinates (%d,%d) outside raster bounds %dx%d", x, y, src.Width(), src.Height())
	}

	red, err := selectBand(src, bands.Red)
	if err != nil {
		return nil, err
	}
	green, err := selectBand(src, bands.Green)
	if err != nil {
		return nil, err
	}
	nir, err := selectBand(src, bands.NIR)
	if err != nil {
		return nil, err
	}

	rows, cols := red.Dims()
	for _, band := range []*mat.Dense{green, nir} {
		if r, c := band.Dims(); r != rows || c != cols {
			return nil, &spectral.ShapeMismatchError{RowsA: rows, ColsA: cols, RowsB: r, ColsB: c}
		}
	}
	if y >= rows || x >= cols {
		return nil, fmt.Errorf("coordinates (%d,%d) outside band bounds %dx%d", x, y, cols, rows)
	}

	s := &Sample{
		X:     x,
		Y:     y,
		Green: green.At(y, x),
		Red:   red.At(y, x),
		NIR:   nir.At(y, x),
	}
	s.NDVI = spectral.Difference(s.NIR, s.Red)
	s.NDWI = spectral.Difference(s.Green, s.NIR)
	s.VegetationIndex = spectral.Rescale(s.NDVI)
	s.WaterIndex = spectral.Rescale(s.NDWI)
	s.QuantizedVegetation = spectral.Quantize(s.VegetationIndex)
	return s, nil
}
