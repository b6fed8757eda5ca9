package spectral

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/spectral-tools-mcp/internal/raster"
)

// BandConfig maps spectral roles to 1-based raster band numbers.
type BandConfig struct {
	Green int `json:"green"`
	Red   int `json:"red"`
	NIR   int `json:"nir"`
}

// DefaultBands is the 4-band convention: 2=Green, 3=Red, 4=NIR.
var DefaultBands = BandConfig{Green: 2, Red: 3, NIR: 4}

// MinBands is the number of bands a raster needs to satisfy the config.
func (c BandConfig) MinBands() int {
	return max(c.Green, c.Red, c.NIR)
}

// Select reads a band from src as float64 samples.
//
// Parameters:
//   - src: The raster to read. It is not modified.
//   - index: 1-based band number.
//
// Returns:
//   - *mat.Dense: Height x Width samples owned by the caller.
//   - error: *BandNotFoundError when index is outside [1, src.BandCount()],
//     or the wrapped read error from the source.
func Select(src raster.Source, index int) (*mat.Dense, error) {
	count := src.BandCount()
	if index < 1 || index > count {
		return nil, &BandNotFoundError{Index: index, Count: count}
	}

	band, err := src.ReadBand(index)
	if err != nil {
		if errors.Is(err, raster.ErrBandOutOfRange) {
			return nil, &BandNotFoundError{Index: index, Count: count}
		}
		return nil, fmt.Errorf("failed to read band %d: %w", index, err)
	}
	return band, nil
}
