package spectral

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// Epsilon keeps the normalized difference finite where both bands are zero.
const Epsilon = 1e-5

// ErrEmptyBand is returned when an index input has no pixels.
var ErrEmptyBand = errors.New("band has no pixels")

// NormalizedDifference computes (a-b)/(a+b+Epsilon) for every pixel.
//
// For non-negative inputs the result lies in [-1, 1]. Where a and b are both
// zero the result is 0. Neither input is modified.
//
// Returns *ShapeMismatchError if a and b differ in dimensions.
func NormalizedDifference(a, b mat.Matrix) (*mat.Dense, error) {
	ra, ca := a.Dims()
	rb, cb := b.Dims()
	if ra != rb || ca != cb {
		return nil, &ShapeMismatchError{RowsA: ra, ColsA: ca, RowsB: rb, ColsB: cb}
	}
	if ra == 0 || ca == 0 {
		return nil, ErrEmptyBand
	}

	out := mat.NewDense(ra, ca, nil)
	for i := 0; i < ra; i++ {
		for j := 0; j < ca; j++ {
			out.Set(i, j, Difference(a.At(i, j), b.At(i, j)))
		}
	}
	return out, nil
}

// Difference is the normalized difference of a single pair of samples.
func Difference(a, b float64) float64 {
	return (a - b) / (a + b + Epsilon)
}

// Rescale maps one index value from [-1,1] onto [0,1] like RescaleToUnit.
func Rescale(v float64) float64 {
	return clipUnit((v + 1) / 2)
}

// RescaleToUnit maps a [-1,1] index onto [0,1] with (x+1)/2 and clips the
// result so that every value is inside [0,1]. NaN becomes 0.
func RescaleToUnit(index mat.Matrix) *mat.Dense {
	if r, c := index.Dims(); r == 0 || c == 0 {
		return &mat.Dense{}
	}

	var out mat.Dense
	out.Apply(func(_, _ int, v float64) float64 {
		return Rescale(v)
	}, index)
	return &out
}

// clipUnit clamps v to [0,1]. The negated comparison sends NaN to 0.
func clipUnit(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vegetation computes the display-normalized vegetation index (NDVI):
// NormalizedDifference(nir, red) rescaled to [0,1].
func Vegetation(nir, red mat.Matrix) (*mat.Dense, error) {
	ndvi, err := NormalizedDifference(nir, red)
	if err != nil {
		return nil, err
	}
	return RescaleToUnit(ndvi), nil
}

// Water computes the display-normalized water index (NDWI):
// NormalizedDifference(green, nir) rescaled to [0,1].
func Water(green, nir mat.Matrix) (*mat.Dense, error) {
	ndwi, err := NormalizedDifference(green, nir)
	if err != nil {
		return nil, err
	}
	return RescaleToUnit(ndwi), nil
}
