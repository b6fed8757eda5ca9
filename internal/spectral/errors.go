package spectral

import "fmt"

// BandNotFoundError reports a band index outside the raster's bands.
type BandNotFoundError struct {
	Index int // requested 1-based band
	Count int // bands available
}

func (e *BandNotFoundError) Error() string {
	return fmt.Sprintf("band %d not found: raster has %d bands", e.Index, e.Count)
}

// ShapeMismatchError reports index inputs with different dimensions.
type ShapeMismatchError struct {
	RowsA, ColsA int
	RowsB, ColsB int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch: %dx%d vs %dx%d", e.ColsA, e.RowsA, e.ColsB, e.RowsB)
}
