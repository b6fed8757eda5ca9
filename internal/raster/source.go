package raster

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrBandOutOfRange is returned by ReadBand when the band index is < 1 or
// greater than the band count.
var ErrBandOutOfRange = errors.New("band index out of range")

// Source is a multi-band raster. All bands share Width and Height.
type Source interface {
	// BandCount is the number of bands in the raster.
	BandCount() int

	// Width is the number of columns.
	Width() int

	// Height is the number of rows.
	Height() int

	// ReadBand returns band index (1-based) as a Height x Width matrix.
	// The returned matrix is owned by the caller.
	ReadBand(index int) (*mat.Dense, error)
}

// Memory is a Source backed by in-memory matrices.
type Memory struct {
	width  int
	height int
	bands  []*mat.Dense
}

// NewMemory creates a raster from the given bands, in band order.
//
// The bands are copied, so later changes to the arguments do not affect the
// raster. It fails if no bands are given, a band is empty, or the bands do not
// all share the same dimensions.
func NewMemory(bands ...*mat.Dense) (*Memory, error) {
	if len(bands) == 0 {
		return nil, errors.New("raster has no bands")
	}

	rows, cols := bands[0].Dims()
	if rows == 0 || cols == 0 {
		return nil, errors.New("raster band 1 is empty")
	}

	m := &Memory{
		width:  cols,
		height: rows,
		bands:  make([]*mat.Dense, len(bands)),
	}
	for i, b := range bands {
		r, c := b.Dims()
		if r != rows || c != cols {
			return nil, fmt.Errorf("band %d is %dx%d, expected %dx%d", i+1, c, r, cols, rows)
		}
		m.bands[i] = mat.DenseCopyOf(b)
	}
	return m, nil
}

// BandCount implements Source.
func (m *Memory) BandCount() int { return len(m.bands) }

// Width implements Source.
func (m *Memory) Width() int { return m.width }

// Height implements Source.
func (m *Memory) Height() int { return m.height }

// ReadBand implements Source. Each call returns a new copy of the band.
func (m *Memory) ReadBand(index int) (*mat.Dense, error) {
	if err := checkBand(index, len(m.bands)); err != nil {
		return nil, err
	}
	return mat.DenseCopyOf(m.bands[index-1]), nil
}

func checkBand(index, count int) error {
	if index < 1 || index > count {
		return fmt.Errorf("band %d of %d: %w", index, count, ErrBandOutOfRange)
	}
	return nil
}
