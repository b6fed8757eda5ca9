package pipeline

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/spectral-tools-mcp/internal/edge"
	"github.com/ironsheep/spectral-tools-mcp/internal/raster"
	"github.com/ironsheep/spectral-tools-mcp/internal/spectral"
)

// ErrInsufficientBands is wrapped by Run when the raster lacks a band the
// band configuration needs. The error also unwraps to the underlying
// *spectral.BandNotFoundError.
var ErrInsufficientBands = errors.New("insufficient bands")

// Result holds the artifacts of one pipeline run.
type Result struct {
	// Vegetation is the NDVI rescaled to [0,1].
	Vegetation *mat.Dense

	// Water is the NDWI rescaled to [0,1].
	Water *mat.Dense

	// Edges is the edge mask computed on the quantized vegetation index.
	Edges *edge.Mask
}

// Run executes the pipeline with spectral.DefaultBands.
func Run(src raster.Source, low, high int) (*Result, error) {
	return RunWithBands(src, spectral.DefaultBands, low, high)
}

// RunWithBands reads the red, green and NIR bands named by bands, computes
// both indices, quantizes the vegetation index and detects edges on it.
//
// A missing band aborts the run with an error matching ErrInsufficientBands
// (and *spectral.BandNotFoundError via errors.As). Any other failure, such as
// bands of different shapes, is returned wrapped. No partial result is
// returned on error.
func RunWithBands(src raster.Source, bands spectral.BandConfig, low, high int) (*Result, error) {
	vegetation, water, err := Indices(src, bands)
	if err != nil {
		return nil, err
	}

	edges := edge.Detect(spectral.ToUint8(vegetation), low, high)

	return &Result{
		Vegetation: vegetation,
		Water:      water,
		Edges:      edges,
	}, nil
}

// Indices computes the rescaled vegetation and water indices without running
// edge detection. Errors are reported as for RunWithBands.
func Indices(src raster.Source, bands spectral.BandConfig) (vegetation, water *mat.Dense, err error) {
	red, err := selectBand(src, bands.Red)
	if err != nil {
		return nil, nil, err
	}
	green, err := selectBand(src, bands.Green)
	if err != nil {
		return nil, nil, err
	}
	nir, err := selectBand(src, bands.NIR)
	if err != nil {
		return nil, nil, err
	}

	vegetation, err = spectral.Vegetation(nir, red)
	if err != nil {
		return nil, nil, fmt.Errorf("vegetation index: %w", err)
	}
	water, err = spectral.Water(green, nir)
	if err != nil {
		return nil, nil, fmt.Errorf("water index: %w", err)
	}
	return vegetation, water, nil
}

func selectBand(src raster.Source, index int) (*mat.Dense, error) {
	band, err := spectral.Select(src, index)
	if err == nil {
		return band, nil
	}

	var bnf *spectral.BandNotFoundError
	if errors.As(err, &bnf) {
		return nil, &insufficientBandsError{cause: bnf}
	}
	return nil, err
}

// insufficientBandsError reads "insufficient bands: <cause>" and matches both
// ErrInsufficientBands and the wrapped *spectral.BandNotFoundError.
type insufficientBandsError struct {
	cause *spectral.BandNotFoundError
}

func (e *insufficientBandsError) Error() string {
	return fmt.Sprintf("%v: %v", ErrInsufficientBands, e.cause)
}

func (e *insufficientBandsError) Unwrap() []error {
	return []error{ErrInsufficientBands, e.cause}
}

// Job is one raster to process in a batch.
type Job struct {
	Name   string
	Source raster.Source
	Low    int
	High   int
}

// RunAll runs every job with spectral.DefaultBands, at most limit at a time
// (limit <= 0 means no limit). Results are returned in job order.
//
// The first failing job cancels jobs that have not started yet and its error,
// prefixed with the job name, is returned.
func RunAll(ctx context.Context, jobs []Job, limit int) ([]*Result, error) {
	results := make([]*Result, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := Run(job.Source, job.Low, job.High)
			if err != nil {
				return fmt.Errorf("%s: %w", job.Name, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
