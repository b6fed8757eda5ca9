// Package spectral computes normalized-difference spectral indices from
// raster bands.
//
// The package covers the numeric core of the pipeline:
//
//   - Band selection: Select reads one 1-based band from a raster.Source.
//   - Index engine: NormalizedDifference computes (a-b)/(a+b+Epsilon) per
//     pixel and RescaleToUnit maps the [-1,1] result onto [0,1].
//   - Quantization: ToUint8 turns a [0,1] index into an 8-bit gray image.
//   - Statistics: Summarize reports range, moments and a histogram.
//
// # Band Convention
//
// Band numbers are fixed by a BandConfig passed to the caller's pipeline.
// DefaultBands is the 4-band convention green=2, red=3, NIR=4.
//
// # Arrays
//
// Bands and indices are *mat.Dense with one row per raster row. Every
// operation allocates its result and never modifies its inputs.
//
// # Errors
//
// BandNotFoundError signals a raster without the requested band and is the
// only recoverable failure. ShapeMismatchError signals bands of different
// sizes reaching the index engine, which is a caller bug. Division by zero is
// prevented by Epsilon and never reported.
package spectral
