// Package raster provides multi-band raster sources for the spectral pipeline.
//
// A Source exposes its dimensions, its band count and 1-based band reads that
// return a fresh height x width matrix of float64 samples. The pipeline only
// reads from a Source; it never mutates one.
//
// # Formats
//
// Open dispatches on file extension:
//   - .fits, .fit, .fts: FITS primary HDU, NAXIS3 planes are bands
//   - .tif, .tiff: with the gdal build tag, every GeoTIFF band through GDAL
//     (OpenGDAL); otherwise decoded as an image like the formats below
//   - anything else: a decoded image (PNG, JPEG, GIF, TIFF, BMP) whose color
//     channels are bands (gray = 1 band, color = 3, color with alpha = 4)
//
// OpenStack builds a raster from one single-band image per file.
//
// # Band Numbering
//
// Bands are numbered from 1. Reading band 0 or a band past BandCount fails with
// an error wrapping ErrBandOutOfRange.
//
// # Thread Safety
//
// Cache is safe for concurrent use. The sources returned by this package are
// read-only after construction and may be shared between goroutines.
package raster
