//go:build !gdal

package raster

// openTIFF decodes TIFF files with golang.org/x/image/tiff, which handles
// gray, RGB and RGBA layouts. Build with -tags gdal to read multi-band
// GeoTIFFs through GDAL instead.
func openTIFF(path string) (Source, error) {
	return OpenImage(path)
}
