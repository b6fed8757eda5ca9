//go:build gdal

package raster

import (
	"fmt"
	"sync"

	"github.com/airbusgeo/godal"
	"gonum.org/v1/gonum/mat"
)

var registerDrivers sync.Once

// OpenGDAL reads every band of a GDAL-readable raster into memory. Band i of
// the dataset is band i of the result.
//
// Samples of any GDAL data type (including uint16 and float GeoTIFFs with
// more than four bands) are converted to float64. Scale, offset and nodata
// are not applied.
func OpenGDAL(path string) (*Memory, error) {
	registerDrivers.Do(godal.RegisterAll)

	ds, err := godal.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open raster: %w", err)
	}
	defer ds.Close()

	st := ds.Structure()
	width, height := st.SizeX, st.SizeY
	if width <= 0 || height <= 0 || st.NBands <= 0 {
		return nil, fmt.Errorf("raster is empty (%dx%d, %d bands)", width, height, st.NBands)
	}

	bands := ds.Bands()
	planes := make([]*mat.Dense, len(bands))
	for i, band := range bands {
		data := make([]float64, width*height)
		if err := band.Read(0, 0, data, width, height); err != nil {
			return nil, fmt.Errorf("reading band %d: %w", i+1, err)
		}
		planes[i] = mat.NewDense(height, width, data)
	}
	return NewMemory(planes...)
}

func openTIFF(path string) (Source, error) {
	return OpenGDAL(path)
}
