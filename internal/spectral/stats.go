package spectral

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// HistogramBuckets is the number of equal-width buckets Summarize uses.
const HistogramBuckets = 10

// Bucket is a histogram entry spanning [Min, Max).
type Bucket struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// Stats summarizes a display-normalized index.
type Stats struct {
	Count     int      `json:"count"`
	Min       float64  `json:"min"`
	Max       float64  `json:"max"`
	Mean      float64  `json:"mean"`
	StdDev    float64  `json:"std_dev"`
	Median    float64  `json:"median"`
	Histogram []Bucket `json:"histogram"`
}

// Summarize computes descriptive statistics for a [0,1] index.
//
// StdDev is the population standard deviation. The histogram has
// HistogramBuckets buckets over [0,1]; the last bucket includes 1. Values
// outside [0,1] are counted in the nearest edge bucket.
func Summarize(index mat.Matrix) *Stats {
	rows, cols := index.Dims()
	if rows == 0 || cols == 0 {
		return &Stats{}
	}

	values := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			values = append(values, index.At(i, j))
		}
	}
	sort.Float64s(values)

	mean, std := stat.PopMeanStdDev(values, nil)
	s := &Stats{
		Count:  len(values),
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		Mean:   mean,
		StdDev: std,
		Median: stat.Quantile(0.5, stat.Empirical, values, nil),
	}

	dividers := floats.Span(make([]float64, HistogramBuckets+1), 0, 1)
	dividers[HistogramBuckets] = math.Nextafter(1, 2)

	clipped := make([]float64, len(values))
	for i, v := range values {
		clipped[i] = clipUnit(v)
	}
	counts := stat.Histogram(nil, dividers, clipped, nil)

	s.Histogram = make([]Bucket, HistogramBuckets)
	for i := range s.Histogram {
		s.Histogram[i] = Bucket{
			Min:   dividers[i],
			Max:   math.Min(dividers[i+1], 1),
			Count: int(counts[i]),
		}
	}
	return s
}
