package spectral

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestSummarize(t *testing.T) {
	in := mat.NewDense(2, 4, []float64{
		0, 0.1, 0.2, 0.3,
		0.4, 0.5, 0.6, 1,
	})

	s := Summarize(in)

	if s.Count != 8 {
		t.Errorf("Count: got %d, want 8", s.Count)
	}
	if s.Min != 0 || s.Max != 1 {
		t.Errorf("range: got [%v, %v], want [0, 1]", s.Min, s.Max)
	}
	if math.Abs(s.Mean-3.1/8) > 1e-12 {
		t.Errorf("Mean: got %v, want %v", s.Mean, 3.1/8)
	}
	if s.StdDev <= 0 {
		t.Errorf("StdDev: got %v, want > 0", s.StdDev)
	}
	if len(s.Histogram) != HistogramBuckets {
		t.Fatalf("Histogram: got %d buckets, want %d", len(s.Histogram), HistogramBuckets)
	}

	total := 0
	for _, b := range s.Histogram {
		total += b.Count
	}
	if total != 8 {
		t.Errorf("Histogram total: got %d, want 8", total)
	}
	if last := s.Histogram[HistogramBuckets-1]; last.Count != 1 || last.Max != 1 {
		t.Errorf("last bucket: got %+v, want the value 1 with Max 1", last)
	}
}

func TestSummarize_Constant(t *testing.T) {
	s := Summarize(constant(3, 3, 0.5))

	if s.Mean != 0.5 || s.Median != 0.5 {
		t.Errorf("Mean/Median: got %v/%v, want 0.5", s.Mean, s.Median)
	}
	if s.StdDev != 0 {
		t.Errorf("StdDev: got %v, want 0", s.StdDev)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(&mat.Dense{})
	if s.Count != 0 || s.Histogram != nil {
		t.Errorf("empty index: got %+v", s)
	}
}
