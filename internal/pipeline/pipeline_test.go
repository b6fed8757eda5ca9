package pipeline

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/spectral-tools-mcp/internal/raster"
	"github.com/ironsheep/spectral-tools-mcp/internal/spectral"
)

// constantBand returns a rows x cols band filled with v.
func constantBand(rows, cols int, v float64) *mat.Dense {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = v
	}
	return mat.NewDense(rows, cols, data)
}

// newScene builds a 4-band raster: band 1 unused, green, red, NIR.
func newScene(t *testing.T, green, red, nir *mat.Dense) raster.Source {
	t.Helper()
	r, c := red.Dims()
	src, err := raster.NewMemory(constantBand(r, c, 0), green, red, nir)
	if err != nil {
		t.Fatalf("NewMemory failed: %v", err)
	}
	return src
}

// createFieldScene has vegetation (high NIR, low red) on the right half and
// bare soil on the left, so the NDVI has a sharp vertical step.
func createFieldScene(t *testing.T, rows, cols int) raster.Source {
	t.Helper()
	green := constantBand(rows, cols, 60)
	red := mat.NewDense(rows, cols, nil)
	nir := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if j < cols/2 {
				red.Set(i, j, 120)
				nir.Set(i, j, 120)
			} else {
				red.Set(i, j, 10)
				nir.Set(i, j, 250)
			}
		}
	}
	return newScene(t, green, red, nir)
}

// countingSource records band reads.
type countingSource struct {
	raster.Source
	reads []int
}

func (c *countingSource) ReadBand(index int) (*mat.Dense, error) {
	c.reads = append(c.reads, index)
	return c.Source.ReadBand(index)
}

func TestRun_Scenario(t *testing.T) {
	src := newScene(t, constantBand(4, 4, 100), constantBand(4, 4, 50), constantBand(4, 4, 200))

	res, err := Run(src, 100, 200)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if math.Abs(res.Vegetation.At(2, 2)-0.8) > 1e-6 {
		t.Errorf("vegetation: got %v, want ~0.8", res.Vegetation.At(2, 2))
	}
	// (100-200)/(300+eps) = -1/3 -> 1/3
	if math.Abs(res.Water.At(1, 3)-1.0/3) > 1e-6 {
		t.Errorf("water: got %v, want ~0.333", res.Water.At(1, 3))
	}
	if res.Edges.Width != 4 || res.Edges.Height != 4 {
		t.Errorf("edge mask: got %dx%d, want 4x4", res.Edges.Width, res.Edges.Height)
	}
	if res.Edges.Count() != 0 {
		t.Errorf("constant scene: got %d edge pixels, want 0", res.Edges.Count())
	}
}

func TestRun_IndexRange(t *testing.T) {
	res, err := Run(createFieldScene(t, 10, 16), 50, 100)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for _, m := range []*mat.Dense{res.Vegetation, res.Water} {
		r, c := m.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				if v := m.At(i, j); v < 0 || v > 1 {
					t.Fatalf("index value %v at (%d,%d) outside [0,1]", v, i, j)
				}
			}
		}
	}
}

func TestRun_FieldBoundary(t *testing.T) {
	const rows, cols = 10, 16
	res, err := Run(createFieldScene(t, rows, cols), 50, 100)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Soil NDVI is 0 (-> 127), vegetation 240/260 (-> 245): one boundary column.
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			want := x == cols/2-1
			if res.Edges.At(x, y) != want {
				t.Errorf("edge (%d,%d): got %v, want %v", x, y, res.Edges.At(x, y), want)
			}
		}
	}
}

func TestRun_InsufficientBands(t *testing.T) {
	src, err := raster.NewMemory(constantBand(4, 4, 1), constantBand(4, 4, 2), constantBand(4, 4, 3))
	if err != nil {
		t.Fatalf("NewMemory failed: %v", err)
	}

	res, err := Run(src, 100, 200)
	if res != nil {
		t.Error("Run returned a partial result")
	}
	if !errors.Is(err, ErrInsufficientBands) {
		t.Fatalf("got %v, want ErrInsufficientBands", err)
	}
	var bnf *spectral.BandNotFoundError
	if !errors.As(err, &bnf) {
		t.Fatalf("got %v, want *spectral.BandNotFoundError in chain", err)
	}
	if bnf.Index != 4 || bnf.Count != 3 {
		t.Errorf("BandNotFoundError: got %+v, want band 4 of 3", bnf)
	}
	if !strings.HasPrefix(err.Error(), "insufficient bands") {
		t.Errorf("message: got %q", err.Error())
	}
}

func TestRun_RGBFileIsInsufficient(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 40, G: 90, B: 20, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "rgb.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		t.Fatalf("failed to encode PNG: %v", err)
	}
	f.Close()

	src, err := raster.OpenImage(path)
	if err != nil {
		t.Fatalf("OpenImage failed: %v", err)
	}
	if src.BandCount() != 3 {
		t.Fatalf("BandCount: got %d, want 3", src.BandCount())
	}

	res, err := Run(src, 50, 100)
	if res != nil {
		t.Error("Run returned a result for an RGB file")
	}
	if !errors.Is(err, ErrInsufficientBands) {
		t.Fatalf("got %v, want ErrInsufficientBands", err)
	}
}

func TestRun_DoesNotMutateSource(t *testing.T) {
	src := createFieldScene(t, 6, 6)
	before, _ := src.ReadBand(4)

	if _, err := Run(src, 50, 100); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	after, _ := src.ReadBand(4)
	if !mat.Equal(before, after) {
		t.Error("Run modified the raster")
	}
}

func TestRun_ReadsConfiguredBands(t *testing.T) {
	cs := &countingSource{Source: createFieldScene(t, 4, 4)}

	if _, err := Run(cs, 50, 100); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []int{3, 2, 4}
	if len(cs.reads) != len(want) {
		t.Fatalf("reads: got %v, want %v", cs.reads, want)
	}
	for i := range want {
		if cs.reads[i] != want[i] {
			t.Fatalf("reads: got %v, want %v", cs.reads, want)
		}
	}
}

// skewedSource returns a NIR band with the wrong shape.
type skewedSource struct{ raster.Source }

func (s skewedSource) ReadBand(index int) (*mat.Dense, error) {
	if index == 4 {
		return constantBand(2, 2, 1), nil
	}
	return s.Source.ReadBand(index)
}

func TestRun_ShapeMismatch(t *testing.T) {
	_, err := Run(skewedSource{createFieldScene(t, 4, 4)}, 50, 100)

	var sme *spectral.ShapeMismatchError
	if !errors.As(err, &sme) {
		t.Fatalf("got %v, want *spectral.ShapeMismatchError", err)
	}
	if errors.Is(err, ErrInsufficientBands) {
		t.Error("shape mismatch must not be reported as insufficient bands")
	}
}

func TestRunWithBands(t *testing.T) {
	// NIR in band 1, red in band 2, green in band 3.
	src, err := raster.NewMemory(constantBand(3, 3, 200), constantBand(3, 3, 50), constantBand(3, 3, 10))
	if err != nil {
		t.Fatalf("NewMemory failed: %v", err)
	}

	res, err := RunWithBands(src, spectral.BandConfig{Green: 3, Red: 2, NIR: 1}, 50, 100)
	if err != nil {
		t.Fatalf("RunWithBands failed: %v", err)
	}
	if math.Abs(res.Vegetation.At(0, 0)-0.8) > 1e-6 {
		t.Errorf("vegetation: got %v, want ~0.8", res.Vegetation.At(0, 0))
	}
}

func TestRunAll(t *testing.T) {
	jobs := []Job{
		{Name: "a", Source: createFieldScene(t, 8, 8), Low: 50, High: 100},
		{Name: "b", Source: createFieldScene(t, 6, 10), Low: 50, High: 100},
		{Name: "c", Source: createFieldScene(t, 5, 5), Low: 200, High: 50},
	}

	results, err := RunAll(context.Background(), jobs, 2)
	if err != nil {
		t.Fatalf("RunAll failed: %v", err)
	}
	if len(results) != len(jobs) {
		t.Fatalf("results: got %d, want %d", len(results), len(jobs))
	}
	for i, job := range jobs {
		if results[i] == nil {
			t.Fatalf("result %d is nil", i)
		}
		if results[i].Edges.Width != job.Source.Width() || results[i].Edges.Height != job.Source.Height() {
			t.Errorf("job %s: mask %dx%d, raster %dx%d", job.Name,
				results[i].Edges.Width, results[i].Edges.Height, job.Source.Width(), job.Source.Height())
		}
	}
}

func TestRunAll_Failure(t *testing.T) {
	short, _ := raster.NewMemory(constantBand(2, 2, 1))
	jobs := []Job{
		{Name: "ok", Source: createFieldScene(t, 4, 4), Low: 50, High: 100},
		{Name: "short", Source: short, Low: 50, High: 100},
	}

	results, err := RunAll(context.Background(), jobs, 0)
	if results != nil {
		t.Error("RunAll returned results on failure")
	}
	if !errors.Is(err, ErrInsufficientBands) {
		t.Fatalf("got %v, want ErrInsufficientBands", err)
	}
	if !strings.HasPrefix(err.Error(), "short: ") {
		t.Errorf("message should name the job: %q", err.Error())
	}
}

func TestRunAll_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunAll(ctx, []Job{{Name: "a", Source: createFieldScene(t, 4, 4)}}, 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestIndices(t *testing.T) {
	src := createFieldScene(t, 4, 6)

	veg, water, err := Indices(src, spectral.DefaultBands)
	if err != nil {
		t.Fatalf("Indices failed: %v", err)
	}
	res, err := Run(src, 50, 100)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !mat.Equal(veg, res.Vegetation) || !mat.Equal(water, res.Water) {
		t.Error("Indices and Run disagree")
	}

	if _, _, err := Indices(src, spectral.BandConfig{Green: 2, Red: 3, NIR: 7}); !errors.Is(err, ErrInsufficientBands) {
		t.Errorf("got %v, want ErrInsufficientBands", err)
	}
}
