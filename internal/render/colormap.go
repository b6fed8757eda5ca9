package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/mat"
)

// Colormap maps a value in [0,1] to a color by blending between evenly spaced
// stops in RGB space.
type Colormap struct {
	Name  string
	stops []colorful.Color
}

// NewColormap builds a colormap from hex stops ("#RRGGBB"). At least two
// stops are required.
func NewColormap(name string, hexStops ...string) (*Colormap, error) {
	if len(hexStops) < 2 {
		return nil, fmt.Errorf("colormap %s needs at least two stops", name)
	}
	stops := make([]colorful.Color, len(hexStops))
	for i, h := range hexStops {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("colormap %s: %w", name, err)
		}
		stops[i] = c
	}
	return &Colormap{Name: name, stops: stops}, nil
}

func mustColormap(name string, hexStops ...string) *Colormap {
	cm, err := NewColormap(name, hexStops...)
	if err != nil {
		panic(err)
	}
	return cm
}

var (
	// RdYlGn runs red (0) through yellow to green (1). Used for vegetation.
	RdYlGn = mustColormap("RdYlGn",
		"#a50026", "#d73027", "#f46d43", "#fdae61", "#fee08b", "#ffffbf",
		"#d9ef8b", "#a6d96a", "#66bd63", "#1a9850", "#006837")

	// Blues runs near-white (0) to dark blue (1). Used for water.
	Blues = mustColormap("Blues",
		"#f7fbff", "#deebf7", "#c6dbef", "#9ecae1", "#6baed6",
		"#4292c6", "#2171b5", "#08519c", "#08306b")

	// Gray runs black (0) to white (1).
	Gray = mustColormap("Gray", "#000000", "#ffffff")
)

// Lookup returns the named colormap. Names are matched case-insensitively
// and "grey" is accepted for Gray.
func Lookup(name string) (*Colormap, error) {
	for _, cm := range []*Colormap{RdYlGn, Blues, Gray} {
		if strings.EqualFold(name, cm.Name) {
			return cm, nil
		}
	}
	if strings.EqualFold(name, "grey") {
		return Gray, nil
	}
	return nil, fmt.Errorf("unknown colormap %q (want RdYlGn, Blues or Gray)", name)
}

// At returns the opaque color for v. Values are clipped to [0,1]; NaN maps
// like 0.
func (c *Colormap) At(v float64) color.NRGBA {
	v = unit(v)

	pos := v * float64(len(c.stops)-1)
	i := int(pos)
	if i >= len(c.stops)-1 {
		i = len(c.stops) - 2
	}
	t := pos - float64(i)

	r, g, b := c.stops[i].BlendRgb(c.stops[i+1], t).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// Index renders an index array as a colormapped image. Row r of the array
// becomes image row r.
func Index(index mat.Matrix, cmap *Colormap) *image.NRGBA {
	rows, cols := index.Dims()
	img := image.NewNRGBA(image.Rect(0, 0, cols, rows))
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			img.SetNRGBA(x, y, cmap.At(index.At(y, x)))
		}
	}
	return img
}

func unit(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
