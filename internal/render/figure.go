package render

import (
	"image"

	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/spectral-tools-mcp/internal/edge"
)

// IndexFigure is the standard index view: index colormapped with cmap,
// scaled by factor, with a colorbar on the right. The colorbar keeps its
// fixed size whatever the factor.
func IndexFigure(index mat.Matrix, cmap *Colormap, factor float64) *image.NRGBA {
	return WithColorbar(Scale(Index(index, cmap), factor), cmap)
}

// MaskFigure is the standard edge view: mask rendered white on black and
// scaled by factor.
func MaskFigure(m *edge.Mask, factor float64) image.Image {
	return Scale(Mask(m), factor)
}
