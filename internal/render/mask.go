package render

import (
	"image"

	"github.com/ironsheep/spectral-tools-mcp/internal/edge"
)

// Mask renders an edge mask as an 8-bit image: edge pixels are 255, the rest 0.
func Mask(m *edge.Mask) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for i, v := range m.Pix {
		if v != 0 {
			img.Pix[i] = 255
		}
	}
	return img
}
