package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Colorbar layout, in pixels.
const (
	barGap        = 4
	barMinWidth   = 8
	labelGap      = 2
	glyphAdvance  = 4
	glyphHeight   = 5
	labelChars    = 3
	labelWidth    = labelChars * glyphAdvance
	colorbarExtra = barGap + labelGap + labelWidth
)

var (
	background = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	labelColor = color.NRGBA{A: 255}
)

// Colorbar renders a vertical gradient of cmap, width x height pixels, with
// 1 at the top row and 0 at the bottom row.
func Colorbar(cmap *Colormap, width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		v := 1.0
		if height > 1 {
			v = 1 - float64(y)/float64(height-1)
		}
		c := cmap.At(v)
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// barWidth is the colorbar width used for an image of the given width.
func barWidth(imageWidth int) int {
	return max(barMinWidth, imageWidth/20)
}

// WithColorbar returns a copy of img with a colorbar for cmap to its right,
// labelled 1.0 (top), 0.5 and 0.0 (bottom). The image keeps its height; the
// added strip is white.
func WithColorbar(img image.Image, cmap *Colormap) *image.NRGBA {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	bw := barWidth(width)

	out := image.NewNRGBA(image.Rect(0, 0, width+bw+colorbarExtra, height))
	draw.Draw(out, out.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	draw.Copy(out, image.Point{}, img, bounds, draw.Src, nil)

	if height == 0 {
		return out
	}

	bar := Colorbar(cmap, bw, height)
	barX := width + barGap
	draw.Copy(out, image.Pt(barX, 0), bar, bar.Bounds(), draw.Src, nil)

	labelX := barX + bw + labelGap
	drawLabel(out, labelX, 0, "1.0")
	drawLabel(out, labelX, (height-glyphHeight)/2, "0.5")
	drawLabel(out, labelX, height-glyphHeight, "0.0")

	return out
}

// glyphs is a 3x5 bitmap font for colorbar labels.
var glyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'5': {"111", "100", "111", "001", "111"},
	'.': {"000", "000", "000", "000", "010"},
	'-': {"000", "000", "111", "000", "000"},
}

// drawLabel draws text with its top-left corner at (x, y), clipped to img.
func drawLabel(img *image.NRGBA, x, y int, text string) {
	bounds := img.Bounds()
	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += glyphAdvance
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel != '1' {
					continue
				}
				p := image.Pt(cx+col, y+row)
				if p.In(bounds) {
					img.SetNRGBA(p.X, p.Y, labelColor)
				}
			}
		}
		cx += glyphAdvance
	}
}
