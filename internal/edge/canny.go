package edge

import (
	"image"
	"math"
)

// gaussianKernel is the 5x5 integer Gaussian (sigma ≈ 1.4). Its entries sum
// to kernelSum.
var gaussianKernel = [5][5]float64{
	{1, 4, 7, 4, 1},
	{4, 16, 26, 16, 4},
	{7, 26, 41, 26, 7},
	{4, 16, 26, 16, 4},
	{1, 4, 7, 4, 1},
}

const kernelSum = 273.0

var (
	sobelX = [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// tan(22.5°) and tan(67.5°), the sector boundaries for direction quantization.
const (
	tan22 = 0.41421356237309503
	tan67 = 2.414213562373095
)

// direction is a gradient orientation quantized to one of four sectors.
type direction uint8

const (
	dirHorizontal direction = iota // 0°: gradient along x
	dirDiagDown                    // 45°: gx and gy share a sign
	dirVertical                    // 90°: gradient along y
	dirDiagUp                      // 135°: gx and gy differ in sign
)

// Detect performs Canny edge detection on an 8-bit gray image.
//
// Parameters:
//   - img: Quantized input image. It is not modified.
//   - low: Weak threshold. Surviving pixels with magnitude >= low are kept
//     when 8-connected, directly or through other kept pixels, to a strong one.
//   - high: Strong threshold. Surviving pixels with magnitude >= high are
//     always kept.
//
// Returns a Mask with the image's width and height.
//
// # Algorithm
//
//  1. Gaussian blur: 5x5 kernel, replicated borders.
//  2. Gradients: Sobel X and Y, magnitude = sqrt(Gx² + Gy²), direction
//     quantized to 0°, 45°, 90° or 135°.
//  3. Non-maximum suppression: a pixel survives when its magnitude is
//     strictly greater than the neighbour before it along the gradient
//     direction and at least the neighbour after it. Neighbours outside the
//     image count as zero. The asymmetric comparison keeps one pixel of a
//     plateau, so a sharp step yields a one-pixel-wide line.
//  4. Double threshold and hysteresis tracking.
//
// Pixels with zero gradient are never edges, whatever the thresholds.
//
// # Threshold Ordering
//
// If low > high the two are swapped. If low == high every surviving pixel at
// or above the threshold is an edge and no promotion takes place.
func Detect(img *image.Gray, low, high int) *Mask {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	mask := NewMask(width, height)
	if width == 0 || height == 0 {
		return mask
	}
	if low > high {
		low, high = high, low
	}

	src := make([]float64, width*height)
	for y := 0; y < height; y++ {
		off := img.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		for x := 0; x < width; x++ {
			src[y*width+x] = float64(img.Pix[off+x])
		}
	}

	blurred := gaussianBlur(src, width, height)
	magnitude, dirs := gradients(blurred, width, height)
	thin := suppressNonMaxima(magnitude, dirs, width, height)
	trackHysteresis(thin, width, height, float64(low), float64(high), mask)

	return mask
}

// gaussianBlur convolves img with gaussianKernel using clamped borders.
//
// The result is left unnormalized (scaled by kernelSum). With integer inputs
// every intermediate stays an exact integer, so equal gradients on either
// side of a symmetric step compare equal and suppression is deterministic.
func gaussianBlur(img []float64, width, height int) []float64 {
	result := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum float64
			for ky := -2; ky <= 2; ky++ {
				py := clamp(y+ky, 0, height-1)
				for kx := -2; kx <= 2; kx++ {
					px := clamp(x+kx, 0, width-1)
					sum += img[py*width+px] * gaussianKernel[ky+2][kx+2]
				}
			}
			result[y*width+x] = sum
		}
	}
	return result
}

// gradients applies the Sobel operators to a blurred image and returns the
// normalized gradient magnitude and quantized direction of every pixel.
func gradients(blurred []float64, width, height int) ([]float64, []direction) {
	magnitude := make([]float64, width*height)
	dirs := make([]direction, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				py := clamp(y+ky, 0, height-1)
				for kx := -1; kx <= 1; kx++ {
					px := clamp(x+kx, 0, width-1)
					v := blurred[py*width+px]
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			i := y*width + x
			magnitude[i] = math.Sqrt(gx*gx+gy*gy) / kernelSum
			dirs[i] = quantizeDirection(gx, gy)
		}
	}
	return magnitude, dirs
}

// quantizeDirection maps a gradient vector to its nearest principal axis.
// Image y grows downward, so equal signs point along the main diagonal.
func quantizeDirection(gx, gy float64) direction {
	ax, ay := math.Abs(gx), math.Abs(gy)
	switch {
	case ay <= ax*tan22:
		return dirHorizontal
	case ay > ax*tan67:
		return dirVertical
	case (gx > 0) == (gy > 0):
		return dirDiagDown
	default:
		return dirDiagUp
	}
}

// neighbourOffsets gives, per direction, the (dx, dy) of the neighbour before
// the pixel along the gradient. The neighbour after is the negation.
var neighbourOffsets = [4][2]int{
	dirHorizontal: {-1, 0},
	dirDiagDown:   {-1, -1},
	dirVertical:   {0, -1},
	dirDiagUp:     {1, -1},
}

// suppressNonMaxima zeroes every pixel that is not a local maximum along its
// gradient direction.
func suppressNonMaxima(magnitude []float64, dirs []direction, width, height int) []float64 {
	at := func(x, y int) float64 {
		if x < 0 || y < 0 || x >= width || y >= height {
			return 0
		}
		return magnitude[y*width+x]
	}

	suppressed := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			mag := magnitude[i]
			if mag <= 0 {
				continue
			}

			off := neighbourOffsets[dirs[i]]
			before := at(x+off[0], y+off[1])
			after := at(x-off[0], y-off[1])

			if mag > before && mag >= after {
				suppressed[i] = mag
			}
		}
	}
	return suppressed
}

// trackHysteresis marks strong pixels and then grows edges through
// 8-connected weak pixels, writing the result into mask.
func trackHysteresis(thin []float64, width, height int, low, high float64, mask *Mask) {
	stack := make([]int, 0, 64)
	for i, m := range thin {
		if m > 0 && m >= high {
			mask.Pix[i] = 1
			stack = append(stack, i)
		}
	}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%width, i/width

		for dy := -1; dy <= 1; dy++ {
			ny := y + dy
			if ny < 0 || ny >= height {
				continue
			}
			for dx := -1; dx <= 1; dx++ {
				nx := x + dx
				if (dx == 0 && dy == 0) || nx < 0 || nx >= width {
					continue
				}
				j := ny*width + nx
				if mask.Pix[j] == 0 && thin[j] > 0 && thin[j] >= low {
					mask.Pix[j] = 1
					stack = append(stack, j)
				}
			}
		}
	}
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
