// Package edge implements two-threshold gradient edge detection (Canny) over
// 8-bit gray images.
//
// Detect runs the classic stages in order: 5x5 Gaussian smoothing, Sobel
// gradients, non-maximum suppression along the quantized gradient direction,
// double thresholding, and edge tracking by hysteresis. Thresholds are in the
// units of the gradient magnitude of 8-bit intensities, the same scale the
// common OpenCV-style sliders use (typical values 50..300).
//
// The result is a Mask with the same dimensions as the input whose samples are
// exactly 0 or 1.
package edge
