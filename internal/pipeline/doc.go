// Package pipeline sequences band selection, index computation, quantization
// and edge detection for a raster.
//
// Run is pure: it reads the raster, allocates fresh arrays for every stage and
// returns them. Independent runs share no state and may execute concurrently;
// RunAll does exactly that for a batch of rasters.
package pipeline
