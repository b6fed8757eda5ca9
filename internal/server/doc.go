// Package server implements the MCP (Model Context Protocol) server for
// multispectral raster analysis.
//
// This package provides a JSON-RPC 2.0 server that exposes the spectral
// pipeline (band selection, NDVI/NDWI, quantization and Canny edge detection)
// through the MCP protocol.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Raster Information:
//   - raster_load: Load a raster and get metadata
//   - raster_dimensions: Get width, height and band count
//   - raster_evict: Release one or all cached rasters
//
// Spectral Indices:
//   - spectral_indices: Colormapped NDVI and NDWI with colorbars
//   - spectral_index_stats: Summary statistics of both indices
//   - spectral_sample: Every pipeline value at one pixel
//
// Edge Detection:
//   - spectral_edge_detect: Canny edges of the vegetation index
//
// Bands are read with spectral.DefaultBands (green=2, red=3, nir=4). Omitted
// thresholds and preview scales come from the config.Config the server was
// created with.
//
// # Raster Caching
//
// Rasters are cached by path and reused across tool calls. The cache lives
// as long as the server; raster_evict releases entries.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string, e.g. "insufficient bands: ..."
//
// # Usage
//
//	srv := server.New(config.Load())
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
