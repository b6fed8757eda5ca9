// Package render turns pipeline artifacts into viewable images.
//
// Index arrays in [0,1] are mapped through a Colormap (RdYlGn for vegetation,
// Blues for water) and can be framed with a vertical colorbar whose top is 1
// and bottom is 0. Edge masks render as white edges on black.
//
// # Encoding
//
// Rendered images are encoded as PNG, either to bytes, to base64 for the MCP
// tools (EncodedImage mirrors the JSON shape every image-returning tool uses)
// or straight to a file for the CLI.
//
// # Value Handling
//
// Values outside [0,1] are clipped and NaN renders as 0, matching the
// rescaling rules of package spectral.
package render
