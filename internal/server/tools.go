package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathProperty is the schema of the raster path argument shared by every tool.
func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the raster file (FITS, TIFF, PNG, JPEG, GIF or BMP)",
	}
}

func colormapProperty(def string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        []string{"RdYlGn", "Blues", "Gray"},
		"description": "Optional colormap. Defaults to " + def,
	}
}

func scaleProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": "Optional preview scale factor (e.g., 2.0 to double size). Defaults to SPECTRAL_MCP_PREVIEW_SCALE or 1.0",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Raster Information
		{
			Name:        "raster_load",
			Description: "Load a multi-band raster and return its dimensions, band count, format, file size and whether it has the bands the pipeline reads (green=2, red=3, nir=4). The raster stays cached for subsequent calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "raster_dimensions",
			Description: "Get the width, height and band count of a raster.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "raster_evict",
			Description: "Release a cached raster, or every cached raster when no path is given.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Path of the raster to release. Omit to clear the cache",
					},
				},
			},
		},

		// Spectral Indices
		{
			Name:        "spectral_indices",
			Description: "Compute the vegetation (NDVI) and water (NDWI) indices, rescaled to [0,1], and return them as colormapped PNGs (RdYlGn and Blues) with colorbars plus summary statistics.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":          pathProperty(),
					"scale":         scaleProperty(),
					"ndvi_colormap": colormapProperty("RdYlGn"),
					"ndwi_colormap": colormapProperty("Blues"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "spectral_index_stats",
			Description: "Return min, max, mean, standard deviation, median and a 10-bucket histogram of both rescaled indices.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "spectral_sample",
			Description: "Inspect one pixel: raw green, red and NIR samples, NDVI and NDWI before and after rescaling, and the 8-bit vegetation value used for edge detection.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},

		// Edge Detection
		{
			Name:        "spectral_edge_detect",
			Description: "Run Canny edge detection on the 8-bit vegetation index and return the edge mask as a PNG (edges white). Thresholds are in 8-bit gradient units; low > high is swapped.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"threshold_low": map[string]interface{}{
						"type":        "integer",
						"description": "Weak edge threshold. Defaults to SPECTRAL_MCP_THRESHOLD_LOW or 100",
					},
					"threshold_high": map[string]interface{}{
						"type":        "integer",
						"description": "Strong edge threshold. Defaults to SPECTRAL_MCP_THRESHOLD_HIGH or 200",
					},
					"scale": scaleProperty(),
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
