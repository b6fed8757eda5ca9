package server

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/ironsheep/spectral-tools-mcp/internal/pipeline"
	"github.com/ironsheep/spectral-tools-mcp/internal/raster"
	"github.com/ironsheep/spectral-tools-mcp/internal/render"
	"github.com/ironsheep/spectral-tools-mcp/internal/spectral"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "raster_load", "spectral_indices").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000
// and the Go error string as data.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if s.cfg.Debug {
			log.Printf("Tool %s failed: %v", params.Name, err)
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies configured defaults for omitted parameters
//  3. Loads rasters from cache as needed
//  4. Runs the pipeline stage the tool exposes
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Raster Information
	case "raster_load":
		return s.handleRasterLoad(args)
	case "raster_dimensions":
		return s.handleRasterDimensions(args)
	case "raster_evict":
		return s.handleRasterEvict(args)

	// Spectral Indices
	case "spectral_indices":
		return s.handleSpectralIndices(args)
	case "spectral_index_stats":
		return s.handleSpectralIndexStats(args)
	case "spectral_sample":
		return s.handleSpectralSample(args)

	// Edge Detection
	case "spectral_edge_detect":
		return s.handleSpectralEdgeDetect(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// unmarshalArgs decodes tool arguments. Missing arguments decode as an empty
// object so tools whose parameters are all optional can be called bare.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// previewScale returns the requested scale, or the configured one.
func (s *Server) previewScale(scale *float64) (float64, error) {
	if scale == nil {
		return s.cfg.PreviewScale, nil
	}
	if *scale <= 0 {
		return 0, fmt.Errorf("scale must be positive, got %v", *scale)
	}
	return *scale, nil
}

// === Raster Information Handlers ===

type rasterPathArgs struct {
	Path string `json:"path"`
}

// RasterLoadResult describes a loaded raster and whether it holds every band
// the pipeline reads.
type RasterLoadResult struct {
	*raster.Info
	RequiredBands int  `json:"required_bands"`
	PipelineReady bool `json:"pipeline_ready"`
}

func (s *Server) handleRasterLoad(args json.RawMessage) (interface{}, error) {
	var a rasterPathArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	info, err := raster.LoadInfo(s.cache, a.Path)
	if err != nil {
		return nil, err
	}
	required := s.bands.MinBands()
	return &RasterLoadResult{
		Info:          info,
		RequiredBands: required,
		PipelineReady: info.BandCount >= required,
	}, nil
}

func (s *Server) handleRasterDimensions(args json.RawMessage) (interface{}, error) {
	var a rasterPathArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return raster.GetDimensions(s.cache, a.Path)
}

// EvictResult reports how many rasters a raster_evict call released.
type EvictResult struct {
	Evicted   int `json:"evicted"`
	Remaining int `json:"remaining"`
}

func (s *Server) handleRasterEvict(args json.RawMessage) (interface{}, error) {
	var a rasterPathArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}

	before := s.cache.Len()
	if a.Path == "" {
		s.cache.Clear()
	} else {
		s.cache.Evict(a.Path)
	}
	after := s.cache.Len()

	return &EvictResult{Evicted: before - after, Remaining: after}, nil
}

// === Spectral Index Handlers ===

type spectralIndicesArgs struct {
	Path         string   `json:"path"`
	Scale        *float64 `json:"scale"`
	NDVIColormap string   `json:"ndvi_colormap"`
	NDWIColormap string   `json:"ndwi_colormap"`
}

// colormap resolves an optional colormap name.
func colormap(name string, def *render.Colormap) (*render.Colormap, error) {
	if name == "" {
		return def, nil
	}
	return render.Lookup(name)
}

// IndicesResult holds the rendered vegetation and water indices.
type IndicesResult struct {
	NDVI      *render.EncodedImage `json:"ndvi"`
	NDWI      *render.EncodedImage `json:"ndwi"`
	NDVIStats *spectral.Stats      `json:"ndvi_stats"`
	NDWIStats *spectral.Stats      `json:"ndwi_stats"`
}

func (s *Server) handleSpectralIndices(args json.RawMessage) (interface{}, error) {
	var a spectralIndicesArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	scale, err := s.previewScale(a.Scale)
	if err != nil {
		return nil, err
	}
	ndviMap, err := colormap(a.NDVIColormap, render.RdYlGn)
	if err != nil {
		return nil, err
	}
	ndwiMap, err := colormap(a.NDWIColormap, render.Blues)
	if err != nil {
		return nil, err
	}
	src, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	vegetation, water, err := pipeline.Indices(src, s.bands)
	if err != nil {
		return nil, err
	}

	ndvi, err := render.EncodeBase64(render.IndexFigure(vegetation, ndviMap, scale))
	if err != nil {
		return nil, err
	}
	ndwi, err := render.EncodeBase64(render.IndexFigure(water, ndwiMap, scale))
	if err != nil {
		return nil, err
	}

	return &IndicesResult{
		NDVI:      ndvi,
		NDWI:      ndwi,
		NDVIStats: spectral.Summarize(vegetation),
		NDWIStats: spectral.Summarize(water),
	}, nil
}

type spectralStatsArgs struct {
	Path string `json:"path"`
}

// IndexStatsResult summarizes both rescaled indices.
type IndexStatsResult struct {
	NDVI *spectral.Stats `json:"ndvi"`
	NDWI *spectral.Stats `json:"ndwi"`
}

func (s *Server) handleSpectralIndexStats(args json.RawMessage) (interface{}, error) {
	var a spectralStatsArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	src, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	vegetation, water, err := pipeline.Indices(src, s.bands)
	if err != nil {
		return nil, err
	}
	return &IndexStatsResult{
		NDVI: spectral.Summarize(vegetation),
		NDWI: spectral.Summarize(water),
	}, nil
}

type spectralSampleArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleSpectralSample(args json.RawMessage) (interface{}, error) {
	var a spectralSampleArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	src, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return pipeline.SampleAt(src, s.bands, a.X, a.Y)
}

// === Edge Detection Handlers ===

type spectralEdgeDetectArgs struct {
	Path          string   `json:"path"`
	ThresholdLow  *int     `json:"threshold_low"`
	ThresholdHigh *int     `json:"threshold_high"`
	Scale         *float64 `json:"scale"`
}

// EdgeDetectResult contains the rendered edge mask of the vegetation index.
type EdgeDetectResult struct {
	*render.EncodedImage
	EdgePixels    int `json:"edge_pixels"`
	ThresholdLow  int `json:"threshold_low"`
	ThresholdHigh int `json:"threshold_high"`
}

func (s *Server) handleSpectralEdgeDetect(args json.RawMessage) (interface{}, error) {
	var a spectralEdgeDetectArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	low, high := s.cfg.ThresholdLow, s.cfg.ThresholdHigh
	if a.ThresholdLow != nil {
		low = *a.ThresholdLow
	}
	if a.ThresholdHigh != nil {
		high = *a.ThresholdHigh
	}
	scale, err := s.previewScale(a.Scale)
	if err != nil {
		return nil, err
	}
	src, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	res, err := pipeline.RunWithBands(src, s.bands, low, high)
	if err != nil {
		return nil, err
	}

	img, err := render.EncodeBase64(render.MaskFigure(res.Edges, scale))
	if err != nil {
		return nil, err
	}
	return &EdgeDetectResult{
		EncodedImage:  img,
		EdgePixels:    res.Edges.Count(),
		ThresholdLow:  low,
		ThresholdHigh: high,
	}, nil
}
