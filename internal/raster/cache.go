package raster

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Cache provides thread-safe caching of opened rasters to avoid redundant
// disk reads and decoding.
//
// Rasters are keyed by the exact path string given to Load. Different paths to
// the same file (relative vs absolute) produce separate entries.
//
// # Memory Management
//
// Cached rasters stay in memory until removed via Evict or Clear. A raster
// holds every band as float64, so a 4-band 10000x10000 scene costs ~3.2 GB.
type Cache struct {
	mu      sync.RWMutex
	rasters map[string]Source
	open    func(string) (Source, error)
}

// NewCache creates an empty cache that opens files with Open.
func NewCache() *Cache {
	return &Cache{
		rasters: make(map[string]Source),
		open:    Open,
	}
}

// Load returns the cached raster for path, opening it on first use.
//
// Concurrent first loads of the same path may both open the file; the last
// one stored wins and both callers receive a valid raster.
func (c *Cache) Load(path string) (Source, error) {
	c.mu.RLock()
	if src, ok := c.rasters[path]; ok {
		c.mu.RUnlock()
		return src, nil
	}
	c.mu.RUnlock()

	src, err := c.open(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.rasters[path] = src
	c.mu.Unlock()

	return src, nil
}

// Evict removes a raster from the cache. Unknown paths are ignored.
func (c *Cache) Evict(path string) {
	c.mu.Lock()
	delete(c.rasters, path)
	c.mu.Unlock()
}

// Clear removes every raster from the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.rasters = make(map[string]Source)
	c.mu.Unlock()
}

// Len reports the number of cached rasters.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rasters)
}

// Info contains metadata about a raster file.
type Info struct {
	// Width is the raster width in pixels.
	Width int `json:"width"`

	// Height is the raster height in pixels.
	Height int `json:"height"`

	// BandCount is the number of bands available to the pipeline.
	BandCount int `json:"band_count"`

	// Format is derived from the file extension: "fits", "png", "jpeg",
	// "gif", "tiff", "bmp" or "unknown".
	Format string `json:"format"`

	// FileSizeBytes is the size of the file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadInfo loads a raster through the cache and describes it.
func LoadInfo(cache *Cache, path string) (*Info, error) {
	src, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return &Info{
		Width:         src.Width(),
		Height:        src.Height(),
		BandCount:     src.BandCount(),
		Format:        formatFromExt(path),
		FileSizeBytes: stat.Size(),
	}, nil
}

func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".fits", ".fit", ".fts":
		return "fits"
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".tif", ".tiff":
		return "tiff"
	case ".bmp":
		return "bmp"
	}
	return "unknown"
}

// Dimensions is the size and band count of a raster.
type Dimensions struct {
	Width     int `json:"width"`
	Height    int `json:"height"`
	BandCount int `json:"band_count"`
}

// GetDimensions loads a raster through the cache and reports its size.
func GetDimensions(cache *Cache, path string) (*Dimensions, error) {
	src, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	return &Dimensions{
		Width:     src.Width(),
		Height:    src.Height(),
		BandCount: src.BandCount(),
	}, nil
}
