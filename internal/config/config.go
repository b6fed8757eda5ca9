// Package config reads the server's settings from the environment.
//
// Every setting has a default, and a value that cannot be parsed falls back to
// that default with a logged warning rather than stopping the server.
package config

import (
	"log"
	"math"
	"os"
	"strconv"
	"strings"
)

// Environment variables.
const (
	EnvLogLevel      = "SPECTRAL_MCP_LOG_LEVEL"
	EnvThresholdLow  = "SPECTRAL_MCP_THRESHOLD_LOW"
	EnvThresholdHigh = "SPECTRAL_MCP_THRESHOLD_HIGH"
	EnvPreviewScale  = "SPECTRAL_MCP_PREVIEW_SCALE"
)

// Defaults.
const (
	DefaultThresholdLow  = 100
	DefaultThresholdHigh = 200
	DefaultPreviewScale  = 1.0
)

// Config holds the settings shared by the server and the CLI.
type Config struct {
	// Debug enables verbose logging (SPECTRAL_MCP_LOG_LEVEL=debug).
	Debug bool

	// ThresholdLow and ThresholdHigh are the edge thresholds used when a
	// request does not give its own, in 8-bit gradient units.
	ThresholdLow  int
	ThresholdHigh int

	// PreviewScale resizes rendered images. 1 keeps the raster's size.
	PreviewScale float64
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	return Config{
		ThresholdLow:  DefaultThresholdLow,
		ThresholdHigh: DefaultThresholdHigh,
		PreviewScale:  DefaultPreviewScale,
	}
}

// Load reads the configuration from the process environment.
func Load() Config {
	return load(os.Getenv)
}

func load(getenv func(string) string) Config {
	cfg := Default()

	cfg.Debug = strings.EqualFold(strings.TrimSpace(getenv(EnvLogLevel)), "debug")
	cfg.ThresholdLow = intVar(getenv, EnvThresholdLow, cfg.ThresholdLow)
	cfg.ThresholdHigh = intVar(getenv, EnvThresholdHigh, cfg.ThresholdHigh)

	if v := strings.TrimSpace(getenv(EnvPreviewScale)); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		switch {
		case err != nil:
			log.Printf("Ignoring %s=%q: %v", EnvPreviewScale, v, err)
		case scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0):
			log.Printf("Ignoring %s=%q: scale must be positive", EnvPreviewScale, v)
		default:
			cfg.PreviewScale = scale
		}
	}

	return cfg
}

func intVar(getenv func(string) string, name string, def int) int {
	v := strings.TrimSpace(getenv(name))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Ignoring %s=%q: %v", name, v, err)
		return def
	}
	if n < 0 {
		log.Printf("Ignoring %s=%q: threshold must not be negative", name, v)
		return def
	}
	return n
}
