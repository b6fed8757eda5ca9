package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ironsheep/spectral-tools-mcp/internal/config"
	"github.com/ironsheep/spectral-tools-mcp/internal/pipeline"
	"github.com/ironsheep/spectral-tools-mcp/internal/raster"
	"github.com/ironsheep/spectral-tools-mcp/internal/render"
)

// runProcess implements "spectral-mcp process": it runs the pipeline over
// every raster named in args and writes <name>_ndvi.png, <name>_ndwi.png and
// <name>_edges.png into the output directory. With -stack the files are the
// single-band planes of one raster, named after the first file.
func runProcess(args []string, cfg config.Config, stdout io.Writer) error {
	fs := flag.NewFlagSet("process", flag.ContinueOnError)
	low := fs.Int("low", cfg.ThresholdLow, "weak edge threshold")
	high := fs.Int("high", cfg.ThresholdHigh, "strong edge threshold")
	outDir := fs.String("out", ".", "output directory")
	scale := fs.Float64("scale", cfg.PreviewScale, "preview scale factor")
	jobs := fs.Int("jobs", runtime.NumCPU(), "rasters processed at once")
	stack := fs.Bool("stack", false, "treat the files as bands 1..N of one raster")
	ndviName := fs.String("ndvi-cmap", render.RdYlGn.Name, "NDVI colormap (RdYlGn, Blues or Gray)")
	ndwiName := fs.String("ndwi-cmap", render.Blues.Name, "NDWI colormap (RdYlGn, Blues or Gray)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	paths := fs.Args()
	if len(paths) == 0 {
		return errors.New("no rasters given")
	}
	if *scale <= 0 {
		return fmt.Errorf("scale must be positive, got %v", *scale)
	}
	ndviMap, err := render.Lookup(*ndviName)
	if err != nil {
		return err
	}
	ndwiMap, err := render.Lookup(*ndwiName)
	if err != nil {
		return err
	}

	if *stack {
		paths = paths[:1:1]
	}
	names, err := outputNames(paths)
	if err != nil {
		return err
	}

	batch := make([]pipeline.Job, len(paths))
	if *stack {
		src, err := raster.OpenStack(fs.Args()...)
		if err != nil {
			return err
		}
		batch[0] = pipeline.Job{Name: paths[0], Source: src, Low: *low, High: *high}
	} else {
		for i, path := range paths {
			src, err := raster.Open(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			batch[i] = pipeline.Job{Name: path, Source: src, Low: *low, High: *high}
		}
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := pipeline.RunAll(ctx, batch, *jobs)
	if err != nil {
		return err
	}

	for i, res := range results {
		base := filepath.Join(*outDir, names[i])
		outputs := []struct {
			suffix string
			write  func(path string) error
		}{
			{"_ndvi.png", func(p string) error {
				return render.SavePNG(render.IndexFigure(res.Vegetation, ndviMap, *scale), p)
			}},
			{"_ndwi.png", func(p string) error {
				return render.SavePNG(render.IndexFigure(res.Water, ndwiMap, *scale), p)
			}},
			{"_edges.png", func(p string) error {
				return render.SavePNG(render.MaskFigure(res.Edges, *scale), p)
			}},
		}
		for _, o := range outputs {
			if err := o.write(base + o.suffix); err != nil {
				return err
			}
		}
		fmt.Fprintf(stdout, "%s: %d edge pixels, wrote %s_{ndvi,ndwi,edges}.png\n",
			paths[i], res.Edges.Count(), base)
	}
	return nil
}

// outputNames derives the output prefix of every raster from its file name
// without extension. Two rasters mapping to the same prefix is an error.
func outputNames(paths []string) ([]string, error) {
	names := make([]string, len(paths))
	seen := make(map[string]string, len(paths))
	for i, path := range paths {
		base := filepath.Base(path)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("%s and %s would both write %s_*.png", prev, path, name)
		}
		seen[name] = path
		names[i] = name
	}
	return names, nil
}
