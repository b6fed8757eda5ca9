package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/spectral-tools-mcp/internal/config"
	"github.com/ironsheep/spectral-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("spectral-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage()
			return
		case "process":
			if err := runProcess(os.Args[2:], config.Load(), os.Stdout); err != nil {
				log.Fatalf("process: %v", err)
			}
			return
		default:
			fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
			printUsage()
			os.Exit(2)
		}
	}

	cfg := config.Load()
	if cfg.Debug {
		log.Printf("Spectral MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printUsage() {
	fmt.Println("spectral-tools-mcp - MCP server for multispectral raster analysis")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  spectral-mcp                      Run the MCP server on stdin/stdout")
	fmt.Println("  spectral-mcp process [flags] RASTER...")
	fmt.Println("                                    Write NDVI, NDWI and edge PNGs for each raster")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Process flags:")
	fmt.Println("  -low N       Weak edge threshold (default from SPECTRAL_MCP_THRESHOLD_LOW or 100)")
	fmt.Println("  -high N      Strong edge threshold (default from SPECTRAL_MCP_THRESHOLD_HIGH or 200)")
	fmt.Println("  -out DIR     Output directory (default .)")
	fmt.Println("  -scale F     Preview scale (default from SPECTRAL_MCP_PREVIEW_SCALE or 1)")
	fmt.Println("  -jobs N      Rasters processed at once (default: number of CPUs)")
	fmt.Println("  -stack       Treat the files as bands 1..N of a single raster")
	fmt.Println("  -ndvi-cmap   NDVI colormap: RdYlGn (default), Blues or Gray")
	fmt.Println("  -ndwi-cmap   NDWI colormap: Blues (default), RdYlGn or Gray")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  SPECTRAL_MCP_LOG_LEVEL=debug    Enable debug logging")
	fmt.Println("  SPECTRAL_MCP_THRESHOLD_LOW      Default weak edge threshold")
	fmt.Println("  SPECTRAL_MCP_THRESHOLD_HIGH     Default strong edge threshold")
	fmt.Println("  SPECTRAL_MCP_PREVIEW_SCALE      Default preview scale")
	fmt.Println()
	fmt.Println("The server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client.")
}
