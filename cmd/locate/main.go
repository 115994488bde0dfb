// Package main provides the locate command that resolves a lon/lat point
// to the ward boundary containing it.
package main

import (
	"flag"
	"fmt"
	"os"

	"rescuemap/internal/config"
	"rescuemap/internal/geo"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML configuration")
	lon := flag.Float64("lon", 0, "Longitude of the point")
	lat := flag.Float64("lat", 0, "Latitude of the point")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Config error: %v\n", err)
		os.Exit(1)
	}

	boundaries, err := geo.LoadCache(cfg.Pipeline.Geometry.CacheDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Boundary load failed: %v\n", err)
		os.Exit(1)
	}

	for _, b := range boundaries {
		if geo.ContainsPoint(b.Geometry, *lon, *lat) {
			fmt.Printf("📍 (%g, %g) is in %s, %s\n", *lon, *lat, b.Ward, b.District)

			return
		}
	}

	fmt.Printf("❓ (%g, %g) is outside every cached ward boundary\n", *lon, *lat)
	os.Exit(1)
}
