// Package main provides the fetchkml command that downloads ward boundary
// KML files into the local cache.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"rescuemap/internal/config"
	"rescuemap/internal/geo"
	"rescuemap/internal/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML configuration")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Config error: %v\n", err)
		os.Exit(1)
	}

	if cfg.Pipeline.Geometry.URLTemplate == "" {
		fmt.Fprintln(os.Stderr, "❌ geometry.url_template must be set to download boundaries")
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.Pipeline.Logging.Level)

	log.Info("🚀 Downloading ward boundaries",
		"districts", len(cfg.Pipeline.Geometry.Districts),
		"cache", cfg.Pipeline.Geometry.CacheDir,
	)

	startTime := time.Now()

	fetcher := geo.NewFetcher(&cfg.Pipeline.Geometry, &cfg.Pipeline.Retry, log)
	if err := fetcher.FetchAll(); err != nil {
		log.Error(fmt.Sprintf("❌ Download failed: %v", err))
		os.Exit(1)
	}

	boundaries, err := geo.LoadCache(cfg.Pipeline.Geometry.CacheDir)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Cache verification failed: %v", err))
		os.Exit(1)
	}

	log.Info(fmt.Sprintf("✅ Cached %d ward boundaries in %v", len(boundaries), time.Since(startTime)))
}
