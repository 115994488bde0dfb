// Package main provides the pipeline command that runs the full data
// preparation: ingest, temporal derivation, classification, name
// normalization and spatial integration.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"rescuemap/internal/config"
	"rescuemap/internal/logger"
	"rescuemap/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML configuration")
	outputDir := flag.String("output", "", "Output directory (overrides config)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Config error: %v\n", err)
		os.Exit(1)
	}

	if *outputDir != "" {
		cfg.Pipeline.Output.Dir = *outputDir
	}

	log := logger.NewLogger(cfg.Pipeline.Logging.Level)

	log.Info("🚀 Starting rescue pipeline", "config", *configPath)

	startTime := time.Now()

	result, err := pipeline.Run(cfg, log)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Pipeline failed: %v", err))
		os.Exit(1)
	}

	if err := pipeline.WriteArtifacts(result, cfg.Pipeline.Output.Dir, cfg.Pipeline.Output.PrettyPrint); err != nil {
		log.Error(fmt.Sprintf("❌ Failed to write artifacts: %v", err))
		os.Exit(1)
	}

	log.Info(fmt.Sprintf("✅ Done in %v", time.Since(startTime)),
		"incidents", len(result.Incidents),
		"wards", len(result.Table.Wards),
		"output", cfg.Pipeline.Output.Dir,
	)

	if result.Quality.HasFaults() {
		log.Warn("⚠️  Run completed with data-quality faults; see quality.json",
			"unresolvedNames", len(result.Quality.UnresolvedNames),
			"missingGeometry", len(result.Quality.MissingGeometry),
			"missingPopulation", len(result.Quality.MissingPopulation),
		)
	}
}
