// Package main provides the trend command that fits a forecasting model to
// the prepared incident series.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"rescuemap/internal/models"
	"rescuemap/internal/report"
	"rescuemap/internal/trend"
)

func main() {
	inputDir := flag.String("input", "output", "Directory holding pipeline artifacts")
	outputPath := flag.String("output", "", "Path to output JSON file (default stdout summary)")
	freq := flag.String("freq", "month", "Series frequency: month or week")
	period := flag.Int("period", 12, "Seasonal period (0 for non-seasonal)")
	horizon := flag.Int("horizon", 12, "Forecast horizon in periods")
	flag.Parse()

	data, err := os.ReadFile(filepath.Join(*inputDir, "incidents.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to read incidents: %v\n", err)
		os.Exit(1)
	}

	var incidents []models.Incident
	if err := json.Unmarshal(data, &incidents); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to parse incidents: %v\n", err)
		os.Exit(1)
	}

	var (
		periods []time.Time
		values  []float64
	)

	switch *freq {
	case "week":
		periods, values = trend.WeeklyCounts(incidents)
	case "month":
		periods, values = trend.MonthlyCounts(incidents)
	default:
		fmt.Fprintf(os.Stderr, "❌ Unknown frequency %q\n", *freq)
		os.Exit(1)
	}

	dec, err := trend.Fit(periods, values, *period, *horizon)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Fit failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("📈 %s%s over %d observations (%d models evaluated)\n",
		dec.ModelName, dec.Order, len(values), dec.ModelsEvaluated)

	if *outputPath == "" {
		fmt.Println(report.RenderTrend(dec))

		return
	}

	out, err := json.MarshalIndent(dec, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to marshal result: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*outputPath, out, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to write %s: %v\n", *outputPath, err)
		os.Exit(1)
	}

	fmt.Printf("✅ Saved to: %s\n", *outputPath)
}
