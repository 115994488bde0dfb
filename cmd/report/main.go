// Package main provides the report command that renders pipeline artifacts
// as markdown for the slide deck.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rescuemap/internal/classify"
	"rescuemap/internal/models"
	"rescuemap/internal/report"
	"rescuemap/internal/validator"
	"rescuemap/pkg/metadata"
)

const reportVersion = "1.0"

func main() {
	inputDir := flag.String("input", "output", "Directory holding pipeline artifacts")
	outputPath := flag.String("output", "", "Path to output markdown file (default stdout)")
	topPhrases := flag.Int("top-phrases", 20, "Number of common phrases to include")
	checkPath := flag.String("check", "", "Verify the integrity of an existing report and exit")
	flag.Parse()

	if *checkPath != "" {
		data, err := os.ReadFile(*checkPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(1)
		}

		if result := validator.ValidateIntegrity(string(data)); !result.IsValid {
			fmt.Fprintf(os.Stderr, "❌ %s: %s\n", *checkPath, result.Errors[0].Message)
			os.Exit(1)
		}

		fmt.Printf("✅ %s verified\n", *checkPath)

		return
	}

	var table models.UnifiedTable
	if err := readJSON(filepath.Join(*inputDir, "unified.json"), &table); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	var quality models.QualityReport
	if err := readJSON(filepath.Join(*inputDir, "quality.json"), &quality); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	sections := []string{
		report.RenderUnified(&table),
		report.RenderByYear(&table),
		report.RenderQuality(&quality),
	}

	// Phrase counts are optional; older artifact sets may not have them.
	var ngrams []classify.NgramCount
	if err := readJSON(filepath.Join(*inputDir, "ngrams.json"), &ngrams); err == nil && len(ngrams) > 0 {
		sections = append(sections, report.RenderNgrams(ngrams, *topPhrases))
	}

	markdown := strings.Join(sections, "\n")

	if *outputPath == "" {
		fmt.Println(markdown)

		return
	}

	markdown = metadata.Sign(markdown, reportVersion, !quality.HasFaults())

	if err := os.WriteFile(*outputPath, []byte(markdown), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to write %s: %v\n", *outputPath, err)
		os.Exit(1)
	}

	fmt.Printf("✅ Saved to: %s\n", *outputPath)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return nil
}
