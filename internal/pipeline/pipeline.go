// Package pipeline wires the stages together: ingest, temporal derivation,
// classification, name normalization and spatial integration. Each stage is
// a pure function of the previous stage's full output; a run has no shared
// mutable state and can execute beside other runs.
package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"rescuemap/internal/classify"
	"rescuemap/internal/config"
	"rescuemap/internal/geo"
	"rescuemap/internal/ingest"
	"rescuemap/internal/integrate"
	"rescuemap/internal/logger"
	"rescuemap/internal/models"
	"rescuemap/internal/names"
	"rescuemap/internal/temporal"
	"rescuemap/internal/validator"
)

// Result is everything a run produces for the reporting layer.
type Result struct {
	Incidents     []models.Incident      `json:"incidents"`
	Table         *models.UnifiedTable   `json:"table"`
	Quality       *models.QualityReport  `json:"quality"`
	PetPopulation []models.PetPopulation `json:"petPopulation,omitempty"`
	Ngrams        []classify.NgramCount  `json:"ngrams,omitempty"`
}

// Run executes the full pipeline once.
func Run(cfg *config.Config, log *logger.Logger) (*Result, error) {
	if cfg.Pipeline.Geometry.Download {
		log.Info("downloading ward boundaries", "districts", len(cfg.Pipeline.Geometry.Districts))

		fetcher := geo.NewFetcher(&cfg.Pipeline.Geometry, &cfg.Pipeline.Retry, log)
		if err := fetcher.FetchAll(); err != nil {
			return nil, fmt.Errorf("boundary download: %w", err)
		}
	}

	boundaries, err := geo.LoadCache(cfg.Pipeline.Geometry.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("boundary load: %w", err)
	}

	log.Info("loaded boundaries", "wards", len(boundaries))

	dropRejected := cfg.Pipeline.OnBadTimestamp == config.TimestampPolicyDrop

	incidents, rejected, err := ingest.ReadIncidents(
		cfg.Pipeline.Sources.Incidents, cfg.Pipeline.Sources.IncidentsSheet, dropRejected)
	if err != nil {
		return nil, fmt.Errorf("incident load: %w", err)
	}

	if rejected > 0 {
		log.Warn("dropped rows with unparseable timestamps", "count", rejected)
	}

	log.Info("loaded incidents", "rows", len(incidents))

	recordValidator, err := validator.NewRecordValidator(cfg.Pipeline.Validation)
	if err != nil {
		return nil, fmt.Errorf("validator setup: %w", err)
	}

	checked := recordValidator.ValidateRecords(incidents)
	for _, warning := range checked.Warnings {
		log.Warn("record validation", "detail", warning)
	}

	if !checked.IsValid {
		log.Warn("records failed plausibility checks",
			"invalid", checked.Stats.InvalidRecords,
			"noDetail", checked.Stats.RecordsNoDetail,
			"noWard", checked.Stats.RecordsNoWard,
			"outOfRange", checked.Stats.RecordsOutOfRange,
		)
	}

	incidents, err = temporal.Derive(incidents)
	if err != nil {
		return nil, fmt.Errorf("temporal derivation: %w", err)
	}

	classifier := classify.New(cfg.Taxonomy)
	for i := range incidents {
		incidents[i].Animal = classifier.Classify(incidents[i].Detail)
	}

	observations, err := ingest.ReadCensus(cfg.Pipeline.Sources.Census)
	if err != nil {
		return nil, fmt.Errorf("census load: %w", err)
	}

	normalizer := names.New(cfg.DistrictNames(), cfg.Renames, cfg.DistrictOverrides)

	for i := range incidents {
		incidents[i].Ward = normalizer.Normalize(incidents[i].RawWard)
		if district, ok := normalizer.DistrictFor(incidents[i].Ward); ok {
			incidents[i].District = district
		}
	}

	for i := range boundaries {
		boundaries[i].Ward = normalizer.Normalize(boundaries[i].Ward)
		if district, ok := normalizer.DistrictFor(boundaries[i].Ward); ok {
			boundaries[i].District = district
		}
	}

	for i := range observations {
		observations[i].Ward = normalizer.Normalize(observations[i].Ward)
	}

	unresolved := names.Divergence(map[string][]string{
		"incidents": wardKeysIncidents(incidents),
		"census":    wardKeysObservations(observations),
		"geometry":  wardKeysBoundaries(boundaries),
	})

	for _, warning := range unresolved {
		log.Warn("name divergence", "detail", warning)
	}

	table, quality, err := integrate.Build(integrate.Input{
		Boundaries: boundaries,
		Incidents:  incidents,
		Population: observations,
	})
	if err != nil {
		return nil, fmt.Errorf("integration: %w", err)
	}

	quality.UnresolvedNames = unresolved
	quality.RejectedTimestamps = rejected

	result := &Result{
		Incidents: incidents,
		Table:     table,
		Quality:   quality,
	}

	if cfg.Pipeline.Sources.PetPopulation != "" {
		petPop, petErr := ingest.ReadPetPopulation(cfg.Pipeline.Sources.PetPopulation)
		if petErr != nil {
			return nil, fmt.Errorf("pet population load: %w", petErr)
		}

		result.PetPopulation = petPop
	}

	details := make([]string, 0, len(incidents))
	for _, inc := range incidents {
		details = append(details, inc.Detail)
	}

	result.Ngrams = classify.NgramCounts(details, 2)

	log.Info("pipeline complete",
		"wards", len(table.Wards),
		"districts", len(table.Districts),
		"faults", quality.HasFaults(),
	)

	return result, nil
}

// WriteArtifacts saves the run outputs as JSON files under dir.
func WriteArtifacts(result *Result, dir string, pretty bool) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	artifacts := map[string]any{
		"incidents.json": result.Incidents,
		"unified.json":   result.Table,
		"quality.json":   result.Quality,
	}

	if result.PetPopulation != nil {
		artifacts["pet_population.json"] = result.PetPopulation
	}

	if result.Ngrams != nil {
		artifacts["ngrams.json"] = result.Ngrams
	}

	for name, value := range artifacts {
		var (
			data []byte
			err  error
		)

		if pretty {
			data, err = json.MarshalIndent(value, "", "  ")
		} else {
			data, err = json.Marshal(value)
		}

		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", name, err)
		}

		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}

	return nil
}

func wardKeysIncidents(incidents []models.Incident) []string {
	keys := make([]string, 0, len(incidents))
	for _, inc := range incidents {
		keys = append(keys, inc.Ward)
	}

	return keys
}

func wardKeysObservations(observations []models.PopulationObservation) []string {
	keys := make([]string, 0, len(observations))
	for _, obs := range observations {
		keys = append(keys, obs.Ward)
	}

	return keys
}

func wardKeysBoundaries(boundaries []models.WardBoundary) []string {
	keys := make([]string, 0, len(boundaries))
	for _, b := range boundaries {
		keys = append(keys, b.Ward)
	}

	return keys
}
