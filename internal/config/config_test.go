package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Helper to create a temp config file.
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}

	return configPath
}

// validConfigYAML is a minimal valid configuration.
const validConfigYAML = `
pipeline:
  sources:
    incidents: "data/animal-rescue.xlsx"
    incidents_sheet: "Sheet1"
    census: "data/census_2021.csv"
    pet_population: "data/PAW.csv"
  geometry:
    cache_dir: "kml"
    url_template: "https://www.doogal.co.uk/kml/wards/E0%d.kml"
    download: false
    districts:
      Birmingham: {from: 5011118, to: 5011186}
      Wolverhampton: {from: 5014838, to: 5014857}
  output:
    dir: "./output"
    pretty_print: true
  retry:
    max_attempts: 3
    initial_delay_ms: 100
    max_delay_ms: 5000
    backoff_multiplier: 2.0
    timeout_sec: 30
  logging:
    level: "info"
taxonomy:
  - category: "cat"
    keywords: ["cat", "kitten"]
  - category: "dog"
    keywords: ["dog", "puppy"]
renames:
  "Bilston East": "Bilston South"
district_overrides:
  "Tipton Green": "Sandwell"
`

func TestLoadConfig_Valid(t *testing.T) {
	configPath := createTempConfigFile(t, validConfigYAML)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg == nil {
		t.Fatal("Expected config, got nil")
	}

	if len(cfg.Taxonomy) != 2 {
		t.Errorf("Expected 2 taxonomy rules, got %d", len(cfg.Taxonomy))
	}

	if cfg.Taxonomy[0].Category != "cat" {
		t.Errorf("Expected first category 'cat', got '%s'", cfg.Taxonomy[0].Category)
	}

	if cfg.Renames["Bilston East"] != "Bilston South" {
		t.Errorf("Expected rename for 'Bilston East', got '%s'", cfg.Renames["Bilston East"])
	}

	if cfg.Pipeline.Geometry.Districts["Birmingham"].From != 5011118 {
		t.Errorf("Unexpected Birmingham range: %+v", cfg.Pipeline.Geometry.Districts["Birmingham"])
	}

	if cfg.Pipeline.OnBadTimestamp != TimestampPolicyReject {
		t.Errorf("Expected default timestamp policy 'reject', got '%s'", cfg.Pipeline.OnBadTimestamp)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("Expected error for nonexistent file, got nil")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := createTempConfigFile(t, "invalid: yaml: content: [}")

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("Expected error for invalid YAML, got nil")
	}
}

// validBase returns a config that passes validation, for mutation tests.
func validBase() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			Sources: SourcesConfig{
				Incidents: "data/incidents.xlsx",
				Census:    "data/census.csv",
			},
			Geometry: GeometryConfig{
				CacheDir:  "kml",
				Districts: map[string]IDRange{"Birmingham": {From: 1, To: 2}},
			},
			Output:         OutputConfig{Dir: "./out"},
			Retry:          RetryPolicy{MaxAttempts: 1, InitialDelayMs: 100, BackoffMultiplier: 1.0, TimeoutSec: 10},
			Logging:        LoggingConfig{Level: "info"},
			OnBadTimestamp: TimestampPolicyReject,
		},
		Taxonomy: []TaxonomyRule{{Category: "cat", Keywords: []string{"cat"}}},
	}
}

func TestConfig_Validate_MissingIncidents(t *testing.T) {
	cfg := validBase()
	cfg.Pipeline.Sources.Incidents = ""

	if err := cfg.Validate(); !errors.Is(err, ErrMissingIncidentsPath) {
		t.Fatalf("Expected ErrMissingIncidentsPath, got %v", err)
	}
}

func TestConfig_Validate_NoTaxonomy(t *testing.T) {
	cfg := validBase()
	cfg.Taxonomy = nil

	if err := cfg.Validate(); !errors.Is(err, ErrNoTaxonomy) {
		t.Fatalf("Expected ErrNoTaxonomy, got %v", err)
	}
}

func TestConfig_Validate_ReservedCategory(t *testing.T) {
	cfg := validBase()
	cfg.Taxonomy = append(cfg.Taxonomy, TaxonomyRule{Category: "Other", Keywords: []string{"x"}})

	if err := cfg.Validate(); !errors.Is(err, ErrReservedCategory) {
		t.Fatalf("Expected ErrReservedCategory, got %v", err)
	}
}

func TestConfig_Validate_DuplicateCategory(t *testing.T) {
	cfg := validBase()
	cfg.Taxonomy = append(cfg.Taxonomy, TaxonomyRule{Category: "cat", Keywords: []string{"feline"}})

	if err := cfg.Validate(); !errors.Is(err, ErrDuplicateCategory) {
		t.Fatalf("Expected ErrDuplicateCategory, got %v", err)
	}
}

func TestConfig_Validate_EmptyKeywords(t *testing.T) {
	cfg := validBase()
	cfg.Taxonomy = []TaxonomyRule{{Category: "cat"}}

	if err := cfg.Validate(); !errors.Is(err, ErrEmptyKeywords) {
		t.Fatalf("Expected ErrEmptyKeywords, got %v", err)
	}
}

func TestConfig_Validate_InvalidIDRange(t *testing.T) {
	cfg := validBase()
	cfg.Pipeline.Geometry.Districts["Birmingham"] = IDRange{From: 10, To: 1}

	if err := cfg.Validate(); !errors.Is(err, ErrInvalidIDRange) {
		t.Fatalf("Expected ErrInvalidIDRange, got %v", err)
	}
}

func TestConfig_Validate_DownloadNeedsTemplate(t *testing.T) {
	cfg := validBase()
	cfg.Pipeline.Geometry.Download = true
	cfg.Pipeline.Geometry.URLTemplate = ""

	if err := cfg.Validate(); !errors.Is(err, ErrMissingURLTemplate) {
		t.Fatalf("Expected ErrMissingURLTemplate, got %v", err)
	}
}

func TestConfig_Validate_InvalidRetryMaxAttempts(t *testing.T) {
	cfg := validBase()
	cfg.Pipeline.Retry.MaxAttempts = 0

	if err := cfg.Validate(); !errors.Is(err, ErrInvalidMaxAttempts) {
		t.Fatalf("Expected ErrInvalidMaxAttempts, got %v", err)
	}
}

func TestConfig_Validate_InvalidBackoffMultiplier(t *testing.T) {
	cfg := validBase()
	cfg.Pipeline.Retry.BackoffMultiplier = 0.5

	if err := cfg.Validate(); !errors.Is(err, ErrInvalidBackoffMultiplier) {
		t.Fatalf("Expected ErrInvalidBackoffMultiplier, got %v", err)
	}
}

func TestConfig_Validate_InvalidTimestampPolicy(t *testing.T) {
	cfg := validBase()
	cfg.Pipeline.OnBadTimestamp = "ignore"

	if err := cfg.Validate(); !errors.Is(err, ErrInvalidTimestampPolicy) {
		t.Fatalf("Expected ErrInvalidTimestampPolicy, got %v", err)
	}
}

func TestConfig_Validate_InvalidLogLevel(t *testing.T) {
	cfg := validBase()
	cfg.Pipeline.Logging.Level = "verbose"

	if err := cfg.Validate(); !errors.Is(err, ErrInvalidLogLevel) {
		t.Fatalf("Expected ErrInvalidLogLevel, got %v", err)
	}
}

func TestConfig_Validate_InvalidEarliestDate(t *testing.T) {
	cfg := validBase()
	cfg.Pipeline.Validation.EarliestDate = "01/01/2009"

	if err := cfg.Validate(); !errors.Is(err, ErrInvalidEarliestDate) {
		t.Fatalf("Expected ErrInvalidEarliestDate, got %v", err)
	}
}

func TestConfig_Validate_RecordBounds(t *testing.T) {
	cfg := validBase()
	cfg.Pipeline.Validation.MinRecords = 100
	cfg.Pipeline.Validation.MaxRecords = 10

	if err := cfg.Validate(); !errors.Is(err, ErrInvalidRecordBounds) {
		t.Fatalf("Expected ErrInvalidRecordBounds, got %v", err)
	}
}

func TestRetryPolicy_GetRetryDelay(t *testing.T) {
	rp := &RetryPolicy{
		MaxAttempts:       5,
		InitialDelayMs:    100,
		MaxDelayMs:        1000,
		BackoffMultiplier: 2.0,
	}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 0},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{5, 1000 * time.Millisecond}, // capped at max
	}

	for _, tt := range tests {
		if got := rp.GetRetryDelay(tt.attempt); got != tt.want {
			t.Errorf("GetRetryDelay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestConfig_DistrictNames(t *testing.T) {
	cfg := validBase()
	cfg.Pipeline.Geometry.Districts["Sandwell"] = IDRange{From: 3, To: 4}

	names := cfg.DistrictNames()
	if len(names) != 2 {
		t.Errorf("Expected 2 district names, got %d", len(names))
	}
}
