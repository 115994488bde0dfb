// Package config provides configuration management for the rescue pipeline.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingIncidentsPath     = errors.New("sources.incidents is required")
	ErrMissingCensusPath        = errors.New("sources.census is required")
	ErrNoTaxonomy               = errors.New("at least one taxonomy category is required")
	ErrEmptyCategory            = errors.New("taxonomy category name is required")
	ErrEmptyKeywords            = errors.New("taxonomy category needs at least one keyword")
	ErrReservedCategory         = errors.New("taxonomy may not redefine the reserved category \"other\"")
	ErrDuplicateCategory        = errors.New("duplicate taxonomy category")
	ErrNoDistricts              = errors.New("geometry.districts must name at least one district")
	ErrInvalidIDRange           = errors.New("geometry district ID range must satisfy from <= to")
	ErrMissingURLTemplate       = errors.New("geometry.url_template is required when download is enabled")
	ErrMissingCacheDir          = errors.New("geometry.cache_dir is required")
	ErrInvalidMaxAttempts       = errors.New("retry.max_attempts must be at least 1")
	ErrInvalidInitialDelay      = errors.New("retry.initial_delay_ms must be non-negative")
	ErrInvalidBackoffMultiplier = errors.New("retry.backoff_multiplier must be >= 1.0")
	ErrInvalidTimeout           = errors.New("retry.timeout_sec must be at least 1")
	ErrInvalidLogLevel          = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidTimestampPolicy   = errors.New("on_bad_timestamp must be 'reject' or 'drop'")
	ErrMissingOutputDir         = errors.New("output.dir is required")
	ErrInvalidEarliestDate      = errors.New("validation.earliest_date must be YYYY-MM-DD")
	ErrInvalidLatestDate        = errors.New("validation.latest_date must be YYYY-MM-DD")
	ErrInvalidRecordBounds      = errors.New("validation.min_records must not exceed validation.max_records")
)

// Timestamp policy values.
const (
	TimestampPolicyReject = "reject"
	TimestampPolicyDrop   = "drop"
)

// Config represents the complete pipeline configuration, including the two
// pieces of versioned reference data: the animal taxonomy and the ward
// rename table.
type Config struct {
	Pipeline          PipelineConfig    `yaml:"pipeline"`
	Taxonomy          []TaxonomyRule    `yaml:"taxonomy"`
	Renames           map[string]string `yaml:"renames"`
	DistrictOverrides map[string]string `yaml:"district_overrides"`
}

// PipelineConfig contains run-level settings.
type PipelineConfig struct {
	Sources        SourcesConfig    `yaml:"sources"`
	Geometry       GeometryConfig   `yaml:"geometry"`
	Output         OutputConfig     `yaml:"output"`
	Retry          RetryPolicy      `yaml:"retry"`
	Logging        LoggingConfig    `yaml:"logging"`
	Validation     ValidationConfig `yaml:"validation"`
	OnBadTimestamp string           `yaml:"on_bad_timestamp"`
}

// SourcesConfig names the input files.
type SourcesConfig struct {
	Incidents      string `yaml:"incidents"`
	IncidentsSheet string `yaml:"incidents_sheet"`
	Census         string `yaml:"census"`
	PetPopulation  string `yaml:"pet_population"`
}

// GeometryConfig controls the boundary download and cache.
type GeometryConfig struct {
	CacheDir    string             `yaml:"cache_dir"`
	URLTemplate string             `yaml:"url_template"`
	Download    bool               `yaml:"download"`
	Districts   map[string]IDRange `yaml:"districts"`
}

// IDRange is an inclusive range of doogal ward IDs belonging to one district.
type IDRange struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
}

// OutputConfig defines where run artifacts are written.
type OutputConfig struct {
	Dir         string `yaml:"dir"`
	PrettyPrint bool   `yaml:"pretty_print"`
}

// RetryPolicy defines retry behavior for the boundary download.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	TimeoutSec        int     `yaml:"timeout_sec"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ValidationConfig bounds the plausible range of ingested incident records.
// An empty date disables that bound.
type ValidationConfig struct {
	EarliestDate string `yaml:"earliest_date"`
	LatestDate   string `yaml:"latest_date"`
	MinRecords   int    `yaml:"min_records"`
	MaxRecords   int    `yaml:"max_records"`
}

// TaxonomyRule maps one animal category to its matching keywords. Rule
// order is priority order: the classifier takes the first category with any
// matching keyword.
type TaxonomyRule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Pipeline.OnBadTimestamp == "" {
		c.Pipeline.OnBadTimestamp = TimestampPolicyReject
	}

	if c.Pipeline.Logging.Level == "" {
		c.Pipeline.Logging.Level = "info"
	}

	if c.Pipeline.Validation.MaxRecords == 0 {
		c.Pipeline.Validation.MaxRecords = 250000
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Pipeline.Sources.Incidents == "" {
		return ErrMissingIncidentsPath
	}

	if c.Pipeline.Sources.Census == "" {
		return ErrMissingCensusPath
	}

	if len(c.Taxonomy) == 0 {
		return ErrNoTaxonomy
	}

	seen := make(map[string]bool, len(c.Taxonomy))

	for i, rule := range c.Taxonomy {
		if rule.Category == "" {
			return fmt.Errorf("%w: taxonomy[%d]", ErrEmptyCategory, i)
		}

		if strings.EqualFold(rule.Category, "other") {
			return fmt.Errorf("%w: taxonomy[%d]", ErrReservedCategory, i)
		}

		if len(rule.Keywords) == 0 {
			return fmt.Errorf("%w: taxonomy[%d] %q", ErrEmptyKeywords, i, rule.Category)
		}

		if seen[rule.Category] {
			return fmt.Errorf("%w: %q", ErrDuplicateCategory, rule.Category)
		}

		seen[rule.Category] = true
	}

	if len(c.Pipeline.Geometry.Districts) == 0 {
		return ErrNoDistricts
	}

	for district, r := range c.Pipeline.Geometry.Districts {
		if r.From > r.To {
			return fmt.Errorf("%w: %q [%d, %d]", ErrInvalidIDRange, district, r.From, r.To)
		}
	}

	if c.Pipeline.Geometry.CacheDir == "" {
		return ErrMissingCacheDir
	}

	if c.Pipeline.Geometry.Download && c.Pipeline.Geometry.URLTemplate == "" {
		return ErrMissingURLTemplate
	}

	if c.Pipeline.Retry.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if c.Pipeline.Retry.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}

	if c.Pipeline.Retry.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoffMultiplier
	}

	if c.Pipeline.Retry.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Pipeline.Output.Dir == "" {
		return ErrMissingOutputDir
	}

	if c.Pipeline.Validation.EarliestDate != "" {
		if _, err := time.Parse("2006-01-02", c.Pipeline.Validation.EarliestDate); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidEarliestDate, c.Pipeline.Validation.EarliestDate)
		}
	}

	if c.Pipeline.Validation.LatestDate != "" {
		if _, err := time.Parse("2006-01-02", c.Pipeline.Validation.LatestDate); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidLatestDate, c.Pipeline.Validation.LatestDate)
		}
	}

	if c.Pipeline.Validation.MinRecords > c.Pipeline.Validation.MaxRecords {
		return ErrInvalidRecordBounds
	}

	switch c.Pipeline.OnBadTimestamp {
	case TimestampPolicyReject, TimestampPolicyDrop:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTimestampPolicy, c.Pipeline.OnBadTimestamp)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Pipeline.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// DistrictNames returns the configured district names, the set the name
// normalizer strips as parenthetical suffixes.
func (c *Config) DistrictNames() []string {
	names := make([]string, 0, len(c.Pipeline.Geometry.Districts))
	for district := range c.Pipeline.Geometry.Districts {
		names = append(names, district)
	}

	return names
}

// GetRetryDelay calculates exponential backoff delay for attempt number.
func (rp *RetryPolicy) GetRetryDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delayMs := float64(rp.InitialDelayMs)
	for i := 1; i < attempt; i++ {
		delayMs *= rp.BackoffMultiplier
	}

	// Cap at max delay
	if int(delayMs) > rp.MaxDelayMs {
		delayMs = float64(rp.MaxDelayMs)
	}

	return time.Duration(int(delayMs)) * time.Millisecond
}

// GetTimeout returns the timeout duration.
func (rp *RetryPolicy) GetTimeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Incidents: %s, Categories: %d, Districts: %d}",
		c.Pipeline.Sources.Incidents,
		len(c.Taxonomy),
		len(c.Pipeline.Geometry.Districts),
	)
}
