// Package validator provides plausibility checks for ingested incident records.
package validator

import (
	"errors"
	"fmt"
	"time"

	"rescuemap/internal/config"
	"rescuemap/internal/models"
	"rescuemap/pkg/metadata"
)

// Validation errors.
var (
	ErrDetailRequired = errors.New("incident detail is required")
	ErrWardRequired   = errors.New("ward is required")
	ErrDateOutOfRange = errors.New("timestamp outside plausible range")
)

// RecordError describes one failed check on one record.
type RecordError struct {
	Row     int
	Field   string
	Value   string
	Message string
}

// Result contains validation results for a batch of records.
type Result struct {
	Errors   []RecordError
	Warnings []string
	Stats    Stats
	IsValid  bool
}

// Stats contains validation statistics.
type Stats struct {
	TotalRecords      int
	ValidRecords      int
	InvalidRecords    int
	RecordsNoDetail   int
	RecordsNoWard     int
	RecordsOutOfRange int
}

// RecordValidator checks incident records against configured bounds.
type RecordValidator struct {
	earliest time.Time
	latest   time.Time
	min      int
	max      int
}

// NewRecordValidator creates a validator from the validation config. A zero
// bound disables the corresponding check.
func NewRecordValidator(cfg config.ValidationConfig) (*RecordValidator, error) {
	v := &RecordValidator{min: cfg.MinRecords, max: cfg.MaxRecords}

	var err error
	if cfg.EarliestDate != "" {
		v.earliest, err = time.Parse("2006-01-02", cfg.EarliestDate)
		if err != nil {
			return nil, fmt.Errorf("invalid earliest date: %w", err)
		}
	}

	if cfg.LatestDate != "" {
		v.latest, err = time.Parse("2006-01-02", cfg.LatestDate)
		if err != nil {
			return nil, fmt.Errorf("invalid latest date: %w", err)
		}

		// Bound is inclusive of the whole day.
		v.latest = v.latest.AddDate(0, 0, 1)
	}

	return v, nil
}

// ValidateRecords checks each incident for required fields and plausible
// timestamps. Row numbers in errors are 1-based positions in the batch.
func (v *RecordValidator) ValidateRecords(incidents []models.Incident) *Result {
	result := &Result{
		IsValid:  true,
		Errors:   []RecordError{},
		Warnings: []string{},
		Stats:    Stats{},
	}

	for i, inc := range incidents {
		result.Stats.TotalRecords++

		recErrs := v.validateRecord(inc, i+1)
		if len(recErrs) > 0 {
			result.IsValid = false
			result.Stats.InvalidRecords++
			result.Errors = append(result.Errors, recErrs...)

			for _, e := range recErrs {
				switch e.Field {
				case "detail":
					result.Stats.RecordsNoDetail++
				case "ward":
					result.Stats.RecordsNoWard++
				case "timestamp":
					result.Stats.RecordsOutOfRange++
				}
			}
		} else {
			result.Stats.ValidRecords++
		}
	}

	if result.Stats.ValidRecords < v.min {
		result.IsValid = false
		result.Errors = append(result.Errors, RecordError{
			Message: fmt.Sprintf(
				"minimum record count not met: got %d, expected at least %d",
				result.Stats.ValidRecords,
				v.min,
			),
		})
	}

	if v.max > 0 && result.Stats.ValidRecords > v.max {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf(
				"unusually high record count: got %d, expected max %d (check for duplicated rows)",
				result.Stats.ValidRecords,
				v.max,
			),
		)
	}

	return result
}

func (v *RecordValidator) validateRecord(inc models.Incident, row int) []RecordError {
	var errs []RecordError

	if inc.Detail == "" {
		errs = append(errs, RecordError{
			Row:     row,
			Field:   "detail",
			Message: ErrDetailRequired.Error(),
		})
	}

	if inc.RawWard == "" {
		errs = append(errs, RecordError{
			Row:     row,
			Field:   "ward",
			Message: ErrWardRequired.Error(),
		})
	}

	outOfRange := false
	if !v.earliest.IsZero() && inc.Timestamp.Before(v.earliest) {
		outOfRange = true
	}

	if !v.latest.IsZero() && !inc.Timestamp.Before(v.latest) {
		outOfRange = true
	}

	if outOfRange {
		errs = append(errs, RecordError{
			Row:     row,
			Field:   "timestamp",
			Value:   inc.Timestamp.Format("2006-01-02"),
			Message: ErrDateOutOfRange.Error(),
		})
	}

	return errs
}

// ValidateIntegrity checks a signed report against its embedded hash.
func ValidateIntegrity(content string) *Result {
	result := &Result{IsValid: true, Stats: Stats{}}

	valid, err := metadata.Verify(content)
	if !valid {
		result.IsValid = false
		result.Errors = append(result.Errors, RecordError{
			Message: fmt.Sprintf("integrity check failed: %v", err),
		})
	}

	return result
}
