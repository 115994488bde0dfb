// Package models defines the data structures shared across the pipeline stages.
package models

import "time"

// Day type values for Incident.DayType.
const (
	DayTypeNormal      = "No"
	DayTypeWeekend     = "Weekend"
	DayTypeBankHoliday = "Bank Holiday"
)

// Incident represents one animal-rescue call. The raw columns are set at
// load time; the derived fields are filled in by the temporal deriver, the
// classifier and the name normalizer.
type Incident struct {
	Timestamp time.Time `json:"timestamp"`
	Detail    string    `json:"detail"`
	RawWard   string    `json:"rawWard"`
	District  string    `json:"district"`

	// Derived fields.
	Ward          string    `json:"ward"`
	FinancialYear int       `json:"financialYear"`
	MonthStart    time.Time `json:"monthStart"`
	WeekStart     time.Time `json:"weekStart"`
	Weekday       int       `json:"weekday"`
	DayType       string    `json:"dayType"`
	Animal        string    `json:"animal"`
}
