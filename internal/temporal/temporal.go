// Package temporal derives calendar-aligned grouping fields from incident
// timestamps: financial year, week, month and weekday, plus a weekend and
// bank-holiday flag.
package temporal

import (
	"errors"
	"fmt"
	"time"

	"rescuemap/internal/models"
)

// ErrInvalidTimestamp is returned when an incident carries a zero timestamp.
var ErrInvalidTimestamp = errors.New("invalid incident timestamp")

// FinancialYear returns the UK financial year of t. The boundary is April 1:
// a date on or after April 1 of year Y and before April 1 of year Y+1
// belongs to financial year Y.
func FinancialYear(t time.Time) int {
	if t.Month() >= time.April {
		return t.Year()
	}

	return t.Year() - 1
}

// MonthStart returns midnight on the first day of t's month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// WeekStart returns midnight on the Monday of t's ISO week.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())

	// time.Weekday has Sunday=0; shift to Monday=0.
	offset := (int(day.Weekday()) + 6) % 7

	return day.AddDate(0, 0, -offset)
}

// Weekday returns t's weekday with Monday=0 .. Sunday=6.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// Derive fills in the temporal fields of each incident. Incidents with a
// zero timestamp are rejected with ErrInvalidTimestamp naming the row; the
// caller decides whether that aborts the run.
func Derive(incidents []models.Incident) ([]models.Incident, error) {
	if len(incidents) == 0 {
		return incidents, nil
	}

	minYear, maxYear := incidents[0].Timestamp.Year(), incidents[0].Timestamp.Year()

	for i, inc := range incidents {
		if inc.Timestamp.IsZero() {
			return nil, fmt.Errorf("%w: row %d", ErrInvalidTimestamp, i)
		}

		if y := inc.Timestamp.Year(); y < minYear {
			minYear = y
		} else if y > maxYear {
			maxYear = y
		}
	}

	holidays := EnglandBankHolidays(minYear, maxYear)

	out := make([]models.Incident, len(incidents))

	for i, inc := range incidents {
		inc.FinancialYear = FinancialYear(inc.Timestamp)
		inc.MonthStart = MonthStart(inc.Timestamp)
		inc.WeekStart = WeekStart(inc.Timestamp)
		inc.Weekday = Weekday(inc.Timestamp)
		inc.DayType = dayType(inc.Timestamp, holidays)
		out[i] = inc
	}

	return out, nil
}

func dayType(t time.Time, holidays map[string]string) string {
	if _, ok := holidays[t.Format("2006-01-02")]; ok {
		return models.DayTypeBankHoliday
	}

	if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return models.DayTypeWeekend
	}

	return models.DayTypeNormal
}
