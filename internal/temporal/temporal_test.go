package temporal

import (
	"errors"
	"testing"
	"time"

	"rescuemap/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFinancialYear(t *testing.T) {
	tests := []struct {
		in   time.Time
		want int
	}{
		{date(2021, time.March, 31), 2020}, // last day of FY2020
		{date(2021, time.April, 1), 2021},  // first day of FY2021
		{date(2022, time.December, 25), 2022},
		{date(2023, time.January, 1), 2022},
		{date(2020, time.April, 30), 2020},
	}

	for _, tt := range tests {
		if got := FinancialYear(tt.in); got != tt.want {
			t.Errorf("FinancialYear(%s) = %d, want %d", tt.in.Format("2006-01-02"), got, tt.want)
		}
	}
}

func TestWeekday_MondayZero(t *testing.T) {
	// 2022-05-02 was a Monday, 2022-05-08 a Sunday.
	if got := Weekday(date(2022, time.May, 2)); got != 0 {
		t.Errorf("Weekday(Monday) = %d, want 0", got)
	}

	if got := Weekday(date(2022, time.May, 8)); got != 6 {
		t.Errorf("Weekday(Sunday) = %d, want 6", got)
	}
}

func TestWeekStart(t *testing.T) {
	monday := date(2022, time.May, 2)

	for d := 0; d < 7; d++ {
		in := monday.AddDate(0, 0, d).Add(13 * time.Hour)
		if got := WeekStart(in); !got.Equal(monday) {
			t.Errorf("WeekStart(%s) = %s, want %s", in, got, monday)
		}
	}
}

func TestMonthStart(t *testing.T) {
	got := MonthStart(time.Date(2022, time.May, 17, 9, 30, 0, 0, time.UTC))
	if !got.Equal(date(2022, time.May, 1)) {
		t.Errorf("MonthStart = %s, want 2022-05-01", got)
	}
}

func TestDerive(t *testing.T) {
	incidents := []models.Incident{
		{Timestamp: time.Date(2022, time.May, 1, 14, 0, 0, 0, time.UTC)}, // Sunday
		{Timestamp: time.Date(2023, time.March, 15, 8, 0, 0, 0, time.UTC)},
	}

	out, err := Derive(incidents)
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}

	if out[0].FinancialYear != 2022 {
		t.Errorf("FinancialYear = %d, want 2022", out[0].FinancialYear)
	}

	if out[0].DayType != models.DayTypeWeekend {
		t.Errorf("DayType = %s, want Weekend", out[0].DayType)
	}

	if out[1].FinancialYear != 2022 { // 2023-03-15 is still FY2022
		t.Errorf("FinancialYear = %d, want 2022", out[1].FinancialYear)
	}

	if out[1].Weekday != 2 { // Wednesday
		t.Errorf("Weekday = %d, want 2", out[1].Weekday)
	}
}

func TestDerive_InvalidTimestamp(t *testing.T) {
	incidents := []models.Incident{
		{Timestamp: date(2022, time.May, 1)},
		{}, // zero timestamp
	}

	_, err := Derive(incidents)
	if !errors.Is(err, ErrInvalidTimestamp) {
		t.Fatalf("Expected ErrInvalidTimestamp, got %v", err)
	}
}

func TestEasterSunday(t *testing.T) {
	tests := []struct {
		year int
		want time.Time
	}{
		{2020, date(2020, time.April, 12)},
		{2021, date(2021, time.April, 4)},
		{2022, date(2022, time.April, 17)},
		{2023, date(2023, time.April, 9)},
	}

	for _, tt := range tests {
		if got := easterSunday(tt.year); !got.Equal(tt.want) {
			t.Errorf("easterSunday(%d) = %s, want %s", tt.year, got, tt.want)
		}
	}
}

func TestEnglandBankHolidays(t *testing.T) {
	holidays := EnglandBankHolidays(2021, 2021)

	wantDates := []string{
		"2021-01-01", // New Year's Day (Friday, no substitute)
		"2021-04-02", // Good Friday
		"2021-04-05", // Easter Monday
		"2021-05-03", // Early May
		"2021-05-31", // Spring
		"2021-08-30", // Summer
		"2021-12-27", // Christmas substitute (25th was Saturday)
		"2021-12-28", // Boxing Day substitute
	}

	for _, d := range wantDates {
		if _, ok := holidays[d]; !ok {
			t.Errorf("Expected bank holiday on %s", d)
		}
	}

	if _, ok := holidays["2021-12-25"]; ok {
		t.Error("2021-12-25 fell on a Saturday and should have substituted")
	}
}

func TestDerive_BankHolidayFlag(t *testing.T) {
	incidents := []models.Incident{
		{Timestamp: time.Date(2022, time.August, 29, 10, 0, 0, 0, time.UTC)}, // summer BH Monday
	}

	out, err := Derive(incidents)
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}

	if out[0].DayType != models.DayTypeBankHoliday {
		t.Errorf("DayType = %s, want Bank Holiday", out[0].DayType)
	}
}
