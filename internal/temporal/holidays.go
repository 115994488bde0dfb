package temporal

import "time"

// EnglandBankHolidays returns the England and Wales bank holidays for every
// year in [from, to], keyed by ISO date string. Covered: New Year's Day,
// Good Friday, Easter Monday, the early May and spring bank holidays, the
// summer bank holiday, Christmas Day and Boxing Day, with Monday/Tuesday
// substitutes when a fixed holiday lands on a weekend. One-off holidays
// (royal events, the 2020/2022 May day moves) are not modelled.
func EnglandBankHolidays(from, to int) map[string]string {
	holidays := make(map[string]string)

	add := func(t time.Time, name string) {
		holidays[t.Format("2006-01-02")] = name
	}

	for year := from; year <= to; year++ {
		add(substituteWeekend(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)), "New Year's Day")

		easter := easterSunday(year)
		add(easter.AddDate(0, 0, -2), "Good Friday")
		add(easter.AddDate(0, 0, 1), "Easter Monday")

		add(nthWeekday(year, time.May, time.Monday, 1), "Early May Bank Holiday")
		add(lastWeekday(year, time.May, time.Monday), "Spring Bank Holiday")
		add(lastWeekday(year, time.August, time.Monday), "Summer Bank Holiday")

		christmas := time.Date(year, time.December, 25, 0, 0, 0, 0, time.UTC)
		boxing := time.Date(year, time.December, 26, 0, 0, 0, 0, time.UTC)

		switch christmas.Weekday() {
		case time.Saturday:
			// Both substitute into the following week.
			add(christmas.AddDate(0, 0, 2), "Christmas Day (substitute)")
			add(boxing.AddDate(0, 0, 2), "Boxing Day (substitute)")
		case time.Sunday:
			add(christmas.AddDate(0, 0, 1), "Boxing Day")
			add(christmas.AddDate(0, 0, 2), "Christmas Day (substitute)")
		case time.Friday:
			add(christmas, "Christmas Day")
			add(boxing.AddDate(0, 0, 2), "Boxing Day (substitute)")
		default:
			add(christmas, "Christmas Day")
			add(boxing, "Boxing Day")
		}
	}

	return holidays
}

// easterSunday computes Easter Sunday for a Gregorian year using the
// anonymous Gregorian algorithm.
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// nthWeekday returns the n-th given weekday of a month (n starting at 1).
func nthWeekday(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(weekday) - int(t.Weekday()) + 7) % 7

	return t.AddDate(0, 0, offset+(n-1)*7)
}

// lastWeekday returns the last given weekday of a month.
func lastWeekday(year int, month time.Month, weekday time.Weekday) time.Time {
	t := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	offset := (int(t.Weekday()) - int(weekday) + 7) % 7

	return t.AddDate(0, 0, -offset)
}

// substituteWeekend moves a fixed-date holiday to the following Monday when
// it falls on a weekend.
func substituteWeekend(t time.Time) time.Time {
	switch t.Weekday() {
	case time.Saturday:
		return t.AddDate(0, 0, 2)
	case time.Sunday:
		return t.AddDate(0, 0, 1)
	default:
		return t
	}
}
