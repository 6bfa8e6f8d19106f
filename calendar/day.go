// Package calendar models calendar days as plain (year, month, day) triples.
// Days never carry a location, so converting between instants and days cannot
// drift across midnight.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"gopresence/internal/timeutil"
)

const keyLayout = "2006-01-02"

type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDay normalizes overflowing components the way time.Date does.
func NewDay(year int, month time.Month, day int) Day {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Day{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Today returns the wall-clock date of now in its own location.
func Today(now time.Time) Day {
	return Day{Year: now.Year(), Month: now.Month(), Day: now.Day()}
}

func (d Day) time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Day) Key() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Day) String() string { return d.Key() }

func (d Day) Weekday() time.Weekday { return d.time().Weekday() }

func (d Day) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Day) AddDays(n int) Day { return NewDay(d.Year, d.Month, d.Day+n) }

func (d Day) Before(other Day) bool { return d.compare(other) < 0 }
func (d Day) After(other Day) bool  { return d.compare(other) > 0 }
func (d Day) IsZero() bool          { return d.Year == 0 && d.Month == 0 && d.Day == 0 }

func (d Day) MonthOf() Month { return Month{Year: d.Year, Month: d.Month} }

func (d Day) compare(other Day) int {
	switch {
	case d.Year != other.Year:
		return d.Year - other.Year
	case d.Month != other.Month:
		return int(d.Month) - int(other.Month)
	default:
		return d.Day - other.Day
	}
}

// ParseDay extracts a date triple from yyyy-MM-dd (optionally followed by a
// time suffix separated by 'T' or a space) or dd/MM/yyyy. The components are
// read from the string directly; no instant is ever constructed from it.
func ParseDay(raw string) (Day, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Day{}, fmt.Errorf("empty date")
	}
	if idx := strings.IndexAny(value, "T "); idx > 0 {
		value = value[:idx]
	}

	var year, month, day string
	switch {
	case strings.Count(value, "-") == 2:
		parts := strings.Split(value, "-")
		year, month, day = parts[0], parts[1], parts[2]
	case strings.Count(value, "/") == 2:
		parts := strings.Split(value, "/")
		day, month, year = parts[0], parts[1], parts[2]
	default:
		return Day{}, fmt.Errorf("unsupported date format: %q", raw)
	}
	if len(year) != 4 || len(month) == 0 || len(month) > 2 || len(day) == 0 || len(day) > 2 {
		return Day{}, fmt.Errorf("unsupported date format: %q", raw)
	}

	y, err := timeutil.ParseDigits(year)
	if err != nil {
		return Day{}, fmt.Errorf("parse year %q: %w", raw, err)
	}
	m, err := timeutil.ParseDigits(month)
	if err != nil {
		return Day{}, fmt.Errorf("parse month %q: %w", raw, err)
	}
	d, err := timeutil.ParseDigits(day)
	if err != nil {
		return Day{}, fmt.Errorf("parse day %q: %w", raw, err)
	}
	if m < 1 || m > 12 || d < 1 || d > daysIn(y, time.Month(m)) {
		return Day{}, fmt.Errorf("date out of range: %q", raw)
	}

	return Day{Year: y, Month: time.Month(m), Day: d}, nil
}

// MustParseDay panics on malformed input. Meant for fixtures and constants.
func MustParseDay(raw string) Day {
	day, err := ParseDay(raw)
	if err != nil {
		panic(err)
	}
	return day
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
