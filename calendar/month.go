package calendar

import (
	"fmt"
	"strings"
	"time"

	"gopresence/internal/timeutil"
)

type Month struct {
	Year  int
	Month time.Month
}

func (m Month) First() Day { return Day{Year: m.Year, Month: m.Month, Day: 1} }
func (m Month) Last() Day  { return Day{Year: m.Year, Month: m.Month, Day: daysIn(m.Year, m.Month)} }

func (m Month) Contains(d Day) bool { return d.Year == m.Year && d.Month == m.Month }

func (m Month) Key() string { return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month)) }

func (m Month) String() string { return m.Key() }

func (m Month) Next() Month     { return m.First().AddDays(daysIn(m.Year, m.Month)).MonthOf() }
func (m Month) Previous() Month { return m.First().AddDays(-1).MonthOf() }

// ParseMonth reads a yyyy-MM month key.
func ParseMonth(raw string) (Month, error) {
	parts := strings.Split(strings.TrimSpace(raw), "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) == 0 || len(parts[1]) > 2 {
		return Month{}, fmt.Errorf("invalid month %q (expected YYYY-MM)", raw)
	}
	year, err := timeutil.ParseDigits(parts[0])
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q (expected YYYY-MM)", raw)
	}
	month, err := timeutil.ParseDigits(parts[1])
	if err != nil || month < 1 || month > 12 {
		return Month{}, fmt.Errorf("invalid month %q (expected YYYY-MM)", raw)
	}
	return Month{Year: year, Month: time.Month(month)}, nil
}

// MonthDays returns every day of ref's month in order, first to last.
func MonthDays(ref Day) []Day {
	month := ref.MonthOf()
	last := daysIn(month.Year, month.Month)
	days := make([]Day, 0, last)
	for day := 1; day <= last; day++ {
		days = append(days, Day{Year: month.Year, Month: month.Month, Day: day})
	}
	return days
}
