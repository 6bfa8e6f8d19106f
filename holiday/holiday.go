// Package holiday provides the public-holiday lookup consumed by the
// reconciliation engine.
package holiday

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopresence/calendar"
	"gopresence/internal/timeutil"
)

// Func returns the holiday name for a day-key, if any. Implementations must
// be pure and safe for concurrent use.
type Func func(dayKey string) (string, bool)

// None never reports a holiday.
func None(string) (string, bool) { return "", false }

// Entry is one configured holiday. Date is either yyyy-MM-dd for a single
// occurrence or MM-dd for a date that recurs every year.
type Entry struct {
	Date string `json:"date" mapstructure:"date"`
	Name string `json:"name" mapstructure:"name"`
}

// Calendar is an immutable holiday table.
type Calendar struct {
	fixed     map[string]string
	recurring map[string]string
}

func NewCalendar(entries []Entry) (*Calendar, error) {
	c := &Calendar{
		fixed:     make(map[string]string),
		recurring: make(map[string]string),
	}
	for i, entry := range entries {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			name = "Holiday"
		}
		raw := strings.TrimSpace(entry.Date)

		if day, err := calendar.ParseDay(raw); err == nil {
			c.fixed[day.Key()] = name
			continue
		}
		monthDay, err := parseMonthDay(raw)
		if err != nil {
			return nil, fmt.Errorf("holiday %d (%q): %w", i, entry.Date, err)
		}
		c.recurring[monthDay] = name
	}
	return c, nil
}

// Lookup prefers a dated entry over a recurring one on the same day.
func (c *Calendar) Lookup(dayKey string) (string, bool) {
	if c == nil {
		return "", false
	}
	if name, ok := c.fixed[dayKey]; ok {
		return name, true
	}
	day, err := calendar.ParseDay(dayKey)
	if err != nil {
		return "", false
	}
	name, ok := c.recurring[fmt.Sprintf("%02d-%02d", int(day.Month), day.Day)]
	return name, ok
}

func (c *Calendar) Func() Func {
	return c.Lookup
}

func (c *Calendar) Len() int {
	if c == nil {
		return 0
	}
	return len(c.fixed) + len(c.recurring)
}

// file is the on-disk JSON layout. Year, when set, completes MM-dd entries
// into dated ones instead of treating them as recurring.
type file struct {
	Year     int     `json:"year"`
	Holidays []Entry `json:"holidays"`
}

// LoadFile reads holidays from a JSON file.
func LoadFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read holiday file %s: %w", path, err)
	}

	var parsed file
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("decode holiday file %s: %w", path, err)
	}

	entries := make([]Entry, 0, len(parsed.Holidays))
	for _, entry := range parsed.Holidays {
		if parsed.Year > 0 {
			if monthDay, err := parseMonthDay(entry.Date); err == nil {
				entry.Date = strconv.Itoa(parsed.Year) + "-" + monthDay
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseMonthDay(raw string) (string, error) {
	parts := strings.Split(strings.TrimSpace(raw), "-")
	if len(parts) != 2 {
		return "", fmt.Errorf("unsupported holiday date format")
	}
	month, err := timeutil.ParseDigits(parts[0])
	if err != nil || month < 1 || month > 12 {
		return "", fmt.Errorf("invalid month in holiday date")
	}
	day, err := timeutil.ParseDigits(parts[1])
	if err != nil || day < 1 || day > 31 {
		return "", fmt.Errorf("invalid day in holiday date")
	}
	return fmt.Sprintf("%02d-%02d", month, day), nil
}
