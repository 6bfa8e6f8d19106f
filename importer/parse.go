package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"gopresence/calendar"
	"gopresence/internal/timeutil"
)

// parseDayKey accepts the calendar formats plus dd.MM.yyyy, dd-MM-yyyy and
// Excel serial numbers, returning a yyyy-MM-dd key.
func parseDayKey(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", fmt.Errorf("empty date")
	}

	if day, err := calendar.ParseDay(value); err == nil {
		return day.Key(), nil
	}

	for _, layout := range []string{"02.01.2006", "02-01-2006", "2/1/2006"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return calendar.NewDay(parsed.Year(), parsed.Month(), parsed.Day()).Key(), nil
		}
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial > 0 {
		parsed, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return calendar.NewDay(parsed.Year(), parsed.Month(), parsed.Day()).Key(), nil
		}
	}

	return "", fmt.Errorf("unsupported date format: %q", raw)
}

// normalizeClockValue rewrites parsable times as HH:MM and keeps anything else
// verbatim, so sentinels like "NO MARCADO" reach the normalizer untouched.
func normalizeClockValue(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}
	if clock, err := timeutil.ParseClock(value); err == nil {
		return clock.String()
	}
	// Excel stores times of day as fractions of a day. Rounding never
	// crosses midnight.
	if fraction, err := strconv.ParseFloat(value, 64); err == nil && fraction >= 0 && fraction < 1 {
		minutes := min(int(fraction*24*60+0.5), 24*60-1)
		return timeutil.NewClock(0, 0).Add(minutes).String()
	}
	return value
}
