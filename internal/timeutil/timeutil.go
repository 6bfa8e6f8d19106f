package timeutil

import (
	"fmt"
	"strconv"
	"strings"
)

// Clock is a wall-clock time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

func NewClock(hour, minute int) Clock {
	return Clock{Hour: hour, Minute: minute}
}

func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

func (c Clock) Add(minutes int) Clock {
	total := c.Minutes() + minutes
	return Clock{Hour: total / 60, Minute: total % 60}
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ParseClock accepts H:MM, HH:MM, HH:MM:SS and HH:MM AM/PM. Seconds are dropped.
func ParseClock(raw string) (Clock, error) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if value == "" {
		return Clock{}, fmt.Errorf("empty clock value")
	}

	meridiem := ""
	for _, suffix := range []string{"AM", "PM"} {
		if strings.HasSuffix(value, suffix) {
			meridiem = suffix
			value = strings.TrimSpace(strings.TrimSuffix(value, suffix))
			break
		}
	}

	parts := strings.Split(value, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Clock{}, fmt.Errorf("unsupported clock format: %q", raw)
	}

	hour, err := ParseDigits(parts[0])
	if err != nil {
		return Clock{}, fmt.Errorf("parse hour %q: %w", raw, err)
	}
	if len(parts[1]) != 2 {
		return Clock{}, fmt.Errorf("unsupported clock format: %q", raw)
	}
	minute, err := ParseDigits(parts[1])
	if err != nil {
		return Clock{}, fmt.Errorf("parse minute %q: %w", raw, err)
	}
	if len(parts) == 3 {
		second, err := ParseDigits(parts[2])
		if err != nil {
			return Clock{}, fmt.Errorf("parse second %q: %w", raw, err)
		}
		if len(parts[2]) != 2 || second > 59 {
			return Clock{}, fmt.Errorf("clock out of range: %q", raw)
		}
	}

	switch meridiem {
	case "AM":
		if hour < 1 || hour > 12 {
			return Clock{}, fmt.Errorf("hour out of range: %q", raw)
		}
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour < 1 || hour > 12 {
			return Clock{}, fmt.Errorf("hour out of range: %q", raw)
		}
		if hour != 12 {
			hour += 12
		}
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("clock out of range: %q", raw)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

// ParseDigits parses an unsigned decimal component. Signs, spaces and other
// non-digit bytes are rejected.
func ParseDigits(raw string) (int, error) {
	if raw == "" {
		return 0, fmt.Errorf("empty number")
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return 0, fmt.Errorf("invalid digit in %q", raw)
		}
	}
	return strconv.Atoi(raw)
}
