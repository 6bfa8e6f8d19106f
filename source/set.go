package source

import (
	"fmt"
	"strings"
)

// Kind names one input source of the reconciliation.
type Kind string

const (
	KindVacation   Kind = "vacation"
	KindMedical    Kind = "medical_leave"
	KindHomeOffice Kind = "home_office"
	KindAttendance Kind = "attendance"
	KindHoliday    Kind = "holiday"
)

// Kinds lists every source in precedence order.
func Kinds() []Kind {
	return []Kind{KindVacation, KindMedical, KindHomeOffice, KindAttendance, KindHoliday}
}

// Set selects which sources take part in a report view.
type Set struct {
	Vacation   bool
	Medical    bool
	HomeOffice bool
	Attendance bool
	Holiday    bool
}

func AllSources() Set {
	return Set{Vacation: true, Medical: true, HomeOffice: true, Attendance: true, Holiday: true}
}

func (s Set) Has(kind Kind) bool {
	switch kind {
	case KindVacation:
		return s.Vacation
	case KindMedical:
		return s.Medical
	case KindHomeOffice:
		return s.HomeOffice
	case KindAttendance:
		return s.Attendance
	case KindHoliday:
		return s.Holiday
	default:
		return false
	}
}

func (s Set) Names() []string {
	names := make([]string, 0, 5)
	for _, kind := range Kinds() {
		if s.Has(kind) {
			names = append(names, string(kind))
		}
	}
	return names
}

// ParseSet accepts source names case-insensitively; "medical" and "homeoffice"
// are accepted as aliases.
func ParseSet(names []string) (Set, error) {
	var set Set
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		name = strings.ReplaceAll(name, "-", "_")
		switch name {
		case "vacation":
			set.Vacation = true
		case "medical_leave", "medical":
			set.Medical = true
		case "home_office", "homeoffice":
			set.HomeOffice = true
		case "attendance":
			set.Attendance = true
		case "holiday", "holidays":
			set.Holiday = true
		default:
			return Set{}, fmt.Errorf("unsupported source %q (valid: vacation, medical_leave, home_office, attendance, holiday)", raw)
		}
	}
	return set, nil
}
