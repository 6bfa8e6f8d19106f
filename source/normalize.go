package source

import (
	"strings"

	"gopresence/calendar"
	"gopresence/internal/identity"
	"gopresence/internal/timeutil"
)

var (
	DefaultNotMarked        = []string{"NO MARCADO", "NOT MARKED", "--:--"}
	DefaultApprovedStatuses = []string{"approved", "aprobado", "aprobada"}
)

// Options tunes how raw values are interpreted.
type Options struct {
	// NotMarked entry values mean "no record for that day".
	NotMarked []string
	// ApprovedStatuses are compared case-insensitively. Ranges without a
	// status come from an approved-only feed and always count.
	ApprovedStatuses []string
}

func (o Options) withDefaults() Options {
	if len(o.NotMarked) == 0 {
		o.NotMarked = DefaultNotMarked
	}
	if len(o.ApprovedStatuses) == 0 {
		o.ApprovedStatuses = DefaultApprovedStatuses
	}
	return o
}

func toSet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, value := range values {
		out[identity.Canonical(value)] = struct{}{}
	}
	return out
}

// NormalizeAttendance keys clock records by canonical employee and day. When
// one day carries several records the earliest entry and the latest exit win.
func NormalizeAttendance(records []AttendanceRecord, dir *Directory, month calendar.Month, opts Options) map[string]map[string]AttendanceFact {
	opts = opts.withDefaults()
	notMarked := toSet(opts.NotMarked)
	out := make(map[string]map[string]AttendanceFact)

	for _, record := range records {
		day, err := calendar.ParseDay(record.Day)
		if err != nil || !month.Contains(day) {
			continue
		}

		rawEntry := strings.TrimSpace(record.Entry)
		if _, sentinel := notMarked[identity.Canonical(rawEntry)]; sentinel || rawEntry == "" {
			continue
		}
		entry, err := timeutil.ParseClock(rawEntry)
		if err != nil {
			continue
		}

		fact := AttendanceFact{Entry: entry, RawEntry: rawEntry}
		rawExit := strings.TrimSpace(record.Exit)
		if _, sentinel := notMarked[identity.Canonical(rawExit)]; !sentinel && rawExit != "" {
			if exit, err := timeutil.ParseClock(rawExit); err == nil {
				fact.Exit = exit
				fact.HasExit = true
				fact.RawExit = rawExit
			}
		}

		key, _ := dir.ResolveKey(record.EmployeeID)
		if key == "" {
			continue
		}
		days, ok := out[key]
		if !ok {
			days = make(map[string]AttendanceFact)
			out[key] = days
		}
		days[day.Key()] = mergeAttendance(days[day.Key()], fact)
	}
	return out
}

func mergeAttendance(current, next AttendanceFact) AttendanceFact {
	if current.RawEntry == "" {
		return next
	}
	merged := current
	if next.Entry.Minutes() < current.Entry.Minutes() {
		merged.Entry = next.Entry
		merged.RawEntry = next.RawEntry
	}
	if next.HasExit && (!current.HasExit || next.Exit.Minutes() > current.Exit.Minutes()) {
		merged.Exit = next.Exit
		merged.RawExit = next.RawExit
		merged.HasExit = true
	}
	return merged
}

// NormalizeLeave expands approved ranges into day sets per owner. resolve
// maps the leave system's employee id to a canonical key.
func NormalizeLeave(ranges []LeaveRange, resolve func(leaveEmployeeID string) string, month calendar.Month, opts Options) map[string]calendar.DaySet {
	opts = opts.withDefaults()
	approved := toSet(opts.ApprovedStatuses)
	out := make(map[string]calendar.DaySet)

	for _, leave := range ranges {
		if status := identity.Canonical(leave.Status); status != "" {
			if _, ok := approved[status]; !ok {
				continue
			}
		}

		days := calendar.ExpandRange(leave.Start, leave.End, month)
		if len(days) == 0 {
			continue
		}

		key := resolve(leave.EmployeeID)
		if key == "" {
			continue
		}
		if existing, ok := out[key]; ok {
			existing.Union(days)
			continue
		}
		out[key] = days
	}
	return out
}

// NormalizeHomeOffice keeps the last entry seen for each employee and day.
func NormalizeHomeOffice(sheets []HomeOfficeSheet, dir *Directory, month calendar.Month) map[string]map[string]HomeOfficeFact {
	out := make(map[string]map[string]HomeOfficeFact)
	for _, sheet := range sheets {
		key, _ := dir.ResolveKey(sheet.EmployeeName)
		if key == "" {
			continue
		}
		for _, entry := range sheet.Entries {
			day, err := calendar.ParseDay(entry.Day)
			if err != nil || !month.Contains(day) {
				continue
			}
			days, ok := out[key]
			if !ok {
				days = make(map[string]HomeOfficeFact)
				out[key] = days
			}
			days[day.Key()] = HomeOfficeFact{
				Entry: strings.TrimSpace(entry.Entry),
				Exit:  strings.TrimSpace(entry.Exit),
			}
		}
	}
	return out
}
