package reconcile

import (
	"testing"
	"time"

	"gopresence/calendar"
	"gopresence/holiday"
	"gopresence/internal/timeutil"
	"gopresence/schedule"
	"gopresence/source"
)

var (
	james = source.Employee{Identity: "James Izquierdo", NumericID: "1001"}
	ana   = source.Employee{Identity: "Ana Ruiz", NumericID: "1002"}
)

func testRegistry(t *testing.T) *schedule.Registry {
	t.Helper()

	registry, err := schedule.NewRegistry([]schedule.Group{
		{
			Name:    "early",
			Profile: schedule.Profile{Entry: timeutil.NewClock(6, 0), ToleranceMinutes: 10},
			Members: []string{"JAMES IZQUIERDO"},
		},
		{
			Name:     "default",
			Profile:  schedule.Profile{Entry: timeutil.NewClock(9, 0)},
			Fallback: true,
		},
	})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	return registry
}

func attendance(entries map[string]map[string]string) map[string]map[string]source.AttendanceFact {
	out := make(map[string]map[string]source.AttendanceFact, len(entries))
	for key, days := range entries {
		out[key] = make(map[string]source.AttendanceFact, len(days))
		for day, raw := range days {
			clock, err := timeutil.ParseClock(raw)
			if err != nil {
				panic(err)
			}
			out[key][day] = source.AttendanceFact{Entry: clock, RawEntry: raw}
		}
	}
	return out
}

func daySet(keys ...string) calendar.DaySet {
	set := make(calendar.DaySet, len(keys))
	for _, key := range keys {
		set.Add(key)
	}
	return set
}

func january() calendar.Day { return calendar.NewDay(2026, time.January, 1) }

func TestBuildMatrix_EarlyGroupLateScenario(t *testing.T) {
	t.Parallel()

	sources := source.Sources{
		Attendance: attendance(map[string]map[string]string{
			"JAMES IZQUIERDO": {"2026-01-05": "06:11", "2026-01-06": "06:10"},
		}),
	}
	matrix := BuildMonthlyMatrix(january(), []source.Employee{james}, sources, testRegistry(t), Options{
		Today: calendar.NewDay(2026, time.February, 1),
	})

	got := matrix.Status("JAMES IZQUIERDO", "2026-01-05")
	if got.Kind != KindAttendance || got.Entry != "06:11" || !got.Late || got.LateMinutes != 11 {
		t.Fatalf("unexpected status for 06:11: %+v", got)
	}
	if onTime := matrix.Status("JAMES IZQUIERDO", "2026-01-06"); onTime.Late {
		t.Fatalf("06:10 is on the tolerance boundary and must be on time: %+v", onTime)
	}
}

func TestBuildMatrix_FallbackProfile(t *testing.T) {
	t.Parallel()

	sources := source.Sources{
		Attendance: attendance(map[string]map[string]string{
			"ANA RUIZ": {"2026-01-05": "08:09", "2026-01-06": "09:05", "2026-01-07": "09:00"},
		}),
	}
	matrix := BuildMonthlyMatrix(january(), []source.Employee{ana}, sources, testRegistry(t), Options{})

	cases := map[string]bool{"2026-01-05": false, "2026-01-06": true, "2026-01-07": false}
	for day, wantLate := range cases {
		got := matrix.Status("ANA RUIZ", day)
		if got.Kind != KindAttendance {
			t.Fatalf("%s: expected attendance, got %s", day, got.Kind)
		}
		if got.Late != wantLate {
			t.Fatalf("%s: expected late=%v, got %+v", day, wantLate, got)
		}
	}
}

func TestBuildMatrix_Precedence(t *testing.T) {
	t.Parallel()

	holidays := func(dayKey string) (string, bool) {
		switch dayKey {
		case "2026-01-01", "2026-01-15", "2026-01-16":
			return "Holiday " + dayKey, true
		}
		return "", false
	}

	sources := source.Sources{
		Vacation: map[string]calendar.DaySet{
			"JAMES IZQUIERDO": daySet("2026-01-12", "2026-01-13", "2026-01-15"),
		},
		Medical: map[string]calendar.DaySet{
			"JAMES IZQUIERDO": daySet("2026-01-13", "2026-01-14"),
		},
		HomeOffice: map[string]map[string]source.HomeOfficeFact{
			"JAMES IZQUIERDO": {
				"2026-01-14": {Entry: "08:00"},
				"2026-01-19": {Entry: "07:55", Exit: "16:00"},
			},
		},
		Attendance: attendance(map[string]map[string]string{
			"JAMES IZQUIERDO": {"2026-01-12": "06:00", "2026-01-16": "06:30", "2026-01-19": "06:05"},
		}),
	}

	matrix := BuildMonthlyMatrix(january(), []source.Employee{james}, sources, testRegistry(t), Options{
		Today:    calendar.NewDay(2026, time.January, 21),
		Holidays: holidays,
	})

	want := map[string]Kind{
		"2026-01-12": KindVacation,     // vacation beats attendance
		"2026-01-13": KindVacation,     // vacation beats medical leave
		"2026-01-14": KindMedicalLeave, // medical beats home office
		"2026-01-15": KindVacation,     // vacation beats holiday
		"2026-01-16": KindAttendance,   // attendance beats holiday
		"2026-01-19": KindHomeOffice,   // home office beats attendance
		"2026-01-01": KindHoliday,
		"2026-01-02": KindAbsence,
		"2026-01-03": KindNoData, // Saturday
		"2026-01-21": KindNoData, // today
		"2026-01-22": KindNoData, // future
		"2026-01-31": KindNoData,
	}
	for day, kind := range want {
		if got := matrix.Status("JAMES IZQUIERDO", day); got.Kind != kind {
			t.Fatalf("%s: expected %s, got %+v", day, kind, got)
		}
	}

	if got := matrix.Status("JAMES IZQUIERDO", "2026-01-19"); got.Entry != "07:55" || got.Exit != "16:00" {
		t.Fatalf("home office times not carried: %+v", got)
	}
	if got := matrix.Status("JAMES IZQUIERDO", "2026-01-01"); got.HolidayName != "Holiday 2026-01-01" {
		t.Fatalf("holiday name not carried: %+v", got)
	}
}

func TestBuildMatrix_FutureAndWeekendNeverAbsence(t *testing.T) {
	t.Parallel()

	today := calendar.NewDay(2026, time.January, 15)
	matrix := BuildMonthlyMatrix(january(), []source.Employee{james, ana}, source.Sources{}, testRegistry(t), Options{Today: today})

	for _, employee := range matrix.Employees {
		for _, day := range matrix.Days {
			got := matrix.Status(employee.Key(), day.Key())
			if !day.Before(today) && got.Kind == KindAbsence {
				t.Fatalf("%s on %s: future day classified as absence", employee.Key(), day.Key())
			}
			if day.IsWeekend() && got.Kind != KindNoData {
				t.Fatalf("%s on %s: weekend without signals must be no data, got %s", employee.Key(), day.Key(), got.Kind)
			}
		}
	}

	summary := matrix.Summary("ANA RUIZ")
	// 2026-01-01..14 holds 10 weekdays.
	if summary.Absence != 10 {
		t.Fatalf("expected 10 absences, got %+v", summary)
	}
	if summary.Absence+summary.NoData != 31 {
		t.Fatalf("summary does not cover the month: %+v", summary)
	}
}

func TestBuildMatrix_IncludeRestrictsSources(t *testing.T) {
	t.Parallel()

	sources := source.Sources{
		Vacation: map[string]calendar.DaySet{"ANA RUIZ": daySet("2026-01-05")},
		Attendance: attendance(map[string]map[string]string{
			"ANA RUIZ": {"2026-01-05": "08:00"},
		}),
	}
	holidays := holiday.Func(func(dayKey string) (string, bool) { return "Feriado", dayKey == "2026-01-06" })

	matrix := BuildMonthlyMatrix(january(), []source.Employee{ana}, sources, testRegistry(t), Options{
		Today:    calendar.NewDay(2026, time.February, 1),
		Holidays: holidays,
		Include:  source.Set{Attendance: true},
	})

	if got := matrix.Status("ANA RUIZ", "2026-01-05"); got.Kind != KindAttendance {
		t.Fatalf("vacation excluded from view, expected attendance, got %s", got.Kind)
	}
	if got := matrix.Status("ANA RUIZ", "2026-01-06"); got.Kind != KindAbsence {
		t.Fatalf("holidays excluded from view, expected absence, got %s", got.Kind)
	}
}

func TestBuildMatrix_IsDeterministicAndDeduplicatesEmployees(t *testing.T) {
	t.Parallel()

	sources := source.Sources{
		Attendance: attendance(map[string]map[string]string{"ANA RUIZ": {"2026-01-08": "09:30"}}),
	}
	employees := []source.Employee{ana, {Identity: " ana  ruiz "}, {}}
	opts := Options{Today: calendar.NewDay(2026, time.January, 20)}

	first := BuildMonthlyMatrix(january(), employees, sources, testRegistry(t), opts)
	second := BuildMonthlyMatrix(january(), employees, sources, testRegistry(t), opts)

	if len(first.Employees) != 1 {
		t.Fatalf("expected 1 employee, got %d", len(first.Employees))
	}
	if first.Month.Key() != "2026-01" || len(first.Days) != 31 {
		t.Fatalf("unexpected month shape: %s with %d days", first.Month.Key(), len(first.Days))
	}
	for _, day := range first.Days {
		if first.Status("ANA RUIZ", day.Key()) != second.Status("ANA RUIZ", day.Key()) {
			t.Fatalf("%s differs between runs", day.Key())
		}
	}
	if _, ok := first.Employee("ANA RUIZ"); !ok {
		t.Fatalf("expected employee lookup by key")
	}
	if got := first.Status("NOBODY", "2026-01-08"); got.Kind != KindNoData {
		t.Fatalf("unknown employee must read as no data, got %s", got.Kind)
	}
}

func TestMatrix_EmployeeLookup(t *testing.T) {
	t.Parallel()

	employees := []source.Employee{
		{Identity: "Ana Ruiz", NumericID: "1002"},
		{Identity: "James Izquierdo", NumericID: "1001"},
		{Identity: "ANA  RUIZ", NumericID: "2002"},
	}
	matrix := BuildMonthlyMatrix(january(), employees, source.Sources{}, nil, Options{})

	james, ok := matrix.Employee("JAMES IZQUIERDO")
	if !ok || james.NumericID != "1001" {
		t.Fatalf("expected James by key, got %+v (ok=%v)", james, ok)
	}
	ana, ok := matrix.Employee("ANA RUIZ")
	if !ok || ana.NumericID != "1002" {
		t.Fatalf("expected the first Ana row to win, got %+v", ana)
	}
	if _, ok := matrix.Employee("NOBODY"); ok {
		t.Fatalf("expected unknown key to be missing")
	}

	literal := Matrix{Employees: employees[:2]}
	if _, ok := literal.Employee("JAMES IZQUIERDO"); !ok {
		t.Fatalf("expected lookup on a matrix built without the index")
	}
}

func TestBuildMatrix_WithoutRegistryNeverLate(t *testing.T) {
	t.Parallel()

	sources := source.Sources{
		Attendance: attendance(map[string]map[string]string{"ANA RUIZ": {"2026-01-08": "23:30"}}),
	}
	matrix := BuildMonthlyMatrix(january(), []source.Employee{ana}, sources, nil, Options{})

	if got := matrix.Status("ANA RUIZ", "2026-01-08"); got.Kind != KindAttendance || got.Late {
		t.Fatalf("unexpected status: %+v", got)
	}
}
