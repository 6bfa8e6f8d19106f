// Package reconcile merges normalized sources into one status per employee
// and day. It performs no I/O.
package reconcile

import (
	"gopresence/calendar"
	"gopresence/holiday"
	"gopresence/internal/classify"
	"gopresence/schedule"
	"gopresence/source"
)

// Options parameterizes a matrix build. Today decides which past weekdays
// without signals count as absences. A zero Include selects every source.
type Options struct {
	Today    calendar.Day
	Holidays holiday.Func
	Include  source.Set
}

func (o Options) include() source.Set {
	if o.Include == (source.Set{}) {
		return source.AllSources()
	}
	return o.Include
}

// Matrix is the monthly result. Rows are keyed by canonical employee key,
// then by day key.
type Matrix struct {
	Month     calendar.Month
	Days      []calendar.Day
	Employees []source.Employee
	Rows      map[string]map[string]DayStatus

	byKey map[string]int
}

// Status returns the cell for an employee key and day key, NoData when absent.
func (m Matrix) Status(employeeKey, dayKey string) DayStatus {
	if status, ok := m.Rows[employeeKey][dayKey]; ok {
		return status
	}
	return NoData()
}

func (m Matrix) Summary(employeeKey string) Summary {
	var summary Summary
	for _, day := range m.Days {
		summary.add(m.Status(employeeKey, day.Key()))
	}
	return summary
}

// Employee looks up a matrix employee by its canonical key.
func (m Matrix) Employee(key string) (source.Employee, bool) {
	if m.byKey != nil {
		if i, ok := m.byKey[key]; ok {
			return m.Employees[i], true
		}
		return source.Employee{}, false
	}
	for _, employee := range m.Employees {
		if employee.Key() == key {
			return employee, true
		}
	}
	return source.Employee{}, false
}

// BuildMatrix classifies every (employee, day) pair. Precedence, first match
// wins: vacation, medical leave, home office, attendance, holiday, absence
// (weekday before today), no data.
func BuildMatrix(employees []source.Employee, days []calendar.Day, sources source.Sources, registry *schedule.Registry, opts Options) Matrix {
	matrix := Matrix{
		Days:      append([]calendar.Day(nil), days...),
		Employees: make([]source.Employee, 0, len(employees)),
		Rows:      make(map[string]map[string]DayStatus, len(employees)),
		byKey:     make(map[string]int, len(employees)),
	}
	if len(days) > 0 {
		matrix.Month = days[0].MonthOf()
	}

	include := opts.include()
	holidays := opts.Holidays
	if holidays == nil || !include.Holiday {
		holidays = holiday.None
	}

	for _, employee := range employees {
		key := employee.Key()
		if key == "" {
			continue
		}
		if _, dup := matrix.Rows[key]; dup {
			continue
		}
		matrix.byKey[key] = len(matrix.Employees)
		matrix.Employees = append(matrix.Employees, employee)

		var profile schedule.Profile
		hasProfile := registry != nil
		if hasProfile {
			profile = registry.Resolve(key)
		}

		row := make(map[string]DayStatus, len(days))
		for _, day := range days {
			row[day.Key()] = classifyDay(key, day, sources, include, holidays, profile, hasProfile, opts.Today)
		}
		matrix.Rows[key] = row
	}
	return matrix
}

// BuildMonthlyMatrix builds the matrix for every day of ref's month.
func BuildMonthlyMatrix(ref calendar.Day, employees []source.Employee, sources source.Sources, registry *schedule.Registry, opts Options) Matrix {
	matrix := BuildMatrix(employees, calendar.MonthDays(ref), sources, registry, opts)
	matrix.Month = ref.MonthOf()
	return matrix
}

func classifyDay(key string, day calendar.Day, sources source.Sources, include source.Set, holidays holiday.Func, profile schedule.Profile, hasProfile bool, today calendar.Day) DayStatus {
	dayKey := day.Key()

	if include.Vacation && sources.Vacation[key].Has(dayKey) {
		return Vacation()
	}
	if include.Medical && sources.Medical[key].Has(dayKey) {
		return MedicalLeave()
	}
	if include.HomeOffice {
		if fact, ok := sources.HomeOffice[key][dayKey]; ok {
			return HomeOffice(fact.Entry, fact.Exit)
		}
	}
	if include.Attendance {
		if fact, ok := sources.Attendance[key][dayKey]; ok {
			exit := ""
			if fact.HasExit {
				exit = fact.Exit.String()
			}
			late, lateMinutes := false, 0
			if hasProfile {
				late = classify.IsLate(fact.Entry, profile)
				lateMinutes = classify.LateMinutes(fact.Entry, profile)
			}
			return Attendance(fact.Entry.String(), exit, late, lateMinutes)
		}
	}
	if name, ok := holidays(dayKey); ok {
		return Holiday(name)
	}
	if !day.IsWeekend() && !today.IsZero() && day.Before(today) {
		return Absence()
	}
	return NoData()
}
