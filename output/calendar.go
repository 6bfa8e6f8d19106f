package output

import (
	"encoding/json"
	"fmt"
	"os"

	"gopresence/reconcile"
)

// CalendarView is the JSON shape consumed by calendar renderers. Cells are
// addressable by day key.
type CalendarView struct {
	Month     string             `json:"month"`
	Days      []CalendarDay      `json:"days"`
	Employees []CalendarEmployee `json:"employees"`
	Daily     []DailySummary     `json:"daily"`
}

type CalendarDay struct {
	Key     string `json:"key"`
	Weekday string `json:"weekday"`
	Weekend bool   `json:"weekend"`
}

type CalendarEmployee struct {
	Key     string                         `json:"key"`
	Name    string                         `json:"name"`
	Area    string                         `json:"area,omitempty"`
	Days    map[string]reconcile.DayStatus `json:"days"`
	Summary reconcile.Summary              `json:"summary"`
}

func Calendar(matrix reconcile.Matrix) CalendarView {
	view := CalendarView{
		Month:     matrix.Month.Key(),
		Days:      make([]CalendarDay, 0, len(matrix.Days)),
		Employees: make([]CalendarEmployee, 0, len(matrix.Employees)),
		Daily:     BuildDailySummaries(matrix),
	}
	for _, day := range matrix.Days {
		view.Days = append(view.Days, CalendarDay{
			Key:     day.Key(),
			Weekday: day.Weekday().String(),
			Weekend: day.IsWeekend(),
		})
	}
	for _, employee := range matrix.Employees {
		view.Employees = append(view.Employees, calendarEmployee(matrix, employee.Key()))
	}
	return view
}

// CalendarFor returns the view of a single employee, false when the key is
// not part of the matrix.
func CalendarFor(matrix reconcile.Matrix, employeeKey string) (CalendarEmployee, bool) {
	if _, ok := matrix.Employee(employeeKey); !ok {
		return CalendarEmployee{}, false
	}
	return calendarEmployee(matrix, employeeKey), true
}

func calendarEmployee(matrix reconcile.Matrix, key string) CalendarEmployee {
	employee, _ := matrix.Employee(key)
	days := make(map[string]reconcile.DayStatus, len(matrix.Days))
	for _, day := range matrix.Days {
		days[day.Key()] = matrix.Status(key, day.Key())
	}
	return CalendarEmployee{
		Key:     key,
		Name:    employee.Name(),
		Area:    employee.Area,
		Days:    days,
		Summary: matrix.Summary(key),
	}
}

type JSONWriter struct{}

func (w *JSONWriter) Write(path string, matrix reconcile.Matrix) error {
	return writeJSON(path, Calendar(matrix))
}

func writeJSON(path string, value any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create json output %s: %w", path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("encode json output %s: %w", path, err)
	}
	return nil
}
