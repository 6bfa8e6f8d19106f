package output

import (
	"strconv"

	"gopresence/reconcile"
)

// TableOptions controls how cells are rendered in flat exports.
type TableOptions struct {
	// Times prints the entry time instead of the attendance code.
	Times bool
}

var summaryHeaders = []string{"Attendance", "Late", "LateMinutes", "Vacation", "MedicalLeave", "HomeOffice", "Holiday", "Absence"}

// CellCode renders one status: A (A* when late), V, M, HO, H, F, or empty.
func CellCode(status reconcile.DayStatus, opts TableOptions) string {
	switch status.Kind {
	case reconcile.KindAttendance:
		code := "A"
		if opts.Times && status.Entry != "" {
			code = status.Entry
		}
		if status.Late {
			code += "*"
		}
		return code
	case reconcile.KindVacation:
		return "V"
	case reconcile.KindMedicalLeave:
		return "M"
	case reconcile.KindHomeOffice:
		if opts.Times && status.Entry != "" {
			return "HO " + status.Entry
		}
		return "HO"
	case reconcile.KindHoliday:
		return "H"
	case reconcile.KindAbsence:
		return "F"
	default:
		return ""
	}
}

// Table flattens the matrix into a header and one row per employee: name,
// area, one column per day, then the summary counters.
func Table(matrix reconcile.Matrix, opts TableOptions) ([]string, [][]string) {
	headers := make([]string, 0, 2+len(matrix.Days)+len(summaryHeaders))
	headers = append(headers, "Employee", "Area")
	for _, day := range matrix.Days {
		headers = append(headers, day.Key())
	}
	headers = append(headers, summaryHeaders...)

	rows := make([][]string, 0, len(matrix.Employees))
	for _, employee := range matrix.Employees {
		key := employee.Key()
		row := make([]string, 0, len(headers))
		row = append(row, employee.Name(), employee.Area)
		for _, day := range matrix.Days {
			row = append(row, CellCode(matrix.Status(key, day.Key()), opts))
		}
		row = append(row, summaryCells(matrix.Summary(key))...)
		rows = append(rows, row)
	}
	return headers, rows
}

func summaryCells(summary reconcile.Summary) []string {
	return []string{
		strconv.Itoa(summary.Attendance),
		strconv.Itoa(summary.Late),
		strconv.Itoa(summary.LateMinutes),
		strconv.Itoa(summary.Vacation),
		strconv.Itoa(summary.MedicalLeave),
		strconv.Itoa(summary.HomeOffice),
		strconv.Itoa(summary.Holiday),
		strconv.Itoa(summary.Absence),
	}
}
