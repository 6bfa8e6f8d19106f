package output

import (
	"fmt"
	"strconv"

	"gopresence/internal/timeutil"
	"gopresence/reconcile"
)

// DailySummary aggregates one matrix column across employees.
type DailySummary struct {
	Date         string `json:"date"`
	Present      int    `json:"present"`
	Late         int    `json:"late"`
	Vacation     int    `json:"vacation"`
	MedicalLeave int    `json:"medicalLeave"`
	HomeOffice   int    `json:"homeOffice"`
	Holiday      int    `json:"holiday"`
	Absent       int    `json:"absent"`
	// AverageEntry is the mean clock-in time of on-site attendance, empty
	// when nobody clocked in.
	AverageEntry string `json:"averageEntry,omitempty"`
}

func BuildDailySummaries(matrix reconcile.Matrix) []DailySummary {
	summaries := make([]DailySummary, 0, len(matrix.Days))
	for _, day := range matrix.Days {
		summaries = append(summaries, summarizeDay(matrix, day.Key()))
	}
	return summaries
}

func summarizeDay(matrix reconcile.Matrix, dayKey string) DailySummary {
	summary := DailySummary{Date: dayKey}
	entryMinutes, entries := 0, 0

	for _, employee := range matrix.Employees {
		status := matrix.Status(employee.Key(), dayKey)
		switch status.Kind {
		case reconcile.KindAttendance:
			summary.Present++
			if status.Late {
				summary.Late++
			}
			if clock, err := timeutil.ParseClock(status.Entry); err == nil {
				entryMinutes += clock.Minutes()
				entries++
			}
		case reconcile.KindHomeOffice:
			summary.Present++
			summary.HomeOffice++
		case reconcile.KindVacation:
			summary.Vacation++
		case reconcile.KindMedicalLeave:
			summary.MedicalLeave++
		case reconcile.KindHoliday:
			summary.Holiday++
		case reconcile.KindAbsence:
			summary.Absent++
		}
	}

	if entries > 0 {
		summary.AverageEntry = timeutil.NewClock(0, 0).Add(entryMinutes / entries).String()
	}
	return summary
}

var dailySummaryHeaders = []string{"Date", "Present", "Late", "Vacation", "MedicalLeave", "HomeOffice", "Holiday", "Absent", "AverageEntry"}

func dailySummaryTable(summaries []DailySummary) ([]string, [][]string) {
	rows := make([][]string, 0, len(summaries))
	for _, summary := range summaries {
		rows = append(rows, []string{
			summary.Date,
			strconv.Itoa(summary.Present),
			strconv.Itoa(summary.Late),
			strconv.Itoa(summary.Vacation),
			strconv.Itoa(summary.MedicalLeave),
			strconv.Itoa(summary.HomeOffice),
			strconv.Itoa(summary.Holiday),
			strconv.Itoa(summary.Absent),
			summary.AverageEntry,
		})
	}
	return dailySummaryHeaders, rows
}

func WriteDailySummaries(path, format string, summaries []DailySummary) error {
	switch normalizeFormat(format) {
	case "csv":
		return writeDailySummariesCSV(path, summaries)
	case "excel", "xlsx":
		return writeDailySummariesExcel(path, summaries)
	case "json":
		return writeJSON(path, summaries)
	default:
		return fmt.Errorf("unsupported output format for daily summaries: %s", format)
	}
}
