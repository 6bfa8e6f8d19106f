package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"gopresence/reconcile"
)

const (
	matrixSheet = "Matrix"
	dailySheet  = "Daily"
)

// kindFills colors day cells by status in the Excel export.
var kindFills = map[reconcile.Kind]string{
	reconcile.KindVacation:     "#BDD7EE",
	reconcile.KindMedicalLeave: "#F8CBAD",
	reconcile.KindHomeOffice:   "#C6E0B4",
	reconcile.KindHoliday:      "#D9D9D9",
	reconcile.KindAbsence:      "#FF9999",
}

const lateFill = "#FFE699"

type ExcelWriter struct {
	Options TableOptions
}

func (w *ExcelWriter) Write(path string, matrix reconcile.Matrix) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName(file.GetSheetName(0), matrixSheet); err != nil {
		return fmt.Errorf("rename excel sheet: %w", err)
	}

	headers, rows := Table(matrix, w.Options)
	if err := writeSheetRows(file, matrixSheet, headers, rows); err != nil {
		return err
	}

	styles, err := newKindStyles(file)
	if err != nil {
		return err
	}
	for i, employee := range matrix.Employees {
		key := employee.Key()
		for j, day := range matrix.Days {
			status := matrix.Status(key, day.Key())
			style, ok := styles[status.Kind]
			if status.Late {
				style, ok = styles[lateKind], true
			}
			if !ok {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(j+3, i+2)
			if err := file.SetCellStyle(matrixSheet, cell, cell, style); err != nil {
				return fmt.Errorf("set excel style %s: %w", cell, err)
			}
		}
	}

	if err := file.SetPanes(matrixSheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      2,
		YSplit:      1,
		TopLeftCell: "C2",
		ActivePane:  "bottomRight",
	}); err != nil {
		return fmt.Errorf("freeze excel panes: %w", err)
	}

	if _, err := file.NewSheet(dailySheet); err != nil {
		return fmt.Errorf("create excel sheet %s: %w", dailySheet, err)
	}
	dailyHeaders, dailyRows := dailySummaryTable(BuildDailySummaries(matrix))
	if err := writeSheetRows(file, dailySheet, dailyHeaders, dailyRows); err != nil {
		return err
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}

const lateKind reconcile.Kind = "late"

func newKindStyles(file *excelize.File) (map[reconcile.Kind]int, error) {
	fills := make(map[reconcile.Kind]string, len(kindFills)+1)
	for kind, color := range kindFills {
		fills[kind] = color
	}
	fills[lateKind] = lateFill

	styles := make(map[reconcile.Kind]int, len(fills))
	for kind, color := range fills {
		style, err := file.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		})
		if err != nil {
			return nil, fmt.Errorf("create excel style for %s: %w", kind, err)
		}
		styles[kind] = style
	}
	return styles, nil
}

func writeSheetRows(file *excelize.File, sheet string, headers []string, rows [][]string) error {
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("set excel header %s: %w", cell, err)
		}
	}

	for i, values := range rows {
		row := i + 2
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set excel value %s: %w", cell, err)
			}
		}
	}

	return nil
}
