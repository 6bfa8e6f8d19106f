package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

func writeDailySummariesExcel(path string, summaries []DailySummary) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName(file.GetSheetName(0), dailySheet); err != nil {
		return fmt.Errorf("rename excel sheet: %w", err)
	}

	headers, rows := dailySummaryTable(summaries)
	if err := writeSheetRows(file, dailySheet, headers, rows); err != nil {
		return err
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}
