package output

import (
	"encoding/csv"
	"fmt"
	"os"
)

func writeDailySummariesCSV(path string, summaries []DailySummary) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers, rows := dailySummaryTable(summaries)
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}

	return nil
}
