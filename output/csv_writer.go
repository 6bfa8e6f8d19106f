package output

import (
	"encoding/csv"
	"fmt"
	"os"

	"gopresence/reconcile"
)

type CSVWriter struct {
	Options TableOptions
}

func (w *CSVWriter) Write(path string, matrix reconcile.Matrix) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers, rows := Table(matrix, w.Options)
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}

	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}

	return nil
}
