package output

import (
	"fmt"
	"strings"

	"gopresence/reconcile"
)

type MatrixWriter interface {
	Write(path string, matrix reconcile.Matrix) error
}

func MatrixWriterForFormat(format string, opts TableOptions) (MatrixWriter, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{Options: opts}, nil
	case "excel", "xlsx":
		return &ExcelWriter{Options: opts}, nil
	case "json":
		return &JSONWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// ExtensionForFormat returns the file extension used for default output paths.
func ExtensionForFormat(format string) string {
	switch normalizeFormat(format) {
	case "excel", "xlsx":
		return ".xlsx"
	case "json":
		return ".json"
	default:
		return ".csv"
	}
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}
