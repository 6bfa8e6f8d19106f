package importer

import (
	"fmt"
	"path/filepath"
	"strings"
)

type Result struct {
	FilesProcessed int
	RowsRead       int
	RowsMapped     int
	RowsSkipped    int
	Batch          Batch
}

// Run reads every path with the reader for format (inferred from the
// extension when empty) and maps the rows into one batch.
func Run(paths []string, format string, mapper Mapper) (*Result, error) {
	result := &Result{}
	for _, path := range paths {
		sourceFormat, err := inferFormat(path, format)
		if err != nil {
			return nil, err
		}
		reader, err := ReaderForFormat(sourceFormat)
		if err != nil {
			return nil, err
		}

		records, err := reader.Read(path)
		if err != nil {
			return nil, err
		}

		result.FilesProcessed++
		result.RowsRead += len(records)
		for _, record := range records {
			ok, mapErr := mapper.Map(record, &result.Batch)
			if mapErr != nil {
				return nil, fmt.Errorf("%s %s: %w", mapper.Name(), path, mapErr)
			}
			if !ok {
				result.RowsSkipped++
				continue
			}
			result.RowsMapped++
		}
	}

	return result, nil
}

func inferFormat(path string, format string) (string, error) {
	if strings.TrimSpace(format) != "" {
		return format, nil
	}

	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch extension {
	case "csv":
		return "csv", nil
	case "tsv", "txt":
		return "tsv", nil
	case "xlsx", "xlsm", "xls":
		return "excel", nil
	default:
		return "", fmt.Errorf("unsupported file extension for %s", path)
	}
}
