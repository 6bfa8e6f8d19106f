package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CSVReader reads delimited exports. UTF-16 files with a BOM are decoded to
// UTF-8. When Comma is zero the delimiter is sniffed from the header line.
type CSVReader struct {
	Comma rune
}

func (r *CSVReader) Read(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file %s: %w", path, err)
	}
	defer file.Close()

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	buffered := bufio.NewReader(transform.NewReader(file, decoder))

	comma := r.Comma
	if comma == 0 {
		head, _ := buffered.Peek(4096)
		comma = sniffDelimiter(head)
	}

	reader := csv.NewReader(buffered)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	normalizedHeaders := normalizeHeaders(headers)

	records := make([]Record, 0, 128)
	rowNumber := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", rowNumber+1, err)
		}
		rowNumber++

		record := recordFromRow(rowNumber, normalizedHeaders, row)
		if record.IsBlank() {
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

// sniffDelimiter picks the most frequent of ';', '\t' and ',' in the first
// line, defaulting to ','.
func sniffDelimiter(head []byte) rune {
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}
	best, bestCount := ',', bytes.Count(head, []byte{','})
	for _, candidate := range []rune{';', '\t'} {
		if count := bytes.Count(head, []byte(string(candidate))); count > bestCount {
			best, bestCount = candidate, count
		}
	}
	return best
}
