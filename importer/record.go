package importer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Record struct {
	RowNumber int
	Values    map[string]string
}

// Get returns the first non-empty value among the given header aliases.
func (r Record) Get(keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(r.Values[normalizeHeader(key)]); value != "" {
			return value
		}
	}
	return ""
}

// IsBlank reports whether every cell of the row is empty.
func (r Record) IsBlank() bool {
	for _, value := range r.Values {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeHeader lowercases, drops accents and separators so "Hora Entrada",
// "hora_entrada" and "HoraEntrada" compare equal.
func normalizeHeader(input string) string {
	trimmed := strings.TrimSpace(strings.ToLower(input))
	if folded, _, err := transform.String(stripMarks, trimmed); err == nil {
		trimmed = folded
	}
	trimmed = strings.ReplaceAll(trimmed, "_", "")
	trimmed = strings.ReplaceAll(trimmed, "-", "")
	trimmed = strings.ReplaceAll(trimmed, ".", "")
	trimmed = strings.ReplaceAll(trimmed, " ", "")
	return trimmed
}

func recordFromRow(rowNumber int, headers, row []string) Record {
	values := make(map[string]string, len(headers))
	for i, header := range headers {
		if header == "" {
			continue
		}
		if i < len(row) {
			values[header] = row[i]
		} else {
			values[header] = ""
		}
	}
	return Record{RowNumber: rowNumber, Values: values}
}

func normalizeHeaders(headers []string) []string {
	normalized := make([]string, len(headers))
	for i, header := range headers {
		normalized[i] = normalizeHeader(header)
	}
	return normalized
}
