// Package csvio implements the CSV dialect the scheduling board exchanges with
// spreadsheet software: UTF-8 with a leading BOM on export, every field
// double-quote wrapped, and a forgiving reader for whatever comes back.
package csvio

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

const bom = "\uFEFF"

// Row is one data line keyed by the (trimmed) header names.
type Row map[string]string

// Parse reads a header line plus zero or more data lines. Values are trimmed
// of surrounding whitespace; rows shorter than the header get empty strings
// for the missing columns. An empty or header-only input yields an empty
// result, not an error.
func Parse(text string) ([]Row, error) {
	text = strings.TrimPrefix(text, bom)
	if strings.TrimSpace(text) == "" {
		return []Row{}, nil
	}

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []Row{}, nil
		}
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := make([]Row, 0)
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(Row, len(header))
		for i, key := range header {
			value := ""
			if i < len(record) {
				value = strings.TrimSpace(record[i])
			}
			row[key] = value
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Export renders a BOM-prefixed CSV document. Every field is quote-wrapped
// with embedded quotes doubled, so any value containing commas or quotes
// round-trips through Parse. Embedded newlines are not supported.
func Export(headers []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString(bom)
	b.WriteString(strings.Join(headers, ","))
	b.WriteByte('\n')

	for _, row := range rows {
		for i, field := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(field, `"`, `""`))
			b.WriteByte('"')
		}
		b.WriteByte('\n')
	}
	return b.String()
}
