// Package export renders the current filtered record set as a CSV download.
// The transform is pure and local: no pagination, no network.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"
)

// utf8BOM makes spreadsheet applications decode the file as UTF-8; the
// console's labels are Korean and break without it.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Column maps one header label to its value accessor.
type Column[T any] struct {
	Label string
	Value func(T) string
}

// CSV renders records under the fixed column mapping. Values containing a
// comma (or quote, or newline) are double-quoted per RFC 4180.
func CSV[T any](columns []Column[T], records []T) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)

	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.Label
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("export: write header: %w", err)
	}

	row := make([]string, len(columns))
	for _, rec := range records {
		for i, col := range columns {
			row[i] = col.Value(rec)
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("export: write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("export: flush: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename builds the download name for an entity label on a given day,
// e.g. "하드웨어_2025-06-02.csv".
func Filename(entityLabel string, day time.Time) string {
	return fmt.Sprintf("%s_%s.csv", entityLabel, day.Format("2006-01-02"))
}
