package export

import (
	"context"
	"encoding/csv"
	"io"
)

// delimitedWriter writes CSV and tab-separated text.
type delimitedWriter struct {
	comma       rune
	contentType string
	ext         string
}

func (d delimitedWriter) ContentType() string { return d.contentType }
func (d delimitedWriter) Extension() string   { return d.ext }

func (d delimitedWriter) Write(_ context.Context, w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	cw.Comma = d.comma

	if err := cw.Write(t.Headers); err != nil {
		return err
	}
	record := make([]string, len(t.Headers))
	for _, row := range t.Rows {
		for i, v := range row {
			record[i] = stringCell(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	if t.Summary != nil {
		if err := cw.Write(t.Summary); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
