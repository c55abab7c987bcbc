package export

import (
	"context"
	"encoding/json"
	"io"
)

type jsonWriter struct{}

func (jsonWriter) ContentType() string { return "application/json" }
func (jsonWriter) Extension() string   { return "json" }

// jsonDocument is the wire shape of a JSON export: one object per row keyed
// by column header.
type jsonDocument struct {
	Title   string            `json:"title"`
	Headers []string          `json:"headers"`
	Rows    []map[string]any  `json:"rows"`
	Summary map[string]string `json:"summary,omitempty"`
}

func (jsonWriter) Write(_ context.Context, w io.Writer, t *Table) error {
	doc := jsonDocument{
		Title:   t.Title,
		Headers: t.Headers,
		Rows:    make([]map[string]any, len(t.Rows)),
	}
	for i, r := range t.Rows {
		obj := make(map[string]any, len(t.Headers))
		for j, v := range r {
			obj[t.Headers[j]] = v
		}
		doc.Rows[i] = obj
	}
	if t.Summary != nil {
		doc.Summary = make(map[string]string)
		for i, s := range t.Summary {
			if s != "" {
				doc.Summary[t.Headers[i]] = s
			}
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
