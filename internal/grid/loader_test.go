package grid

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

const sampleDefinitions = `
grids:
  - id: orders
    label: Orders
    source: {table: orders, key: id}
    page_size: 25
    columns:
      - {attribute: customer, label: Customer}
      - {attribute: amount, label: Amount, hidden_from_export: [pdf]}
    checkbox:
      hidden_from_export: [csv, excel]
      row_selected_class: warning
      page_summary: true
      page_summary_func: count
  - id: invoices
    source: {table: invoices, key: invoice_id}
    checkbox:
      hidden: true
      hidden_from_export: false
      page_summary: "Total"
      hide_page_summary: true
`

func TestParseDefinitions(t *testing.T) {
	defs, err := ParseDefinitions([]byte(sampleDefinitions))
	if err != nil {
		t.Fatalf("ParseDefinitions() error = %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("len(defs) = %d, want 2", len(defs))
	}

	orders := defs[0]
	if orders.PageSize != 25 {
		t.Errorf("PageSize = %d, want 25", orders.PageSize)
	}
	cb := orders.Checkbox
	if !slices.Equal(cb.HiddenFromExport.Formats, []ExportFormat{FormatCSV, FormatExcel}) {
		t.Errorf("HiddenFromExport = %v, want [csv xls]", cb.HiddenFromExport)
	}
	if cb.RowSelectedClass != "warning" {
		t.Errorf("RowSelectedClass = %q, want warning", cb.RowSelectedClass)
	}
	if cb.PageSummary.Mode != SummaryComputed || cb.PageSummaryFunc != SummaryCount {
		t.Errorf("PageSummary = %+v func %q, want computed count", cb.PageSummary, cb.PageSummaryFunc)
	}

	// Unspecified settings keep their defaults.
	if cb.Width != "50px" || cb.HAlign != AlignCenter || !cb.RowHighlight || cb.Name != "selection[]" {
		t.Errorf("defaults lost: width=%q halign=%q highlight=%v name=%q", cb.Width, cb.HAlign, cb.RowHighlight, cb.Name)
	}
	if !orders.Columns[1].HiddenFromExport.Hides(FormatPDF) {
		t.Error("amount column should be hidden from pdf")
	}

	inv := defs[1].Checkbox
	if !inv.Hidden || inv.HiddenFromExport.All {
		t.Errorf("invoices visibility = %+v", inv.Visibility)
	}
	if inv.PageSummary != LiteralSummary("Total") || !inv.HidePageSummary {
		t.Errorf("invoices summary = %+v hide=%v", inv.PageSummary, inv.HidePageSummary)
	}
}

func TestParseDefinitions_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown export format", `
grids:
  - id: g
    source: {table: t, key: id}
    checkbox: {hidden_from_export: [docx]}
`},
		{"scalar export setting", `
grids:
  - id: g
    source: {table: t, key: id}
    checkbox: {hidden_from_export: csv}
`},
		{"bad alignment", `
grids:
  - id: g
    source: {table: t, key: id}
    checkbox: {h_align: justify}
`},
		{"bad width", `
grids:
  - id: g
    source: {table: t, key: id}
    checkbox: {width: wide}
`},
		{"missing source", `
grids:
  - id: g
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDefinitions([]byte(tt.yaml))
			if err == nil {
				t.Fatal("ParseDefinitions() error = nil, want error")
			}
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("error = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestParseDefinitions_UnknownField(t *testing.T) {
	_, err := ParseDefinitions([]byte(`
grids:
  - id: g
    source: {table: t, key: id}
    checkbox: {row_highlite: true}
`))
	if err == nil {
		t.Error("ParseDefinitions() error = nil for unknown field")
	}
}

func TestLoadFile(t *testing.T) {
	Clear()
	defer Clear()

	path := filepath.Join(t.TempDir(), "grids.yaml")
	if err := os.WriteFile(path, []byte(sampleDefinitions), 0o600); err != nil {
		t.Fatal(err)
	}

	defs, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(defs) != 2 || Count() != 2 {
		t.Errorf("loaded %d, registered %d, want 2 and 2", len(defs), Count())
	}

	if _, err := LoadFile(path); err == nil {
		t.Error("second LoadFile() error = nil, want duplicate error")
	}
}
