// Package export turns a page of grid rows into a downloadable table.
//
// Columns are filtered through the same visibility policy the live grid
// uses, evaluated in an export context for the requested format. The page
// summary is included whenever the checkbox column computes one, even if the
// live grid hides it.
package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/checkgrid/internal/grid"
	"github.com/JonMunkholm/checkgrid/internal/store"
)

// Table is the format-independent export of one page.
type Table struct {
	Title   string
	Format  grid.ExportFormat
	Headers []string
	Rows    [][]any
	Summary []string // Nil when no summary row is exported
}

// Build evaluates column visibility for format and collects the page into a
// Table. Row models handed to the checkbox column are the store.Record of
// each row.
func Build(ctx context.Context, def grid.Definition, page *store.Page, format grid.ExportFormat) (*Table, error) {
	col := &def.Checkbox
	rc := grid.RenderContext{Export: true, Format: format}

	checkboxVisible, err := grid.IsVisible(col, rc)
	if err != nil {
		return nil, err
	}

	var data []grid.DataColumn
	var errs []error
	for _, c := range def.Columns {
		ok, err := c.IsVisible(rc)
		if err != nil {
			errs = append(errs, fmt.Errorf("column %s: %w", c.Attribute, err))
			continue
		}
		if ok {
			data = append(data, c)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	t := &Table{Title: title(def), Format: format}
	if checkboxVisible {
		t.Headers = append(t.Headers, col.ID)
	}
	for _, c := range data {
		t.Headers = append(t.Headers, c.Header())
	}

	state := grid.NewPageSummaryState()
	for i, r := range page.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cell := grid.ExportContext(format, r.Values, r.Key, i)
		grid.Accumulate(col, state, cell)

		row := make([]any, 0, len(t.Headers))
		if checkboxVisible {
			checked, err := grid.IsChecked(col, cell)
			if err != nil {
				return nil, err
			}
			row = append(row, checkedValue(checked))
		}
		for _, c := range data {
			row = append(row, cellValue(r.Values[c.Attribute]))
		}
		t.Rows = append(t.Rows, row)
	}

	if checkboxVisible {
		if v, ok := grid.SummaryValue(col, state); ok {
			t.Summary = make([]string, len(t.Headers))
			t.Summary[0] = v
		}
	}
	return t, nil
}

func title(def grid.Definition) string {
	if def.Label != "" {
		return def.Label
	}
	return def.ID
}

func checkedValue(checked bool) string {
	if checked {
		return "1"
	}
	return "0"
}

// cellValue normalizes a store value for the writers. Numbers and strings
// pass through so spreadsheet cells keep their type.
func cellValue(v any) any {
	switch x := v.(type) {
	case nil:
		return ""
	case string, bool, int, int32, int64, float32, float64:
		return x
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// stringCell formats a table cell for text formats.
func stringCell(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
