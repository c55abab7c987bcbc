// Package grids registers the built-in demo grids and the rows backing
// them. Import it for side effects:
//
//	import _ "github.com/JonMunkholm/checkgrid/internal/grids"
package grids

import (
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/checkgrid/internal/grid"
	"github.com/JonMunkholm/checkgrid/internal/store"
)

// Demo table names.
const (
	OrdersTable    = "demo_orders"
	CustomersTable = "demo_customers"
	InvoicesTable  = "demo_invoices"
)

func init() {
	registerOrders()
	registerCustomers()
	registerInvoices()
}

// registerOrders: highlighted selection with a summed page summary,
// flagged orders pre-checked, selection exported except to xls and pdf.
func registerOrders() {
	cb := grid.DefaultCheckboxColumn()
	cb.HiddenFromExport = grid.HideFromExports(grid.FormatExcel, grid.FormatPDF)
	cb.PageSummary = grid.ComputedSummary()
	cb.PageSummaryFunc = grid.SummarySum
	cb.PageSummaryFormat = "%.2f"
	cb.PageSummaryOptions = grid.Attrs{"prepend": "&Sigma; ", "class": "kv-page-summary-amount"}
	cb.CheckboxOptions = grid.DynamicContent(func(model any, _ string, _ int, _ *grid.CheckboxColumn) (grid.Attrs, error) {
		rec, ok := model.(store.Record)
		if !ok {
			return nil, fmt.Errorf("unexpected row model %T", model)
		}
		return grid.Attrs{"checked": rec["status"] == "flagged"}, nil
	})
	cb.Value = func(model any, _ string, _ int) (float64, bool) {
		rec, _ := model.(store.Record)
		return Number(rec["amount"])
	}

	grid.Register(grid.Definition{
		ID:      "orders",
		Label:   "Orders",
		Source:  grid.Source{Table: OrdersTable, KeyColumn: "id"},
		Filters: true,
		Columns: []grid.DataColumn{
			{Attribute: "customer", Label: "Customer"},
			{Attribute: "status", Label: "Status"},
			{Attribute: "amount", Label: "Amount"},
			{Attribute: "internal_note", Label: "Note", Visibility: grid.Visibility{
				HiddenFromExport: grid.HideFromAllExports(),
			}},
		},
		Checkbox: cb,
	})
}

// registerCustomers: single select without highlighting and a literal
// summary label.
func registerCustomers() {
	cb := grid.DefaultCheckboxColumn()
	cb.RowHighlight = false
	cb.Multiple = false
	cb.HAlign = grid.AlignLeft
	cb.PageSummary = grid.LiteralSummary("Pick")
	cb.ContentOptions = grid.StaticContent(grid.Attrs{"class": "customer-select"})

	grid.Register(grid.Definition{
		ID:       "customers",
		Label:    "Customers",
		Source:   grid.Source{Table: CustomersTable, KeyColumn: "id"},
		PageSize: 5,
		Columns: []grid.DataColumn{
			{Attribute: "name", Label: "Name"},
			{Attribute: "country", Label: "Country"},
			{Attribute: "email", Label: "Email", Visibility: grid.Visibility{Hidden: true}},
		},
		Checkbox: cb,
	})
}

// registerInvoices: selection hidden on screen but exported, with a row
// count summary computed for exports only.
func registerInvoices() {
	cb := grid.DefaultCheckboxColumn()
	cb.Hidden = true
	cb.HiddenFromExport = grid.ExportVisibility{}
	cb.RowSelectedClass = "success"
	cb.PageSummary = grid.ComputedSummary()
	cb.PageSummaryFunc = grid.SummaryCount
	cb.PageSummaryFormat = "%d rows"
	cb.HidePageSummary = true

	grid.Register(grid.Definition{
		ID:     "invoices",
		Label:  "Invoices",
		Source: grid.Source{Table: InvoicesTable, KeyColumn: "number"},
		Columns: []grid.DataColumn{
			{Attribute: "customer", Label: "Customer"},
			{Attribute: "total", Label: "Total"},
			{Attribute: "paid", Label: "Paid"},
		},
		Checkbox: cb,
	})
}

// Number converts a row value into a summary contribution. Postgres
// numerics arrive as pgtype.Numeric.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	case pgtype.Numeric:
		f, err := n.Float64Value()
		if err != nil || !f.Valid {
			return 0, false
		}
		return f.Float64, true
	}
	return 0, false
}
