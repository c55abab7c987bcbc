// Package grid renders the selectable checkbox column of a data grid.
//
// The package has no HTTP or storage dependencies. It decides whether the
// column takes part in a render pass, renders its header, data and page
// summary cells as templ components, and keeps the per-page summary
// accumulator. Hosting layers (web pages, exporters, CLIs) call into it.
//
// # Visibility
//
// Two independent flags control visibility:
//
//   - Hidden suppresses the column in the live grid only.
//   - HiddenFromExport suppresses it in every export format, or only in the
//     listed formats. It never affects the live grid.
//
// [IsVisible] resolves both for a [RenderContext]. A column whose export
// visibility names an unknown format fails closed: it is reported as hidden
// together with a [*ConfigurationError].
//
// # Page Summary
//
// Computing and displaying the page summary are separate decisions:
//
//	grid.ShouldComputeSummary(col) // PageSummary is on (computed or literal)
//	grid.ShouldDisplaySummary(col) // ... and HidePageSummary is false
//
// A hidden summary is still accumulated in [PageSummaryState] so exporters
// can include it. A literal summary is rendered as-is and never aggregates.
//
// # Content Rules
//
// Cell and checkbox attributes come from a [ContentRule], either a static
// attribute map or a function evaluated once per row. Resolved maps are
// always copies; rendering never mutates the column.
//
// # Grid Registry
//
// Grids are registered at init time or loaded from a YAML file:
//
//	grid.Register(grid.Definition{
//	    ID:       "orders",
//	    Label:    "Orders",
//	    Source:   grid.Source{Table: "orders", KeyColumn: "id"},
//	    Columns:  []grid.DataColumn{{Attribute: "customer", Label: "Customer"}},
//	    Checkbox: grid.DefaultCheckboxColumn(),
//	})
package grid
