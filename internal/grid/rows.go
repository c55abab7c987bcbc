package grid

import (
	"context"

	"github.com/a-h/templ"
	"golang.org/x/sync/errgroup"
)

// Row is one record of the current page as seen by the column.
type Row struct {
	Model any
	Key   string
}

// Pass describes one render pass of the column over a page of rows.
type Pass struct {
	Rows    []Row
	Export  bool
	Format  ExportFormat
	Header  HeaderContext
	Workers int // Concurrent cell renders; <= 1 renders sequentially
}

// RenderedColumn is the output of a render pass.
type RenderedColumn struct {
	Visible bool
	Header  templ.Component
	Filter  templ.Component // Nil when the header is merged
	Cells   []templ.Component
	Summary templ.Component // Nil when the column has no page summary
}

// RenderColumn runs a full render pass: visibility first, then the header,
// every data cell, and the page summary. Rows are fed into state as they
// render. The first failing row aborts the pass with its *RenderError.
func RenderColumn(ctx context.Context, col *CheckboxColumn, pass Pass, state *PageSummaryState) (*RenderedColumn, error) {
	visible, err := IsVisible(col, RenderContext{Export: pass.Export, Format: pass.Format})
	if err != nil {
		return &RenderedColumn{}, err
	}

	// The summary is computed even when the column is not rendered, so other
	// consumers of state still see it.
	if !visible {
		for i, r := range pass.Rows {
			Accumulate(col, state, rowContext(pass, r, i))
		}
		return &RenderedColumn{}, nil
	}

	out := &RenderedColumn{
		Visible: true,
		Header:  RenderHeaderCell(col, pass.Header),
		Cells:   make([]templ.Component, len(pass.Rows)),
	}
	if f, ok := RenderFilterCell(col); ok {
		out.Filter = f
	}

	g, gctx := errgroup.WithContext(ctx)
	if pass.Workers > 1 {
		g.SetLimit(pass.Workers)
	} else {
		g.SetLimit(1)
	}

	for i, r := range pass.Rows {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rc := rowContext(pass, r, i)
			cell, err := RenderCell(col, rc)
			if err != nil {
				return err
			}
			out.Cells[i] = cell
			Accumulate(col, state, rc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return &RenderedColumn{}, err
	}

	if ShouldComputeSummary(col) {
		out.Summary = RenderPageSummaryCell(col, state)
	}
	return out, nil
}

func rowContext(pass Pass, r Row, i int) RenderContext {
	return RenderContext{Model: r.Model, Key: r.Key, Index: i, Export: pass.Export, Format: pass.Format}
}
