// Package templates holds the page components of the grid server, written
// directly against templ.Component.
package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/checkgrid/internal/assets"
	"github.com/JonMunkholm/checkgrid/internal/grid"
)

// HTMXScript is the htmx build loaded by every page.
const HTMXScript = "https://unpkg.com/htmx.org@2.0.4"

// ColumnView is one data column header.
type ColumnView struct {
	Label string
	Class string
}

// RowView is one rendered body row.
type RowView struct {
	Key   string
	Class string   // Row classes, including the highlight class when selected
	Cells []string // Escaped cell values in column order
}

// GridView is everything the grid body needs to render one page.
type GridView struct {
	GridID      string
	Label       string
	ContainerID string

	Page       int
	TotalPages int
	TotalRows  int64
	Selected   int // Checked rows across all pages

	FilterRow bool
	Columns   []ColumnView
	Checkbox  *grid.RenderedColumn
	Rows      []RowView
	Formats   []grid.ExportFormat
}

// GridSummary is one entry of the index page.
type GridSummary struct {
	ID    string
	Label string
}

// write collects markup and the first render error.
type write struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (b *write) s(parts ...string) {
	for _, p := range parts {
		if b.err != nil {
			return
		}
		_, b.err = io.WriteString(b.w, p)
	}
}

func (b *write) c(c templ.Component) {
	if b.err != nil || c == nil {
		return
	}
	b.err = c.Render(b.ctx, b.w)
}

// open writes an opening tag with attributes in the given order.
func (b *write) open(tag string, attrs ...templ.KeyValue[string, any]) {
	b.s("<" + tag)
	if b.err == nil {
		b.err = templ.RenderAttributes(b.ctx, b.w, templ.OrderedAttributes(attrs))
	}
	b.s(">")
}

func kv(name string, value any) templ.KeyValue[string, any] {
	return templ.KV(name, value)
}

// class omits the attribute when c is empty.
func class(c string) templ.KeyValue[string, any] {
	if c == "" {
		return kv("class", false)
	}
	return kv("class", c)
}

func esc(s string) string { return templ.EscapeString(s) }

// Layout wraps body in a full HTML document and emits the page scripts
// registered while rendering.
func Layout(title string, scripts *assets.Page, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		b := &write{ctx: ctx, w: w}
		b.s(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`, esc(title), `</title>`)
		b.s(`<style>`, stylesheet, `</style>`)
		b.open("script", kv("src", HTMXScript))
		b.s(`</script></head><body>`)
		b.c(body)
		if scripts != nil {
			for _, f := range scripts.Files() {
				b.open("script", kv("src", "/static/"+f))
				b.s(`</script>`)
			}
			if js := scripts.Inline(); js != "" {
				b.s("<script>\n", js, "</script>")
			}
		}
		b.s(`</body></html>`)
		return b.err
	})
}

const stylesheet = `body{font-family:sans-serif;margin:2rem}` +
	`table{border-collapse:collapse}th,td{border:1px solid #ccc;padding:.25rem .5rem}` +
	`.kv-grid-hide{display:none}.kv-nowrap{white-space:nowrap}` +
	`.kv-align-center{text-align:center}.kv-align-left{text-align:left}.kv-align-right{text-align:right}` +
	`.kv-align-top{vertical-align:top}.kv-align-middle{vertical-align:middle}.kv-align-bottom{vertical-align:bottom}` +
	`tr.danger{background:#f8d7da}tr.success{background:#d1e7dd}tr.info{background:#cff4fc}tr.warning{background:#fff3cd}` +
	`.alert{border:1px solid #f5c2c7;background:#f8d7da;padding:.5rem 1rem}`

// GridIndex lists the registered grids.
func GridIndex(grids []GridSummary) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		b := &write{ctx: ctx, w: w}
		b.s(`<h1>Grids</h1>`)
		if len(grids) == 0 {
			b.s(`<p>No grids are registered.</p>`)
			return b.err
		}
		b.s(`<ul class="grid-index">`)
		for _, g := range grids {
			b.s(`<li>`)
			b.open("a", kv("href", "/grid/"+g.ID))
			b.s(esc(g.Label), `</a></li>`)
		}
		b.s(`</ul>`)
		return b.err
	})
}

// GridPage renders the page heading and the grid container wrapping the body.
func GridPage(v GridView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		b := &write{ctx: ctx, w: w}
		b.s(`<p><a href="/">All grids</a></p><h1>`, esc(v.Label), `</h1>`)
		b.open("div", kv("id", v.ContainerID), kv("class", "kv-grid-container"))
		b.c(GridBody(v))
		b.s(`</div>`)
		return b.err
	})
}

// selectVals posts the changed checkbox as key / all / checked.
const selectVals = `js:{key: event.target.value, ` +
	`all: event.target.classList.contains("select-on-check-all") ? "1" : "", ` +
	`checked: event.target.checked}`

// GridBody renders the table, pager, and export links. It is the content
// swapped into the container by HTMX requests. The table posts checkbox
// changes for the page it shows, so every swap carries the current page.
func GridBody(v GridView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		b := &write{ctx: ctx, w: w}
		cb := v.Checkbox
		visible := cb != nil && cb.Visible

		b.open("table",
			kv("class", "kv-grid-table"),
			kv("data-page", v.Page),
			kv("hx-post", fmt.Sprintf("/grid/%s/select?page=%d", v.GridID, v.Page)),
			kv("hx-trigger", "change"),
			kv("hx-vals", selectVals),
			kv("hx-target", "#"+v.ContainerID),
			kv("hx-swap", "innerHTML"),
		)
		b.s(`<thead><tr>`)
		if visible {
			b.c(cb.Header)
		}
		for _, c := range v.Columns {
			b.open("th", class(c.Class))
			b.s(esc(c.Label), `</th>`)
		}
		b.s(`</tr>`)

		if v.FilterRow {
			b.s(`<tr class="filters">`)
			if visible && cb.Filter != nil {
				b.c(cb.Filter)
			}
			for _, c := range v.Columns {
				b.open("td", class(c.Class))
				b.s(grid.EmptyCell, `</td>`)
			}
			b.s(`</tr>`)
		}
		b.s(`</thead><tbody>`)

		for i, r := range v.Rows {
			b.open("tr", kv("data-key", r.Key), class(r.Class))
			if visible && i < len(cb.Cells) {
				b.c(cb.Cells[i])
			}
			for j, cell := range r.Cells {
				b.open("td", class(columnClass(v.Columns, j)))
				b.s(cell, `</td>`)
			}
			b.s(`</tr>`)
		}
		if len(v.Rows) == 0 {
			b.s(`<tr>`)
			b.open("td", kv("colspan", len(v.Columns)+1))
			b.s(`No rows.</td></tr>`)
		}
		b.s(`</tbody>`)

		if visible && cb.Summary != nil {
			b.s(`<tfoot><tr class="kv-page-summary">`)
			b.c(cb.Summary)
			for _, c := range v.Columns {
				b.open("td", class(c.Class))
				b.s(grid.EmptyCell, `</td>`)
			}
			b.s(`</tr></tfoot>`)
		}
		b.s(`</table>`)

		pager(b, v)
		exportLinks(b, v)
		return b.err
	})
}

func pager(b *write, v GridView) {
	target := "#" + v.ContainerID
	link := func(page int, label string) {
		href := fmt.Sprintf("/grid/%s?page=%d", v.GridID, page)
		b.open("a", kv("href", href), kv("hx-get", href), kv("hx-target", target), kv("hx-swap", "innerHTML"))
		b.s(label, `</a> `)
	}

	b.s(`<nav class="kv-pager">`)
	if v.Page > 1 {
		link(v.Page-1, "&laquo; Prev")
	}
	b.s(fmt.Sprintf(`<span>Page %d of %d (%d rows, %d selected)</span> `, v.Page, v.TotalPages, v.TotalRows, v.Selected))
	if v.Page < v.TotalPages {
		link(v.Page+1, "Next &raquo;")
	}
	b.s(`</nav>`)
}

func exportLinks(b *write, v GridView) {
	if len(v.Formats) == 0 {
		return
	}
	b.s(`<div class="kv-export">Export: `)
	for _, f := range v.Formats {
		href := fmt.Sprintf("/grid/%s/export?format=%s&page=%d", v.GridID, f, v.Page)
		b.open("a", kv("href", href))
		b.s(esc(strings.ToUpper(string(f))), `</a> `)
	}
	b.s(`</div>`)
}

func columnClass(cols []ColumnView, i int) string {
	if i < len(cols) {
		return cols[i].Class
	}
	return ""
}

// ErrorAlert renders an HTMX error fragment.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		b := &write{ctx: ctx, w: w}
		b.s(`<div class="alert" role="alert"><strong>`, esc(message), `</strong>`)
		if action != "" {
			b.s(` `, esc(action))
		}
		b.s(` <small>(`, esc(code), `)</small></div>`)
		return b.err
	})
}
