package grid

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// HeaderContext carries the grid state the header cell depends on.
type HeaderContext struct {
	AllChecked bool // Derived: every row checkbox on the page is checked
	FilterRow  bool // The grid renders a filter row below the header
}

// RenderCell renders one data cell: a <td> wrapping the row checkbox.
//
// Content and checkbox rules are resolved eagerly, once each, so a failing
// rule surfaces as a *RenderError before any markup is written.
func RenderCell(col *CheckboxColumn, ctx RenderContext) (templ.Component, error) {
	options, err := col.ContentOptions.Resolve(ctx.Model, ctx.Key, ctx.Index, col)
	if err != nil {
		return nil, &RenderError{Key: ctx.Key, Index: ctx.Index, Err: err}
	}
	if col.RowHighlight {
		addClass(options, ClassRowSelect)
	}
	col.applyMarkers(options)

	input, err := checkboxAttrs(col, ctx)
	if err != nil {
		return nil, &RenderError{Key: ctx.Key, Index: ctx.Index, Err: err}
	}

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := openTag(ctx, w, "td", options); err != nil {
			return err
		}
		if err := openTag(ctx, w, "input", input); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</td>")
		return err
	}), nil
}

// checkboxAttrs resolves the per-row checkbox input attributes.
func checkboxAttrs(col *CheckboxColumn, ctx RenderContext) (Attrs, error) {
	a, err := col.CheckboxOptions.Resolve(ctx.Model, ctx.Key, ctx.Index, col)
	if err != nil {
		return nil, err
	}
	a["type"] = "checkbox"
	a["name"] = col.Name
	if _, ok := a["value"]; !ok {
		a["value"] = ctx.Key
	}
	addClass(a, ClassRowCheckbox)
	return a, nil
}

// IsChecked resolves the checkbox rule for one row and reports whether the
// checkbox renders checked. Any value that renders the attribute counts,
// so "checked": "checked" is checked like "checked": true.
func IsChecked(col *CheckboxColumn, ctx RenderContext) (bool, error) {
	a, err := checkboxAttrs(col, ctx)
	if err != nil {
		return false, &RenderError{Key: ctx.Key, Index: ctx.Index, Err: err}
	}
	return isSet(a["checked"]), nil
}

// RenderHeaderCell renders the header cell. With RowHighlight it carries the
// select-all marker so the client handler can tell it apart from row cells.
func RenderHeaderCell(col *CheckboxColumn, h HeaderContext) templ.Component {
	options := cloneAttrs(col.HeaderOptions)
	if col.RowHighlight {
		addClass(options, ClassAllSelect)
	}
	col.applyMarkers(options)
	if h.FilterRow && col.MergeHeader {
		options["rowspan"] = "2"
	}

	var input Attrs
	if col.Multiple {
		input = Attrs{
			"type":    "checkbox",
			"class":   ClassCheckAll,
			"name":    checkAllName(col.Name),
			"value":   "1",
			"checked": h.AllChecked,
		}
	}

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := openTag(ctx, w, "th", options); err != nil {
			return err
		}
		if input != nil {
			if err := openTag(ctx, w, "input", input); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</th>")
		return err
	})
}

// RenderFilterCell renders the column's filter cell. It returns false when
// the header is merged into the filter row and no cell must be emitted.
func RenderFilterCell(col *CheckboxColumn) (templ.Component, bool) {
	if col.MergeHeader {
		return nil, false
	}
	options := Attrs{}
	col.applyMarkers(options)
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := openTag(ctx, w, "td", options); err != nil {
			return err
		}
		_, err := io.WriteString(w, EmptyCell+"</td>")
		return err
	}), true
}

// RenderPageSummaryCell renders the page summary cell for the live grid.
//
// The "prepend" and "append" keys of PageSummaryOptions are removed from the
// attributes and wrapped around the content as raw markup. A summary that is
// hidden or has no value renders the empty cell.
func RenderPageSummaryCell(col *CheckboxColumn, state *PageSummaryState) templ.Component {
	options := cloneAttrs(col.PageSummaryOptions)
	prepend := attrString(options["prepend"])
	appendix := attrString(options["append"])
	delete(options, "prepend")
	delete(options, "append")
	col.applyMarkers(options)

	content := EmptyCell
	if ShouldDisplaySummary(col) {
		if v, ok := SummaryValue(col, state); ok && v != "" {
			content = templ.EscapeString(v)
		}
	}

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := openTag(ctx, w, "td", options); err != nil {
			return err
		}
		_, err := io.WriteString(w, prepend+content+appendix+"</td>")
		return err
	})
}

// applyMarkers adds alignment, wrapping, width and visibility markers.
func (c *CheckboxColumn) applyMarkers(a Attrs) {
	if c.HAlign != "" {
		addClass(a, "kv-align-"+string(c.HAlign))
	}
	if c.VAlign != "" {
		addClass(a, "kv-align-"+string(c.VAlign))
	}
	if c.NoWrap {
		addClass(a, ClassNoWrap)
	}
	addClass(a, c.VisibilityClasses()...)
	if c.Width != "" {
		addStyle(a, "width:"+c.Width+";")
	}
}

// checkAllName derives the select-all input name from the row input name.
func checkAllName(name string) string {
	return strings.TrimSuffix(name, "[]") + "_all"
}

// openTag writes an opening tag. Attributes are written by templ in sorted
// key order.
func openTag(ctx context.Context, w io.Writer, tag string, a Attrs) error {
	if _, err := io.WriteString(w, "<"+tag); err != nil {
		return err
	}
	if err := templ.RenderAttributes(ctx, w, renderable(a)); err != nil {
		return err
	}
	_, err := io.WriteString(w, ">")
	return err
}

// renderable converts values templ does not write itself: []string joins
// with spaces and other types use their fmt form. Nil values are dropped.
func renderable(a Attrs) templ.Attributes {
	out := make(templ.Attributes, len(a))
	for k, v := range a {
		switch v := v.(type) {
		case nil:
		case string, *string, bool, *bool, int, int64, float64:
			out[k] = v
		default:
			out[k] = attrString(v)
		}
	}
	return out
}

// isSet reports whether templ writes the attribute for value v.
func isSet(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case *bool:
		return v != nil && *v
	case *string:
		return v != nil
	default:
		return true
	}
}

// attrString converts an attribute value to its string form.
func attrString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []string:
		return strings.Join(s, " ")
	default:
		return fmt.Sprint(v)
	}
}
