package export

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

type htmlWriter struct{}

func (htmlWriter) ContentType() string { return "text/html; charset=utf-8" }
func (htmlWriter) Extension() string   { return "html" }

func (htmlWriter) Write(ctx context.Context, w io.Writer, t *Table) error {
	return tableDocument(t).Render(ctx, w)
}

// tableDocument renders a standalone HTML document holding the table.
func tableDocument(t *Table) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		title := templ.EscapeString(t.Title)

		b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>")
		b.WriteString(title)
		b.WriteString("</title></head><body><table border=\"1\"><caption>")
		b.WriteString(title)
		b.WriteString("</caption><thead><tr>")
		for _, h := range t.Headers {
			b.WriteString("<th>" + templ.EscapeString(h) + "</th>")
		}
		b.WriteString("</tr></thead><tbody>")
		for _, r := range t.Rows {
			b.WriteString("<tr>")
			for _, v := range r {
				b.WriteString("<td>" + templ.EscapeString(stringCell(v)) + "</td>")
			}
			b.WriteString("</tr>")
		}
		b.WriteString("</tbody>")
		if t.Summary != nil {
			b.WriteString("<tfoot><tr>")
			for _, s := range t.Summary {
				b.WriteString("<td>" + templ.EscapeString(s) + "</td>")
			}
			b.WriteString("</tr></tfoot>")
		}
		b.WriteString("</table></body></html>\n")

		_, err := io.WriteString(w, b.String())
		return err
	})
}
