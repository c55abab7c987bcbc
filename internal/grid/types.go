package grid

import (
	"maps"
	"slices"
	"strings"

	"github.com/a-h/templ"
)

// Attrs is an HTML attribute map. A true bool renders as a bare attribute,
// a false bool omits the attribute.
type Attrs = templ.Attributes

// Marker classes shared with the client script and the export pipeline.
const (
	ClassRowSelect  = "kv-row-select"
	ClassAllSelect  = "kv-all-select"
	ClassGridHide   = "kv-grid-hide"
	ClassNoWrap     = "kv-nowrap"
	ClassSkipExport = "skip-export"

	ClassRowCheckbox = "kv-row-checkbox"
	ClassCheckAll    = "select-on-check-all"

	// EmptyCell is rendered for summary cells with no content.
	EmptyCell = "&nbsp;"
)

// HAlign is the horizontal alignment of the column's cells.
type HAlign string

const (
	AlignLeft   HAlign = "left"
	AlignCenter HAlign = "center"
	AlignRight  HAlign = "right"
)

// VAlign is the vertical alignment of the column's cells.
type VAlign string

const (
	AlignTop    VAlign = "top"
	AlignMiddle VAlign = "middle"
	AlignBottom VAlign = "bottom"
)

// Valid reports whether a is a recognized horizontal alignment.
func (a HAlign) Valid() bool {
	return a == AlignLeft || a == AlignCenter || a == AlignRight
}

// Valid reports whether a is a recognized vertical alignment.
func (a VAlign) Valid() bool {
	return a == AlignTop || a == AlignMiddle || a == AlignBottom
}

// RenderContext carries the per-cell inputs of one render call.
// It is created fresh for every cell and never retained.
type RenderContext struct {
	Model  any    // Opaque row record
	Key    string // Row identity
	Index  int    // Zero-based position within the current page
	Export bool
	Format ExportFormat // Only meaningful when Export is true
}

// DisplayContext returns a live-grid context for one row.
func DisplayContext(model any, key string, index int) RenderContext {
	return RenderContext{Model: model, Key: key, Index: index}
}

// ExportContext returns an export context for one row.
func ExportContext(format ExportFormat, model any, key string, index int) RenderContext {
	return RenderContext{Model: model, Key: key, Index: index, Export: true, Format: format}
}

// cloneAttrs returns a shallow copy that is safe to modify.
func cloneAttrs(a Attrs) Attrs {
	out := make(Attrs, len(a)+2)
	maps.Copy(out, a)
	return out
}

// addClass appends classes to the "class" attribute, skipping duplicates.
func addClass(a Attrs, classes ...string) {
	existing := strings.Fields(attrString(a["class"]))
	for _, c := range classes {
		if c != "" && !slices.Contains(existing, c) {
			existing = append(existing, c)
		}
	}
	if len(existing) > 0 {
		a["class"] = strings.Join(existing, " ")
	}
}

// addStyle appends a CSS declaration to the "style" attribute.
func addStyle(a Attrs, decl string) {
	style := strings.TrimSpace(attrString(a["style"]))
	if style != "" && !strings.HasSuffix(style, ";") {
		style += ";"
	}
	a["style"] = style + decl
}

// HasClass reports whether the attribute map carries class c.
func HasClass(a Attrs, c string) bool {
	return slices.Contains(strings.Fields(attrString(a["class"])), c)
}
