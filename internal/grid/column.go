package grid

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Visibility holds the two independent visibility flags shared by every
// grid column.
type Visibility struct {
	// Hidden renders the column hidden in the live grid. The column still
	// takes part in exports.
	Hidden bool `yaml:"hidden"`

	// HiddenFromExport hides the column from all or some export formats.
	HiddenFromExport ExportVisibility `yaml:"hidden_from_export"`
}

// CheckboxColumn is the static configuration of the selection column.
// It is owned by the grid definition and read-only during rendering.
type CheckboxColumn struct {
	Visibility `yaml:",inline"`

	// ID keys the column in the page summary accumulator (default: "selection").
	ID string `yaml:"id"`

	// Name is the checkbox input name (default: "selection[]").
	Name string `yaml:"name"`

	HAlign HAlign `yaml:"h_align"`
	VAlign VAlign `yaml:"v_align"`
	NoWrap bool   `yaml:"no_wrap"`

	// Width is a CSS length applied to the header and data cells (default: 50px).
	Width string `yaml:"width"`

	// RowHighlight enables client-side highlighting of checked rows.
	RowHighlight bool `yaml:"row_highlight"`

	// RowSelectedClass is the CSS class applied to highlighted rows (default: danger).
	RowSelectedClass string `yaml:"row_selected_class"`

	// Multiple renders the select-all checkbox in the header.
	Multiple bool `yaml:"multiple"`

	PageSummary        Summary     `yaml:"page_summary"`
	PageSummaryFunc    SummaryFunc `yaml:"page_summary_func"`
	PageSummaryFormat  string      `yaml:"page_summary_format"`
	PageSummaryOptions Attrs       `yaml:"page_summary_options"`

	// HidePageSummary suppresses the summary cell on screen while the value
	// is still computed.
	HidePageSummary bool `yaml:"hide_page_summary"`

	// MergeHeader spans the header cell over the filter row.
	MergeHeader bool `yaml:"merge_header"`

	HeaderOptions   Attrs       `yaml:"header_options"`
	ContentOptions  ContentRule `yaml:"-"`
	CheckboxOptions ContentRule `yaml:"-"`

	// Value is the row's contribution to a computed page summary.
	// Nil counts every row as 1.
	Value ValueFunc `yaml:"-"`
}

// ValueFunc extracts a row's numeric contribution to the page summary.
// Rows returning false are skipped.
type ValueFunc func(model any, key string, index int) (float64, bool)

// DefaultCheckboxColumn returns a column with the stock settings: hidden
// from every export, centered, 50px wide, highlighting checked rows.
func DefaultCheckboxColumn() CheckboxColumn {
	return CheckboxColumn{
		Visibility:       Visibility{HiddenFromExport: HideFromAllExports()},
		ID:               "selection",
		Name:             "selection[]",
		HAlign:           AlignCenter,
		VAlign:           AlignMiddle,
		Width:            "50px",
		RowHighlight:     true,
		RowSelectedClass: "danger",
		Multiple:         true,
		PageSummaryFunc:  SummarySum,
		MergeHeader:      true,
	}
}

var (
	cssClassPattern  = regexp.MustCompile(`^-?[_a-zA-Z][_a-zA-Z0-9-]*$`)
	cssLengthPattern = regexp.MustCompile(`^(auto|0|\d+(\.\d+)?(px|%|em|rem|pt|vw|vh|ch|ex))$`)
)

// Validate checks every setting and returns all failures joined.
// Each failure is a *ConfigurationError.
func (c *CheckboxColumn) Validate() error {
	var errs []error

	if err := c.HiddenFromExport.Validate(); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(c.ID) == "" {
		errs = append(errs, &ConfigurationError{Field: "id", Message: "must not be empty"})
	}
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, &ConfigurationError{Field: "name", Message: "must not be empty"})
	}
	if !c.HAlign.Valid() {
		errs = append(errs, &ConfigurationError{Field: "hAlign", Value: c.HAlign, Message: "must be one of left, center, right"})
	}
	if !c.VAlign.Valid() {
		errs = append(errs, &ConfigurationError{Field: "vAlign", Value: c.VAlign, Message: "must be one of top, middle, bottom"})
	}
	if c.Width != "" && !cssLengthPattern.MatchString(c.Width) {
		errs = append(errs, &ConfigurationError{Field: "width", Value: c.Width, Message: "must be a CSS length"})
	}
	if c.RowHighlight && !cssClassPattern.MatchString(c.RowSelectedClass) {
		errs = append(errs, &ConfigurationError{Field: "rowSelectedClass", Value: c.RowSelectedClass, Message: "must be a CSS class name"})
	}
	if c.PageSummary.Mode == SummaryComputed && !c.PageSummaryFunc.Valid() {
		errs = append(errs, &ConfigurationError{Field: "pageSummaryFunc", Value: c.PageSummaryFunc, Message: "must be one of sum, count, avg, max, min"})
	}
	if c.PageSummaryFormat != "" && !strings.Contains(c.PageSummaryFormat, "%") {
		errs = append(errs, &ConfigurationError{Field: "pageSummaryFormat", Value: c.PageSummaryFormat, Message: "must contain a format verb"})
	}

	return errors.Join(errs...)
}

// NewCheckboxColumn validates c and returns it ready for rendering.
func NewCheckboxColumn(c CheckboxColumn) (*CheckboxColumn, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("checkbox column: %w", err)
	}
	return &c, nil
}

// DataColumn is a plain attribute column rendered next to the checkbox
// column by the hosting grid.
type DataColumn struct {
	Visibility `yaml:",inline"`

	Attribute string `yaml:"attribute"`
	Label     string `yaml:"label"`
}

// Header returns the column label, falling back to the attribute name.
func (d DataColumn) Header() string {
	if d.Label != "" {
		return d.Label
	}
	return d.Attribute
}
