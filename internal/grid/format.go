package grid

import (
	"fmt"
	"slices"
	"strings"
)

// ExportFormat identifies an output representation of the grid other than
// the live display. The vocabulary matches the grid's export menu.
type ExportFormat string

const (
	FormatHTML  ExportFormat = "html"
	FormatCSV   ExportFormat = "csv"
	FormatText  ExportFormat = "txt"
	FormatExcel ExportFormat = "xls"
	FormatPDF   ExportFormat = "pdf"
	FormatJSON  ExportFormat = "json"
)

// ExportFormats lists every recognized format in menu order.
func ExportFormats() []ExportFormat {
	return []ExportFormat{FormatHTML, FormatCSV, FormatText, FormatExcel, FormatPDF, FormatJSON}
}

var formatAliases = map[string]ExportFormat{
	"excel": FormatExcel,
	"xlsx":  FormatExcel,
	"text":  FormatText,
	"htm":   FormatHTML,
}

// ParseExportFormat resolves a format token, case-insensitively.
// Unknown tokens yield a *ConfigurationError.
func ParseExportFormat(token string) (ExportFormat, error) {
	t := strings.ToLower(strings.TrimSpace(token))
	if f := ExportFormat(t); f.Valid() {
		return f, nil
	}
	if f, ok := formatAliases[t]; ok {
		return f, nil
	}
	return "", &ConfigurationError{
		Field:   "format",
		Value:   token,
		Message: fmt.Sprintf("unrecognized export format, want one of %v", ExportFormats()),
	}
}

// Valid reports whether f is a canonical format identifier.
func (f ExportFormat) Valid() bool {
	return slices.Contains(ExportFormats(), f)
}

// ExportVisibility says which export formats a column is hidden from.
// The zero value hides from none.
type ExportVisibility struct {
	All     bool           // Hidden for every export format
	Formats []ExportFormat // Hidden only for these formats when All is false
}

// HideFromAllExports hides the column in every export format.
func HideFromAllExports() ExportVisibility {
	return ExportVisibility{All: true}
}

// HideFromExports hides the column only in the listed formats.
func HideFromExports(formats ...ExportFormat) ExportVisibility {
	return ExportVisibility{Formats: formats}
}

// Hides reports whether the column is hidden for format f.
func (v ExportVisibility) Hides(f ExportFormat) bool {
	return v.All || slices.Contains(v.Formats, f)
}

// Validate checks every listed format against the vocabulary.
func (v ExportVisibility) Validate() error {
	if v.All && len(v.Formats) > 0 {
		return &ConfigurationError{
			Field:   "hiddenFromExport",
			Value:   v.Formats,
			Message: "cannot hide from all formats and list formats at the same time",
		}
	}
	for _, f := range v.Formats {
		if !f.Valid() {
			return &ConfigurationError{
				Field:   "hiddenFromExport",
				Value:   string(f),
				Message: "unrecognized export format",
			}
		}
	}
	return nil
}

// UnmarshalYAML accepts either a boolean or a list of format tokens.
func (v *ExportVisibility) UnmarshalYAML(unmarshal func(any) error) error {
	var all bool
	if err := unmarshal(&all); err == nil {
		*v = ExportVisibility{All: all}
		return nil
	}

	var tokens []string
	if err := unmarshal(&tokens); err != nil {
		return &ConfigurationError{
			Field:   "hidden_from_export",
			Message: "must be a boolean or a list of export formats",
		}
	}

	formats := make([]ExportFormat, 0, len(tokens))
	for _, tok := range tokens {
		f, err := ParseExportFormat(tok)
		if err != nil {
			return err
		}
		formats = append(formats, f)
	}
	*v = ExportVisibility{Formats: formats}
	return nil
}
