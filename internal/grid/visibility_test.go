package grid

import (
	"errors"
	"slices"
	"testing"
)

// ============================================================================
// IsVisible Tests
// ============================================================================

func TestIsVisible_TruthTable(t *testing.T) {
	exports := []struct {
		name string
		v    ExportVisibility
	}{
		{"shown in exports", ExportVisibility{}},
		{"hidden from all exports", HideFromAllExports()},
		{"hidden from csv", HideFromExports(FormatCSV)},
		{"hidden from csv and pdf", HideFromExports(FormatCSV, FormatPDF)},
	}

	for _, hidden := range []bool{false, true} {
		for _, ex := range exports {
			col := DefaultCheckboxColumn()
			col.Hidden = hidden
			col.HiddenFromExport = ex.v

			got, err := IsVisible(&col, RenderContext{})
			if err != nil {
				t.Fatalf("%s hidden=%v: display error = %v", ex.name, hidden, err)
			}
			if got != !hidden {
				t.Errorf("%s hidden=%v: display visible = %v, want %v", ex.name, hidden, got, !hidden)
			}

			for _, f := range ExportFormats() {
				want := !(ex.v.All || slices.Contains(ex.v.Formats, f))
				got, err := IsVisible(&col, RenderContext{Export: true, Format: f})
				if err != nil {
					t.Fatalf("%s hidden=%v format=%s: error = %v", ex.name, hidden, f, err)
				}
				if got != want {
					t.Errorf("%s hidden=%v format=%s: visible = %v, want %v", ex.name, hidden, f, got, want)
				}
			}
		}
	}
}

func TestIsVisible_HiddenOnScreenStillExported(t *testing.T) {
	col := DefaultCheckboxColumn()
	col.Hidden = true
	col.HiddenFromExport = ExportVisibility{}

	if got, _ := IsVisible(&col, DisplayContext(nil, "1", 0)); got {
		t.Error("display visible = true, want false")
	}
	for _, f := range ExportFormats() {
		if got, _ := IsVisible(&col, ExportContext(f, nil, "1", 0)); !got {
			t.Errorf("export %s visible = false, want true", f)
		}
	}
}

func TestIsVisible_HiddenFromCSVOnly(t *testing.T) {
	col := DefaultCheckboxColumn()
	col.HiddenFromExport = HideFromExports(FormatCSV)

	if got, _ := IsVisible(&col, ExportContext(FormatCSV, nil, "1", 0)); got {
		t.Error("csv visible = true, want false")
	}

	excel, err := ParseExportFormat("excel")
	if err != nil {
		t.Fatalf("ParseExportFormat(excel) error = %v", err)
	}
	if got, _ := IsVisible(&col, ExportContext(excel, nil, "1", 0)); !got {
		t.Error("excel visible = false, want true")
	}
}

func TestIsVisible_MalformedFailsClosed(t *testing.T) {
	tests := []struct {
		name string
		v    ExportVisibility
		f    ExportFormat
	}{
		{"unknown token in set", HideFromExports("docx"), FormatCSV},
		{"all plus formats", ExportVisibility{All: true, Formats: []ExportFormat{FormatCSV}}, FormatJSON},
		{"unknown request format", ExportVisibility{}, "rtf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := DefaultCheckboxColumn()
			col.HiddenFromExport = tt.v

			got, err := IsVisible(&col, RenderContext{Export: true, Format: tt.f})
			if got {
				t.Error("visible = true, want false (fail closed)")
			}
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("error = %v, want ErrConfiguration", err)
			}
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Errorf("error type = %T, want *ConfigurationError", err)
			}
		})
	}
}

func TestIsVisible_MalformedExportDoesNotAffectDisplay(t *testing.T) {
	col := DefaultCheckboxColumn()
	col.HiddenFromExport = HideFromExports("docx")

	got, err := IsVisible(&col, RenderContext{})
	if err != nil || !got {
		t.Errorf("display = (%v, %v), want (true, nil)", got, err)
	}
}

// ============================================================================
// VisibilityClasses Tests
// ============================================================================

func TestVisibilityClasses(t *testing.T) {
	tests := []struct {
		name string
		v    Visibility
		want []string
	}{
		{"none", Visibility{}, nil},
		{"hidden", Visibility{Hidden: true}, []string{ClassGridHide}},
		{"all exports", Visibility{HiddenFromExport: HideFromAllExports()}, []string{ClassSkipExport}},
		{
			"hidden and per format",
			Visibility{Hidden: true, HiddenFromExport: HideFromExports(FormatCSV, FormatExcel)},
			[]string{ClassGridHide, "skip-export-csv", "skip-export-xls"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.VisibilityClasses()
			if !slices.Equal(got, tt.want) {
				t.Errorf("VisibilityClasses() = %v, want %v", got, tt.want)
			}
		})
	}
}

// ============================================================================
// ParseExportFormat Tests
// ============================================================================

func TestParseExportFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    ExportFormat
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{"CSV", FormatCSV, false},
		{" xls ", FormatExcel, false},
		{"xlsx", FormatExcel, false},
		{"excel", FormatExcel, false},
		{"text", FormatText, false},
		{"json", FormatJSON, false},
		{"docx", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseExportFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseExportFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseExportFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
