package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/checkgrid/internal/grid"
	"github.com/JonMunkholm/checkgrid/internal/store"
)

// ============================================================================
// Fixtures
// ============================================================================

func testDefinition() grid.Definition {
	cb := grid.DefaultCheckboxColumn()
	cb.HiddenFromExport = grid.HideFromExports(grid.FormatPDF)
	cb.PageSummary = grid.ComputedSummary()
	cb.PageSummaryFunc = grid.SummarySum
	cb.HidePageSummary = true
	cb.CheckboxOptions = grid.DynamicContent(func(model any, _ string, _ int, _ *grid.CheckboxColumn) (grid.Attrs, error) {
		rec := model.(store.Record)
		return grid.Attrs{"checked": rec["qty"].(int) > 1}, nil
	})
	cb.Value = func(model any, _ string, _ int) (float64, bool) {
		return float64(model.(store.Record)["qty"].(int)), true
	}

	return grid.Definition{
		ID:     "orders",
		Label:  "Orders",
		Source: grid.Source{Table: "orders", KeyColumn: "id"},
		Columns: []grid.DataColumn{
			{Attribute: "item", Label: "Item"},
			{Attribute: "qty", Label: "Qty"},
			{Attribute: "note", Visibility: grid.Visibility{HiddenFromExport: grid.HideFromExports(grid.FormatCSV)}},
		},
		Checkbox: cb,
	}
}

func testPage() *store.Page {
	return &store.Page{
		Number: 1, Size: 10, TotalRows: 2, TotalPages: 1,
		Rows: []store.Row{
			{Key: "o1", Values: store.Record{"item": "apple", "qty": 1, "note": "fresh"}},
			{Key: "o2", Values: store.Record{"item": "pear", "qty": 3, "note": "ripe"}},
		},
	}
}

// ============================================================================
// Build Tests
// ============================================================================

func TestBuild_DropsColumnsHiddenForFormat(t *testing.T) {
	tbl, err := Build(context.Background(), testDefinition(), testPage(), grid.FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, []string{"selection", "Item", "Qty"}, tbl.Headers)
	assert.Equal(t, [][]any{{"0", "apple", 1}, {"1", "pear", 3}}, tbl.Rows)
}

func TestBuild_KeepsColumnsForOtherFormats(t *testing.T) {
	tbl, err := Build(context.Background(), testDefinition(), testPage(), grid.FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, []string{"selection", "Item", "Qty", "note"}, tbl.Headers)
}

func TestBuild_SummaryIgnoresHidePageSummary(t *testing.T) {
	tbl, err := Build(context.Background(), testDefinition(), testPage(), grid.FormatCSV)
	require.NoError(t, err)

	require.NotNil(t, tbl.Summary)
	assert.Equal(t, []string{"4", "", ""}, tbl.Summary)
}

func TestBuild_CheckboxHiddenFromAllExports(t *testing.T) {
	def := testDefinition()
	def.Checkbox.HiddenFromExport = grid.HideFromAllExports()

	tbl, err := Build(context.Background(), def, testPage(), grid.FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, []string{"Item", "Qty"}, tbl.Headers)
	assert.Nil(t, tbl.Summary, "summary lives in the checkbox column")
}

func TestBuild_UnknownFormatFailsClosed(t *testing.T) {
	_, err := Build(context.Background(), testDefinition(), testPage(), grid.ExportFormat("docx"))
	assert.True(t, errors.Is(err, grid.ErrConfiguration))
}

func TestBuild_RenderErrorCarriesRow(t *testing.T) {
	def := testDefinition()
	def.Checkbox.CheckboxOptions = grid.DynamicContent(func(_ any, key string, _ int, _ *grid.CheckboxColumn) (grid.Attrs, error) {
		if key == "o2" {
			return nil, errors.New("boom")
		}
		return grid.Attrs{}, nil
	})

	_, err := Build(context.Background(), def, testPage(), grid.FormatCSV)

	var re *grid.RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "o2", re.Key)
	assert.Equal(t, 1, re.Index)
}

// ============================================================================
// Writer Tests
// ============================================================================

func TestWriterFor_PDFUnsupported(t *testing.T) {
	_, err := WriterFor(grid.FormatPDF)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.NotContains(t, Supported(), grid.FormatPDF)
}

func TestExport_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(context.Background(), &buf, testDefinition(), testPage(), grid.FormatCSV))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"selection", "Item", "Qty"},
		{"0", "apple", "1"},
		{"1", "pear", "3"},
		{"4", "", ""},
	}, records)
}

func TestExport_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(context.Background(), &buf, testDefinition(), testPage(), grid.FormatText))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "selection\tItem\tQty\tnote", lines[0])
}

func TestExport_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(context.Background(), &buf, testDefinition(), testPage(), grid.FormatJSON))

	var doc jsonDocument
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "Orders", doc.Title)
	require.Len(t, doc.Rows, 2)
	assert.Equal(t, "pear", doc.Rows[1]["Item"])
	assert.Equal(t, map[string]string{"selection": "4"}, doc.Summary)
}

func TestExport_HTMLEscapes(t *testing.T) {
	page := testPage()
	page.Rows[0].Values["item"] = "<b>apple</b>"

	var buf bytes.Buffer
	require.NoError(t, Export(context.Background(), &buf, testDefinition(), page, grid.FormatHTML))

	out := buf.String()
	assert.Contains(t, out, "&lt;b&gt;apple&lt;/b&gt;")
	assert.Contains(t, out, "<tfoot><tr><td>4</td>")
}

func TestExport_Excel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(context.Background(), &buf, testDefinition(), testPage(), grid.FormatExcel))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"selection", "Item", "Qty", "note"}, rows[0])
	assert.Equal(t, "pear", rows[2][1])
	assert.Equal(t, "4", rows[3][0])
}

func TestFilename(t *testing.T) {
	w, err := WriterFor(grid.FormatExcel)
	require.NoError(t, err)
	assert.Equal(t, "orders-page2.xlsx", Filename(testDefinition(), 2, w))
}
