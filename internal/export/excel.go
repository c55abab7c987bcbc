package export

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Export"

// excelWriter streams the table into a single sheet workbook.
type excelWriter struct{}

func (excelWriter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (excelWriter) Extension() string { return "xlsx" }

func (excelWriter) Write(_ context.Context, w io.Writer, t *Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	row := 1
	header := make([]any, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = excelize.Cell{StyleID: bold, Value: h}
	}
	if err := setRow(sw, row, header); err != nil {
		return err
	}

	for _, r := range t.Rows {
		row++
		if err := setRow(sw, row, r); err != nil {
			return err
		}
	}

	if t.Summary != nil {
		row++
		cells := make([]any, len(t.Summary))
		for i, s := range t.Summary {
			cells[i] = excelize.Cell{StyleID: bold, Value: s}
		}
		if err := setRow(sw, row, cells); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	_, err = f.WriteTo(w)
	return err
}

func setRow(sw *excelize.StreamWriter, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return sw.SetRow(cell, values)
}
