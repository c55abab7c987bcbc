package export

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/JonMunkholm/checkgrid/internal/grid"
	"github.com/JonMunkholm/checkgrid/internal/store"
)

// ErrUnsupportedFormat is returned for recognized formats with no writer.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Writer encodes a Table in one output format.
type Writer interface {
	Write(ctx context.Context, w io.Writer, t *Table) error
	ContentType() string
	Extension() string
}

var writers = map[grid.ExportFormat]Writer{
	grid.FormatCSV:   delimitedWriter{comma: ',', contentType: "text/csv; charset=utf-8", ext: "csv"},
	grid.FormatText:  delimitedWriter{comma: '\t', contentType: "text/plain; charset=utf-8", ext: "txt"},
	grid.FormatExcel: excelWriter{},
	grid.FormatJSON:  jsonWriter{},
	grid.FormatHTML:  htmlWriter{},
}

// WriterFor returns the writer for format.
func WriterFor(format grid.ExportFormat) (Writer, error) {
	w, ok := writers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return w, nil
}

// Supported lists the formats that have a writer, in menu order.
func Supported() []grid.ExportFormat {
	var out []grid.ExportFormat
	for _, f := range grid.ExportFormats() {
		if _, ok := writers[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Export builds the table for page and writes it in format.
func Export(ctx context.Context, w io.Writer, def grid.Definition, page *store.Page, format grid.ExportFormat) error {
	wr, err := WriterFor(format)
	if err != nil {
		return err
	}
	t, err := Build(ctx, def, page, format)
	if err != nil {
		return err
	}
	if err := wr.Write(ctx, w, t); err != nil {
		return fmt.Errorf("write %s export: %w", format, err)
	}
	return nil
}

// Filename returns the download name for a grid export.
func Filename(def grid.Definition, page int, wr Writer) string {
	return fmt.Sprintf("%s-page%d.%s", def.ID, page, wr.Extension())
}
