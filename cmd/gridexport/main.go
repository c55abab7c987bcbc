// Package main provides a CLI that exports one page of a grid.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/checkgrid/internal/config"
	"github.com/JonMunkholm/checkgrid/internal/export"
	"github.com/JonMunkholm/checkgrid/internal/grid"
	"github.com/JonMunkholm/checkgrid/internal/grids"
	"github.com/JonMunkholm/checkgrid/internal/logging"
	"github.com/JonMunkholm/checkgrid/internal/store"
)

var (
	gridID     string
	formatFlag string
	pageNum    int
	pageSize   int
	outputPath string
	listGrids  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gridexport",
		Short: "Export a page of a checkbox grid",
		Long: `gridexport renders one page of a registered grid in an export format
(` + formatList() + `). Rows come from DATABASE_URL, or from the built-in
demo tables when no database is configured.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	rootCmd.Flags().StringVarP(&gridID, "grid", "g", "", "Grid id to export")
	rootCmd.Flags().StringVarP(&formatFlag, "format", "f", string(grid.FormatCSV), "Export format")
	rootCmd.Flags().IntVarP(&pageNum, "page", "p", 1, "Page number (1-based)")
	rootCmd.Flags().IntVar(&pageSize, "page-size", 0, "Rows per page (default: grid or GRID_PAGE_SIZE)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file or directory (default: stdout)")
	rootCmd.Flags().BoolVar(&listGrids, "list", false, "List registered grids and exit")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	// Logs go to stderr so stdout carries only the export.
	slog.SetDefault(logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format))

	if cfg.Grid.ColumnsFile != "" {
		if _, err := grid.LoadFile(cfg.Grid.ColumnsFile); err != nil {
			return err
		}
	}

	if listGrids {
		for _, def := range grid.All() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", def.ID, def.Label, def.Source.Table)
		}
		return nil
	}
	if gridID == "" {
		return fmt.Errorf("--grid is required (use --list to see grids)")
	}

	def, err := grid.Lookup(gridID)
	if err != nil {
		return err
	}
	format, err := grid.ParseExportFormat(formatFlag)
	if err != nil {
		return fmt.Errorf("%w: %w", export.ErrUnsupportedFormat, err)
	}
	wr, err := export.WriterFor(format)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	provider, closeProvider, err := grids.OpenProvider(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer closeProvider()

	size := pageSize
	if size <= 0 {
		size = def.PageSize
	}
	if size <= 0 {
		size = cfg.Grid.PageSize
	}
	page, err := provider.Page(ctx, store.Query{
		Table:     def.Source.Table,
		KeyColumn: def.Source.KeyColumn,
		Columns:   def.Attributes(),
		Page:      pageNum,
		PageSize:  size,
	})
	if err != nil {
		return fmt.Errorf("load grid %s page %d: %w", def.ID, pageNum, err)
	}

	out, path, err := openOutput(cmd.OutOrStdout(), outputPath, export.Filename(def, page.Number, wr))
	if err != nil {
		return err
	}
	defer out.Close()

	if err := export.Export(ctx, out, def, page, format); err != nil {
		return err
	}
	if path != "" {
		slog.Info("export written", "grid", def.ID, "format", format, "page", page.Number, "rows", len(page.Rows), "path", path)
	}
	return nil
}

// openOutput resolves the destination. A directory receives the default
// file name; an empty path writes to stdout.
func openOutput(stdout io.Writer, path, filename string) (io.WriteCloser, string, error) {
	if path == "" {
		return nopCloser{stdout}, "", nil
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, filename)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create output: %w", err)
	}
	return f, path, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func formatList() string {
	var names []string
	for _, f := range export.Supported() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}
