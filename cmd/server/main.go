package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/checkgrid/internal/config"
	"github.com/JonMunkholm/checkgrid/internal/grid"
	"github.com/JonMunkholm/checkgrid/internal/grids" // Register demo grids
	"github.com/JonMunkholm/checkgrid/internal/logging"
	"github.com/JonMunkholm/checkgrid/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"database", cfg.Database.Enabled(),
		"page_size", cfg.Grid.PageSize,
		"render_workers", cfg.Grid.RenderWorkers,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	if cfg.Grid.ColumnsFile != "" {
		defs, err := grid.LoadFile(cfg.Grid.ColumnsFile)
		if err != nil {
			slog.Error("failed to load grid definitions", "file", cfg.Grid.ColumnsFile, "error", err)
			os.Exit(1)
		}
		slog.Info("grid definitions loaded", "file", cfg.Grid.ColumnsFile, "count", len(defs))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider, closeProvider, err := grids.OpenProvider(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to open row source", "error", err)
		os.Exit(1)
	}
	defer closeProvider()

	slog.Info("grids registered", "count", grid.Count())
	for _, def := range grid.All() {
		slog.Debug("grid", "id", def.ID, "table", def.Source.Table, "columns", len(def.Columns))
	}

	server := web.NewServer(cfg, provider)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		// Stop the session sweeper
		cancel()

		shutdownCtx, done := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer done()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
