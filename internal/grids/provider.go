package grids

import (
	"context"
	"log/slog"

	"github.com/JonMunkholm/checkgrid/internal/config"
	"github.com/JonMunkholm/checkgrid/internal/store"
)

// OpenProvider returns the row source for the configured database. With
// no database URL the demo tables are served from memory. The returned
// func releases the provider's resources.
func OpenProvider(ctx context.Context, db config.DatabaseConfig) (store.Provider, func(), error) {
	if !db.Enabled() {
		m := store.NewMemoryProvider()
		Seed(m)
		slog.Info("no database configured, serving demo grids from memory")
		return m, func() {}, nil
	}

	pool, err := store.NewPool(ctx, db)
	if err != nil {
		return nil, nil, err
	}
	return store.NewPostgresProvider(pool), pool.Close, nil
}
