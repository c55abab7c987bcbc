package grids

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/checkgrid/internal/grid"
	"github.com/JonMunkholm/checkgrid/internal/store"
)

func TestDemoGridsRegistered(t *testing.T) {
	for _, id := range []string{"orders", "customers", "invoices"} {
		def, err := grid.Lookup(id)
		require.NoError(t, err, id)
		assert.NoError(t, def.Validate(), id)
	}
}

func TestSeedServesEveryDemoGrid(t *testing.T) {
	m := store.NewMemoryProvider()
	Seed(m)

	for _, def := range []string{"orders", "customers", "invoices"} {
		d, err := grid.Lookup(def)
		require.NoError(t, err)

		p, err := m.Page(context.Background(), store.Query{
			Table: d.Source.Table, KeyColumn: d.Source.KeyColumn, Columns: d.Attributes(), Page: 1, PageSize: 10,
		})
		require.NoError(t, err, def)
		assert.NotEmpty(t, p.Rows, def)
		for _, r := range p.Rows {
			for _, attr := range d.Attributes() {
				assert.Contains(t, r.Values, attr, "%s row %s", def, r.Key)
			}
		}
	}
}

func TestOrdersPreChecksFlagged(t *testing.T) {
	def, err := grid.Lookup("orders")
	require.NoError(t, err)

	flagged, err := grid.IsChecked(&def.Checkbox, grid.DisplayContext(store.Record{"status": "flagged"}, "k", 0))
	require.NoError(t, err)
	assert.True(t, flagged)

	open, err := grid.IsChecked(&def.Checkbox, grid.DisplayContext(store.Record{"status": "open"}, "k", 0))
	require.NoError(t, err)
	assert.False(t, open)
}

func TestNumber(t *testing.T) {
	var num pgtype.Numeric
	require.NoError(t, num.Scan("12.5"))

	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{1.5, 1.5, true},
		{int64(3), 3, true},
		{7, 7, true},
		{"2.25", 2.25, true},
		{"n/a", 0, false},
		{num, 12.5, true},
		{pgtype.Numeric{}, 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := Number(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, "%v", tt.in)
	}
}
