package store

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Pagination Tests
// ============================================================================

func TestPaginate(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		total      int64
		wantPage   int
		wantPages  int
		wantOffset int
	}{
		{"first page", 1, 10, 25, 1, 3, 0},
		{"last page", 3, 10, 25, 3, 3, 20},
		{"past end clamps", 9, 10, 25, 3, 3, 20},
		{"zero clamps to first", 0, 10, 25, 1, 3, 0},
		{"empty table", 1, 10, 0, 1, 1, 0},
		{"exact multiple", 2, 5, 10, 2, 2, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, pages, offset := paginate(tt.page, tt.size, tt.total)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantPages, pages)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestFormatKey(t *testing.T) {
	assert.Equal(t, "", FormatKey(nil))
	assert.Equal(t, "abc", FormatKey("abc"))
	assert.Equal(t, "raw", FormatKey([]byte("raw")))
	assert.Equal(t, "42", FormatKey(int64(42)))
}

// ============================================================================
// MemoryProvider Tests
// ============================================================================

func newMemory() *MemoryProvider {
	m := NewMemoryProvider()
	rows := make([]Row, 0, 7)
	for _, k := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		rows = append(rows, Row{Key: k, Values: Record{"name": strings.ToUpper(k), "extra": 1}})
	}
	m.Put("letters", rows)
	return m
}

func TestMemoryProvider_Page(t *testing.T) {
	m := newMemory()

	p, err := m.Page(context.Background(), Query{
		Table: "letters", KeyColumn: "id", Columns: []string{"name"}, Page: 2, PageSize: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, p.Number)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, int64(7), p.TotalRows)
	assert.Equal(t, []string{"d", "e", "f"}, p.Keys())
	assert.Equal(t, Record{"name": "D"}, p.Rows[0].Values, "only requested columns are copied")
}

func TestMemoryProvider_LastPartialPage(t *testing.T) {
	m := newMemory()

	p, err := m.Page(context.Background(), Query{
		Table: "letters", KeyColumn: "id", Page: 99, PageSize: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, p.Number)
	assert.Equal(t, []string{"g"}, p.Keys())
}

func TestMemoryProvider_Errors(t *testing.T) {
	m := newMemory()
	ctx := context.Background()

	_, err := m.Page(ctx, Query{Table: "missing", KeyColumn: "id", PageSize: 3})
	assert.ErrorContains(t, err, "unknown table")

	_, err = m.Page(ctx, Query{Table: "letters", KeyColumn: "id", PageSize: 0})
	assert.ErrorContains(t, err, "page size")

	_, err = m.Page(ctx, Query{Table: "letters", PageSize: 3})
	assert.ErrorContains(t, err, "key column")
}

// ============================================================================
// PostgresProvider Query Building Tests
// ============================================================================

func TestSelectPage(t *testing.T) {
	table := pgx.Identifier{"public", "orders"}.Sanitize()
	q := Query{Table: "public.orders", KeyColumn: "id", Columns: []string{"customer", "total"}, PageSize: 20}

	sql, args := selectPage(table, q, 40)

	assert.Equal(t,
		`SELECT "id", "customer", "total" FROM "public"."orders" ORDER BY "id" ASC LIMIT $1 OFFSET $2`,
		sql,
	)
	assert.Equal(t, []any{20, 40}, args)
}

func TestSelectPage_QuotesHostileIdentifiers(t *testing.T) {
	q := Query{Table: "t", KeyColumn: `id"; DROP TABLE x; --`, PageSize: 1}

	sql, _ := selectPage(pgx.Identifier{"t"}.Sanitize(), q, 0)

	assert.Contains(t, sql, `"id""; DROP TABLE x; --"`)
}
