// Package store reads pages of grid rows from a backing table.
package store

import (
	"context"
	"fmt"
	"strings"
)

// Record is a single row as attribute/value pairs.
type Record map[string]any

// Row is one row of a page with its identity.
type Row struct {
	Key    string
	Values Record
}

// Query selects one page of a table.
type Query struct {
	Table     string
	KeyColumn string
	Columns   []string // Data columns in display order
	Page      int      // 1-based; clamped into range
	PageSize  int
}

// Page is a slice of rows plus pagination state.
type Page struct {
	Rows       []Row
	Number     int
	Size       int
	TotalRows  int64
	TotalPages int
}

// Keys returns the row keys in page order.
func (p *Page) Keys() []string {
	keys := make([]string, len(p.Rows))
	for i, r := range p.Rows {
		keys[i] = r.Key
	}
	return keys
}

// Provider reads pages of rows.
type Provider interface {
	Page(ctx context.Context, q Query) (*Page, error)
}

// validate rejects queries no provider can serve.
func (q Query) validate() error {
	if q.Table == "" || q.KeyColumn == "" {
		return fmt.Errorf("query: table and key column are required")
	}
	if q.PageSize <= 0 {
		return fmt.Errorf("query: page size must be positive, got %d", q.PageSize)
	}
	return nil
}

// paginate clamps page into range and returns it with the total page
// count and row offset.
func paginate(page, pageSize int, totalRows int64) (int, int, int) {
	totalPages := int((totalRows + int64(pageSize) - 1) / int64(pageSize))
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return page, totalPages, (page - 1) * pageSize
}

// FormatKey converts a key column value to its string identity.
func FormatKey(v any) string {
	switch k := v.(type) {
	case nil:
		return ""
	case string:
		return k
	case []byte:
		return string(k)
	case fmt.Stringer:
		return k.String()
	default:
		return strings.TrimSpace(fmt.Sprint(k))
	}
}
