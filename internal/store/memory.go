package store

import (
	"context"
	"fmt"
	"sync"
)

// MemoryProvider serves pages from in-memory tables. Rows keep insertion
// order. Used for the demo grids and in tests.
type MemoryProvider struct {
	mu     sync.RWMutex
	tables map[string][]Row
}

// NewMemoryProvider returns an empty provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{tables: make(map[string][]Row)}
}

// Put replaces the rows of table.
func (m *MemoryProvider) Put(table string, rows []Row) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table] = rows
}

// Page implements Provider.
func (m *MemoryProvider) Page(_ context.Context, q Query) (*Page, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	all, ok := m.tables[q.Table]
	if !ok {
		return nil, fmt.Errorf("unknown table: %s", q.Table)
	}

	page, totalPages, offset := paginate(q.Page, q.PageSize, int64(len(all)))
	end := min(offset+q.PageSize, len(all))

	result := &Page{Number: page, Size: q.PageSize, TotalRows: int64(len(all)), TotalPages: totalPages}
	for _, r := range all[offset:end] {
		rec := make(Record, len(q.Columns))
		for _, c := range q.Columns {
			rec[c] = r.Values[c]
		}
		result.Rows = append(result.Rows, Row{Key: r.Key, Values: rec})
	}
	return result, nil
}
