package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Querier is the subset of pgx used for page reads.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

// PostgresProvider reads pages from PostgreSQL tables ordered by key.
type PostgresProvider struct {
	db Querier
}

// NewPostgresProvider returns a provider over db.
func NewPostgresProvider(db Querier) *PostgresProvider {
	return &PostgresProvider{db: db}
}

// Page implements Provider.
func (p *PostgresProvider) Page(ctx context.Context, q Query) (*Page, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	table := pgx.Identifier(strings.Split(q.Table, ".")).Sanitize()

	var totalRows int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
	if err := p.db.QueryRow(ctx, countQuery).Scan(&totalRows); err != nil {
		return nil, fmt.Errorf("count rows: %w", err)
	}

	page, totalPages, offset := paginate(q.Page, q.PageSize, totalRows)

	query, args := selectPage(table, q, offset)
	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	result := &Page{Number: page, Size: q.PageSize, TotalRows: totalRows, TotalPages: totalPages}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row values: %w", err)
		}

		rec := make(Record, len(q.Columns))
		for i, col := range q.Columns {
			rec[col] = values[i+1]
		}
		result.Rows = append(result.Rows, Row{Key: FormatKey(values[0]), Values: rec})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

// selectPage builds the page query: key column first, then data columns.
func selectPage(table string, q Query, offset int) (string, []any) {
	key := pgx.Identifier{q.KeyColumn}.Sanitize()
	cols := make([]string, 0, len(q.Columns)+1)
	cols = append(cols, key)
	for _, c := range q.Columns {
		cols = append(cols, pgx.Identifier{c}.Sanitize())
	}

	query := fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY %s ASC LIMIT $1 OFFSET $2",
		strings.Join(cols, ", "),
		table,
		key,
	)
	return query, []any{q.PageSize, offset}
}
