// Package sqlsource adapts a database/sql database to the source.Source
// interface. Push-down filter text translates almost directly: the
// clause grammar is SQL-shaped by construction, only the #-delimited
// date-time literals need rewriting into TIMESTAMP literals.
//
// Constructors are provided for DuckDB and SQLite; any driver whose
// dialect accepts double-quoted identifiers and standard SELECT syntax
// works through New.
package sqlsource

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loadgate/loadgate-go/source"
)

// Store is a database/sql backed row source. It is safe for
// concurrent use.
type Store struct {
	db *sql.DB
}

// New wraps an open database handle. The caller keeps ownership of
// the handle unless Close is used.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens a database by driver name and DSN.
func Open(driver, dsn string) (*Store, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlsource: open %s: %w", driver, err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle, for schema setup and seeding.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Fetch implements source.Source.
func (s *Store) Fetch(ctx context.Context, q source.Query) ([]source.Row, error) {
	stmt, err := buildSelect(q)
	if err != nil {
		return nil, fmt.Errorf("sqlsource: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("sqlsource: query %s: %w", q.Table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sqlsource: columns: %w", err)
	}

	var out []source.Row
	cells := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range cells {
		ptrs[i] = &cells[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("sqlsource: scan: %w", err)
		}
		r := make(source.Row, len(cols))
		for i, c := range cols {
			r[c] = normalizeCell(cells[i])
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlsource: rows: %w", err)
	}
	return out, nil
}

// normalizeCell maps driver scan types onto row cell types.
func normalizeCell(cell any) any {
	switch v := cell.(type) {
	case nil:
		return nil
	case []byte:
		return string(v)
	case string, int64, time.Time:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case bool:
		if v {
			return int64(1)
		}
		return int64(0)
	case float64:
		return decimal.NewFromFloat(v)
	case float32:
		return decimal.NewFromFloat32(v)
	}
	return fmt.Sprint(cell)
}
