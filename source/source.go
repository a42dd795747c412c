// Package source defines the row source abstraction the engine fetches
// from, together with row ordering helpers and an in-process source for
// tests and examples.
package source

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Row is a single fetched record. Cell values are string, int64,
// decimal.Decimal or time.Time; a missing cell reads as the zero value
// of the accessor used.
type Row map[string]any

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	c := make(Row, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// String returns the named cell as a string, or "" when absent or of
// another type.
func (r Row) String(name string) string {
	s, _ := r[name].(string)
	return s
}

// Int returns the named cell as an int64.
func (r Row) Int(name string) int64 {
	switch n := r[name].(type) {
	case int64:
		return n
	case int:
		return int64(n)
	}
	return 0
}

// Decimal returns the named cell as a decimal.
func (r Row) Decimal(name string) decimal.Decimal {
	switch d := r[name].(type) {
	case decimal.Decimal:
		return d
	case float64:
		return decimal.NewFromFloat(d)
	case int64:
		return decimal.NewFromInt(d)
	}
	return decimal.Decimal{}
}

// Time returns the named cell as a time.Time.
func (r Row) Time(name string) time.Time {
	t, _ := r[name].(time.Time)
	return t
}

// Query describes a single fetch against a source.
type Query struct {
	// Table is the source-side table or view name.
	Table string

	// Columns restricts the cells returned. Empty means all.
	Columns []string

	// Filter is push-down filter text: a conjunction of parenthesized
	// clauses. Date-time literals are #-delimited. Empty means no
	// filter.
	Filter string

	// OrderBy is a comma-separated list of "Column [ASC|DESC]" terms.
	// Empty means source order.
	OrderBy string

	// Limit caps the number of rows returned. Zero means no cap.
	Limit int
}

// Source fetches rows. Implementations MUST:
//   - honor Filter, OrderBy and Limit from the query
//   - return rows the caller may mutate freely
//   - be safe for concurrent use
type Source interface {
	Fetch(ctx context.Context, q Query) ([]Row, error)
}
