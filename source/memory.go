package source

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/loadgate/loadgate-go/filter"
	"github.com/shopspring/decimal"
)

// Memory is an in-process Source backed by named row slices. It
// evaluates push-down filter text the same way a database would,
// including IN lists and #-delimited date-time literals, which makes
// it the reference source for tests and examples.
type Memory struct {
	mu     sync.RWMutex
	tables map[string][]Row
}

// NewMemory returns an empty in-process source.
func NewMemory() *Memory {
	return &Memory{tables: map[string][]Row{}}
}

// Add appends rows to a table, creating it on first use.
func (m *Memory) Add(table string, rows ...Row) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table] = append(m.tables[table], rows...)
	return m
}

// Fetch implements Source.
func (m *Memory) Fetch(ctx context.Context, q Query) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	stored, ok := m.tables[q.Table]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("memory source: unknown table %q", q.Table)
	}

	clauses := compileClauses(q.Filter)

	var rows []Row
	for _, r := range stored {
		if matchesAll(clauses, r) {
			rows = append(rows, r.Clone())
		}
	}
	Sort(rows, ParseOrderBy(q.OrderBy))
	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	if len(q.Columns) > 0 {
		for i, r := range rows {
			rows[i] = project(r, q.Columns)
		}
	}
	return rows, nil
}

func project(r Row, cols []string) Row {
	p := make(Row, len(cols))
	for _, c := range cols {
		if v, ok := r[c]; ok {
			p[c] = v
		}
	}
	return p
}

// clauseMatcher evaluates one push-down clause against a row.
type clauseMatcher func(Row) bool

var (
	inPattern    = regexp.MustCompile(`(?i)^[\s(]*([\w.]+)\s+IN\s*\(`)
	quotedString = regexp.MustCompile(`'([^']*)'`)
)

// compileClauses turns push-down filter text into row matchers. The
// text is a conjunction, so every matcher must accept a row.
func compileClauses(fltr string) []clauseMatcher {
	if strings.TrimSpace(fltr) == "" {
		return nil
	}
	var matchers []clauseMatcher
	for _, clause := range filter.SplitClauses(fltr) {
		if isBlank(clause) {
			continue
		}
		if m := inPattern.FindStringSubmatch(clause); m != nil {
			matchers = append(matchers, compileIn(m[1], clause))
			continue
		}
		matchers = append(matchers, compileComparison(clause))
	}
	return matchers
}

// isBlank reports a clause holding only parentheses and spaces, the
// residue of splitting an already wrapped conjunction.
func isBlank(clause string) bool {
	return strings.Trim(clause, "() ") == ""
}

// compileIn matches a column against a quoted IN list.
func compileIn(column, clause string) clauseMatcher {
	list := map[string]bool{}
	for _, m := range quotedString.FindAllStringSubmatch(clause, -1) {
		list[strings.ToLower(m[1])] = true
	}
	return func(r Row) bool {
		return list[strings.ToLower(r.String(column))]
	}
}

// compileComparison parses a single comparison clause, inferring the
// value kind from the row cell it is evaluated against. #-delimited
// date-time literals are requoted so the parser sees them as text.
func compileComparison(clause string) clauseMatcher {
	clause = strings.ReplaceAll(clause, "#", "'")
	prop := filter.PropertyName(clause)
	return func(r Row) bool {
		cell, ok := r[prop]
		if !ok {
			return true
		}
		kind := cellKind(cell)
		c := filter.ParseCondition(clause, kind)
		return c.Matches(filter.ValueOf(kind, cell))
	}
}

func cellKind(cell any) filter.Kind {
	switch cell.(type) {
	case int64, int:
		return filter.KindInt
	case decimal.Decimal, float64:
		return filter.KindDecimal
	case time.Time:
		return filter.KindDateTime
	}
	return filter.KindText
}

func matchesAll(clauses []clauseMatcher, r Row) bool {
	for _, m := range clauses {
		if !m(r) {
			return false
		}
	}
	return true
}
