package sqlsource

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/loadgate/loadgate-go/source"
)

// filterTimeLayout parses #-delimited date-time literals in push-down
// filter text. The engine emits zero-padded month and day; the
// unpadded layout accepts both forms.
const filterTimeLayout = "1/2/2006 15:04:05.000"

// sqlTimeLayout is how the same instants are written as SQL TIMESTAMP
// literals.
const sqlTimeLayout = "2006-01-02 15:04:05.000"

var timeLiteralPattern = regexp.MustCompile(`#([^#]*)#`)

// identPattern matches names safe to interpolate as identifiers.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// buildSelect renders a source query as a SELECT statement.
func buildSelect(q source.Query) (string, error) {
	if !identPattern.MatchString(q.Table) {
		return "", fmt.Errorf("invalid table name %q", q.Table)
	}
	var b strings.Builder
	b.WriteString("SELECT ")
	if len(q.Columns) == 0 {
		b.WriteString("*")
	} else {
		for i, c := range q.Columns {
			if !identPattern.MatchString(c) {
				return "", fmt.Errorf("invalid column name %q", c)
			}
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(quoteIdentifier(c))
		}
	}
	b.WriteString(" FROM ")
	b.WriteString(quoteIdentifier(q.Table))

	if strings.TrimSpace(q.Filter) != "" {
		b.WriteString(" WHERE ")
		b.WriteString(translateFilter(q.Filter))
	}
	if q.OrderBy != "" {
		order, err := translateOrderBy(q.OrderBy)
		if err != nil {
			return "", err
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(order)
	}
	if q.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.Limit)
	}
	return b.String(), nil
}

// translateFilter rewrites #-delimited date-time literals into
// TIMESTAMP literals. Everything else in the clause grammar is
// already valid SQL.
func translateFilter(fltr string) string {
	return timeLiteralPattern.ReplaceAllStringFunc(fltr, func(m string) string {
		raw := strings.Trim(m, "#")
		t, err := time.Parse(filterTimeLayout, raw)
		if err != nil {
			return "'" + strings.ReplaceAll(raw, "'", "''") + "'"
		}
		return "TIMESTAMP '" + t.Format(sqlTimeLayout) + "'"
	})
}

// translateOrderBy validates and requotes an order-by list.
func translateOrderBy(orderBy string) (string, error) {
	terms := source.ParseOrderBy(orderBy)
	if len(terms) == 0 {
		return "", fmt.Errorf("invalid order by %q", orderBy)
	}
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		if !identPattern.MatchString(t.Column) {
			return "", fmt.Errorf("invalid order column %q", t.Column)
		}
		dir := " ASC"
		if t.Desc {
			dir = " DESC"
		}
		parts = append(parts, quoteIdentifier(t.Column)+dir)
	}
	return strings.Join(parts, ", "), nil
}

// quoteIdentifier wraps an identifier in double quotes, escaping
// embedded quotes.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
