package source

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderTerm is one column of an order-by list.
type OrderTerm struct {
	Column string
	Desc   bool
}

// ParseOrderBy parses a comma-separated order-by list such as
// "Item ASC, EffectDate DESC". A bare column name sorts ascending.
func ParseOrderBy(s string) []OrderTerm {
	var terms []OrderTerm
	for _, part := range strings.Split(s, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		t := OrderTerm{Column: fields[0]}
		if len(fields) > 1 && strings.EqualFold(fields[1], "DESC") {
			t.Desc = true
		}
		terms = append(terms, t)
	}
	return terms
}

// Sort orders rows in place by the given terms. The sort is stable so
// rows equal under every term keep their fetch order.
func Sort(rows []Row, terms []OrderTerm) {
	if len(terms) == 0 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, t := range terms {
			c := CompareCells(rows[i][t.Column], rows[j][t.Column])
			if c == 0 {
				continue
			}
			if t.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// CompareCells compares two row cells of the same column. Nil sorts
// first; text compares case-insensitively.
func CompareCells(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		}
		return 1
	}
	switch av := a.(type) {
	case string:
		bv, _ := b.(string)
		return strings.Compare(strings.ToLower(av), strings.ToLower(bv))
	case int64:
		bv, _ := b.(int64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case decimal.Decimal:
		switch bv := b.(type) {
		case decimal.Decimal:
			return av.Cmp(bv)
		case float64:
			return av.Cmp(decimal.NewFromFloat(bv))
		}
	case float64:
		switch bv := b.(type) {
		case float64:
			return decimal.NewFromFloat(av).Cmp(decimal.NewFromFloat(bv))
		case decimal.Decimal:
			return decimal.NewFromFloat(av).Cmp(bv)
		}
	case time.Time:
		bv, _ := b.(time.Time)
		switch {
		case av.Before(bv):
			return -1
		case av.After(bv):
			return 1
		}
		return 0
	}
	return 0
}
