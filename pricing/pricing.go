// Package pricing resolves tiered prices: a list price from the item
// price history, optionally reshaped by a customer price matrix
// formula, optionally replaced by a customer contract. Every quote
// carries the tier that produced it and a provenance record date, the
// newest record date among the rows that contributed.
package pricing

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Tier names the source of a resolved price.
type Tier string

const (
	TierList     Tier = "List"
	TierMatrix   Tier = "Matrix"
	TierContract Tier = "Contract"
)

// FormulaKind selects how a matrix formula reshapes the list price.
type FormulaKind string

const (
	// KindAmount replaces the list price with the formula value.
	KindAmount FormulaKind = "A"

	// KindPercent marks the list price up (or down, when negative) by
	// the formula value percent.
	KindPercent FormulaKind = "P"
)

// Formula is one price formula definition.
type Formula struct {
	Name       string
	Kind       FormulaKind
	Value      decimal.Decimal
	RecordDate time.Time
}

// Apply computes the formula's price from a list price. Percent
// results round to two places, half away from zero. An unrecognized
// kind leaves the list price unchanged.
func (f Formula) Apply(listPrice decimal.Decimal) decimal.Decimal {
	switch f.Kind {
	case KindAmount:
		return f.Value
	case KindPercent:
		hundred := decimal.NewFromInt(100)
		return listPrice.Mul(hundred.Add(f.Value)).Div(hundred).Round(2)
	}
	return listPrice
}

// Quote is a resolved price.
type Quote struct {
	Item     string
	Customer string

	Price decimal.Decimal
	Tier  Tier

	// EffectDate is when the winning price row took effect.
	EffectDate time.Time

	// RecordDate is the newest record date among every row that
	// contributed to the quote.
	RecordDate time.Time
}

// ErrNoPrice indicates no price row exists for the item.
var ErrNoPrice = errors.New("no price record for item")

// UnknownFormulaError reports a matrix row naming a formula that has
// no definition. This is a data configuration problem, not a reason
// to fall back silently to the list price.
type UnknownFormulaError struct {
	Name string
}

func (e *UnknownFormulaError) Error() string {
	return "price matrix names unknown formula '" + e.Name + "'"
}

// maxTime returns the later of two times.
func maxTime(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
