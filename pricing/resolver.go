package pricing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/loadgate/loadgate-go/source"
)

// DefaultPriceCode applies when a customer has no price code on file.
const DefaultPriceCode = "Y00"

// Names holds the source-side table names the resolver reads. Zero
// fields take the defaults.
type Names struct {
	Customers  string // default "customer"
	Matrix     string // default "pricematrix"
	Formulas   string // default "priceformula"
	ItemPrices string // default "itemprice"
	Contracts  string // default "custprice"
}

func (n Names) withDefaults() Names {
	def := func(s, d string) string {
		if s == "" {
			return d
		}
		return s
	}
	return Names{
		Customers:  def(n.Customers, "customer"),
		Matrix:     def(n.Matrix, "pricematrix"),
		Formulas:   def(n.Formulas, "priceformula"),
		ItemPrices: def(n.ItemPrices, "itemprice"),
		Contracts:  def(n.Contracts, "custprice"),
	}
}

// Config configures a Resolver.
type Config struct {
	// Source fetches pricing rows.
	// REQUIRED: MUST NOT be nil.
	Source source.Source

	// Tables overrides the default table names.
	// OPTIONAL.
	Tables Names

	// DefaultPriceCode replaces a missing customer price code.
	// OPTIONAL: DefaultPriceCode constant if empty.
	DefaultPriceCode string

	// Logger for internal logging.
	// OPTIONAL: Uses slog.Default() if nil.
	Logger *slog.Logger
}

// Resolver resolves tiered prices against a row source. Construct
// with NewResolver; a Resolver is stateless and safe for concurrent
// use.
type Resolver struct {
	src       source.Source
	tables    Names
	priceCode string
	log       *slog.Logger
}

// NewResolver validates the config and builds a Resolver.
func NewResolver(cfg Config) (*Resolver, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("pricing: source is required")
	}
	priceCode := cfg.DefaultPriceCode
	if priceCode == "" {
		priceCode = DefaultPriceCode
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		src:       cfg.Source,
		tables:    cfg.Tables.withDefaults(),
		priceCode: priceCode,
		log:       logger,
	}, nil
}

// Resolve prices an item for a customer: the freshest list price,
// reshaped by the customer's price matrix when the item's price code
// has an entry, replaced by a contract when one exists.
func (r *Resolver) Resolve(ctx context.Context, item, customer string) (*Quote, error) {
	priceCode, err := r.customerPriceCode(ctx, customer)
	if err != nil {
		return nil, err
	}
	calc, err := r.calculator(ctx, priceCode)
	if err != nil {
		return nil, err
	}

	base, err := r.listPrice(ctx, item)
	if err != nil {
		return nil, err
	}

	q := &Quote{
		Item:       item,
		Customer:   customer,
		Price:      base.Decimal("UnitPrice"),
		Tier:       TierList,
		EffectDate: base.Time("EffectDate"),
		RecordDate: base.Time("RecordDate"),
	}

	if entry, ok := calc[base.String("Pricecode")]; ok {
		q.Price = entry.Formula.Apply(q.Price)
		q.Tier = TierMatrix
		q.RecordDate = maxTime(q.RecordDate, entry.RecordDate)
		q.RecordDate = maxTime(q.RecordDate, entry.Formula.RecordDate)
	}

	if err := r.applyContract(ctx, q); err != nil {
		return nil, err
	}

	r.log.Debug("price resolved",
		"item", item,
		"customer", customer,
		"tier", q.Tier,
	)
	return q, nil
}

// customerPriceCode looks the customer up and falls back to the
// default price code when the customer or the code is missing.
func (r *Resolver) customerPriceCode(ctx context.Context, customer string) (string, error) {
	rows, err := r.src.Fetch(ctx, source.Query{
		Table:  r.tables.Customers,
		Filter: "( CustNum = " + quote(customer) + " )",
		Limit:  1,
	})
	if err != nil {
		return "", fmt.Errorf("pricing: fetch customer: %w", err)
	}
	if len(rows) == 0 || rows[0].String("Pricecode") == "" {
		return r.priceCode, nil
	}
	return rows[0].String("Pricecode"), nil
}

// calculator fetches the matrix slice for a customer price code and
// the formulas it references, and builds the calculator.
func (r *Resolver) calculator(ctx context.Context, priceCode string) (Calculator, error) {
	rows, err := r.src.Fetch(ctx, source.Query{
		Table:   r.tables.Matrix,
		Filter:  "( CustPricecode = " + quote(priceCode) + " )",
		OrderBy: "CustPricecode, ItemPricecode",
	})
	if err != nil {
		return nil, fmt.Errorf("pricing: fetch price matrix: %w", err)
	}
	matrix := make([]MatrixRow, 0, len(rows))
	for _, row := range rows {
		matrix = append(matrix, MatrixRow{
			CustPriceCode: row.String("CustPricecode"),
			ItemPriceCode: row.String("ItemPricecode"),
			Formula:       row.String("Priceformula"),
			RecordDate:    row.Time("RecordDate"),
		})
	}

	formulas, err := r.formulas(ctx, FormulaNames(matrix))
	if err != nil {
		return nil, err
	}
	return BuildCalculator(matrix, formulas)
}

// formulas fetches the freshest definition of each named formula.
func (r *Resolver) formulas(ctx context.Context, names []string) (map[string]Formula, error) {
	if len(names) == 0 {
		return nil, nil
	}
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quote(n)
	}
	rows, err := r.src.Fetch(ctx, source.Query{
		Table:   r.tables.Formulas,
		Filter:  "( Priceformula IN ( " + strings.Join(quoted, ",") + " ) )",
		OrderBy: "Priceformula ASC, EffectDate DESC",
	})
	if err != nil {
		return nil, fmt.Errorf("pricing: fetch formulas: %w", err)
	}
	defs := make([]Formula, 0, len(rows))
	for _, row := range rows {
		defs = append(defs, Formula{
			Name:       row.String("Priceformula"),
			Kind:       FormulaKind(row.String("Type")),
			Value:      row.Decimal("Value"),
			RecordDate: row.Time("RecordDate"),
		})
	}
	return FirstPerName(defs), nil
}

// listPrice fetches the freshest item price row.
func (r *Resolver) listPrice(ctx context.Context, item string) (source.Row, error) {
	rows, err := r.src.Fetch(ctx, source.Query{
		Table:   r.tables.ItemPrices,
		Filter:  "( Item = " + quote(item) + " )",
		OrderBy: "Item ASC, EffectDate DESC",
		Limit:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("pricing: fetch item price: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPrice, item)
	}
	return rows[0], nil
}

// applyContract replaces the quote with the freshest contract row for
// the customer and item, when one exists.
func (r *Resolver) applyContract(ctx context.Context, q *Quote) error {
	rows, err := r.src.Fetch(ctx, source.Query{
		Table: r.tables.Contracts,
		Filter: "(( CustNum = " + quote(q.Customer) + " )) AND (( Item = " +
			quote(q.Item) + " ))",
		OrderBy: "Item ASC, EffectDate DESC",
		Limit:   1,
	})
	if err != nil {
		return fmt.Errorf("pricing: fetch contract: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}
	q.Price = rows[0].Decimal("Price")
	q.EffectDate = rows[0].Time("EffectDate")
	q.Tier = TierContract
	q.RecordDate = maxTime(q.RecordDate, rows[0].Time("RecordDate"))
	return nil
}

// quote wraps a value as a single-quoted filter literal.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
