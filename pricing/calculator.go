package pricing

import "time"

// MatrixRow is one customer price matrix record: for customers with
// CustPriceCode, items with ItemPriceCode price by the named formula.
type MatrixRow struct {
	CustPriceCode string
	ItemPriceCode string
	Formula       string
	RecordDate    time.Time
}

// Entry is a resolved matrix row: the formula is looked up and ready
// to apply.
type Entry struct {
	ItemPriceCode string
	Formula       Formula

	// RecordDate is the matrix row's own record date; the formula
	// definition carries its own.
	RecordDate time.Time
}

// Calculator maps an item price code to the matrix entry that prices
// it for one customer price code.
type Calculator map[string]Entry

// BuildCalculator resolves matrix rows against formula definitions.
// Rows arrive ordered by customer price code then item price code and
// the first row per item price code wins. A row naming a formula with
// no definition fails with UnknownFormulaError.
func BuildCalculator(rows []MatrixRow, formulas map[string]Formula) (Calculator, error) {
	calc := make(Calculator, len(rows))
	for _, row := range rows {
		if _, ok := calc[row.ItemPriceCode]; ok {
			continue
		}
		f, ok := formulas[row.Formula]
		if !ok {
			return nil, &UnknownFormulaError{Name: row.Formula}
		}
		calc[row.ItemPriceCode] = Entry{
			ItemPriceCode: row.ItemPriceCode,
			Formula:       f,
			RecordDate:    row.RecordDate,
		}
	}
	return calc, nil
}

// FormulaNames returns the distinct formula names the rows reference,
// in first-appearance order.
func FormulaNames(rows []MatrixRow) []string {
	seen := make(map[string]bool, len(rows))
	var names []string
	for _, row := range rows {
		if seen[row.Formula] {
			continue
		}
		seen[row.Formula] = true
		names = append(names, row.Formula)
	}
	return names
}

// FirstPerName collapses formula definitions, ordered by name then
// effect date descending, to the freshest definition per name.
func FirstPerName(defs []Formula) map[string]Formula {
	out := make(map[string]Formula, len(defs))
	for _, d := range defs {
		if _, ok := out[d.Name]; ok {
			continue
		}
		out[d.Name] = d
	}
	return out
}
