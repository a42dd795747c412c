package filter

import "strings"

// operatorScan lists operator tokens in match priority order. The first
// token contained in the clause wins, so two-character operators appear
// before their one-character prefixes and LIKE variants carry their
// surrounding spaces to avoid matching inside identifiers.
var operatorScan = []string{
	">=", "<=", "=", "<", ">",
	" NOT LIKE ", " not like ",
	" LIKE ", " like ",
	"!=", "<>",
}

// artifacts are SQL scaffolding fragments stripped from property names.
var artifacts = []string{
	"dbo.MidnightOfdateaddday, 1,",
	"cast as datetime",
}

// dateShiftMarker flags a clause whose value is the start of the next
// day rather than the written date.
const dateShiftMarker = "dateadd(day"

// ParseCondition parses a single filter clause into a typed condition.
// The clause is balanced first, then the operator, value and property
// name are extracted. Parsing never fails: a clause that yields no
// usable value produces a condition that matches everything.
func ParseCondition(clause string, kind Kind) Condition {
	clause = FixParens(clause)
	token := extractOperator(clause)
	raw := extractValue(clause, token)
	v := ParseValue(kind, raw)
	if kind == KindDateTime && v.Valid && strings.Contains(clause, dateShiftMarker) {
		ts := v.Data.(Timestamp)
		ts.Time = ts.Time.AddDate(0, 0, 1)
		v.Data = ts
	}
	return Condition{
		Property: extractProperty(clause, token, raw),
		Operator: canonicalOperator(token),
		Value:    v,
		Raw:      clause,
	}
}

// PropertyName extracts the property a clause constrains, without
// parsing the value. Used to route a clause before its value kind is
// known.
func PropertyName(clause string) string {
	clause = FixParens(clause)
	token := extractOperator(clause)
	return extractProperty(clause, token, extractValue(clause, token))
}

// extractOperator returns the first scan token contained in the clause,
// trimmed. A clause with no recognizable operator defaults to "=".
func extractOperator(clause string) string {
	for _, tok := range operatorScan {
		if strings.Contains(clause, tok) {
			return strings.TrimSpace(tok)
		}
	}
	return "="
}

// canonicalOperator maps a matched token to its canonical Operator.
func canonicalOperator(token string) Operator {
	switch strings.ToUpper(token) {
	case "!=", "<>":
		return OpNotEqual
	case "LIKE":
		return OpLike
	case "NOT LIKE":
		return OpNotLike
	default:
		return Operator(token)
	}
}

// extractValue pulls the comparison value out of a clause. Quoted
// values span the first through last single quote. Unquoted values are
// the right-hand side of the operator once parentheses and spaces are
// stripped; anything else yields the empty string.
func extractValue(clause, token string) string {
	if i := strings.Index(clause, "'"); i >= 0 {
		j := strings.LastIndex(clause, "'")
		if j > i {
			return clause[i+1 : j]
		}
		return ""
	}
	bare := strings.NewReplacer("(", "", ")", "", " ", "").Replace(clause)
	parts := strings.Split(bare, token)
	if len(parts) == 2 {
		return parts[1]
	}
	return ""
}

// extractProperty strips everything that is not the property name:
// parentheses, the operator token, the value, quotes and known SQL
// scaffolding fragments.
func extractProperty(clause, token, value string) string {
	s := strings.ReplaceAll(clause, "(", "")
	s = strings.ReplaceAll(s, ")", "")
	s = strings.ReplaceAll(s, token, "")
	if value != "" {
		s = strings.ReplaceAll(s, value, "")
	}
	s = strings.ReplaceAll(s, "'", "")
	for _, a := range artifacts {
		s = strings.ReplaceAll(s, a, "")
	}
	return strings.TrimSpace(s)
}
