package filter

import (
	"regexp"
	"strings"
)

// substitutions rewrites scaffolding the upstream filter emitters
// produce into the plain form the parser understands. Order matters:
// each pair applies to the output of the previous one.
var substitutions = [...][2]string{
	{" <> N", " <> "},
	{" = N", " = "},
	{" like N", " like "},
	{"DATEPART( yyyy, ", "YEAR( "},
	{"DATEPART( mm, ", "MONTH( "},
	{"DATEPART( dd, ", "DAY( "},
}

var clauseSplitter = regexp.MustCompile(`\bAND\b`)

// SplitClauses splits a conjunctive filter string on the word AND,
// normalizes each clause and wraps it in parentheses. An empty or
// blank input yields nil.
func SplitClauses(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := clauseSplitter.Split(s, -1)
	clauses := make([]string, 0, len(parts))
	for _, p := range parts {
		clauses = append(clauses, "( "+NormalizeClause(strings.TrimSpace(p))+" )")
	}
	return clauses
}

// NormalizeClause applies the substitution table to a single clause.
func NormalizeClause(s string) string {
	for _, sub := range substitutions {
		s = strings.ReplaceAll(s, sub[0], sub[1])
	}
	return s
}

// FixParens balances parentheses by appending missing closers or
// prepending missing openers.
func FixParens(s string) string {
	diff := strings.Count(s, "(") - strings.Count(s, ")")
	switch {
	case diff > 0:
		return s + strings.Repeat(")", diff)
	case diff < 0:
		return strings.Repeat("(", -diff) + s
	}
	return s
}
