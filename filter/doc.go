// Package filter parses flat-text conjunctive filter strings into typed
// conditions and evaluates them against values.
//
// Filter strings arrive from host request protocols as SQL-flavored text,
// a conjunction of atomic clauses joined by AND:
//
//	(Item LIKE 'AB%') AND (UnitPrice >= 10.5) AND (EffectDate < '20240101')
//
// The package splits such a string into clauses, normalizes legacy
// scaffolding the upstream emitters produce (N-prefixed literals,
// DATEPART calls, unbalanced parentheses), and extracts from each clause
// a property name, a comparison operator, and a typed value.
//
// Values are typed: text, integer, decimal, date-time, or flag. A value
// that fails to parse is invalid and the condition it belongs to matches
// every row, so a malformed clause never filters anything out.
//
// Conditions on the same property accumulate in a Set. A Set may be
// seeded with a default clause; the first edit replaces the seed and
// later edits append. Sets evaluate locally via Matches and render back
// to filter text via FilterString for push-down to a row source.
package filter
