package filter

import (
	"time"

	"github.com/shopspring/decimal"
)

// Operator is a canonical comparison operator.
type Operator string

const (
	OpEqual        Operator = "="
	OpNotEqual     Operator = "<>"
	OpLess         Operator = "<"
	OpGreater      Operator = ">"
	OpLessEqual    Operator = "<="
	OpGreaterEqual Operator = ">="
	OpLike         Operator = "LIKE"
	OpNotLike      Operator = "NOT LIKE"
)

// Kind identifies the value type a property carries.
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindDecimal
	KindDateTime
	// KindFlag is a checkbox-style property: 1, 0, or indeterminate.
	KindFlag
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInt:
		return "int"
	case KindDecimal:
		return "decimal"
	case KindDateTime:
		return "datetime"
	case KindFlag:
		return "flag"
	}
	return "unknown"
}

// Precision tags how finely a parsed date-time constrains a comparison.
// An equality test against a second-precision value matches the half-open
// window [v, v+1s); milli-precision values compare exactly.
type Precision int

const (
	PrecisionSecond Precision = iota
	PrecisionMilli
)

// Timestamp is a date-time value together with its parse precision.
type Timestamp struct {
	Time      time.Time
	Precision Precision
}

// Value is a typed filter value. Data holds string for KindText,
// int64 for KindInt and KindFlag, decimal.Decimal for KindDecimal and
// Timestamp for KindDateTime. Valid reports whether the value parsed;
// an invalid value places no constraint on matching.
type Value struct {
	Kind  Kind
	Valid bool
	Data  any
}

// Text returns a valid text value.
func Text(s string) Value { return Value{Kind: KindText, Valid: true, Data: s} }

// Int returns a valid integer value.
func Int(v int64) Value { return Value{Kind: KindInt, Valid: true, Data: v} }

// Decimal returns a valid decimal value.
func Decimal(d decimal.Decimal) Value { return Value{Kind: KindDecimal, Valid: true, Data: d} }

// DateTime returns a valid date-time value with the given precision.
func DateTime(t time.Time, p Precision) Value {
	return Value{Kind: KindDateTime, Valid: true, Data: Timestamp{Time: t, Precision: p}}
}

// Flag returns a valid flag value, v is 1, 0 or -1 (indeterminate).
func Flag(v int64) Value { return Value{Kind: KindFlag, Valid: true, Data: v} }

// Invalid returns an invalid value of the given kind.
func Invalid(k Kind) Value { return Value{Kind: k} }

// Condition is a single parsed filter clause.
type Condition struct {
	// Property is the extracted property name.
	Property string

	// Operator is the canonical comparison operator.
	Operator Operator

	// Value is the typed comparison value. An invalid value means the
	// clause carried no usable constraint and the condition matches
	// every input.
	Value Value

	// Raw is the normalized clause text the condition was parsed from.
	Raw string
}
