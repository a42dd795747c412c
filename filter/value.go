package filter

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// timeFormats lists accepted date-time layouts in trial order, each
// with the precision it implies. Fractional layouts precede their
// fraction-less prefixes: time.Parse leniently absorbs a fractional
// second against a layout without one, which would tag a millisecond
// literal with second precision.
var timeFormats = []struct {
	layout    string
	precision Precision
}{
	{"1/2/2006 3:04:05 PM", PrecisionSecond},
	{"1/2/2006 15:04:05.000", PrecisionMilli},
	{"20060102 15:04:05.000", PrecisionMilli},
	{"20060102 15:04:05", PrecisionSecond},
	{"2006-01-02T15:04:05", PrecisionSecond},
	{"20060102", PrecisionSecond},
	{"2006-01-02 15:04:05", PrecisionSecond},
	{"2006-01-02", PrecisionSecond},
	{"1/2/2006", PrecisionSecond},
}

// ParseValue parses raw clause text into a typed value. It never
// returns an error: text that does not parse yields an invalid value,
// which places no constraint on matching.
func ParseValue(kind Kind, raw string) Value {
	switch kind {
	case KindText:
		if raw == "" {
			return Invalid(KindText)
		}
		return Text(raw)
	case KindInt:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return Invalid(KindInt)
		}
		return Int(n)
	case KindFlag:
		return Flag(parseFlag(raw))
	case KindDecimal:
		d, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return Invalid(KindDecimal)
		}
		return Decimal(d)
	case KindDateTime:
		return parseTime(raw)
	}
	return Invalid(kind)
}

// parseFlag maps checkbox text to 1, 0 or -1 (indeterminate).
func parseFlag(raw string) int64 {
	switch strings.TrimSpace(raw) {
	case "1":
		return 1
	case "", "0":
		return 0
	}
	return -1
}

func parseTime(raw string) Value {
	raw = strings.TrimSpace(raw)
	for _, f := range timeFormats {
		if t, err := time.Parse(f.layout, raw); err == nil {
			return DateTime(t, f.precision)
		}
	}
	return Invalid(KindDateTime)
}

// ValueOf wraps a row cell in a Value of the given kind. Cells of an
// unexpected dynamic type yield an invalid value, which matches every
// condition.
func ValueOf(kind Kind, cell any) Value {
	if cell == nil {
		return Invalid(kind)
	}
	switch kind {
	case KindText:
		if s, ok := cell.(string); ok {
			return Text(s)
		}
	case KindInt, KindFlag:
		switch n := cell.(type) {
		case int64:
			return Value{Kind: kind, Valid: true, Data: n}
		case int:
			return Value{Kind: kind, Valid: true, Data: int64(n)}
		}
	case KindDecimal:
		switch d := cell.(type) {
		case decimal.Decimal:
			return Decimal(d)
		case float64:
			return Decimal(decimal.NewFromFloat(d))
		case int64:
			return Decimal(decimal.NewFromInt(d))
		}
	case KindDateTime:
		switch t := cell.(type) {
		case time.Time:
			return DateTime(t, PrecisionMilli)
		case Timestamp:
			return Value{Kind: KindDateTime, Valid: true, Data: t}
		}
	}
	return Invalid(kind)
}
