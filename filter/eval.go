package filter

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Matches reports whether a row value satisfies the condition. An
// invalid condition value matches everything, as does an invalid row
// value: missing constraints and missing cells never filter rows out.
func (c Condition) Matches(v Value) bool {
	if !c.Value.Valid || !v.Valid {
		return true
	}
	switch c.Value.Kind {
	case KindText:
		return matchText(c.Operator, c.Value.Data.(string), v.Data.(string))
	case KindInt:
		return matchOrdered(c.Operator, compareInt(v.Data.(int64), c.Value.Data.(int64)))
	case KindFlag:
		return matchFlag(c.Operator, c.Value.Data.(int64), v.Data.(int64))
	case KindDecimal:
		cd := c.Value.Data.(decimal.Decimal)
		return matchOrdered(c.Operator, v.Data.(decimal.Decimal).Cmp(cd))
	case KindDateTime:
		return matchTime(c.Operator, c.Value.Data.(Timestamp), v.Data.(Timestamp))
	}
	return true
}

func matchText(op Operator, pattern, s string) bool {
	switch op {
	case OpEqual:
		return strings.EqualFold(s, pattern)
	case OpNotEqual:
		return !strings.EqualFold(s, pattern)
	case OpLess, OpLessEqual, OpGreater, OpGreaterEqual:
		return matchOrdered(op, strings.Compare(s, pattern))
	case OpLike:
		return likeMatch(pattern, s)
	case OpNotLike:
		return !likeMatch(pattern, s)
	}
	return true
}

// likeMatch evaluates a SQL LIKE pattern as an anchored
// case-insensitive regular expression: % matches any run, _ matches a
// single character, everything else is literal.
func likeMatch(pattern, s string) bool {
	expr := regexp.QuoteMeta(pattern)
	expr = strings.ReplaceAll(expr, "%", ".*")
	expr = strings.ReplaceAll(expr, "_", ".")
	re, err := regexp.Compile("(?i)^" + expr + "$")
	if err != nil {
		return true
	}
	return re.MatchString(s)
}

// matchOrdered applies a relational operator to a three-way comparison
// result. LIKE operators do not apply to ordered kinds and match.
func matchOrdered(op Operator, cmp int) bool {
	switch op {
	case OpEqual:
		return cmp == 0
	case OpNotEqual:
		return cmp != 0
	case OpLess:
		return cmp < 0
	case OpGreater:
		return cmp > 0
	case OpLessEqual:
		return cmp <= 0
	case OpGreaterEqual:
		return cmp >= 0
	}
	return true
}

// matchFlag compares checkbox values. Only a definite 1 against 0 (or
// 0 against 1) mismatch fails; an indeterminate side always passes.
func matchFlag(op Operator, want, got int64) bool {
	if want == -1 || got == -1 {
		return true
	}
	switch op {
	case OpEqual:
		return want == got
	case OpNotEqual:
		return want != got
	}
	return true
}

func matchTime(op Operator, want Timestamp, got Timestamp) bool {
	if op == OpEqual && want.Precision == PrecisionSecond {
		lo := want.Time
		hi := lo.Add(time.Second)
		return !got.Time.Before(lo) && got.Time.Before(hi)
	}
	return matchOrdered(op, compareTime(got.Time, want.Time))
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}
