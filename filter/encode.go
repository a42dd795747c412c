package filter

import (
	"strings"
	"time"
)

// timeLiteral is the layout used for #...# delimited date-time
// literals in push-down filter text: zero-padded month and day,
// millisecond fraction.
const timeLiteral = "01/02/2006 15:04:05.000"

// BuildFilterString joins filter fragments into a single conjunctive
// filter: each non-empty fragment is parenthesized, the fragments are
// joined with AND and the whole is parenthesized again. No non-empty
// fragments yields "".
func BuildFilterString(parts []string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		kept = append(kept, "("+p+")")
	}
	if len(kept) == 0 {
		return ""
	}
	return "(" + strings.Join(kept, " AND ") + ")"
}

// AppendClause conjoins a clause onto an existing filter string.
// Either side may be empty.
func AppendClause(fltr, clause string) string {
	return BuildFilterString([]string{fltr, clause})
}

// Encode renders the condition as push-down filter text. Date-time
// equality at second precision becomes the half-open range
// [v, v+1s) so the source matches the same rows local evaluation
// would. All other conditions push down their normalized clause text.
func (c Condition) Encode() string {
	if c.Value.Kind != KindDateTime || !c.Value.Valid {
		return c.Raw
	}
	ts := c.Value.Data.(Timestamp)
	if c.Operator == OpEqual && ts.Precision == PrecisionSecond {
		lo := ts.Time.Format(timeLiteral)
		hi := ts.Time.Add(time.Second).Format(timeLiteral)
		return c.Property + " >= #" + lo + "# AND " + c.Property + " < #" + hi + "#"
	}
	return c.Property + " " + string(c.Operator) + " #" + ts.Time.Format(timeLiteral) + "#"
}
