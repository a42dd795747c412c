package filter

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestMatchesText(t *testing.T) {
	tests := []struct {
		clause string
		cell   string
		want   bool
	}{
		{"( Item = 'ab-100' )", "AB-100", true},
		{"( Item = 'AB-100' )", "AB-200", false},
		{"( Item > 'rp-002' )", "rp-003", true},
		{"( Item > 'rp-002' )", "rp-002", false},
		{"( Item > 'rp-002' )", "rp-001", false},
		{"( Item < 'AB-200' )", "AB-100", true},
		{"( Item >= 'AB-100' )", "AB-100", true},
		{"( Item <= 'AB-100' )", "AB-200", false},
		{"( Item LIKE 'AB%' )", "AB-100", true},
		{"( Item LIKE 'ab%' )", "AB-100", true},
		{"( Item LIKE 'AB%' )", "XAB-100", false},
		{"( Item LIKE 'AB_100' )", "AB-100", true},
		{"( Item LIKE 'A.B%' )", "AXB-100", false},
		{"( Item NOT LIKE 'AB%' )", "AB-100", false},
		{"( Item NOT LIKE 'AB%' )", "CD-100", true},
	}
	for _, tt := range tests {
		c := ParseCondition(tt.clause, KindText)
		if got := c.Matches(Text(tt.cell)); got != tt.want {
			t.Errorf("%q against %q = %v, want %v", tt.clause, tt.cell, got, tt.want)
		}
	}
}

func TestMatchesDecimal(t *testing.T) {
	tests := []struct {
		clause string
		cell   string
		want   bool
	}{
		{"( UnitPrice = 10.5 )", "10.50", true},
		{"( UnitPrice = 10.5 )", "10.51", false},
		{"( UnitPrice < 10.5 )", "10.49", true},
		{"( UnitPrice > 10.5 )", "10.49", false},
		{"( UnitPrice <= 10.5 )", "10.50", true},
		{"( UnitPrice >= 10.5 )", "10.50", true},
	}
	for _, tt := range tests {
		c := ParseCondition(tt.clause, KindDecimal)
		cell := Decimal(decimal.RequireFromString(tt.cell))
		if got := c.Matches(cell); got != tt.want {
			t.Errorf("%q against %s = %v, want %v", tt.clause, tt.cell, got, tt.want)
		}
	}
}

func TestMatchesNotEqual(t *testing.T) {
	c := Condition{Property: "Item", Operator: OpNotEqual, Value: Text("AB-100")}
	if !c.Matches(Text("AB-200")) {
		t.Error("AB-200 must pass <> 'AB-100'")
	}
	if c.Matches(Text("ab-100")) {
		t.Error("ab-100 must fail <> 'AB-100'")
	}

	d := Condition{
		Property: "UnitPrice",
		Operator: OpNotEqual,
		Value:    Decimal(decimal.RequireFromString("10.5")),
	}
	if !d.Matches(Decimal(decimal.RequireFromString("10.51"))) {
		t.Error("10.51 must pass <> 10.5")
	}
	if d.Matches(Decimal(decimal.RequireFromString("10.50"))) {
		t.Error("10.50 must fail <> 10.5")
	}
}

func TestMatchesTimeEqualityWindow(t *testing.T) {
	c := ParseCondition("( EffectDate = '20240625 13:30:05' )", KindDateTime)
	base := time.Date(2024, 6, 25, 13, 30, 5, 0, time.UTC)

	tests := []struct {
		cell time.Time
		want bool
	}{
		{base, true},
		{base.Add(999 * time.Millisecond), true},
		{base.Add(time.Second), false},
		{base.Add(-time.Nanosecond), false},
	}
	for _, tt := range tests {
		if got := c.Matches(DateTime(tt.cell, PrecisionMilli)); got != tt.want {
			t.Errorf("= %v against %v = %v, want %v", base, tt.cell, got, tt.want)
		}
	}
}

func TestMatchesTimeMilliExact(t *testing.T) {
	c := ParseCondition("( EffectDate = '20240625 13:30:05.250' )", KindDateTime)
	base := time.Date(2024, 6, 25, 13, 30, 5, 250e6, time.UTC)

	if !c.Matches(DateTime(base, PrecisionMilli)) {
		t.Error("exact milli timestamp must match")
	}
	if c.Matches(DateTime(base.Add(time.Millisecond), PrecisionMilli)) {
		t.Error("milli precision equality must not widen")
	}
}

func TestMatchesFlag(t *testing.T) {
	tests := []struct {
		raw  string
		cell int64
		want bool
	}{
		{"1", 1, true},
		{"1", 0, false},
		{"0", 1, false},
		{"0", 0, true},
		{"garbage", 0, true},
		{"garbage", 1, true},
	}
	for _, tt := range tests {
		c := ParseCondition("( IsWeekend = '"+tt.raw+"' )", KindFlag)
		if got := c.Matches(Flag(tt.cell)); got != tt.want {
			t.Errorf("flag %q against %d = %v, want %v", tt.raw, tt.cell, got, tt.want)
		}
	}
}

func TestMatchesInvalidCell(t *testing.T) {
	c := ParseCondition("( UnitPrice > 10 )", KindDecimal)
	if !c.Matches(Invalid(KindDecimal)) {
		t.Error("missing cell must not filter the row out")
	}
}

func TestEncodeTimeCondition(t *testing.T) {
	c := ParseCondition("( EffectDate = '20240625 13:30:05' )", KindDateTime)
	want := "EffectDate >= #06/25/2024 13:30:05.000# AND EffectDate < #06/25/2024 13:30:06.000#"
	if got := c.Encode(); got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}

	c = ParseCondition("( EffectDate < '20240625 13:30:05' )", KindDateTime)
	want = "EffectDate < #06/25/2024 13:30:05.000#"
	if got := c.Encode(); got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}

	c = ParseCondition("( Item = 'AB' )", KindText)
	if got := c.Encode(); got != c.Raw {
		t.Errorf("text Encode() = %q, want raw clause", got)
	}
}
