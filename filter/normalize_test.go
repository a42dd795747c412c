package filter

import (
	"reflect"
	"testing"
)

func TestSplitClauses(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "single clause",
			input: "Item = 'AB-100'",
			want:  []string{"( Item = 'AB-100' )"},
		},
		{
			name:  "two clauses",
			input: "Item = 'AB-100' AND UnitPrice >= 10.5",
			want:  []string{"( Item = 'AB-100' )", "( UnitPrice >= 10.5 )"},
		},
		{
			name:  "AND inside a word is not a separator",
			input: "Item LIKE 'BRAND%'",
			want:  []string{"( Item LIKE 'BRAND%' )"},
		},
		{
			name:  "empty",
			input: "   ",
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitClauses(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitClauses(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeClause(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Item = N'AB'", "Item = 'AB'"},
		{"Item <> N'AB'", "Item <> 'AB'"},
		{"Item like N'AB%'", "Item like 'AB%'"},
		{"DATEPART( yyyy, EffectDate ) = 2024", "YEAR( EffectDate ) = 2024"},
		{"DATEPART( mm, EffectDate ) = 7", "MONTH( EffectDate ) = 7"},
		{"DATEPART( dd, EffectDate ) = 31", "DAY( EffectDate ) = 31"},
		{"Item = 'plain'", "Item = 'plain'"},
	}
	for _, tt := range tests {
		if got := NormalizeClause(tt.input); got != tt.want {
			t.Errorf("NormalizeClause(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFixParens(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"(a = 1", "(a = 1)"},
		{"a = 1)", "(a = 1)"},
		{"((a = 1", "((a = 1))"},
		{"(a = 1)", "(a = 1)"},
		{"a = 1", "a = 1"},
	}
	for _, tt := range tests {
		if got := FixParens(tt.input); got != tt.want {
			t.Errorf("FixParens(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
