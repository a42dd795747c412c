package sqlsource

import (
	"testing"

	"github.com/loadgate/loadgate-go/source"
)

func TestBuildSelect(t *testing.T) {
	tests := []struct {
		name string
		q    source.Query
		want string
	}{
		{
			name: "bare table",
			q:    source.Query{Table: "itemprice"},
			want: `SELECT * FROM "itemprice"`,
		},
		{
			name: "columns order and limit",
			q: source.Query{
				Table:   "itemprice",
				Columns: []string{"Item", "UnitPrice"},
				OrderBy: "Item ASC, EffectDate DESC",
				Limit:   201,
			},
			want: `SELECT "Item", "UnitPrice" FROM "itemprice" ORDER BY "Item" ASC, "EffectDate" DESC LIMIT 201`,
		},
		{
			name: "filter passes through",
			q: source.Query{
				Table:  "itemprice",
				Filter: "(( Item LIKE 'AB%' ) AND ( UnitPrice >= 10.5 ))",
			},
			want: `SELECT * FROM "itemprice" WHERE (( Item LIKE 'AB%' ) AND ( UnitPrice >= 10.5 ))`,
		},
		{
			name: "time literal becomes timestamp",
			q: source.Query{
				Table:  "itemprice",
				Filter: "( EffectDate >= #06/25/2024 13:30:05.000# )",
			},
			want: `SELECT * FROM "itemprice" WHERE ( EffectDate >= TIMESTAMP '2024-06-25 13:30:05.000' )`,
		},
		{
			name: "unpadded time literal also parses",
			q: source.Query{
				Table:  "itemprice",
				Filter: "( EffectDate >= #6/25/2024 13:30:05.000# )",
			},
			want: `SELECT * FROM "itemprice" WHERE ( EffectDate >= TIMESTAMP '2024-06-25 13:30:05.000' )`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildSelect(tt.q)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.want {
				t.Errorf("buildSelect = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildSelectRejectsUnsafeNames(t *testing.T) {
	tests := []source.Query{
		{Table: "itemprice; DROP TABLE x"},
		{Table: "itemprice", Columns: []string{"Item, UnitPrice"}},
		{Table: "itemprice", OrderBy: "Item; DROP"},
	}
	for _, q := range tests {
		if _, err := buildSelect(q); err == nil {
			t.Errorf("buildSelect(%+v): expected an error", q)
		}
	}
}

func TestNormalizeCell(t *testing.T) {
	if got := normalizeCell([]byte("AB")); got != "AB" {
		t.Errorf("bytes = %v", got)
	}
	if got := normalizeCell(int32(7)); got != int64(7) {
		t.Errorf("int32 = %v", got)
	}
	if got := normalizeCell(true); got != int64(1) {
		t.Errorf("bool = %v", got)
	}
	if normalizeCell(nil) != nil {
		t.Error("nil must stay nil")
	}
}
