package loadgate

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loadgate/loadgate-go/filter"
	"github.com/loadgate/loadgate-go/source"
)

func testEngine(t *testing.T, rows ...source.Row) *Engine {
	t.Helper()
	views, err := NewViewBuilder().
		View("itemprices", "itemprice").
		Key("RowPointer").
		Property("RowPointer", filter.KindText).
		Property("Item", filter.KindText).
		Property("UnitPrice", filter.KindDecimal).
		Property("EffectDate", filter.KindDateTime).
		Computed("ItemReversed", filter.KindText, func(r source.Row) any {
			runes := []rune(r.String("Item"))
			for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
				runes[i], runes[j] = runes[j], runes[i]
			}
			return string(runes)
		}).
		DefaultOrderBy("Item ASC, EffectDate DESC").
		Build()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	src := source.NewMemory().Add("itemprice", rows...)
	e, err := New(Config{Source: src, Views: views})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return e
}

func itemRows(n int) []source.Row {
	rows := make([]source.Row, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, source.Row{
			"RowPointer": fmt.Sprintf("rp-%03d", i),
			"Item":       fmt.Sprintf("AB-%03d", i),
			"UnitPrice":  decimal.NewFromInt(int64(10 + i)),
			"EffectDate": time.Date(2024, 6, 1+i, 0, 0, 0, 0, time.UTC),
		})
	}
	return rows
}

// walk pulls pages until the sentinel comes back, failing on loops.
func walk(t *testing.T, e *Engine, req PageRequest) []source.Row {
	t.Helper()
	var all []source.Row
	for i := 0; i < 100; i++ {
		p, err := e.Page(context.Background(), "itemprices", req)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		all = append(all, p.Rows...)
		if len(p.Rows) == 0 {
			if p.Bookmark != BookmarkSentinel {
				t.Fatalf("empty page bookmark = %q, want sentinel", p.Bookmark)
			}
			return all
		}
		req.Bookmark = p.Bookmark
	}
	t.Fatal("paging did not terminate")
	return nil
}

func TestPageWalkVisitsEveryRowOnce(t *testing.T) {
	e := testEngine(t, itemRows(7)...)

	for _, orderBy := range []string{"RowPointer ASC", "UnitPrice DESC"} {
		t.Run(orderBy, func(t *testing.T) {
			rows := walk(t, e, PageRequest{OrderBy: orderBy, RecordCap: "3"})
			if len(rows) != 7 {
				t.Fatalf("rows = %d, want 7", len(rows))
			}
			seen := map[string]bool{}
			for _, r := range rows {
				k := r.String("RowPointer")
				if seen[k] {
					t.Fatalf("row %s served twice", k)
				}
				seen[k] = true
			}
		})
	}
}

func TestPageFastAndFullAgree(t *testing.T) {
	e := testEngine(t, itemRows(9)...)
	req := PageRequest{
		Filter:    "UnitPrice >= 12",
		OrderBy:   "RowPointer ASC",
		RecordCap: "4",
	}

	fast := walk(t, e, req)

	// The same order expressed with an extra sort column forces the
	// full path.
	req.OrderBy = "RowPointer ASC, Item ASC"
	full := walk(t, e, req)

	if len(fast) != len(full) {
		t.Fatalf("fast = %d rows, full = %d rows", len(fast), len(full))
	}
	for i := range fast {
		if fast[i].String("RowPointer") != full[i].String("RowPointer") {
			t.Fatalf("row %d: fast %q, full %q",
				i, fast[i].String("RowPointer"), full[i].String("RowPointer"))
		}
	}
}

func TestPagePostFilterAndComputed(t *testing.T) {
	e := testEngine(t, itemRows(5)...)

	p, err := e.Page(context.Background(), "itemprices", PageRequest{
		Filter:    "ItemReversed = '200-BA'",
		RecordCap: "10",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(p.Rows) != 1 || p.Rows[0].String("Item") != "AB-002" {
		t.Fatalf("rows = %v", p.Rows)
	}
}

func TestPageEmptyResult(t *testing.T) {
	e := testEngine(t, itemRows(3)...)

	p, err := e.Page(context.Background(), "itemprices", PageRequest{
		Filter:    "Item = 'ZZ-999'",
		RecordCap: "10",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(p.Rows) != 0 || p.Bookmark != BookmarkSentinel {
		t.Fatalf("page = %d rows, bookmark %q", len(p.Rows), p.Bookmark)
	}
}

func TestPageStaleBookmark(t *testing.T) {
	e := testEngine(t, itemRows(5)...)

	p, err := e.Page(context.Background(), "itemprices", PageRequest{
		OrderBy:   "Item ASC, EffectDate DESC",
		RecordCap: "2",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Shrink the filtered set so the bookmarked key disappears.
	_, err = e.Page(context.Background(), "itemprices", PageRequest{
		Filter:    "Item = 'AB-004'",
		OrderBy:   "Item ASC, EffectDate DESC",
		RecordCap: "2",
		Bookmark:  p.Bookmark,
	})
	var stale *StaleBookmarkError
	if !errors.As(err, &stale) {
		t.Fatalf("err = %v, want StaleBookmarkError", err)
	}
	if stale.Key != "rp-001" {
		t.Errorf("stale key = %q, want rp-001", stale.Key)
	}
}

func TestPageBookmarkAtFinalRow(t *testing.T) {
	e := testEngine(t, itemRows(4)...)

	// Cap equal to the set size: one full page whose bookmark sits at
	// the final row, then an empty page and the sentinel.
	p, err := e.Page(context.Background(), "itemprices", PageRequest{
		OrderBy:   "RowPointer ASC",
		RecordCap: "4",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(p.Rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(p.Rows))
	}

	next, err := e.Page(context.Background(), "itemprices", PageRequest{
		OrderBy:   "RowPointer ASC",
		RecordCap: "4",
		Bookmark:  p.Bookmark,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(next.Rows) != 0 || next.Bookmark != BookmarkSentinel {
		t.Fatalf("tail page = %d rows, bookmark %q", len(next.Rows), next.Bookmark)
	}
}

func TestPageCapClamp(t *testing.T) {
	views, err := NewViewBuilder().
		View("itemprices", "itemprice").
		Key("RowPointer").
		Property("RowPointer", filter.KindText).
		Property("Item", filter.KindText).
		Build()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	src := source.NewMemory().Add("itemprice", itemRows(6)...)
	e, err := New(Config{Source: src, Views: views, MaxRecordCap: 4})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for _, cap := range []string{"9999", "", "garbage"} {
		p, err := e.Page(context.Background(), "itemprices", PageRequest{
			OrderBy:   "RowPointer ASC",
			RecordCap: cap,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(p.Rows) != 4 {
			t.Errorf("cap %q: rows = %d, want ceiling 4", cap, len(p.Rows))
		}
	}
}

func TestPageUnknownView(t *testing.T) {
	e := testEngine(t, itemRows(1)...)
	if _, err := e.Page(context.Background(), "nope", PageRequest{}); !errors.Is(err, ErrViewNotFound) {
		t.Fatalf("err = %v, want ErrViewNotFound", err)
	}
}

func TestFetchAppliesCapAfterLocalPipeline(t *testing.T) {
	e := testEngine(t, itemRows(6)...)

	rows, err := e.Fetch(context.Background(), "itemprices",
		"ItemReversed LIKE '%-BA'", "RowPointer ASC", 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].String("RowPointer") != "rp-000" {
		t.Errorf("first row = %q", rows[0].String("RowPointer"))
	}
}

func TestGroupByCurrentPerKey(t *testing.T) {
	views, err := NewViewBuilder().
		View("itemprices", "itemprice").
		Key("RowPointer").
		Property("RowPointer", filter.KindText).
		Property("Item", filter.KindText).
		Property("UnitPrice", filter.KindDecimal).
		Property("EffectDate", filter.KindDateTime).
		GroupBy("Item", "Item ASC, EffectDate DESC").
		DefaultOrderBy("Item ASC").
		Build()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	src := source.NewMemory().Add("itemprice",
		source.Row{"RowPointer": "rp-1", "Item": "AB-100", "UnitPrice": decimal.NewFromInt(10),
			"EffectDate": time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		source.Row{"RowPointer": "rp-2", "Item": "AB-100", "UnitPrice": decimal.NewFromInt(12),
			"EffectDate": time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		source.Row{"RowPointer": "rp-3", "Item": "CD-200", "UnitPrice": decimal.NewFromInt(5),
			"EffectDate": time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	)
	e, err := New(Config{Source: src, Views: views})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	p, err := e.Page(context.Background(), "itemprices", PageRequest{RecordCap: "10"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(p.Rows) != 2 {
		t.Fatalf("rows = %d, want one per item", len(p.Rows))
	}
	if p.Rows[0].String("RowPointer") != "rp-2" {
		t.Errorf("AB-100 current row = %q, want the freshest rp-2", p.Rows[0].String("RowPointer"))
	}
	if p.Rows[1].String("RowPointer") != "rp-3" {
		t.Errorf("CD-200 row = %q", p.Rows[1].String("RowPointer"))
	}
}
