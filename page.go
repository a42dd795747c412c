package loadgate

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/loadgate/loadgate-go/internal/recovery"
	"github.com/loadgate/loadgate-go/internal/token"
	"github.com/loadgate/loadgate-go/source"
	"github.com/loadgate/loadgate-go/view"
)

// BookmarkSentinel is the reserved bookmark meaning "no position". A
// request carrying it (or an empty bookmark) starts from the first
// page; a response carrying it has no further page.
const BookmarkSentinel = token.Sentinel

// PageRequest is a page read in the flat shape host protocols deliver:
// every field is text, including the record cap.
type PageRequest struct {
	// Filter is conjunctive filter text. Empty means no filter.
	Filter string

	// OrderBy is a comma-separated order list. Empty means the view's
	// default order.
	OrderBy string

	// RecordCap is the page size as text. Unparsable, empty or zero
	// means the engine's ceiling; larger values are clamped to it.
	RecordCap string

	// Bookmark resumes after a previous page. Empty or the sentinel
	// starts from the beginning.
	Bookmark string
}

// Page is one page of rows plus the bookmark that resumes after it.
type Page struct {
	Rows []source.Row

	// Bookmark is the token for the next page, or BookmarkSentinel
	// when no further page exists.
	Bookmark string
}

// Page serves one page of a view. Requests are stateless: each call
// re-runs the filter and ordering, and the bookmark alone carries the
// position, so pages may be pulled concurrently or out of order.
func (e *Engine) Page(ctx context.Context, viewName string, req PageRequest) (*Page, error) {
	start := time.Now()
	p, err := recovery.ToValue(e.log, "Page", func() (*Page, error) {
		p, strategy, dropped, err := e.page(ctx, viewName, req)
		if err != nil {
			return nil, err
		}
		e.metrics.ObservePage(viewName, strategy, len(p.Rows), dropped, time.Since(start).Seconds())
		return p, nil
	})
	if err != nil {
		e.metrics.ObserveError()
		return nil, err
	}
	return p, nil
}

func (e *Engine) page(ctx context.Context, viewName string, req PageRequest) (*Page, string, int, error) {
	v, err := e.View(viewName)
	if err != nil {
		return nil, "", 0, err
	}

	recordCap := parseCap(req.RecordCap, e.maxCap)
	orderBy := req.OrderBy
	if orderBy == "" {
		orderBy = v.DefaultOrderBy()
	}

	bookmarkKey, haveBookmark, err := e.resolveBookmark(v, req.Bookmark)
	if err != nil {
		return nil, "", 0, err
	}

	routed := e.route(v, req.Filter)
	dropped := len(routed.Dropped())

	if fastPathEligible(v, routed, orderBy) {
		p, err := e.pageFast(ctx, v, routed, orderBy, recordCap, bookmarkKey, haveBookmark)
		return p, "fast", dropped, err
	}
	p, err := e.pageFull(ctx, v, routed, orderBy, recordCap, bookmarkKey, haveBookmark)
	return p, "full", dropped, err
}

// parseCap reads the textual record cap and clamps it to the ceiling.
func parseCap(s string, max int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		n = 0
	}
	if n == 0 || n > max {
		return max
	}
	return n
}

// resolveBookmark decodes the request bookmark into a stable key.
func (e *Engine) resolveBookmark(v *view.View, bookmark string) (string, bool, error) {
	if bookmark == "" || bookmark == BookmarkSentinel {
		return "", false, nil
	}
	key, err := token.Decode(v.Name(), bookmark)
	if err != nil {
		return "", false, err
	}
	return key, true, nil
}

// fastPathEligible reports whether paging can push the bookmark down:
// nothing to evaluate locally and the order is the stable key
// ascending, so "key greater than bookmark" selects exactly the rows
// after the previous page.
func fastPathEligible(v *view.View, routed *view.Routed, orderBy string) bool {
	if routed.HasPost() || v.GroupBy() != "" {
		return false
	}
	return orderBy == v.Key() || strings.EqualFold(orderBy, v.Key()+" ASC")
}

// pageFast serves a page by pushing the bookmark down as a key range
// and fetching one row past the cap.
func (e *Engine) pageFast(ctx context.Context, v *view.View, routed *view.Routed, orderBy string, recordCap int, bookmarkKey string, haveBookmark bool) (*Page, error) {
	fltr := routed.PushDownFilter()
	if haveBookmark {
		fltr = appendKeyRange(fltr, v.Key(), bookmarkKey)
	}
	rows, err := e.src.Fetch(ctx, source.Query{
		Table:   v.Table(),
		Columns: v.Columns(),
		Filter:  fltr,
		OrderBy: orderBy,
		Limit:   recordCap + 1,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch view %s: %w", v.Name(), err)
	}
	v.ApplyComputed(rows)
	return e.finishPage(v, rows, recordCap)
}

// appendKeyRange conjoins a "key after bookmark" clause onto the
// push-down filter.
func appendKeyRange(fltr, key, after string) string {
	clause := key + " > '" + after + "'"
	if fltr == "" {
		return "(" + clause + ")"
	}
	return "(" + fltr + " AND (" + clause + "))"
}

// pageFull serves a page by fetching the whole filtered set, running
// the local pipeline, sorting and slicing at the bookmark.
func (e *Engine) pageFull(ctx context.Context, v *view.View, routed *view.Routed, orderBy string, recordCap int, bookmarkKey string, haveBookmark bool) (*Page, error) {
	rows, err := e.fetchRouted(ctx, v, routed, orderBy, 0)
	if err != nil {
		return nil, err
	}
	source.Sort(rows, source.ParseOrderBy(orderBy))

	if haveBookmark {
		idx := keyIndex(rows, v.Key(), bookmarkKey)
		if idx < 0 {
			return nil, &StaleBookmarkError{Key: bookmarkKey}
		}
		rows = rows[idx+1:]
	}
	if len(rows) > recordCap+1 {
		rows = rows[:recordCap+1]
	}
	return e.finishPage(v, rows, recordCap)
}

func keyIndex(rows []source.Row, key, value string) int {
	for i, r := range rows {
		if r.String(key) == value {
			return i
		}
	}
	return -1
}

// finishPage applies the peek-ahead trim and issues the next
// bookmark. Rows may hold up to recordCap+1 entries: the extra row
// proves another page exists and is trimmed off, and the bookmark
// names the last kept row. A short page keeps its final row's
// bookmark so re-requesting the tail is idempotent.
func (e *Engine) finishPage(v *view.View, rows []source.Row, recordCap int) (*Page, error) {
	if len(rows) == 0 {
		return &Page{Bookmark: BookmarkSentinel}, nil
	}
	more := len(rows) > recordCap
	if more {
		rows = rows[:recordCap]
	}
	last := rows[len(rows)-1].String(v.Key())
	bookmark, err := token.Encode(v.Name(), last)
	if err != nil {
		return nil, err
	}
	e.log.Debug("page served",
		"view", v.Name(),
		"rows", len(rows),
		"more", more,
	)
	return &Page{Rows: rows, Bookmark: bookmark}, nil
}
