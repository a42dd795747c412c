package loadgate

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/loadgate/loadgate-go/metrics"
	"github.com/loadgate/loadgate-go/source"
	"github.com/loadgate/loadgate-go/view"
)

// Engine serves paged, filtered reads over a set of views. Construct
// with New; an Engine is immutable and safe for concurrent use.
type Engine struct {
	src     source.Source
	views   map[string]*view.View
	log     *slog.Logger
	metrics *metrics.Collector
	maxCap  int
}

// New validates the config and builds an Engine.
//
// The function:
//  1. Validates the Config (source and at least one view)
//  2. Indexes views by name
//  3. Wires logging and metrics defaults
//
// Returns an error wrapping ErrInvalidConfig if the config is invalid.
func New(config Config) (*Engine, error) {
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	logger := config.Logger
	if logger == nil {
		if config.LogLevel != nil {
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: *config.LogLevel}))
		} else {
			logger = slog.Default()
		}
	}

	maxCap := config.MaxRecordCap
	if maxCap == 0 {
		maxCap = DefaultMaxRecordCap
	}

	views := make(map[string]*view.View, len(config.Views))
	for _, v := range config.Views {
		views[v.Name()] = v
	}

	logger.Info("engine ready",
		"views", len(views),
		"max_record_cap", maxCap,
	)

	return &Engine{
		src:     config.Source,
		views:   views,
		log:     logger,
		metrics: config.Metrics,
		maxCap:  maxCap,
	}, nil
}

// validateConfig checks that required Config fields are valid.
func validateConfig(config Config) error {
	if config.Source == nil {
		return fmt.Errorf("source is required")
	}
	if len(config.Views) == 0 {
		return fmt.Errorf("at least one view is required")
	}
	seen := make(map[string]bool, len(config.Views))
	for _, v := range config.Views {
		if v == nil {
			return fmt.Errorf("nil view")
		}
		if seen[v.Name()] {
			return fmt.Errorf("duplicate view name: %s", v.Name())
		}
		seen[v.Name()] = true
	}
	return nil
}

// View returns a served view by name.
func (e *Engine) View(name string) (*view.View, error) {
	v, ok := e.views[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrViewNotFound, name)
	}
	return v, nil
}

// Fetch runs the full read pipeline for a view without paging: route
// the filter, fetch the push-down half from the source, compute
// derived columns, dedupe when grouping, post-filter and sort. A cap
// of zero fetches everything.
func (e *Engine) Fetch(ctx context.Context, viewName, fltr, orderBy string, recordCap int) ([]source.Row, error) {
	v, err := e.View(viewName)
	if err != nil {
		return nil, err
	}
	if orderBy == "" {
		orderBy = v.DefaultOrderBy()
	}
	routed := e.route(v, fltr)

	// Post-filtering and grouping shrink the fetched set, so the cap
	// can only apply after the local pipeline ran.
	srcLimit := recordCap
	if routed.HasPost() || v.GroupBy() != "" {
		srcLimit = 0
	}
	rows, err := e.fetchRouted(ctx, v, routed, orderBy, srcLimit)
	if err != nil {
		return nil, err
	}
	source.Sort(rows, source.ParseOrderBy(orderBy))
	if recordCap > 0 && len(rows) > recordCap {
		rows = rows[:recordCap]
	}
	return rows, nil
}

// route wraps View.Route with drop logging.
func (e *Engine) route(v *view.View, fltr string) *view.Routed {
	routed := v.Route(fltr)
	for _, name := range routed.Dropped() {
		e.log.Warn("dropping filter clause for unknown property",
			"view", v.Name(),
			"property", name,
		)
	}
	return routed
}

// fetchRouted fetches the push-down half of a routed filter and runs
// the local half of the pipeline. Rows come back in source order when
// grouping is off, group order when it is on; callers sort.
func (e *Engine) fetchRouted(ctx context.Context, v *view.View, routed *view.Routed, orderBy string, limit int) ([]source.Row, error) {
	fetchOrder := orderBy
	if v.GroupBy() != "" {
		fetchOrder = v.GroupOrderBy()
	}
	rows, err := e.src.Fetch(ctx, source.Query{
		Table:   v.Table(),
		Columns: v.Columns(),
		Filter:  routed.PushDownFilter(),
		OrderBy: fetchOrder,
		Limit:   limit,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch view %s: %w", v.Name(), err)
	}

	v.ApplyComputed(rows)

	if v.GroupBy() != "" {
		rows = currentPerKey(rows, v.GroupBy())
	}
	if routed.HasPost() {
		kept := rows[:0]
		for _, r := range rows {
			if routed.PostMatches(r) {
				kept = append(kept, r)
			}
		}
		rows = kept
	}
	return rows, nil
}

// currentPerKey keeps the first row per distinct group value. Rows
// arrive in group order (group column ascending, freshness
// descending), so the first row per group is the current one.
func currentPerKey(rows []source.Row, column string) []source.Row {
	seen := make(map[string]bool, len(rows))
	kept := rows[:0]
	for _, r := range rows {
		k := r.String(column)
		if seen[k] {
			continue
		}
		seen[k] = true
		kept = append(kept, r)
	}
	return kept
}
