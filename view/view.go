// Package view describes queryable surfaces: which properties a host
// may filter and sort on, how each property's conditions are routed
// (pushed down to the source or evaluated locally), and how derived
// columns are computed.
package view

import (
	"errors"
	"fmt"

	"github.com/loadgate/loadgate-go/filter"
	"github.com/loadgate/loadgate-go/source"
)

// Mode routes a property's filter conditions.
type Mode int

const (
	// PushDown forwards conditions to the row source as filter text.
	PushDown Mode = iota

	// Post evaluates conditions locally against fetched rows.
	Post
)

// ComputeFunc derives a cell from a fetched row. Derived columns are
// computed before post-filtering, so they filter and sort like native
// ones.
type ComputeFunc func(source.Row) any

// Property declares one filterable column of a view.
type Property struct {
	// Name is the property name as it appears in filter and order-by
	// text.
	Name string

	// Mode routes the property's conditions. Properties with a Compute
	// function must be Post: the source never sees them.
	Mode Mode

	// Type is the value kind conditions on this property parse to.
	Type filter.Kind

	// Compute derives the cell from the fetched row. Nil for native
	// columns.
	Compute ComputeFunc

	// Seed is an optional default filter clause. The first condition a
	// request puts on this property replaces the seed.
	Seed string
}

// Config assembles a View.
type Config struct {
	// Name identifies the view to hosts and in bookmark tokens.
	Name string

	// Table is the source-side table the view reads.
	Table string

	// Key is the stable, unique, monotonic property paging keys on.
	Key string

	// DefaultOrderBy applies when a request carries no order-by.
	DefaultOrderBy string

	// Properties lists the filterable columns in declaration order.
	Properties []Property

	// GroupBy, when set, collapses the fetched set to one current row
	// per distinct value of the named column.
	GroupBy string

	// GroupOrderBy is the fetch order grouping dedupes under, normally
	// the group column ascending then a freshness column descending.
	// Required when GroupBy is set.
	GroupOrderBy string

	// RewriteNullLiteral replaces the literal fragment " null " with
	// " '' " in incoming filter text before parsing. Legacy emitters
	// for customer price filters produce it.
	RewriteNullLiteral bool
}

var (
	ErrInvalidView = errors.New("invalid view")
)

// View is an immutable queryable surface. Construct with New; a View
// is safe for concurrent use.
type View struct {
	cfg   Config
	props map[string]Property
}

// New validates a Config and builds a View.
func New(cfg Config) (*View, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidView)
	}
	if cfg.Table == "" {
		return nil, fmt.Errorf("%w: view %s: table is required", ErrInvalidView, cfg.Name)
	}
	if cfg.Key == "" {
		return nil, fmt.Errorf("%w: view %s: key is required", ErrInvalidView, cfg.Name)
	}
	props := make(map[string]Property, len(cfg.Properties))
	for _, p := range cfg.Properties {
		if p.Name == "" {
			return nil, fmt.Errorf("%w: view %s: property with empty name", ErrInvalidView, cfg.Name)
		}
		if _, dup := props[p.Name]; dup {
			return nil, fmt.Errorf("%w: view %s: duplicate property %s", ErrInvalidView, cfg.Name, p.Name)
		}
		if p.Compute != nil && p.Mode != Post {
			return nil, fmt.Errorf("%w: view %s: computed property %s must be post-filtered", ErrInvalidView, cfg.Name, p.Name)
		}
		props[p.Name] = p
	}
	if _, ok := props[cfg.Key]; !ok {
		return nil, fmt.Errorf("%w: view %s: key %s is not a declared property", ErrInvalidView, cfg.Name, cfg.Key)
	}
	if cfg.GroupBy != "" {
		if _, ok := props[cfg.GroupBy]; !ok {
			return nil, fmt.Errorf("%w: view %s: group column %s is not a declared property", ErrInvalidView, cfg.Name, cfg.GroupBy)
		}
		if cfg.GroupOrderBy == "" {
			return nil, fmt.Errorf("%w: view %s: grouping requires a group order", ErrInvalidView, cfg.Name)
		}
	}
	if cfg.DefaultOrderBy == "" {
		cfg.DefaultOrderBy = cfg.Key
	}
	return &View{cfg: cfg, props: props}, nil
}

// Name returns the view name.
func (v *View) Name() string { return v.cfg.Name }

// Table returns the source table the view reads.
func (v *View) Table() string { return v.cfg.Table }

// Key returns the stable paging key property.
func (v *View) Key() string { return v.cfg.Key }

// DefaultOrderBy returns the order applied when a request has none.
func (v *View) DefaultOrderBy() string { return v.cfg.DefaultOrderBy }

// GroupBy returns the current-per-key group column, or "".
func (v *View) GroupBy() string { return v.cfg.GroupBy }

// GroupOrderBy returns the fetch order grouping dedupes under.
func (v *View) GroupOrderBy() string { return v.cfg.GroupOrderBy }

// Properties returns the declared properties in declaration order.
func (v *View) Properties() []Property { return v.cfg.Properties }

// Property looks up a declared property by name.
func (v *View) Property(name string) (Property, bool) {
	p, ok := v.props[name]
	return p, ok
}

// Columns returns the native (non-computed) column names in
// declaration order.
func (v *View) Columns() []string {
	cols := make([]string, 0, len(v.cfg.Properties))
	for _, p := range v.cfg.Properties {
		if p.Compute == nil {
			cols = append(cols, p.Name)
		}
	}
	return cols
}

// ApplyComputed fills every computed property on the given rows.
func (v *View) ApplyComputed(rows []source.Row) {
	for _, p := range v.cfg.Properties {
		if p.Compute == nil {
			continue
		}
		for _, r := range rows {
			r[p.Name] = p.Compute(r)
		}
	}
}
