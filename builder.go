package loadgate

import (
	"fmt"

	"github.com/loadgate/loadgate-go/filter"
	"github.com/loadgate/loadgate-go/view"
)

// ViewBuilder assembles views using a fluent API.
// Not thread-safe - use only during initialization.
type ViewBuilder struct {
	views []*viewDef
	built bool
}

type viewDef struct {
	cfg     view.Config
	builder *ViewBuilder
}

// NewViewBuilder creates a new fluent view builder.
//
// Example:
//
//	views, err := loadgate.NewViewBuilder().
//	    View("itemprices", "itemprice").
//	        Key("RowPointer").
//	        Property("Item", filter.KindText).
//	        Property("UnitPrice", filter.KindDecimal).
//	        DefaultOrderBy("Item ASC, EffectDate DESC").
//	    Build()
func NewViewBuilder() *ViewBuilder {
	return &ViewBuilder{}
}

// View starts defining a view over a source table.
// Returns a ViewDef for declaring its properties.
// View name MUST be non-empty and unique.
func (vb *ViewBuilder) View(name, table string) *ViewDef {
	def := &viewDef{
		cfg:     view.Config{Name: name, Table: table},
		builder: vb,
	}
	vb.views = append(vb.views, def)
	return &ViewDef{def: def}
}

// Build finalizes every view. Can only be called once. Returns the
// first validation problem encountered.
func (vb *ViewBuilder) Build() ([]*view.View, error) {
	if vb.built {
		return nil, fmt.Errorf("views already built")
	}
	seen := make(map[string]bool, len(vb.views))
	views := make([]*view.View, 0, len(vb.views))
	for _, def := range vb.views {
		if seen[def.cfg.Name] {
			return nil, fmt.Errorf("duplicate view name: %s", def.cfg.Name)
		}
		seen[def.cfg.Name] = true
		v, err := view.New(def.cfg)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	vb.built = true
	return views, nil
}

// ViewDef declares one view's surface.
// Not thread-safe - use only during initialization.
type ViewDef struct {
	def *viewDef
}

// Key names the stable paging key property. The property must also be
// declared.
func (d *ViewDef) Key(name string) *ViewDef {
	d.def.cfg.Key = name
	return d
}

// Property declares a push-down property of the given kind.
func (d *ViewDef) Property(name string, kind filter.Kind) *ViewDef {
	d.def.cfg.Properties = append(d.def.cfg.Properties, view.Property{
		Name: name, Mode: view.PushDown, Type: kind,
	})
	return d
}

// PostProperty declares a native property whose conditions are
// evaluated locally instead of pushed down.
func (d *ViewDef) PostProperty(name string, kind filter.Kind) *ViewDef {
	d.def.cfg.Properties = append(d.def.cfg.Properties, view.Property{
		Name: name, Mode: view.Post, Type: kind,
	})
	return d
}

// Computed declares a derived property. Computed properties are
// always post-filtered.
func (d *ViewDef) Computed(name string, kind filter.Kind, fn view.ComputeFunc) *ViewDef {
	d.def.cfg.Properties = append(d.def.cfg.Properties, view.Property{
		Name: name, Mode: view.Post, Type: kind, Compute: fn,
	})
	return d
}

// Seeded declares a push-down property carrying a default filter
// clause that a request's first condition on it replaces.
func (d *ViewDef) Seeded(name string, kind filter.Kind, clause string) *ViewDef {
	d.def.cfg.Properties = append(d.def.cfg.Properties, view.Property{
		Name: name, Mode: view.PushDown, Type: kind, Seed: clause,
	})
	return d
}

// DefaultOrderBy sets the order applied when a request has none.
func (d *ViewDef) DefaultOrderBy(orderBy string) *ViewDef {
	d.def.cfg.DefaultOrderBy = orderBy
	return d
}

// GroupBy collapses results to one current row per distinct value of
// the named column, deduped under the given fetch order.
func (d *ViewDef) GroupBy(column, orderBy string) *ViewDef {
	d.def.cfg.GroupBy = column
	d.def.cfg.GroupOrderBy = orderBy
	return d
}

// RewriteNullLiteral enables the legacy " null " to " '' " rewrite on
// incoming filter text.
func (d *ViewDef) RewriteNullLiteral() *ViewDef {
	d.def.cfg.RewriteNullLiteral = true
	return d
}

// View starts a new view definition (returns to the ViewBuilder).
func (d *ViewDef) View(name, table string) *ViewDef {
	return d.def.builder.View(name, table)
}

// Build finalizes every view (returns to the ViewBuilder).
func (d *ViewDef) Build() ([]*view.View, error) {
	return d.def.builder.Build()
}
