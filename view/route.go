package view

import (
	"strings"

	"github.com/loadgate/loadgate-go/filter"
	"github.com/loadgate/loadgate-go/source"
)

// Routed is the result of routing a request filter against a view:
// per-property condition sets split into a push-down half the source
// evaluates and a post-filter half evaluated locally.
type Routed struct {
	pushdown []*filter.Set
	post     []postSet
	dropped  []string
}

type postSet struct {
	prop Property
	set  *filter.Set
}

// Route splits request filter text into push-down and post-filter
// condition sets. Clauses naming a property the view does not declare
// are dropped, never rejected; their properties are reported by
// Dropped.
func (v *View) Route(fltr string) *Routed {
	if v.cfg.RewriteNullLiteral {
		fltr = strings.ReplaceAll(fltr, " null ", " '' ")
	}
	r := &Routed{}
	sets := map[string]*filter.Set{}

	setFor := func(p Property) *filter.Set {
		if s, ok := sets[p.Name]; ok {
			return s
		}
		var s *filter.Set
		if p.Seed != "" {
			s = filter.NewSeededSet(p.Type, p.Seed)
		} else {
			s = filter.NewSet(p.Type)
		}
		sets[p.Name] = s
		if p.Mode == PushDown {
			r.pushdown = append(r.pushdown, s)
		} else {
			r.post = append(r.post, postSet{prop: p, set: s})
		}
		return s
	}

	// Seeded properties constrain every request, filtered or not.
	for _, p := range v.cfg.Properties {
		if p.Seed != "" {
			setFor(p)
		}
	}

	for _, clause := range filter.SplitClauses(fltr) {
		name := filter.PropertyName(clause)
		p, ok := v.props[name]
		if !ok {
			r.dropped = append(r.dropped, name)
			continue
		}
		setFor(p).Add(clause)
	}
	return r
}

// PushDownFilter renders the push-down half as source filter text.
func (r *Routed) PushDownFilter() string {
	var parts []string
	for _, s := range r.pushdown {
		for _, c := range s.Conditions() {
			parts = append(parts, c.Encode())
		}
	}
	return filter.BuildFilterString(parts)
}

// HasPost reports whether any conditions must run locally.
func (r *Routed) HasPost() bool { return len(r.post) > 0 }

// PostMatches evaluates the post-filter half against a row. Every set
// must accept its property's cell.
func (r *Routed) PostMatches(row source.Row) bool {
	for _, ps := range r.post {
		v := filter.ValueOf(ps.prop.Type, row[ps.prop.Name])
		if !ps.set.Matches(v) {
			return false
		}
	}
	return true
}

// Dropped returns the unknown property names whose clauses were
// discarded, in clause order.
func (r *Routed) Dropped() []string { return r.dropped }
