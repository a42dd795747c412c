package filter

// State tracks whether a Set still holds only its seed clause.
type State int

const (
	// StateEdited means every condition in the set was added by a
	// caller; further additions append.
	StateEdited State = iota

	// StateSeeded means the set holds a default clause that the first
	// addition replaces.
	StateSeeded
)

// Set accumulates the conditions constraining a single property. The
// zero value is not usable; construct with NewSet or NewSeededSet.
type Set struct {
	kind  Kind
	state State
	conds []Condition
}

// NewSet returns an empty set for a property of the given kind.
func NewSet(kind Kind) *Set {
	return &Set{kind: kind}
}

// NewSeededSet returns a set holding a default clause. The first Add
// replaces the seed instead of appending.
func NewSeededSet(kind Kind, clause string) *Set {
	s := &Set{kind: kind, state: StateSeeded}
	s.conds = append(s.conds, ParseCondition(clause, kind))
	return s
}

// Kind returns the value kind the set's property carries.
func (s *Set) Kind() Kind { return s.kind }

// State returns the set's edit state.
func (s *Set) State() State { return s.state }

// Add parses a clause and adds it to the set. On a seeded set the
// first Add replaces the seed clause.
func (s *Set) Add(clause string) {
	s.AddCondition(ParseCondition(clause, s.kind))
}

// AddCondition adds an already parsed condition.
func (s *Set) AddCondition(c Condition) {
	if s.state == StateSeeded && len(s.conds) > 0 {
		s.conds[0] = c
	} else {
		s.conds = append(s.conds, c)
	}
	s.state = StateEdited
}

// Conditions returns the conditions in addition order.
func (s *Set) Conditions() []Condition { return s.conds }

// Matches reports whether every condition in the set accepts the
// value. An empty set matches everything.
func (s *Set) Matches(v Value) bool {
	for _, c := range s.conds {
		if !c.Matches(v) {
			return false
		}
	}
	return true
}

// FilterString renders the set back to conjunctive filter text, or ""
// for a set with no non-empty clauses.
func (s *Set) FilterString() string {
	parts := make([]string, 0, len(s.conds))
	for _, c := range s.conds {
		parts = append(parts, c.Raw)
	}
	return BuildFilterString(parts)
}
