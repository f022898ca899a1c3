package filter

import "strings"

// Range defaults. A facet holding its default bounds is considered
// unconstrained and is omitted from serialized state.
const (
	DefaultMinPrice        = 0
	DefaultMaxPrice        = 1_000_000
	DefaultMinYear         = 1990
	DefaultMaxYear         = 2035
	DefaultMinMileage      = 0
	DefaultMaxMileage      = 1_000_000
	DefaultMinDisplacement = 0
	DefaultMaxDisplacement = 2_000
)

// Range is a bounded integer pair. Min <= Max always holds; mutations adjust
// the paired bound rather than rejecting the write.
type Range struct {
	Min int
	Max int
}

// WithMin moves the lower bound, dragging the upper bound up when needed.
func (r Range) WithMin(v int) Range {
	r.Min = v
	if r.Max < v {
		r.Max = v
	}
	return r
}

// WithMax moves the upper bound, dragging the lower bound down when needed.
func (r Range) WithMax(v int) Range {
	r.Max = v
	if r.Min > v {
		r.Min = v
	}
	return r
}

// Contains reports v in [Min, Max].
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// State is the flat facet record. Every field always holds a valid value;
// there is no partially-initialized state. Zero categorical options mean
// unconstrained.
type State struct {
	Query            string
	Kind             Option
	Type             Option
	Brand            Option
	Model            Option
	City             Option
	SellerRef        string
	ProfessionalOnly bool
	NewConditionOnly bool
	Price            Range
	Year             Range
	Mileage          Range
	Displacement     Range
}

// DefaultState returns the unconstrained record.
func DefaultState() State {
	return State{
		Price:        Range{DefaultMinPrice, DefaultMaxPrice},
		Year:         Range{DefaultMinYear, DefaultMaxYear},
		Mileage:      Range{DefaultMinMileage, DefaultMaxMileage},
		Displacement: Range{DefaultMinDisplacement, DefaultMaxDisplacement},
	}
}

// Sanitize normalizes a state decoded from untrusted input. Swapped range
// bounds are reordered, never rejected.
func (s *State) Sanitize() {
	s.Query = strings.TrimSpace(s.Query)
	fix := func(r *Range) {
		if r.Min > r.Max {
			r.Min, r.Max = r.Max, r.Min
		}
	}
	fix(&s.Price)
	fix(&s.Year)
	fix(&s.Mileage)
	fix(&s.Displacement)
}

// IsDefault reports whether the state equals DefaultState.
func (s State) IsDefault() bool {
	return s == DefaultState()
}
