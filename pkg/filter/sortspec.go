package filter

import "slices"

// SortKey identifies one sort criterion. Keys are compared in SortSpec order;
// the first nonzero delta decides.
type SortKey string

const (
	SortRecency    SortKey = "recency"
	SortProximity  SortKey = "proximity"
	SortPriceAsc   SortKey = "price_asc"
	SortPriceDesc  SortKey = "price_desc"
	SortYearDesc   SortKey = "year_desc"
	SortMileageAsc SortKey = "mileage_asc"
)

var knownSortKeys = map[SortKey]struct{}{
	SortRecency:    {},
	SortProximity:  {},
	SortPriceAsc:   {},
	SortPriceDesc:  {},
	SortYearDesc:   {},
	SortMileageAsc: {},
}

// SortSpec is an ordered, deduplicated list of active sort keys. Never empty:
// removing the last key reinstates SortRecency. The two price directions are
// mutually exclusive.
type SortSpec []SortKey

// DefaultSortSpec returns the recency-only spec.
func DefaultSortSpec() SortSpec {
	return SortSpec{SortRecency}
}

// Toggle adds the key when absent and removes it when present, preserving the
// invariants. Unknown keys are ignored.
func (s SortSpec) Toggle(key SortKey) SortSpec {
	if _, ok := knownSortKeys[key]; !ok {
		return s.normalized()
	}
	if slices.Contains(s, key) {
		return s.Remove(key)
	}
	var evict SortKey
	switch key {
	case SortPriceAsc:
		evict = SortPriceDesc
	case SortPriceDesc:
		evict = SortPriceAsc
	}
	// The eviction happens before the append so an emptied list cannot
	// resurrect the recency default in front of the new key.
	out := make(SortSpec, 0, len(s)+1)
	for _, k := range s {
		if k != evict {
			out = append(out, k)
		}
	}
	out = append(out, key)
	return out.normalized()
}

// Remove drops the key, reinstating the recency default when the list would
// become empty.
func (s SortSpec) Remove(key SortKey) SortSpec {
	out := make(SortSpec, 0, len(s))
	for _, k := range s {
		if k != key {
			out = append(out, k)
		}
	}
	return out.normalized()
}

func (s SortSpec) Contains(key SortKey) bool {
	return slices.Contains(s, key)
}

func (s SortSpec) normalized() SortSpec {
	out := make(SortSpec, 0, len(s))
	for _, k := range s {
		if _, known := knownSortKeys[k]; known && !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	if len(out) == 0 {
		return DefaultSortSpec()
	}
	return out
}

// ParseSortSpec rebuilds a spec from its serialized keys, dropping unknown
// ones and re-applying the invariants.
func ParseSortSpec(keys []string) SortSpec {
	spec := make(SortSpec, 0, len(keys))
	for _, k := range keys {
		spec = append(spec, SortKey(k))
	}
	spec = spec.normalized()
	if spec.Contains(SortPriceAsc) && spec.Contains(SortPriceDesc) {
		// The earlier direction wins; the other is evicted.
		if slices.Index(spec, SortPriceAsc) < slices.Index(spec, SortPriceDesc) {
			spec = spec.Remove(SortPriceDesc)
		} else {
			spec = spec.Remove(SortPriceAsc)
		}
	}
	return spec
}

// Strings returns the serialized form.
func (s SortSpec) Strings() []string {
	out := make([]string, len(s))
	for i, k := range s {
		out[i] = string(k)
	}
	return out
}
