package filter

import (
	"math"
	"sort"
	"strings"

	"github.com/motoscoottunisie/MotoScoot-Advanced-sub000/pkg/geo"
	"github.com/motoscoottunisie/MotoScoot-Advanced-sub000/pkg/listing"
)

// unknownDistance sorts listings without a usable distance after every
// listing with one. Large but additive-safe.
const unknownDistance = math.MaxFloat64 / 2

// Ranked is one derived result row. Distance is nil when either side of the
// pair has no coordinates; the UI shows it as unavailable, never as 0.
type Ranked struct {
	listing.Indexed
	Distance *float64 `json:"distance,omitempty"`
}

// DeriveOptions carries the per-derivation inputs that live outside the
// facet record.
type DeriveOptions struct {
	// Origin is the resolved user position, nil when no fix is available.
	Origin *geo.Point
	// Tortuosity scales great-circle distance into estimated road distance.
	// Zero means geo.DefaultTortuosity.
	Tortuosity float64
}

// Derive produces the filtered and sorted view of the collection. Pure: the
// input slice, the state and the spec are never mutated.
func Derive(items []listing.Indexed, state State, spec SortSpec, opts DeriveOptions) []Ranked {
	if opts.Tortuosity <= 0 {
		opts.Tortuosity = geo.DefaultTortuosity
	}
	query := strings.ToLower(strings.TrimSpace(state.Query))

	result := make([]Ranked, 0, len(items))
	for i := range items {
		item := &items[i]
		if !matches(item, &state, query) {
			continue
		}
		row := Ranked{Indexed: *item}
		if opts.Origin != nil && item.Position != nil {
			d := geo.RoadKm(*opts.Origin, *item.Position, opts.Tortuosity)
			row.Distance = &d
		}
		result = append(result, row)
	}

	sortRanked(result, spec)
	return result
}

// matches applies every active facet conjunctively, cheapest checks first.
func matches(item *listing.Indexed, state *State, loweredQuery string) bool {
	if state.SellerRef != "" && !strings.EqualFold(state.SellerRef, item.SellerRef) {
		return false
	}
	if state.ProfessionalOnly && !item.Professional {
		return false
	}
	if state.NewConditionOnly && !item.IsNewCondition() {
		return false
	}
	if !state.Kind.Matches(string(item.Kind)) {
		return false
	}
	if !state.Type.Matches(item.Type) {
		return false
	}
	if !state.City.Matches(item.City) {
		return false
	}
	// Brand and model fall back to a title substring match: free-text titles
	// are not reliably tokenized into the brand/model fields.
	if !matchesOrInTitle(state.Brand, item.Brand, item.Title) {
		return false
	}
	if !matchesOrInTitle(state.Model, item.Model, item.Title) {
		return false
	}
	if loweredQuery != "" && !strings.Contains(strings.ToLower(item.Title), loweredQuery) {
		return false
	}
	if !state.Price.Contains(item.PriceValue) {
		return false
	}
	// Accessories carry no meaningful year, mileage or displacement.
	if item.Kind != listing.KindAccessory {
		if !state.Year.Contains(item.YearValue) {
			return false
		}
		if !state.Mileage.Contains(item.MileageValue) {
			return false
		}
		if !state.Displacement.Contains(item.DisplacementValue) {
			return false
		}
	}
	return true
}

func matchesOrInTitle(opt Option, field, title string) bool {
	if opt.IsAll() {
		return true
	}
	if opt.Matches(field) {
		return true
	}
	return strings.Contains(strings.ToLower(title), strings.ToLower(opt.Value()))
}

// sortRanked applies the spec with a stable sort; rows tied on every active
// key keep their input order.
func sortRanked(rows []Ranked, spec SortSpec) {
	if len(spec) == 0 {
		spec = DefaultSortSpec()
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, key := range spec {
			if d := delta(&rows[i], &rows[j], key); d != 0 {
				return d < 0
			}
		}
		return false
	})
}

// delta returns a signed comparison for one key, negative when a sorts
// before b.
func delta(a, b *Ranked, key SortKey) float64 {
	switch key {
	case SortProximity:
		return distanceOrUnknown(a) - distanceOrUnknown(b)
	case SortPriceAsc:
		return float64(a.PriceValue - b.PriceValue)
	case SortPriceDesc:
		return float64(b.PriceValue - a.PriceValue)
	case SortYearDesc:
		return float64(b.YearValue - a.YearValue)
	case SortMileageAsc:
		return float64(a.MileageValue - b.MileageValue)
	default:
		// Recency: the id is the recency proxy, newest first.
		return float64(b.Id - a.Id)
	}
}

func distanceOrUnknown(r *Ranked) float64 {
	if r.Distance == nil {
		return unknownDistance
	}
	return *r.Distance
}
