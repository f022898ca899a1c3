package route

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/schema"

	"github.com/motoscoottunisie/MotoScoot-Advanced-sub000/pkg/filter"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

// queryState is the wire shape of the serialized filter state. Every key is
// optional; missing keys keep their documented defaults.
type queryState struct {
	Query      string `schema:"q"`
	Kind       string `schema:"kind"`
	Type       string `schema:"type"`
	Brand      string `schema:"brand"`
	Model      string `schema:"model"`
	City       string `schema:"city"`
	Seller     string `schema:"seller"`
	Pro        bool   `schema:"pro"`
	New        bool   `schema:"new"`
	MinPrice   int    `schema:"minPrice"`
	MaxPrice   int    `schema:"maxPrice"`
	MinYear    int    `schema:"minYear"`
	MaxYear    int    `schema:"maxYear"`
	MinMileage int    `schema:"minMileage"`
	MaxMileage int    `schema:"maxMileage"`
	MinCc      int    `schema:"minCc"`
	MaxCc      int    `schema:"maxCc"`
	Sort       string `schema:"sort"`
	Page       int    `schema:"page"`
}

func defaultQueryState() *queryState {
	d := filter.DefaultState()
	return &queryState{
		MinPrice:   d.Price.Min,
		MaxPrice:   d.Price.Max,
		MinYear:    d.Year.Min,
		MaxYear:    d.Year.Max,
		MinMileage: d.Mileage.Min,
		MaxMileage: d.Mileage.Max,
		MinCc:      d.Displacement.Min,
		MaxCc:      d.Displacement.Max,
		Page:       1,
	}
}

// decodeQuery rebuilds filter state from query values. Unknown keys are
// ignored; malformed values keep their defaults (the decoder error is
// discarded on purpose, a bad query string must not break navigation).
func decodeQuery(values url.Values) (filter.State, filter.SortSpec, int) {
	qs := defaultQueryState()
	_ = decoder.Decode(qs, values)

	state := filter.DefaultState()
	state.Query = qs.Query
	state.Kind = filter.Specific(qs.Kind)
	state.Type = filter.Specific(qs.Type)
	state.Brand = filter.Specific(qs.Brand)
	state.Model = filter.Specific(qs.Model)
	state.City = filter.Specific(qs.City)
	state.SellerRef = qs.Seller
	state.ProfessionalOnly = qs.Pro
	state.NewConditionOnly = qs.New
	state.Price = filter.Range{Min: qs.MinPrice, Max: qs.MaxPrice}
	state.Year = filter.Range{Min: qs.MinYear, Max: qs.MaxYear}
	state.Mileage = filter.Range{Min: qs.MinMileage, Max: qs.MaxMileage}
	state.Displacement = filter.Range{Min: qs.MinCc, Max: qs.MaxCc}
	state.Sanitize()

	var spec filter.SortSpec
	if qs.Sort == "" {
		spec = filter.DefaultSortSpec()
	} else {
		spec = filter.ParseSortSpec(strings.Split(qs.Sort, ","))
	}

	page := qs.Page
	if page < 1 {
		page = 1
	}
	return state, spec, page
}

// encodeQuery serializes filter state, omitting every key still at its
// default. Arrays join on comma, booleans as literal "true".
func encodeQuery(state filter.State, spec filter.SortSpec, page int) url.Values {
	values := url.Values{}
	d := filter.DefaultState()

	setStr := func(key, v string) {
		if v != "" {
			values.Set(key, v)
		}
	}
	setRange := func(minKey, maxKey string, r, def filter.Range) {
		if r.Min != def.Min {
			values.Set(minKey, strconv.Itoa(r.Min))
		}
		if r.Max != def.Max {
			values.Set(maxKey, strconv.Itoa(r.Max))
		}
	}

	setStr("q", state.Query)
	setStr("kind", state.Kind.Value())
	setStr("type", state.Type.Value())
	setStr("brand", state.Brand.Value())
	setStr("model", state.Model.Value())
	setStr("city", state.City.Value())
	setStr("seller", state.SellerRef)
	if state.ProfessionalOnly {
		values.Set("pro", "true")
	}
	if state.NewConditionOnly {
		values.Set("new", "true")
	}
	setRange("minPrice", "maxPrice", state.Price, d.Price)
	setRange("minYear", "maxYear", state.Year, d.Year)
	setRange("minMileage", "maxMileage", state.Mileage, d.Mileage)
	setRange("minCc", "maxCc", state.Displacement, d.Displacement)

	if len(spec) != 1 || spec[0] != filter.SortRecency {
		values.Set("sort", strings.Join(spec.Strings(), ","))
	}
	if page > 1 {
		values.Set("page", strconv.Itoa(page))
	}
	return values
}
