// Package listing holds the catalog data model. Listings arrive with numeric
// facets formatted for display ("12 500 DT", "45 000 km"); the comparable
// integer values are derived once when a listing enters the catalog, never at
// comparison time.
package listing

import (
	"strings"

	"github.com/motoscoottunisie/MotoScoot-Advanced-sub000/pkg/geo"
)

type Kind string

const (
	KindVehicle   Kind = "vehicle"
	KindGarage    Kind = "garage"
	KindArticle   Kind = "article"
	KindAccessory Kind = "accessory"
)

const (
	// FallbackYear replaces an unparseable year display string. Price and
	// mileage fall back to 0 so a malformed record trivially satisfies any
	// minimum bound instead of vanishing from results.
	FallbackYear = 2000

	ConditionNew = "new"
)

// Listing is the raw record as supplied by the data source. Read-only to the
// engine.
type Listing struct {
	Id           int        `json:"id"`
	Kind         Kind       `json:"kind"`
	Type         string     `json:"type"`
	Brand        string     `json:"brand"`
	Model        string     `json:"model"`
	Title        string     `json:"title"`
	City         string     `json:"city"`
	SellerRef    string     `json:"seller"`
	Professional bool       `json:"pro"`
	Conditions   []string   `json:"conditions,omitempty"`
	Price        string     `json:"price"`
	Year         string     `json:"year"`
	Mileage      string     `json:"mileage"`
	Displacement string     `json:"displacement"`
	Position     *geo.Point `json:"position,omitempty"`
}

// Indexed is a Listing plus its derived comparable values. Recency uses the
// id as a proxy, higher ids are newer.
type Indexed struct {
	Listing
	PriceValue        int `json:"priceValue"`
	YearValue         int `json:"yearValue"`
	MileageValue      int `json:"mileageValue"`
	DisplacementValue int `json:"displacementValue"`
}

// Index derives the comparable values for one listing.
func Index(l Listing) Indexed {
	return Indexed{
		Listing:           l,
		PriceValue:        DigitsOr(l.Price, 0),
		YearValue:         DigitsOr(l.Year, FallbackYear),
		MileageValue:      DigitsOr(l.Mileage, 0),
		DisplacementValue: DigitsOr(l.Displacement, 0),
	}
}

// IndexAll derives comparable values for a whole collection.
func IndexAll(items []Listing) []Indexed {
	result := make([]Indexed, len(items))
	for i, l := range items {
		result[i] = Index(l)
	}
	return result
}

// HasCondition reports whether the listing carries the given condition tag,
// case-insensitively.
func (l *Listing) HasCondition(tag string) bool {
	for _, c := range l.Conditions {
		if strings.EqualFold(c, tag) {
			return true
		}
	}
	return false
}

// IsNewCondition applies the product rule for the "new" toggle: the listing
// must carry the new tag AND have zero mileage. Two independent fields are
// co-validated on purpose; do not relax either side without product signoff.
func (l *Indexed) IsNewCondition() bool {
	return l.HasCondition(ConditionNew) && l.MileageValue == 0
}

// DigitsOr extracts the integer formed by the digit characters of s,
// returning fallback when s contains no digit. "12 500 DT" becomes 12500.
func DigitsOr(s string, fallback int) int {
	value := 0
	found := false
	for _, r := range s {
		if r >= '0' && r <= '9' {
			value = value*10 + int(r-'0')
			found = true
		}
	}
	if !found {
		return fallback
	}
	return value
}
