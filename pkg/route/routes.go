// Package route maps navigation state to and from the externally visible
// location string. The table below is the single source of truth for which
// views exist, what their paths look like, and which of them carry filter
// state in their query string.
package route

import "regexp"

type View string

const (
	ViewHome           View = "home"
	ViewSearch         View = "search"
	ViewGarages        View = "garages"
	ViewListingDetail  View = "listing-detail"
	ViewGarageDetail   View = "garage-detail"
	ViewCategoryDetail View = "category-detail"
	ViewSell           View = "sell"
)

type captureRole int

const (
	captureNone captureRole = iota
	captureNumericId
	captureBrandSlug
)

// Route is one static table entry. Loaded once, never mutated.
type Route struct {
	View    View
	Prefix  string
	Pattern *regexp.Regexp
	Capture captureRole
	// HasQuery marks views whose filter state is serialized into the query
	// string. All other views encode path-only and drop extraneous params.
	HasQuery bool
}

// routes is matched in order, first match wins. Specific patterns must stay
// ahead of general ones; TestRoutePatternsDoNotOverlap guards the ordering.
var routes = []Route{
	{View: ViewListingDetail, Prefix: "/listing/", Pattern: regexp.MustCompile(`^/listing/(?:[a-z0-9-]*-)?([0-9]+)$`), Capture: captureNumericId},
	{View: ViewGarageDetail, Prefix: "/garage/", Pattern: regexp.MustCompile(`^/garage/(?:[a-z0-9-]*-)?([0-9]+)$`), Capture: captureNumericId},
	{View: ViewCategoryDetail, Prefix: "/category/", Pattern: regexp.MustCompile(`^/category/([a-z0-9-]+)$`), Capture: captureBrandSlug},
	{View: ViewSearch, Prefix: "/listings", Pattern: regexp.MustCompile(`^/listings/?$`), HasQuery: true},
	{View: ViewGarages, Prefix: "/garages", Pattern: regexp.MustCompile(`^/garages/?$`), HasQuery: true},
	{View: ViewSell, Prefix: "/sell", Pattern: regexp.MustCompile(`^/sell/?$`)},
	{View: ViewHome, Prefix: "/", Pattern: regexp.MustCompile(`^/?$`)},
}

// Lookup returns the table entry for a view, or the home route for unknown
// views.
func Lookup(v View) Route {
	for _, r := range routes {
		if r.View == v {
			return r
		}
	}
	return routes[len(routes)-1]
}

// Table returns the ordered route table (copied; callers cannot reorder it).
func Table() []Route {
	out := make([]Route, len(routes))
	copy(out, routes)
	return out
}
