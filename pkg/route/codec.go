package route

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/motoscoottunisie/MotoScoot-Advanced-sub000/pkg/filter"
	"github.com/motoscoottunisie/MotoScoot-Advanced-sub000/pkg/listing"
)

// NavState is a decoded location: the view plus its typed parameters. Fields
// irrelevant to the view hold their zero/default values and are dropped on
// encode.
type NavState struct {
	View   View
	Filter filter.State
	Sort   filter.SortSpec
	Page   int
	// Id identifies the listing or garage on detail views.
	Id int
	// Title feeds the slug segment of detail paths on encode.
	Title string
	// Brand is the captured brand of the category view.
	Brand string
}

// Home returns the default navigation state.
func Home() NavState {
	return NavState{
		View:   ViewHome,
		Filter: filter.DefaultState(),
		Sort:   filter.DefaultSortSpec(),
		Page:   1,
	}
}

// Encode serializes a navigation state into a location string. Only
// query-carrying views serialize filter state; detail and static views
// encode path-only, deliberately dropping whatever else the caller left in
// the state. Unknown views encode as home.
func Encode(s NavState) string {
	r := Lookup(s.View)
	switch r.Capture {
	case captureNumericId:
		slug := listing.Slug(s.Title)
		if slug == "" {
			return r.Prefix + strconv.Itoa(s.Id)
		}
		return r.Prefix + slug + "-" + strconv.Itoa(s.Id)
	case captureBrandSlug:
		return r.Prefix + listing.Slug(s.Brand)
	}
	if r.HasQuery {
		query := encodeQuery(s.Filter, s.Sort, s.Page).Encode()
		if query != "" {
			return r.Prefix + "?" + query
		}
	}
	return r.Prefix
}

// Decode parses a location string back into a navigation state. Unrecognized
// paths fall back to home; an id capture that fails to parse is dropped
// rather than injected as a bogus value.
func Decode(location string) NavState {
	path := location
	rawQuery := ""
	if i := strings.Index(location, "?"); i >= 0 {
		path = location[:i]
		rawQuery = location[i+1:]
	}
	if path == "" {
		path = "/"
	}

	for _, r := range routes {
		m := r.Pattern.FindStringSubmatch(path)
		if m == nil {
			continue
		}
		state := Home()
		state.View = r.View
		switch r.Capture {
		case captureNumericId:
			if id, err := strconv.Atoi(m[1]); err == nil {
				state.Id = id
			}
		case captureBrandSlug:
			state.Brand = m[1]
		}
		if r.HasQuery && rawQuery != "" {
			values, err := url.ParseQuery(rawQuery)
			if err == nil {
				state.Filter, state.Sort, state.Page = decodeQuery(values)
			}
		}
		return state
	}
	return Home()
}
