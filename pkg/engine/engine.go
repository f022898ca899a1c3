// Package engine wires the browse pipeline together: facet store, deferred
// derivation, pagination, location codec and navigation session. It owns the
// catalog snapshot and exposes the render contract consumed by the UI layer.
package engine

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/motoscoottunisie/MotoScoot-Advanced-sub000/pkg/debounce"
	"github.com/motoscoottunisie/MotoScoot-Advanced-sub000/pkg/filter"
	"github.com/motoscoottunisie/MotoScoot-Advanced-sub000/pkg/listing"
	"github.com/motoscoottunisie/MotoScoot-Advanced-sub000/pkg/route"
	"github.com/motoscoottunisie/MotoScoot-Advanced-sub000/pkg/session"
	"github.com/motoscoottunisie/MotoScoot-Advanced-sub000/pkg/tracking"
)

var (
	derivationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "motoscoot_derivations_total",
		Help: "The total number of filter/sort derivations executed",
	})
	urlCommitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "motoscoot_url_commits_total",
		Help: "The total number of committed location updates",
	})
)

// ViewModel is the render contract. The UI receives values only, never
// internal handles.
type ViewModel struct {
	PagedItems  []filter.Ranked
	TotalCount  int
	IsFiltering bool
	CurrentPage int
	TotalPages  int
}

// Options configures a new engine. Zero values fall back to the documented
// defaults.
type Options struct {
	Catalog    []listing.Listing
	Port       session.LocationPort
	Provider   session.PositionProvider
	Markers    session.MarkerStore
	Tracker    tracking.Tracker
	Scroll     session.ScrollFunc
	Secret     []byte
	PageSize   int
	Tortuosity float64
	TextDelay  time.Duration
	URLDelay   time.Duration
	GeoTimeout time.Duration
}

// Engine is the single owner of the derived result set. All mutations echo
// synchronously into the store and defer the expensive derivation through
// the low-priority scheduler; the URL commit trails behind on its own slower
// tier.
type Engine struct {
	catalog    []listing.Indexed
	store      *filter.Store
	geoFix     *session.GeoFix
	sess       *session.Session
	tracker    tracking.Tracker
	textTier   *debounce.Debouncer
	urlTier    *debounce.Debouncer
	sched      *debounce.Scheduler
	pageSize   int
	tortuosity float64

	mu          sync.RWMutex
	derived     []filter.Ranked
	stagedQuery string
	closed      bool
}

func New(opts Options) *Engine {
	if opts.PageSize <= 0 {
		opts.PageSize = filter.DefaultPageSize
	}
	if opts.TextDelay <= 0 {
		opts.TextDelay = debounce.TierA
	}
	if opts.URLDelay <= 0 {
		opts.URLDelay = debounce.TierB
	}
	if opts.Tracker == nil {
		opts.Tracker = tracking.NoopTracker{}
	}

	e := &Engine{
		catalog:    listing.IndexAll(opts.Catalog),
		tracker:    opts.Tracker,
		textTier:   debounce.NewDebouncer(opts.TextDelay),
		urlTier:    debounce.NewDebouncer(opts.URLDelay),
		sched:      debounce.NewScheduler(),
		pageSize:   opts.PageSize,
		tortuosity: opts.Tortuosity,
	}
	e.geoFix = session.NewGeoFix(opts.Provider, opts.GeoTimeout)
	e.sess = session.New(session.Config{
		Port:     opts.Port,
		Store:    opts.Markers,
		Tracker:  opts.Tracker,
		Scroll:   opts.Scroll,
		OnChange: e.adoptNavState,
		Secret:   opts.Secret,
	})

	initial := e.sess.Current()
	e.store = filter.NewStoreWith(initial.Filter, initial.Sort, initial.Page)
	e.stagedQuery = initial.Filter.Query
	e.recompute()
	return e
}

// Session exposes the navigation session for login/back operations. The
// session remains the sole owner of navigation state.
func (e *Engine) Session() *session.Session {
	return e.sess
}

// View returns the current render contract values.
func (e *Engine) View() ViewModel {
	e.mu.RLock()
	derived := e.derived
	e.mu.RUnlock()
	_, _, page := e.store.Snapshot()
	total := len(derived)
	page = filter.ClampPage(page, total, e.pageSize)
	return ViewModel{
		PagedItems:  filter.Slice(derived, e.pageSize, page),
		TotalCount:  total,
		IsFiltering: e.sched.Busy() || e.textTier.Pending(),
		CurrentPage: page,
		TotalPages:  filter.TotalPages(total, e.pageSize),
	}
}

// StagedQuery returns the text input echo, which may be ahead of the
// committed filter state while the fast tier is pending.
func (e *Engine) StagedQuery() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stagedQuery
}

// TypeQuery stages a keystroke for immediate echo and commits it into the
// filter state once the fast tier elapses without newer input.
func (e *Engine) TypeQuery(q string) {
	e.mu.Lock()
	e.stagedQuery = q
	e.mu.Unlock()
	e.textTier.Trigger(func() {
		e.apply(func(s *filter.Store) { s.SetQuery(q) })
	})
}

// Mutate applies any facet/sort/page mutation: the store updates
// synchronously, the derivation is deferred through the scheduler, and a URL
// commit is scheduled on the slow tier.
func (e *Engine) Mutate(fn func(*filter.Store)) {
	e.apply(fn)
}

func (e *Engine) SetBrand(o filter.Option) { e.apply(func(s *filter.Store) { s.SetBrand(o) }) }
func (e *Engine) SetModel(o filter.Option) { e.apply(func(s *filter.Store) { s.SetModel(o) }) }
func (e *Engine) SetCity(o filter.Option)  { e.apply(func(s *filter.Store) { s.SetCity(o) }) }

func (e *Engine) ToggleSort(key filter.SortKey) {
	e.apply(func(s *filter.Store) { s.ToggleSort(key) })
}

// SetPage navigates within the derived result; out-of-range targets are a
// no-op inside the store.
func (e *Engine) SetPage(page int) {
	e.mu.RLock()
	total := len(e.derived)
	e.mu.RUnlock()
	totalPages := filter.TotalPages(total, e.pageSize)
	e.apply(func(s *filter.Store) { s.SetPage(page, totalPages) })
}

// Reset restores every facet default, clears the position fix and goes back
// to the recency sort on page 1.
func (e *Engine) Reset() {
	e.geoFix.Clear()
	e.textTier.Cancel()
	e.mu.Lock()
	e.stagedQuery = ""
	e.mu.Unlock()
	e.apply(func(s *filter.Store) { s.Reset() })
}

// RequestLocation starts the one-shot position request; on success the
// proximity sort becomes available and active.
func (e *Engine) RequestLocation() {
	e.geoFix.Request(func(status session.GeoStatus) {
		if status != session.GeoResolved {
			return
		}
		e.apply(func(s *filter.Store) {
			_, spec, _ := s.Snapshot()
			if !spec.Contains(filter.SortProximity) {
				s.ToggleSort(filter.SortProximity)
			}
		})
	})
}

// GeoStatus exposes the fix status for the UI.
func (e *Engine) GeoStatus() session.GeoStatus {
	status, _ := e.geoFix.Snapshot()
	return status
}

// ClearLocation drops the fix and evicts proximity from the sort spec.
func (e *Engine) ClearLocation() {
	e.geoFix.Clear()
	e.apply(func(s *filter.Store) { s.RemoveSort(filter.SortProximity) })
}

// OpenListing records the click and navigates to the detail view.
func (e *Engine) OpenListing(id int, title string, position int) {
	e.tracker.TrackClick(e.sess.Id(), id, position)
	state := route.Home()
	state.View = route.ViewListingDetail
	state.Id = id
	state.Title = title
	e.sess.NavigateTo(state)
}

// HandleExternalLocation forwards a back/forward event into the session; the
// decoded state flows back through adoptNavState.
func (e *Engine) HandleExternalLocation(location string) {
	e.sess.HandleExternalLocation(location)
}

// Close cancels every pending timer and the in-flight position request.
// Required on teardown; late callbacks against disposed state are ignored.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	e.textTier.Close()
	e.urlTier.Close()
	e.geoFix.Close()
	e.sched.Close()
}

// apply runs a store mutation, defers the derivation and schedules the URL
// commit. The store itself updates before apply returns so the UI echo is
// synchronous.
func (e *Engine) apply(fn func(*filter.Store)) {
	fn(e.store)
	e.sched.Submit(e.recompute)
	e.urlTier.Trigger(e.commitURL)
}

// recompute rebuilds the derived result from the current snapshot. Runs on
// the scheduler goroutine (or inline during construction).
func (e *Engine) recompute() {
	state, spec, _ := e.store.Snapshot()
	_, origin := e.geoFix.Snapshot()
	derived := filter.Derive(e.catalog, state, spec, filter.DeriveOptions{
		Origin:     origin,
		Tortuosity: e.tortuosity,
	})
	derivationsTotal.Inc()
	e.mu.Lock()
	e.derived = derived
	e.mu.Unlock()
}

// commitURL serializes the committed filter state into the location, but
// only when the current view carries query state.
func (e *Engine) commitURL() {
	e.mu.RLock()
	closed := e.closed
	total := len(e.derived)
	e.mu.RUnlock()
	if closed {
		return
	}
	current := e.sess.Current()
	if !route.Lookup(current.View).HasQuery {
		return
	}
	state, spec, page := e.store.Snapshot()
	next := current
	next.Filter = state
	next.Sort = spec
	next.Page = page
	e.sess.NavigateTo(next)
	urlCommitsTotal.Inc()
	e.tracker.TrackSearch(e.sess.Id(), route.Encode(next), total)
}

// adoptNavState pulls decoded filter state back into the store after a
// navigation (history event or programmatic). Keeps the location string the
// source of truth.
func (e *Engine) adoptNavState(next route.NavState) {
	if !route.Lookup(next.View).HasQuery {
		return
	}
	state, spec, page := e.store.Snapshot()
	if state == next.Filter && page == next.Page && specEqual(spec, next.Sort) {
		return
	}
	e.store.Replace(next.Filter, next.Sort, next.Page)
	e.mu.Lock()
	e.stagedQuery = next.Filter.Query
	e.mu.Unlock()
	e.sched.Submit(e.recompute)
}

func specEqual(a, b filter.SortSpec) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
