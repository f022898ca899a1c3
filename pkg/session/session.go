// Package session owns the navigation state machine: which view is visible,
// what the location string says, whether the user is logged in, and the
// optional position fix. Every other component reads derived slices of this
// state; nothing mutates it except through the session's own operations.
package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/motoscoottunisie/MotoScoot-Advanced-sub000/pkg/route"
	"github.com/motoscoottunisie/MotoScoot-Advanced-sub000/pkg/tracking"
)

// LocationPort is the single owned handle on the externally visible
// location. The session is its only reader and writer; the location string
// is the source of truth and the in-memory state is a cache of it.
type LocationPort interface {
	Read() string
	Write(location string)
}

// ScrollFunc is invoked when the resolved view changes. Filter-only changes
// within the same view must not disturb the scroll position.
type ScrollFunc func()

// MarkerTTL is how long a persisted login marker stays valid.
const MarkerTTL = 30 * 24 * time.Hour

// parentView is the simplified back-stack: detail views return to their
// logical parent listing view, everything else to home. Not browser history
// replay.
var parentView = map[route.View]route.View{
	route.ViewListingDetail:  route.ViewSearch,
	route.ViewGarageDetail:   route.ViewGarages,
	route.ViewCategoryDetail: route.ViewSearch,
}

type Session struct {
	id       string
	port     LocationPort
	store    MarkerStore
	tracker  tracking.Tracker
	scroll   ScrollFunc
	onChange func(route.NavState)
	secret   []byte

	// mu guards the navigation and login state. Callers include the url
	// commit timer goroutine, not just the event loop.
	mu           sync.Mutex
	current      route.NavState
	lastSeenView route.View
	loggedIn     bool
	loginPrompt  bool
	marker       string
}

type Config struct {
	Port     LocationPort
	Store    MarkerStore
	Tracker  tracking.Tracker
	Scroll   ScrollFunc
	OnChange func(route.NavState)

	// Secret signs the login token handed to the client. A fresh random
	// secret is generated when empty, so tokens then only outlive the
	// process if the secret is configured.
	Secret []byte
}

// New builds a session and restores its state from the port's current
// location.
func New(cfg Config) *Session {
	s := &Session{
		id:       uuid.New().String(),
		port:     cfg.Port,
		store:    cfg.Store,
		tracker:  cfg.Tracker,
		scroll:   cfg.Scroll,
		onChange: cfg.OnChange,
		secret:   cfg.Secret,
	}
	if s.store == nil {
		s.store = NewMemoryMarkerStore()
	}
	if s.tracker == nil {
		s.tracker = tracking.NoopTracker{}
	}
	if len(s.secret) == 0 {
		s.secret = []byte(uuid.New().String())
	}
	s.current = route.Decode(cfg.Port.Read())
	s.lastSeenView = s.current.View
	return s
}

func (s *Session) Id() string {
	return s.id
}

// Current returns a copy of the navigation state.
func (s *Session) Current() route.NavState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Session) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedIn
}

func (s *Session) LoginPromptVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loginPrompt
}

// NavigateTo resolves the target view (unknown views resolve to home) and
// writes the encoded location through the port. Scroll fires only when the
// resolved view differs from the previous one. The sell view is login-gated:
// navigating there logged out opens the login prompt instead.
func (s *Session) NavigateTo(state route.NavState) {
	resolved := route.Lookup(state.View).View
	s.mu.Lock()
	if resolved == route.ViewSell && !s.loggedIn {
		s.loginPrompt = true
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	state.View = resolved
	s.apply(state)
}

// HandleExternalLocation reacts to a back/forward event: the new location is
// decoded and replaces the state, with the same scroll-on-view-change rule.
func (s *Session) HandleExternalLocation(location string) {
	s.commit(route.Decode(location), location)
}

// GoBack navigates to the logical parent of the current view.
func (s *Session) GoBack() {
	s.mu.Lock()
	current := s.current.View
	s.mu.Unlock()
	target, ok := parentView[current]
	if !ok {
		target = route.ViewHome
	}
	next := route.Home()
	next.View = target
	s.NavigateTo(next)
}

// apply encodes the state once and writes that location through the port.
// The written location keeps the full detail slug; the cached state keeps
// only what a later read of the location would recover.
func (s *Session) apply(next route.NavState) {
	location := route.Encode(next)
	s.port.Write(location)
	s.commit(route.Decode(location), location)
}

func (s *Session) commit(next route.NavState, location string) {
	s.mu.Lock()
	s.current = next
	viewChanged := next.View != s.lastSeenView
	s.lastSeenView = next.View
	s.mu.Unlock()
	s.tracker.TrackView(s.id, string(next.View), location)
	if viewChanged && s.scroll != nil {
		s.scroll()
	}
	if s.onChange != nil {
		s.onChange(next)
	}
}

// TriggerLogin shows the login prompt without touching the view.
func (s *Session) TriggerLogin() {
	s.mu.Lock()
	s.loginPrompt = true
	s.mu.Unlock()
}

// CloseLoginModal hides the login prompt without touching the view.
func (s *Session) CloseLoginModal() {
	s.mu.Lock()
	s.loginPrompt = false
	s.mu.Unlock()
}

// CompleteLogin records a successful login from the external auth
// collaborator: persists a fresh marker, closes the prompt and returns the
// signed token the client holds on to for RestoreLogin.
func (s *Session) CompleteLogin(ctx context.Context) (string, error) {
	marker := uuid.New().String()
	if err := s.store.Save(ctx, marker, MarkerTTL); err != nil {
		return "", err
	}
	token, err := SignMarker(s.secret, marker, MarkerTTL)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.marker = marker
	s.loggedIn = true
	s.loginPrompt = false
	s.mu.Unlock()
	return token, nil
}

// RestoreLogin verifies a signed token from a previous CompleteLogin and
// restores the login flag when the embedded marker is still persisted.
func (s *Session) RestoreLogin(ctx context.Context, token string) bool {
	marker, err := ParseMarker(s.secret, token)
	if err != nil {
		return false
	}
	ok, err := s.store.Has(ctx, marker)
	if err != nil {
		log.Printf("marker lookup failed: %v", err)
		return false
	}
	if ok {
		s.mu.Lock()
		s.marker = marker
		s.loggedIn = true
		s.mu.Unlock()
	}
	return ok
}

// Logout clears the login flag and the persisted marker, then navigates
// home. Blocking; run it on a goroutine when latency matters.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	marker := s.marker
	s.marker = ""
	s.loggedIn = false
	s.loginPrompt = false
	s.mu.Unlock()
	var err error
	if marker != "" {
		if err = s.store.Delete(ctx, marker); err != nil {
			log.Printf("marker delete failed: %v", err)
		}
	}
	s.NavigateTo(route.Home())
	return err
}
