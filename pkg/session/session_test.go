package session

import (
	"context"
	"sync"
	"testing"

	"github.com/motoscoottunisie/MotoScoot-Advanced-sub000/pkg/filter"
	"github.com/motoscoottunisie/MotoScoot-Advanced-sub000/pkg/route"
)

type fakePort struct {
	mu       sync.Mutex
	location string
	writes   int
}

func (p *fakePort) Read() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.location
}

func (p *fakePort) Write(loc string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.location = loc
	p.writes++
}

func newTestSession(initial string) (*Session, *fakePort, *int) {
	port := &fakePort{location: initial}
	scrolls := 0
	s := New(Config{
		Port:   port,
		Scroll: func() { scrolls++ },
	})
	return s, port, &scrolls
}

func TestNewRestoresFromLocation(t *testing.T) {
	s, _, _ := newTestSession("/listing/yamaha-tmax-560-2")
	if s.Current().View != route.ViewListingDetail || s.Current().Id != 2 {
		t.Errorf("expected restored listing-detail id 2, got %+v", s.Current())
	}
}

func TestNavigateWritesLocation(t *testing.T) {
	s, port, _ := newTestSession("/")
	next := route.Home()
	next.View = route.ViewSearch
	next.Filter.Query = "tmax"
	s.NavigateTo(next)
	if port.location != "/listings?q=tmax" {
		t.Errorf("unexpected location %q", port.location)
	}
	if s.Current().View != route.ViewSearch {
		t.Errorf("cached state not updated: %s", s.Current().View)
	}
}

func TestScrollOnlyOnViewChange(t *testing.T) {
	s, _, scrolls := newTestSession("/")
	search := route.Home()
	search.View = route.ViewSearch
	s.NavigateTo(search)
	if *scrolls != 1 {
		t.Fatalf("expected one scroll after view change, got %d", *scrolls)
	}

	filtered := s.Current()
	filtered.Filter.Brand = filter.Specific("Yamaha")
	s.NavigateTo(filtered)
	if *scrolls != 1 {
		t.Errorf("filter-only change must not scroll, got %d", *scrolls)
	}
}

func TestExternalLocationScrollRule(t *testing.T) {
	s, _, scrolls := newTestSession("/listings")
	s.HandleExternalLocation("/listings?q=tmax")
	if *scrolls != 0 {
		t.Errorf("same-view history event must not scroll, got %d", *scrolls)
	}
	s.HandleExternalLocation("/listing/yamaha-tmax-560-2")
	if *scrolls != 1 {
		t.Errorf("view-changing history event must scroll, got %d", *scrolls)
	}
	if s.Current().Id != 2 {
		t.Errorf("state not replaced from history, got %+v", s.Current())
	}
}

func TestNavigateUnknownViewResolvesHome(t *testing.T) {
	s, port, _ := newTestSession("/listings")
	s.NavigateTo(route.NavState{View: route.View("mystery")})
	if s.Current().View != route.ViewHome || port.location != "/" {
		t.Errorf("unknown view must resolve to home, got %s at %q", s.Current().View, port.location)
	}
}

func TestGoBackParents(t *testing.T) {
	cases := map[string]route.View{
		"/listing/yamaha-tmax-560-2": route.ViewSearch,
		"/garage/moto-center-9":      route.ViewGarages,
		"/category/honda":            route.ViewSearch,
		"/listings":                  route.ViewHome,
	}
	for initial, expected := range cases {
		s, _, _ := newTestSession(initial)
		s.GoBack()
		if s.Current().View != expected {
			t.Errorf("goBack from %q: expected %s, got %s", initial, expected, s.Current().View)
		}
	}
}

func TestLoginGateOnSell(t *testing.T) {
	s, port, _ := newTestSession("/")
	sell := route.Home()
	sell.View = route.ViewSell
	s.NavigateTo(sell)
	if !s.LoginPromptVisible() {
		t.Fatal("expected login prompt for a logged-out user")
	}
	if s.Current().View != route.ViewHome || port.location != "/" {
		t.Errorf("gated navigation must not move, got %s", s.Current().View)
	}

	if _, err := s.CompleteLogin(context.Background()); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	s.NavigateTo(sell)
	if s.Current().View != route.ViewSell {
		t.Errorf("logged-in user must reach the sell view, got %s", s.Current().View)
	}
}

func TestLoginModalFlagsDoNotTouchView(t *testing.T) {
	s, _, _ := newTestSession("/listings")
	s.TriggerLogin()
	if !s.LoginPromptVisible() || s.Current().View != route.ViewSearch {
		t.Errorf("triggerLogin must only toggle the prompt")
	}
	s.CloseLoginModal()
	if s.LoginPromptVisible() {
		t.Errorf("closeLoginModal must hide the prompt")
	}
}

func TestLogoutClearsMarkerAndGoesHome(t *testing.T) {
	s, port, _ := newTestSession("/listings")
	ctx := context.Background()
	if _, err := s.CompleteLogin(ctx); err != nil {
		t.Fatal(err)
	}
	marker := s.marker
	if err := s.Logout(ctx); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if s.LoggedIn() {
		t.Error("still logged in after logout")
	}
	if port.location != "/" {
		t.Errorf("expected home after logout, got %q", port.location)
	}
	if ok, _ := s.store.Has(ctx, marker); ok {
		t.Error("persisted marker survived logout")
	}
}

func TestRestoreLogin(t *testing.T) {
	ctx := context.Background()
	secret := []byte("browse-test-secret")
	store := NewMemoryMarkerStore()
	s := New(Config{Port: &fakePort{location: "/"}, Store: store, Secret: secret})
	token, err := s.CompleteLogin(ctx)
	if err != nil {
		t.Fatal(err)
	}

	// A reload: fresh session, same store and secret.
	reloaded := New(Config{Port: &fakePort{location: "/"}, Store: store, Secret: secret})
	if !reloaded.RestoreLogin(ctx, token) {
		t.Fatal("expected a valid token to restore the login flag")
	}
	if !reloaded.LoggedIn() {
		t.Error("login flag not set after restore")
	}
	if reloaded.RestoreLogin(ctx, "not-a-token") {
		t.Error("garbage token must not restore login")
	}

	foreign := New(Config{Port: &fakePort{location: "/"}, Store: store, Secret: []byte("other-secret")})
	if foreign.RestoreLogin(ctx, token) {
		t.Error("token signed with another secret must be rejected")
	}

	if err := s.Logout(ctx); err != nil {
		t.Fatal(err)
	}
	revoked := New(Config{Port: &fakePort{location: "/"}, Store: store, Secret: secret})
	if revoked.RestoreLogin(ctx, token) {
		t.Error("token for a deleted marker must not restore login")
	}
}

func TestNavigateDetailKeepsSlugInLocation(t *testing.T) {
	s, port, _ := newTestSession("/listings")
	next := route.Home()
	next.View = route.ViewListingDetail
	next.Id = 1
	next.Title = "Yamaha TMAX 560"
	s.NavigateTo(next)
	if port.location != "/listing/yamaha-tmax-560-1" {
		t.Errorf("detail location must carry the title slug, got %q", port.location)
	}
	if s.Current().Id != 1 {
		t.Errorf("cached state lost the id: %+v", s.Current())
	}
}

func TestConcurrentNavigationAndHistory(t *testing.T) {
	s := New(Config{Port: &fakePort{location: "/listings"}})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				next := route.Home()
				next.View = route.ViewSearch
				next.Filter.Query = "tmax"
				s.NavigateTo(next)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.HandleExternalLocation("/listing/yamaha-tmax-560-2")
			}
		}()
	}
	wg.Wait()
	view := s.Current().View
	if view != route.ViewSearch && view != route.ViewListingDetail {
		t.Errorf("state corrupted under concurrent use: %+v", s.Current())
	}
}
