package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/motoscoottunisie/MotoScoot-Advanced-sub000/pkg/geo"
)

type stubProvider struct {
	point geo.Point
	err   error
	delay time.Duration
	calls int
}

func (p *stubProvider) RequestPosition(ctx context.Context) (geo.Point, error) {
	p.calls++
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return geo.Point{}, ctx.Err()
		}
	}
	return p.point, p.err
}

func waitStatus(t *testing.T, g *GeoFix, want GeoStatus) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for {
		status, _ := g.Snapshot()
		if status == want {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("status never reached %s, stuck at %s", want, status)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestGeoFixResolves(t *testing.T) {
	g := NewGeoFix(&stubProvider{point: geo.Point{Lat: 36.8, Lon: 10.18}}, time.Second)
	defer g.Close()
	done := make(chan GeoStatus, 1)
	g.Request(func(s GeoStatus) { done <- s })
	if s := <-done; s != GeoResolved {
		t.Fatalf("expected resolved, got %s", s)
	}
	status, point := g.Snapshot()
	if status != GeoResolved || point == nil || point.Lat != 36.8 {
		t.Errorf("unexpected snapshot: %s %+v", status, point)
	}
}

func TestGeoFixDenied(t *testing.T) {
	g := NewGeoFix(&stubProvider{err: ErrPermissionDenied}, time.Second)
	defer g.Close()
	g.Request(nil)
	waitStatus(t, g, GeoDenied)
	if _, point := g.Snapshot(); point != nil {
		t.Error("denied request must not keep a point")
	}
}

func TestGeoFixTimeoutFails(t *testing.T) {
	g := NewGeoFix(&stubProvider{delay: 500 * time.Millisecond}, 20*time.Millisecond)
	defer g.Close()
	g.Request(nil)
	waitStatus(t, g, GeoFailed)
}

func TestGeoFixGenericErrorFails(t *testing.T) {
	g := NewGeoFix(&stubProvider{err: errors.New("no signal")}, time.Second)
	defer g.Close()
	g.Request(nil)
	waitStatus(t, g, GeoFailed)
}

func TestClearIgnoresLateCallback(t *testing.T) {
	g := NewGeoFix(&stubProvider{point: geo.Point{Lat: 1}, delay: 40 * time.Millisecond}, time.Second)
	defer g.Close()
	g.Request(func(GeoStatus) { t.Error("late callback must be ignored after clear") })
	g.Clear()
	time.Sleep(100 * time.Millisecond)
	status, point := g.Snapshot()
	if status != GeoIdle || point != nil {
		t.Errorf("expected idle after clear, got %s %+v", status, point)
	}
}

func TestRequestWhileLocatingIsNoop(t *testing.T) {
	p := &stubProvider{point: geo.Point{Lat: 1}, delay: 50 * time.Millisecond}
	g := NewGeoFix(p, time.Second)
	defer g.Close()
	g.Request(nil)
	g.Request(nil)
	waitStatus(t, g, GeoResolved)
	if p.calls != 1 {
		t.Errorf("expected a single provider call, got %d", p.calls)
	}
}

func TestExplicitRetryAfterFailure(t *testing.T) {
	p := &stubProvider{err: errors.New("no signal")}
	g := NewGeoFix(p, time.Second)
	defer g.Close()
	g.Request(nil)
	waitStatus(t, g, GeoFailed)

	p.err = nil
	p.point = geo.Point{Lat: 2}
	g.Request(nil)
	waitStatus(t, g, GeoResolved)
}
