package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/motoscoottunisie/MotoScoot-Advanced-sub000/pkg/geo"
)

// GeoStatus is the lifecycle of one position request.
type GeoStatus string

const (
	GeoIdle     GeoStatus = "idle"
	GeoLocating GeoStatus = "locating"
	GeoResolved GeoStatus = "resolved"
	GeoDenied   GeoStatus = "denied"
	GeoFailed   GeoStatus = "failed"
)

// ErrPermissionDenied is returned by providers when the user refuses the
// position request. It maps to GeoDenied; every other error maps to
// GeoFailed.
var ErrPermissionDenied = errors.New("position permission denied")

// DefaultGeoTimeout bounds one position request. No retry; the user retries
// explicitly.
const DefaultGeoTimeout = 5 * time.Second

// PositionProvider is the black-box geolocation collaborator. One-shot: the
// engine issues a single request per user action and never polls.
type PositionProvider interface {
	RequestPosition(ctx context.Context) (geo.Point, error)
}

// GeoFix holds the optional user coordinate and its request status. Each
// request transitions to exactly one terminal status; a late provider
// callback after Clear or Close is ignored via the generation counter.
type GeoFix struct {
	mu         sync.Mutex
	provider   PositionProvider
	timeout    time.Duration
	status     GeoStatus
	point      *geo.Point
	generation uint64
	closed     bool
}

func NewGeoFix(provider PositionProvider, timeout time.Duration) *GeoFix {
	if timeout <= 0 {
		timeout = DefaultGeoTimeout
	}
	return &GeoFix{provider: provider, timeout: timeout, status: GeoIdle}
}

// Snapshot returns the current status and a copy of the resolved point, nil
// unless resolved.
func (g *GeoFix) Snapshot() (GeoStatus, *geo.Point) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.point == nil {
		return g.status, nil
	}
	p := *g.point
	return g.status, &p
}

// Request starts a position request and returns immediately. onDone is
// called once with the terminal status, unless the fix was cleared or closed
// in the meantime. Requesting while already locating is a no-op.
func (g *GeoFix) Request(onDone func(GeoStatus)) {
	g.mu.Lock()
	if g.closed || g.status == GeoLocating || g.provider == nil {
		g.mu.Unlock()
		return
	}
	g.status = GeoLocating
	g.point = nil
	g.generation++
	gen := g.generation
	timeout := g.timeout
	provider := g.provider
	g.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		point, err := provider.RequestPosition(ctx)

		g.mu.Lock()
		if g.closed || gen != g.generation {
			g.mu.Unlock()
			return
		}
		switch {
		case err == nil:
			g.status = GeoResolved
			g.point = &point
		case errors.Is(err, ErrPermissionDenied):
			g.status = GeoDenied
		default:
			g.status = GeoFailed
		}
		status := g.status
		g.mu.Unlock()

		if onDone != nil {
			onDone(status)
		}
	}()
}

// Clear returns the fix to idle and invalidates any request in flight. The
// caller is responsible for evicting proximity from the sort spec.
func (g *GeoFix) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.generation++
	g.status = GeoIdle
	g.point = nil
}

// Close invalidates any in-flight request permanently.
func (g *GeoFix) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	g.generation++
}
