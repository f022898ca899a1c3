// Package debounce provides the two deferral mechanisms of the browse
// engine: trailing-edge debouncers for the fast (text input) and slow (URL
// commit) tiers, and a low-priority scheduler that serializes expensive
// derivations behind the visible input echo.
package debounce

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// TierA delays committing free-text keystrokes into the filter state.
	TierA = 400 * time.Millisecond
	// TierB delays serializing committed state into the location string so
	// rapid facet changes coalesce into one URL write.
	TierB = 1000 * time.Millisecond
)

var (
	debounceFires = promauto.NewCounter(prometheus.CounterOpts{
		Name: "motoscoot_debounce_fires_total",
		Help: "The total number of debounced callbacks that fired",
	})
	debounceCancels = promauto.NewCounter(prometheus.CounterOpts{
		Name: "motoscoot_debounce_cancels_total",
		Help: "The total number of pending callbacks cancelled by newer input",
	})
)

// Debouncer fires a callback once its delay elapses with no newer trigger.
// Trailing-edge only, never fires on the leading edge. A generation counter
// guards against a stale timer committing over newer state: the callback
// runs only if no trigger, cancel or close happened after it was scheduled.
type Debouncer struct {
	mu         sync.Mutex
	delay      time.Duration
	timer      *time.Timer
	generation uint64
	closed     bool
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger cancels any pending callback and schedules fn after the delay.
// fn runs on the timer goroutine, outside the debouncer lock.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
		debounceCancels.Inc()
	}
	d.generation++
	g := d.generation
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.closed || g != d.generation {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		debounceFires.Inc()
		fn()
	})
}

// Cancel drops any pending callback without firing it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.generation++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
		debounceCancels.Inc()
	}
}

// Pending reports whether a callback is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Close cancels any pending callback and rejects further triggers. Required
// on teardown: a timer firing against disposed state is a correctness bug,
// not a leak.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.generation++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
