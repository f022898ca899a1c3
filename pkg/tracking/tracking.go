// Package tracking emits browse events to a message topic. The engine never
// blocks on the tracker and never fails because of it; when no broker is
// configured the no-op tracker is used.
package tracking

type Tracker interface {
	// TrackSearch records a committed filter state, serialized as the
	// location string it produced.
	TrackSearch(sessionId string, location string, totalHits int)
	// TrackView records a view transition.
	TrackView(sessionId string, view string, location string)
	// TrackClick records a listing opened from a result page.
	TrackClick(sessionId string, listingId int, position int)
}

// NoopTracker drops every event.
type NoopTracker struct{}

var _ Tracker = NoopTracker{}

func (NoopTracker) TrackSearch(string, string, int)  {}
func (NoopTracker) TrackView(string, string, string) {}
func (NoopTracker) TrackClick(string, int, int)      {}
