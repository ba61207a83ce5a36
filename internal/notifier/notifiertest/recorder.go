// Package notifiertest provides a publisher that records events for assertions.
package notifiertest

import (
	"context"
	"sync"

	"github.com/tair/qr-order/internal/notifier"
)

// Published is one recorded call
type Published struct {
	Channel string
	Event   notifier.Event
}

// Recorder implements notifier.Publisher in memory
type Recorder struct {
	mu     sync.Mutex
	events []Published
}

// Publish records the event and reports one delivery
func (r *Recorder) Publish(_ context.Context, channel string, event notifier.Event) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	event.Channel = channel
	r.events = append(r.events, Published{Channel: channel, Event: event})
	return 1
}

// Events returns a copy of everything recorded so far
func (r *Recorder) Events() []Published {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Published, len(r.events))
	copy(out, r.events)
	return out
}

// OfType returns recorded events with the given type
func (r *Recorder) OfType(eventType string) []Published {
	var out []Published
	for _, p := range r.Events() {
		if p.Event.Type == eventType {
			out = append(out, p)
		}
	}
	return out
}

// Reset forgets recorded events
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
