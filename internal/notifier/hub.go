package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tair/qr-order/pkg/logger"
)

const defaultBuffer = 16

// Hub fans events out to in-process subscribers. Delivery is best effort:
// events for channels without subscribers, or for subscribers whose buffer is
// full, are dropped. Nothing is persisted.
type Hub struct {
	mu         sync.RWMutex
	channels   map[string]map[uint64]*Subscription
	nextID     uint64
	buffer     int
	forwarders []Forwarder
}

// NewHub creates a hub; buffer is the per-subscriber queue length
func NewHub(buffer int, forwarders ...Forwarder) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	fw := make([]Forwarder, 0, len(forwarders))
	for _, f := range forwarders {
		if f != nil {
			fw = append(fw, f)
		}
	}
	return &Hub{
		channels:   make(map[string]map[uint64]*Subscription),
		buffer:     buffer,
		forwarders: fw,
	}
}

// Subscription is one client's registration on a channel
type Subscription struct {
	id      uint64
	channel string
	events  chan Event
	hub     *Hub
	once    sync.Once
}

// Events returns the receive side; it is closed by Close
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Channel returns the channel name this subscription listens on
func (s *Subscription) Channel() string {
	return s.channel
}

// Close unregisters the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
	})
}

// Subscribe registers a new subscriber on channel
func (h *Hub) Subscribe(channel string) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	sub := &Subscription{
		id:      h.nextID,
		channel: channel,
		events:  make(chan Event, h.buffer),
		hub:     h,
	}
	subs, ok := h.channels[channel]
	if !ok {
		subs = make(map[uint64]*Subscription)
		h.channels[channel] = subs
	}
	subs[sub.id] = sub
	subscribersGauge.Inc()

	logger.Logger.Debug().
		Str("channel", channel).
		Uint64("subscription_id", sub.id).
		Msg("Subscriber joined")
	return sub
}

func (h *Hub) remove(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.channels[s.channel]
	if !ok {
		return
	}
	if _, ok := subs[s.id]; !ok {
		return
	}
	delete(subs, s.id)
	if len(subs) == 0 {
		delete(h.channels, s.channel)
	}
	// closed under the write lock, so Publish never sends on a closed channel
	close(s.events)
	subscribersGauge.Dec()
}

// SubscriberCount returns the number of live subscribers on channel
func (h *Hub) SubscriberCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}

// Publish delivers event to every subscriber of channel and returns how many
// received it. It never blocks on slow subscribers.
func (h *Hub) Publish(ctx context.Context, channel string, event Event) int {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.Channel = channel

	delivered, dropped := 0, 0
	h.mu.RLock()
	for _, sub := range h.channels[channel] {
		select {
		case sub.events <- event:
			delivered++
		default:
			dropped++
		}
	}
	h.mu.RUnlock()

	eventsTotal.WithLabelValues(event.Type, "delivered").Add(float64(delivered))
	eventsTotal.WithLabelValues(event.Type, "dropped").Add(float64(dropped))
	if delivered == 0 && dropped == 0 {
		eventsTotal.WithLabelValues(event.Type, "no_subscriber").Inc()
	}

	logger.Debug(ctx).
		Str("channel", channel).
		Str("event_type", event.Type).
		Int("delivered", delivered).
		Int("dropped", dropped).
		Msg("Event published")

	h.forward(ctx, event)
	return delivered
}

func (h *Hub) forward(ctx context.Context, event Event) {
	if len(h.forwarders) == 0 {
		return
	}
	// detached from the request so a finished request does not cancel the mirror
	fctx := context.WithoutCancel(ctx)
	for _, f := range h.forwarders {
		go func(f Forwarder) {
			if err := f.Forward(fctx, event); err != nil {
				logger.Warn(fctx).
					Err(err).
					Str("event_type", event.Type).
					Str("event_id", event.ID).
					Msg("Failed to forward event")
			}
		}(f)
	}
}

// Close drops every subscriber, ending their streams
func (h *Hub) Close() {
	h.mu.Lock()
	subs := make([]*Subscription, 0)
	for _, m := range h.channels {
		for _, s := range m {
			subs = append(subs, s)
		}
	}
	h.mu.Unlock()

	for _, s := range subs {
		s.Close()
	}
}
