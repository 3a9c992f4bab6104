package events

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zhouzirui/z-movies/backend/internal/model/movie"
)

// Event types published by the movie service.
const (
	TypeCreated = "created"
	TypeUpdated = "updated"
	TypeDeleted = "deleted"
)

// Event describes one change to the movie catalogue.
type Event struct {
	ID    string      `json:"id"`
	Type  string      `json:"type"`
	Movie movie.Movie `json:"movie"`
	Time  time.Time   `json:"time"`
}

// Hub fans change events out to live subscribers. Publish never blocks: a
// subscriber whose buffer is full misses the event.
type Hub struct {
	mu      sync.Mutex
	subs    map[*Subscription]struct{}
	closed  bool
	dropped atomic.Int64
	logger  *zap.Logger
}

// Subscription receives events until it or its hub is closed.
type Subscription struct {
	hub  *Hub
	ch   chan Event
	once sync.Once
}

// NewHub creates an empty hub. A nil logger falls back to a no-op logger.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		subs:   make(map[*Subscription]struct{}),
		logger: logger,
	}
}

// Publish stamps and delivers an event of the given type.
func (h *Hub) Publish(eventType string, m movie.Movie) Event {
	evt := Event{
		ID:    uuid.NewString(),
		Type:  eventType,
		Movie: m,
		Time:  time.Now().UTC(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs {
		select {
		case sub.ch <- evt:
		default:
			h.dropped.Add(1)
			h.logger.Warn("event dropped for slow subscriber",
				zap.String("event_id", evt.ID),
				zap.String("type", evt.Type))
		}
	}
	return evt
}

// Subscribe registers a new subscriber with the given channel buffer. On a
// closed hub the returned subscription is already closed.
func (h *Hub) Subscribe(buffer int) *Subscription {
	if buffer < 1 {
		buffer = 1
	}
	sub := &Subscription{hub: h, ch: make(chan Event, buffer)}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		sub.once.Do(func() { close(sub.ch) })
		return sub
	}
	h.subs[sub] = struct{}{}
	return sub
}

// Subscribers reports the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Dropped reports how many deliveries were skipped because of full buffers.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// Close ends every subscription. Later Publish calls deliver nothing.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for sub := range h.subs {
		delete(h.subs, sub)
		sub.once.Do(func() { close(sub.ch) })
	}
}

// Events is closed when the subscription ends.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Close unregisters the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()

	delete(s.hub.subs, s)
	s.once.Do(func() { close(s.ch) })
}
