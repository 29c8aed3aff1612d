package hub

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/atikulmunna/sigma-input/internal/model"
)

const subscriberBuffer = 1024

// Hub fans emitted records out to observers (dashboard clients, stats). Publish
// never blocks, so a slow observer cannot stall the device loop.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan model.Record]struct{}
	closed      bool
	dropped     atomic.Int64
	log         *slog.Logger
}

// New creates an empty Hub.
func New(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subscribers: make(map[chan model.Record]struct{}),
		log:         logger,
	}
}

// Subscribe returns a buffered channel that will receive published records.
// Multiple consumers can subscribe; each gets a copy of every record.
func (h *Hub) Subscribe() <-chan model.Record {
	ch := make(chan model.Record, subscriberBuffer)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch
	}
	h.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe detaches and closes a channel returned by Subscribe.
func (h *Hub) Unsubscribe(sub <-chan model.Record) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		if ch == sub {
			delete(h.subscribers, ch)
			close(ch)
			return
		}
	}
}

// Dropped returns the total number of records dropped due to slow consumers.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// Publish sends a record to all subscribers.
// If a subscriber's channel is full, the record is dropped for that subscriber.
func (h *Hub) Publish(rec model.Record) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers {
		select {
		case ch <- rec:
		default:
			n := h.dropped.Add(1)
			h.log.Debug("hub: dropped record for slow consumer", "total_dropped", n)
		}
	}
}

// Close closes all subscriber channels. Later publishes are no-ops.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subscribers {
		close(ch)
	}
	h.subscribers = nil
}
