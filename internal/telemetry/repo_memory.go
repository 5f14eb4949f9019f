package telemetry

import (
	"sync"
	"time"

	"crescita/internal/clock"
)

// MemoryRepository keeps the session's events in memory. Telemetry is
// advisory only and is not part of the persisted document.
type MemoryRepository struct {
	mu     sync.RWMutex
	clk    clock.Clock
	events []Event
	nextID int
}

func NewMemoryRepository(clk clock.Clock) *MemoryRepository {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &MemoryRepository{clk: clk, nextID: 1}
}

func (r *MemoryRepository) Record(eventType EventType, metadata Metadata) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, Event{
		ID:        r.nextID,
		Type:      eventType,
		Timestamp: r.clk.Now(),
		Metadata:  metadata,
	})
	r.nextID++
}

// Events returns events at or after since, optionally filtered by type.
func (r *MemoryRepository) Events(since time.Time, types ...EventType) []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filter := make(map[EventType]bool, len(types))
	for _, t := range types {
		filter[t] = true
	}

	out := make([]Event, 0, len(r.events))
	for _, e := range r.events {
		if e.Timestamp.Before(since) {
			continue
		}
		if len(types) > 0 && !filter[e.Type] {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (r *MemoryRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
	r.nextID = 1
}
