package persistence

import (
	"context"
	"sync"
	"time"

	"github.com/petrijr/sequencer/pkg/api"
)

// InMemoryEventStore is a goroutine-safe EventStore backed by a slice per
// sequence. Events are returned in append order.
type InMemoryEventStore struct {
	mu     sync.RWMutex
	events map[string][]api.SequenceEvent
}

// NewInMemoryEventStore creates a new InMemoryEventStore.
func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		events: make(map[string][]api.SequenceEvent),
	}
}

// Ensure InMemoryEventStore implements EventStore.
var _ EventStore = (*InMemoryEventStore)(nil)

func (s *InMemoryEventStore) AppendEvent(ctx context.Context, ev api.SequenceEvent) error {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.events[ev.SequenceID] = append(s.events[ev.SequenceID], ev)
	return nil
}

func (s *InMemoryEventStore) ListEvents(ctx context.Context, sequenceID string) ([]api.SequenceEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.events[sequenceID]
	out := make([]api.SequenceEvent, len(src))
	copy(out, src)
	return out, nil
}
