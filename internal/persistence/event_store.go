// Package persistence stores the lifecycle history of sequences.
package persistence

import (
	"context"

	"github.com/petrijr/sequencer/pkg/api"
)

// EventStore is an append-only history store for sequence lifecycle events.
type EventStore interface {
	AppendEvent(ctx context.Context, ev api.SequenceEvent) error
	ListEvents(ctx context.Context, sequenceID string) ([]api.SequenceEvent, error)
}

// NoopEventStore discards all events.
type NoopEventStore struct{}

func (NoopEventStore) AppendEvent(ctx context.Context, ev api.SequenceEvent) error { return nil }
func (NoopEventStore) ListEvents(ctx context.Context, sequenceID string) ([]api.SequenceEvent, error) {
	return nil, nil
}
