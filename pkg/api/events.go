package api

import "time"

// EventType identifies a sequence history event.
type EventType string

const (
	EventSequenceStarted   EventType = "sequence.started"
	EventSequenceLooped    EventType = "sequence.looped"
	EventSequenceFinished  EventType = "sequence.finished"
	EventSequenceCancelled EventType = "sequence.cancelled"
	EventSequenceFailed    EventType = "sequence.failed"

	EventStepStarted EventType = "step.started"
)

// SequenceEvent is a minimal append-only history record for audit/debugging.
type SequenceEvent struct {
	SequenceID string
	At         time.Time
	Type       EventType

	// Optional context.
	Title string
	Step  int

	// Small, human-oriented details (e.g. step kind, remaining step count).
	Detail string
}
