package sequencer

import (
	"database/sql"

	"github.com/petrijr/sequencer/internal/engine"
	"github.com/petrijr/sequencer/internal/persistence"
	"github.com/petrijr/sequencer/pkg/api"
)

// Re-export key types so users don't need to dig into pkg/api.

type (
	Director             = engine.Director
	Config               = engine.Config
	Sequence             = engine.Sequence
	Step                 = api.Step
	StepKind             = api.StepKind
	Action               = api.Action
	Status               = api.Status
	Timer                = api.Timer
	Handle               = api.Handle
	Animator             = api.Animator
	SequenceInfo         = api.SequenceInfo
	SequenceEvent        = api.SequenceEvent
	EventType            = api.EventType
	EventStore           = persistence.EventStore
	Observer             = api.Observer
	LoggingObserver      = api.LoggingObserver
	BasicMetrics         = api.BasicMetrics
	BasicMetricsSnapshot = api.BasicMetricsSnapshot
	CompositeObserver    = api.CompositeObserver
	NoopObserver         = api.NoopObserver
)

// Re-export common helpers and sentinel errors.

var (
	NewLoggingObserver   = api.NewLoggingObserver
	NewCompositeObserver = api.NewCompositeObserver
	ClampDuration        = api.ClampDuration

	ErrNoTimer           = engine.ErrNoTimer
	ErrSequenceExecuting = engine.ErrSequenceExecuting
	ErrStepPanicked      = engine.ErrStepPanicked
)

// Re-export status values for convenience.

const (
	StatusIdle       = api.StatusIdle
	StatusRunning    = api.StatusRunning
	StatusCancelling = api.StatusCancelling
	StatusFinishing  = api.StatusFinishing
	StatusFinished   = api.StatusFinished
	StatusFailed     = api.StatusFailed
)

// MinStepDelay is the shortest wait between two steps.
const MinStepDelay = api.MinStepDelay

// NewDirector returns a Director driven by cfg.Timer.
func NewDirector(cfg Config) (*Director, error) {
	return engine.NewDirector(cfg)
}

// NewInMemoryEventStore returns a process-local sequence journal.
func NewInMemoryEventStore() EventStore {
	return persistence.NewInMemoryEventStore()
}

// NewSQLiteEventStore returns a sequence journal stored in db, creating its
// table if needed.
func NewSQLiteEventStore(db *sql.DB) (EventStore, error) {
	return persistence.NewSQLiteEventStore(db)
}
