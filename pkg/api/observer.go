package api

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Observer receives callbacks from the scheduler for logging and metrics.
//
// Callbacks run on the scheduling goroutine, in the middle of advancing a
// sequence, so implementations should be fast and non-blocking.
type Observer interface {
	// OnSequenceStart is called once per Start, before the first step runs.
	OnSequenceStart(ctx context.Context, seq SequenceInfo)

	// OnStepStart is called before a step is dispatched.
	// stepIndex is the 0-based index into the sequence's steps.
	OnStepStart(ctx context.Context, seq SequenceInfo, stepIndex int, kind StepKind)

	// OnSequenceLooped is called when an autoloop sequence wraps around to
	// its first step.
	OnSequenceLooped(ctx context.Context, seq SequenceInfo)

	// OnSequenceFinished is called when a sequence exhausts its steps.
	OnSequenceFinished(ctx context.Context, seq SequenceInfo)

	// OnSequenceCancelled is called when a running sequence is cancelled.
	// remaining is the number of steps that had not completed.
	OnSequenceCancelled(ctx context.Context, seq SequenceInfo, remaining int)

	// OnSequenceFailed is called when a step panics. The sequence has been
	// removed from the registry; seq.Cursor is the step that failed.
	OnSequenceFailed(ctx context.Context, seq SequenceInfo, err error)
}

// NoopObserver is an Observer that does nothing.
// It is used as the default when no observer is configured.
type NoopObserver struct{}

func (NoopObserver) OnSequenceStart(ctx context.Context, seq SequenceInfo) {}
func (NoopObserver) OnStepStart(ctx context.Context, seq SequenceInfo, idx int, kind StepKind) {
}
func (NoopObserver) OnSequenceLooped(ctx context.Context, seq SequenceInfo)                   {}
func (NoopObserver) OnSequenceFinished(ctx context.Context, seq SequenceInfo)                 {}
func (NoopObserver) OnSequenceCancelled(ctx context.Context, seq SequenceInfo, remaining int) {}
func (NoopObserver) OnSequenceFailed(ctx context.Context, seq SequenceInfo, err error)        {}

// CompositeObserver fans out events to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards events to each
// non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnSequenceStart(ctx context.Context, seq SequenceInfo) {
	for _, o := range c.observers {
		o.OnSequenceStart(ctx, seq)
	}
}

func (c *CompositeObserver) OnStepStart(ctx context.Context, seq SequenceInfo, idx int, kind StepKind) {
	for _, o := range c.observers {
		o.OnStepStart(ctx, seq, idx, kind)
	}
}

func (c *CompositeObserver) OnSequenceLooped(ctx context.Context, seq SequenceInfo) {
	for _, o := range c.observers {
		o.OnSequenceLooped(ctx, seq)
	}
}

func (c *CompositeObserver) OnSequenceFinished(ctx context.Context, seq SequenceInfo) {
	for _, o := range c.observers {
		o.OnSequenceFinished(ctx, seq)
	}
}

func (c *CompositeObserver) OnSequenceCancelled(ctx context.Context, seq SequenceInfo, remaining int) {
	for _, o := range c.observers {
		o.OnSequenceCancelled(ctx, seq, remaining)
	}
}

func (c *CompositeObserver) OnSequenceFailed(ctx context.Context, seq SequenceInfo, err error) {
	for _, o := range c.observers {
		o.OnSequenceFailed(ctx, seq, err)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs sequence / step lifecycle
// events using the provided slog.Logger. If logger is nil, slog.Default()
// is used.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnSequenceStart(ctx context.Context, seq SequenceInfo) {
	o.Logger.InfoContext(ctx, "sequence_start",
		slog.String("sequence_id", seq.ID),
		slog.String("title", seq.Title),
		slog.Int("steps", seq.Steps),
	)
}

func (o *LoggingObserver) OnStepStart(ctx context.Context, seq SequenceInfo, idx int, kind StepKind) {
	o.Logger.DebugContext(ctx, "step_start",
		slog.String("sequence_id", seq.ID),
		slog.String("title", seq.Title),
		slog.Int("step_index", idx),
		slog.String("kind", kind.String()),
	)
}

func (o *LoggingObserver) OnSequenceLooped(ctx context.Context, seq SequenceInfo) {
	o.Logger.DebugContext(ctx, "sequence_looped",
		slog.String("sequence_id", seq.ID),
		slog.String("title", seq.Title),
	)
}

func (o *LoggingObserver) OnSequenceFinished(ctx context.Context, seq SequenceInfo) {
	o.Logger.InfoContext(ctx, "sequence_finished",
		slog.String("sequence_id", seq.ID),
		slog.String("title", seq.Title),
	)
}

func (o *LoggingObserver) OnSequenceCancelled(ctx context.Context, seq SequenceInfo, remaining int) {
	o.Logger.InfoContext(ctx, "sequence_cancelled",
		slog.String("sequence_id", seq.ID),
		slog.String("title", seq.Title),
		slog.Int("cursor", seq.Cursor),
		slog.Int("remaining", remaining),
	)
}

func (o *LoggingObserver) OnSequenceFailed(ctx context.Context, seq SequenceInfo, err error) {
	o.Logger.ErrorContext(ctx, "sequence_failed",
		slog.String("sequence_id", seq.ID),
		slog.String("title", seq.Title),
		slog.Int("cursor", seq.Cursor),
		slog.Any("error", err),
	)
}

// BasicMetrics collects simple counters. It implements Observer, and can be
// combined with LoggingObserver via NewCompositeObserver.
type BasicMetrics struct {
	NoopObserver

	sequencesStarted   atomic.Int64
	sequencesFinished  atomic.Int64
	sequencesCancelled atomic.Int64
	sequencesFailed    atomic.Int64
	loops              atomic.Int64
	stepsStarted       atomic.Int64
}

// BasicMetricsSnapshot is an immutable snapshot of BasicMetrics.
type BasicMetricsSnapshot struct {
	SequencesStarted   int64
	SequencesFinished  int64
	SequencesCancelled int64
	SequencesFailed    int64
	LiveSequences      int64

	Loops        int64
	StepsStarted int64
}

func (m *BasicMetrics) OnSequenceStart(ctx context.Context, seq SequenceInfo) {
	m.sequencesStarted.Add(1)
}

func (m *BasicMetrics) OnStepStart(ctx context.Context, seq SequenceInfo, idx int, kind StepKind) {
	m.stepsStarted.Add(1)
}

func (m *BasicMetrics) OnSequenceLooped(ctx context.Context, seq SequenceInfo) {
	m.loops.Add(1)
}

func (m *BasicMetrics) OnSequenceFinished(ctx context.Context, seq SequenceInfo) {
	m.sequencesFinished.Add(1)
}

func (m *BasicMetrics) OnSequenceCancelled(ctx context.Context, seq SequenceInfo, remaining int) {
	m.sequencesCancelled.Add(1)
}

func (m *BasicMetrics) OnSequenceFailed(ctx context.Context, seq SequenceInfo, err error) {
	m.sequencesFailed.Add(1)
}

// Snapshot returns a snapshot of the current metrics.
func (m *BasicMetrics) Snapshot() BasicMetricsSnapshot {
	started := m.sequencesStarted.Load()
	finished := m.sequencesFinished.Load()
	cancelled := m.sequencesCancelled.Load()
	failed := m.sequencesFailed.Load()

	return BasicMetricsSnapshot{
		SequencesStarted:   started,
		SequencesFinished:  finished,
		SequencesCancelled: cancelled,
		SequencesFailed:    failed,
		LiveSequences:      started - finished - cancelled - failed,
		Loops:              m.loops.Load(),
		StepsStarted:       m.stepsStarted.Load(),
	}
}
