package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/petrijr/sequencer/internal/persistence"
	"github.com/petrijr/sequencer/pkg/animation"
	"github.com/petrijr/sequencer/pkg/api"
)

var (
	// ErrNoTimer is returned by NewDirector when Config.Timer is nil.
	ErrNoTimer = errors.New("sequencer: a timer is required")

	// ErrSequenceExecuting is the reason given when steps are added to a
	// sequence that is already running.
	ErrSequenceExecuting = errors.New("sequence is executing")

	// ErrStepPanicked wraps the value recovered from a step that panicked.
	ErrStepPanicked = errors.New("sequencer: step panicked")
)

// Config describes how to construct a Director.
type Config struct {
	// Timer schedules step advancement. Required.
	Timer api.Timer

	// Animator runs step mutations.
	// Default: animation.Timed over Timer.
	Animator api.Animator

	// Observer receives lifecycle callbacks.
	// Default: api.NoopObserver.
	Observer api.Observer

	// Events records lifecycle history.
	// Default: persistence.NoopEventStore.
	Events persistence.EventStore

	// Logger receives diagnostics such as dropped callbacks and event store
	// failures.
	// Default: slog.Default().
	Logger *slog.Logger

	// Context is handed to the observer and event store.
	// Default: context.Background().
	Context context.Context
}

// Director creates sequences and owns the registry of live ones.
//
// A Director and every Sequence it creates must be used from a single
// scheduling goroutine: the one the Timer and Animator deliver callbacks on.
type Director struct {
	timer    api.Timer
	animator api.Animator
	observer api.Observer
	events   persistence.EventStore
	logger   *slog.Logger
	ctx      context.Context

	registry *liveRegistry
}

// NewDirector creates a Director using the given configuration.
func NewDirector(cfg Config) (*Director, error) {
	if cfg.Timer == nil {
		return nil, ErrNoTimer
	}
	if cfg.Animator == nil {
		cfg.Animator = animation.NewTimed(cfg.Timer)
	}
	if cfg.Observer == nil {
		cfg.Observer = api.NoopObserver{}
	}
	if cfg.Events == nil {
		cfg.Events = persistence.NoopEventStore{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}

	return &Director{
		timer:    cfg.Timer,
		animator: cfg.Animator,
		observer: cfg.Observer,
		events:   cfg.Events,
		logger:   cfg.Logger.With(slog.String("component", "director")),
		ctx:      cfg.Context,
		registry: newLiveRegistry(),
	}, nil
}

// NewSequence returns a fresh, unregistered sequence. If a live sequence
// already holds title it is cancelled first, firing its cancel callbacks, so
// titles stay unique among live sequences. An empty title never collides.
func (d *Director) NewSequence(title string) *Sequence {
	d.CancelTitle(title)
	return &Sequence{
		director: d,
		id:       uuid.NewString(),
		title:    title,
		cursor:   -1,
		status:   api.StatusIdle,
	}
}

// Find returns the live sequence holding title.
func (d *Director) Find(title string) (*Sequence, bool) {
	return d.registry.byTitleLookup(title)
}

// FindByID returns the live sequence with the given id.
func (d *Director) FindByID(id string) (*Sequence, bool) {
	return d.registry.byIDLookup(id)
}

// CancelTitle cancels the live sequence holding title, if any, and reports
// whether one was found.
func (d *Director) CancelTitle(title string) bool {
	s, ok := d.registry.byTitleLookup(title)
	if !ok {
		return false
	}
	s.Cancel()
	return true
}

// CancelAll cancels every live sequence and returns how many there were.
func (d *Director) CancelAll() int {
	live := d.registry.snapshot()
	for _, s := range live {
		s.Cancel()
	}
	return len(live)
}

// Live returns the executing sequences in the order they were started.
func (d *Director) Live() []*Sequence {
	return d.registry.snapshot()
}

// Len returns the number of executing sequences.
func (d *Director) Len() int {
	return d.registry.len()
}

// History returns the recorded lifecycle events of a sequence.
func (d *Director) History(ctx context.Context, sequenceID string) ([]api.SequenceEvent, error) {
	return d.events.ListEvents(ctx, sequenceID)
}

// resume is the entry point of every scheduled callback. It only holds the
// sequence id and resolves it through the registry, so callbacks that outlive
// their run are dropped.
//
// A completion delivered while the animator call that started the step is
// still on the stack is pushed to the next loop turn.
func (d *Director) resume(id string, run uint64, cursor int) {
	s, ok := d.registry.byIDLookup(id)
	if !ok || s.run != run || s.cursor != cursor || s.status != api.StatusRunning {
		d.logger.Debug("dropping stale sequence callback",
			slog.String("sequence_id", id),
			slog.Int("cursor", cursor),
		)
		return
	}
	if s.dispatching {
		s.scheduleAdvance(run, api.MinStepDelay)
		return
	}
	s.advance()
}

func (d *Director) sequenceStarted(s *Sequence) {
	info := s.Info()
	d.observer.OnSequenceStart(d.ctx, info)
	d.record(api.SequenceEvent{
		SequenceID: info.ID,
		Type:       api.EventSequenceStarted,
		Title:      info.Title,
		Step:       -1,
		Detail:     fmt.Sprintf("steps=%d", info.Steps),
	})
}

func (d *Director) stepStarted(s *Sequence, idx int, kind api.StepKind) {
	info := s.Info()
	d.observer.OnStepStart(d.ctx, info, idx, kind)
	d.record(api.SequenceEvent{
		SequenceID: info.ID,
		Type:       api.EventStepStarted,
		Title:      info.Title,
		Step:       idx,
		Detail:     kind.String(),
	})
}

func (d *Director) sequenceLooped(s *Sequence) {
	info := s.Info()
	d.observer.OnSequenceLooped(d.ctx, info)
	d.record(api.SequenceEvent{
		SequenceID: info.ID,
		Type:       api.EventSequenceLooped,
		Title:      info.Title,
		Step:       -1,
	})
}

func (d *Director) sequenceFinished(info api.SequenceInfo) {
	d.observer.OnSequenceFinished(d.ctx, info)
	d.record(api.SequenceEvent{
		SequenceID: info.ID,
		Type:       api.EventSequenceFinished,
		Title:      info.Title,
		Step:       -1,
	})
}

func (d *Director) sequenceCancelled(info api.SequenceInfo, remaining int) {
	d.observer.OnSequenceCancelled(d.ctx, info, remaining)
	d.record(api.SequenceEvent{
		SequenceID: info.ID,
		Type:       api.EventSequenceCancelled,
		Title:      info.Title,
		Step:       info.Cursor,
		Detail:     fmt.Sprintf("remaining=%d", remaining),
	})
}

func (d *Director) sequenceFailed(info api.SequenceInfo, err error) {
	d.logger.Error("sequence step panicked",
		slog.String("sequence_id", info.ID),
		slog.String("title", info.Title),
		slog.Int("cursor", info.Cursor),
		slog.Any("error", err),
	)
	d.observer.OnSequenceFailed(d.ctx, info, err)
	d.record(api.SequenceEvent{
		SequenceID: info.ID,
		Type:       api.EventSequenceFailed,
		Title:      info.Title,
		Step:       info.Cursor,
		Detail:     err.Error(),
	})
}

// record appends ev to the event store. Failures are logged; history is
// best effort and never interrupts a running sequence.
func (d *Director) record(ev api.SequenceEvent) {
	if err := d.events.AppendEvent(d.ctx, ev); err != nil {
		d.logger.Error("failed to record sequence event",
			slog.String("sequence_id", ev.SequenceID),
			slog.String("type", string(ev.Type)),
			slog.Any("error", err),
		)
	}
}
