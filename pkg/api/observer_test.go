package api

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"
)

//
// Helpers
//

// testObserver is a simple Observer implementation used to verify fan-out behavior.
type testObserver struct {
	mu sync.Mutex

	starts     int
	stepStarts int
	loops      int
	finishes   int
	cancels    int
	failures   int

	lastStart     SequenceInfo
	lastStepIndex int
	lastStepKind  StepKind
	lastRemaining int
	lastErr       error
}

func (o *testObserver) OnSequenceStart(ctx context.Context, seq SequenceInfo) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.starts++
	o.lastStart = seq
}

func (o *testObserver) OnStepStart(ctx context.Context, seq SequenceInfo, idx int, kind StepKind) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stepStarts++
	o.lastStepIndex = idx
	o.lastStepKind = kind
}

func (o *testObserver) OnSequenceLooped(ctx context.Context, seq SequenceInfo) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.loops++
}

func (o *testObserver) OnSequenceFinished(ctx context.Context, seq SequenceInfo) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.finishes++
}

func (o *testObserver) OnSequenceCancelled(ctx context.Context, seq SequenceInfo, remaining int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cancels++
	o.lastRemaining = remaining
}

func (o *testObserver) OnSequenceFailed(ctx context.Context, seq SequenceInfo, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failures++
	o.lastErr = err
}

// recordingHandler is a minimal slog.Handler that just records log records.
type recordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return true
}

func (h *recordingHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	// Copy to avoid reuse issues.
	cpy := slog.Record{
		Time:    r.Time,
		Level:   r.Level,
		Message: r.Message,
	}
	r.Attrs(func(a slog.Attr) bool {
		cpy.AddAttrs(a)
		return true
	})
	h.records = append(h.records, cpy)
	return nil
}

func (h *recordingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *recordingHandler) WithGroup(name string) slog.Handler {
	return h
}

func attrsToMap(r slog.Record) map[string]any {
	m := make(map[string]any)
	r.Attrs(func(a slog.Attr) bool {
		m[a.Key] = a.Value.Any()
		return true
	})
	return m
}

func newTestInfo() SequenceInfo {
	return SequenceInfo{
		ID:     "seq-123",
		Title:  "fade-in",
		Steps:  3,
		Cursor: 1,
	}
}

//
// Step model
//

func TestClampDuration(t *testing.T) {
	cases := []struct {
		in, want int64
	}{
		{in: -5, want: int64(MinStepDelay)},
		{in: 0, want: int64(MinStepDelay)},
		{in: int64(MinStepDelay) - 1, want: int64(MinStepDelay)},
		{in: int64(MinStepDelay), want: int64(MinStepDelay)},
		{in: int64(2 * MinStepDelay), want: int64(2 * MinStepDelay)},
	}
	for _, c := range cases {
		got := ClampDuration(time.Duration(c.in))
		if int64(got) != c.want {
			t.Fatalf("ClampDuration(%d)=%d, want %d", c.in, got, c.want)
		}
	}
}

func TestStatusExecuting(t *testing.T) {
	for _, s := range []Status{StatusRunning, StatusCancelling, StatusFinishing} {
		if !s.Executing() {
			t.Fatalf("expected %s to be executing", s)
		}
	}
	for _, s := range []Status{StatusIdle, StatusFinished, StatusFailed} {
		if s.Executing() {
			t.Fatalf("expected %s not to be executing", s)
		}
	}
}

func TestStepKindString(t *testing.T) {
	if StepImmediateAnimate.String() != "immediate-animate" {
		t.Fatalf("unexpected name %q", StepImmediateAnimate.String())
	}
	if StepKind(42).String() != "unknown" {
		t.Fatalf("unexpected name for out-of-range kind %q", StepKind(42).String())
	}
}

//
// NoopObserver
//

func TestNoopObserver_DoesNotPanic(t *testing.T) {
	ctx := context.Background()
	info := newTestInfo()
	var o Observer = NoopObserver{}

	// These calls should simply not panic.
	o.OnSequenceStart(ctx, info)
	o.OnStepStart(ctx, info, 0, StepDelay)
	o.OnSequenceLooped(ctx, info)
	o.OnSequenceFinished(ctx, info)
	o.OnSequenceCancelled(ctx, info, 2)
	o.OnSequenceFailed(ctx, info, errors.New("boom"))
}

//
// CompositeObserver
//

func TestNewCompositeObserver_EmptyReturnsNoop(t *testing.T) {
	o := NewCompositeObserver()
	if _, ok := o.(NoopObserver); !ok {
		t.Fatalf("expected NewCompositeObserver() to return NoopObserver, got %T", o)
	}
}

func TestNewCompositeObserver_SingleReturnsThatObserver(t *testing.T) {
	single := &testObserver{}
	o := NewCompositeObserver(single, nil) // include a nil to ensure it is filtered

	if got, ok := o.(*testObserver); !ok || got != single {
		t.Fatalf("expected the single non-nil observer to be returned, got %T (%p)", o, o)
	}
}

func TestCompositeObserver_ForwardsAllEvents(t *testing.T) {
	ctx := context.Background()
	info := newTestInfo()

	o1 := &testObserver{}
	o2 := &testObserver{}
	co, ok := NewCompositeObserver(o1, o2).(*CompositeObserver)
	if !ok {
		t.Fatalf("expected *CompositeObserver")
	}

	co.OnSequenceStart(ctx, info)
	co.OnStepStart(ctx, info, 1, StepAnimate)
	co.OnSequenceLooped(ctx, info)
	co.OnSequenceFinished(ctx, info)
	co.OnSequenceCancelled(ctx, info, 2)
	boom := errors.New("boom")
	co.OnSequenceFailed(ctx, info, boom)

	for i, o := range []*testObserver{o1, o2} {
		if o.starts != 1 || o.stepStarts != 1 || o.loops != 1 || o.finishes != 1 || o.cancels != 1 || o.failures != 1 {
			t.Fatalf("observer %d did not receive all calls: %+v", i+1, o)
		}
		if o.lastStart != info {
			t.Fatalf("observer %d info mismatch: %+v", i+1, o.lastStart)
		}
		if o.lastStepIndex != 1 || o.lastStepKind != StepAnimate {
			t.Fatalf("observer %d stepStart mismatch: %d %v", i+1, o.lastStepIndex, o.lastStepKind)
		}
		if o.lastRemaining != 2 {
			t.Fatalf("observer %d remaining=%d, want 2", i+1, o.lastRemaining)
		}
		if o.lastErr != boom {
			t.Fatalf("observer %d err=%v, want %v", i+1, o.lastErr, boom)
		}
	}
}

//
// LoggingObserver
//

func TestNewLoggingObserver_NilLoggerUsesDefault(t *testing.T) {
	o := NewLoggingObserver(nil)
	lo, ok := o.(*LoggingObserver)
	if !ok {
		t.Fatalf("expected *LoggingObserver, got %T", o)
	}
	if lo.Logger == nil {
		t.Fatalf("expected non-nil Logger when created with nil")
	}
}

func TestLoggingObserver_OnSequenceStart_EmitsInfoLog(t *testing.T) {
	ctx := context.Background()
	info := newTestInfo()

	h := &recordingHandler{}
	o := NewLoggingObserver(slog.New(h))

	o.OnSequenceStart(ctx, info)

	if len(h.records) != 1 {
		t.Fatalf("expected 1 log record, got %d", len(h.records))
	}

	rec := h.records[0]
	if rec.Level != slog.LevelInfo {
		t.Fatalf("expected LevelInfo, got %v", rec.Level)
	}
	if rec.Message != "sequence_start" {
		t.Fatalf("expected message sequence_start, got %q", rec.Message)
	}

	attrs := attrsToMap(rec)
	if attrs["sequence_id"] != info.ID {
		t.Fatalf("expected sequence_id=%q, got %v", info.ID, attrs["sequence_id"])
	}
	if attrs["title"] != info.Title {
		t.Fatalf("expected title=%q, got %v", info.Title, attrs["title"])
	}
}

func TestLoggingObserver_OnSequenceFailed_EmitsError(t *testing.T) {
	h := &recordingHandler{}
	o := NewLoggingObserver(slog.New(h))

	o.OnSequenceFailed(context.Background(), newTestInfo(), errors.New("boom"))

	if len(h.records) != 1 {
		t.Fatalf("expected 1 log record, got %d", len(h.records))
	}
	rec := h.records[0]
	if rec.Level != slog.LevelError || rec.Message != "sequence_failed" {
		t.Fatalf("unexpected record %v %q", rec.Level, rec.Message)
	}
	if attrsToMap(rec)["cursor"] != int64(1) {
		t.Fatalf("expected cursor=1, got %v", attrsToMap(rec)["cursor"])
	}
}

func TestLoggingObserver_StepStartIsDebugCancelIsInfo(t *testing.T) {
	ctx := context.Background()
	info := newTestInfo()

	h := &recordingHandler{}
	o := NewLoggingObserver(slog.New(h))

	o.OnStepStart(ctx, info, 2, StepImmediateAction)
	o.OnSequenceCancelled(ctx, info, 1)

	if len(h.records) != 2 {
		t.Fatalf("expected 2 log records, got %d", len(h.records))
	}

	stepRec := h.records[0]
	cancelRec := h.records[1]

	if stepRec.Level != slog.LevelDebug {
		t.Fatalf("expected step record LevelDebug, got %v", stepRec.Level)
	}
	if cancelRec.Level != slog.LevelInfo {
		t.Fatalf("expected cancel record LevelInfo, got %v", cancelRec.Level)
	}

	attrs := attrsToMap(stepRec)
	if attrs["kind"] != "immediate-action" {
		t.Fatalf("expected kind=immediate-action, got %v", attrs["kind"])
	}
	if attrs["step_index"] != int64(2) {
		t.Fatalf("expected step_index=2, got %v", attrs["step_index"])
	}
	if attrsToMap(cancelRec)["remaining"] != int64(1) {
		t.Fatalf("expected remaining=1, got %v", attrsToMap(cancelRec)["remaining"])
	}
}

//
// BasicMetrics
//

func TestBasicMetrics_CountersAndSnapshot(t *testing.T) {
	var m BasicMetrics

	ctx := context.Background()
	info := newTestInfo()

	// 4 started, 1 finished, 1 cancelled, 1 failed -> live = 1
	m.OnSequenceStart(ctx, info)
	m.OnSequenceStart(ctx, info)
	m.OnSequenceStart(ctx, info)
	m.OnSequenceStart(ctx, info)

	m.OnStepStart(ctx, info, 0, StepDelay)
	m.OnStepStart(ctx, info, 1, StepAnimate)
	m.OnSequenceLooped(ctx, info)

	m.OnSequenceFinished(ctx, info)
	m.OnSequenceCancelled(ctx, info, 1)
	m.OnSequenceFailed(ctx, info, errors.New("boom"))

	snap := m.Snapshot()

	if snap.SequencesStarted != 4 {
		t.Fatalf("SequencesStarted=%d, want 4", snap.SequencesStarted)
	}
	if snap.SequencesFailed != 1 {
		t.Fatalf("SequencesFailed=%d, want 1", snap.SequencesFailed)
	}
	if snap.SequencesFinished != 1 {
		t.Fatalf("SequencesFinished=%d, want 1", snap.SequencesFinished)
	}
	if snap.SequencesCancelled != 1 {
		t.Fatalf("SequencesCancelled=%d, want 1", snap.SequencesCancelled)
	}
	if snap.LiveSequences != 1 {
		t.Fatalf("LiveSequences=%d, want 1", snap.LiveSequences)
	}
	if snap.StepsStarted != 2 {
		t.Fatalf("StepsStarted=%d, want 2", snap.StepsStarted)
	}
	if snap.Loops != 1 {
		t.Fatalf("Loops=%d, want 1", snap.Loops)
	}
}

func TestBasicMetrics_ZeroSnapshot(t *testing.T) {
	var m BasicMetrics
	if snap := m.Snapshot(); snap != (BasicMetricsSnapshot{}) {
		t.Fatalf("expected zero snapshot, got %+v", snap)
	}
}
