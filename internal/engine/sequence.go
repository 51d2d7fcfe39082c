package engine

import (
	"fmt"
	"time"

	"github.com/petrijr/sequencer/pkg/api"
)

// Sequence is an ordered list of steps executed one after another.
//
// Steps are appended with the builder methods before Start. While the
// sequence executes it is owned by its Director's registry, so callers may
// drop their reference and let it run to completion.
type Sequence struct {
	director *Director
	id       string

	title  string
	steps  []api.Step
	cursor int
	status api.Status

	autoloop            bool
	onCancel            api.Action
	onFinish            api.Action
	cancelResetEnabled  bool
	cancelResetDuration time.Duration

	// run is bumped on every Start so callbacks from an earlier run are
	// recognised as stale.
	run         uint64
	pending     api.Handle
	dispatching bool
}

// ID returns the stable identifier of the sequence.
func (s *Sequence) ID() string { return s.id }

// Title returns the title, which may be empty.
func (s *Sequence) Title() string { return s.title }

// Len returns the number of steps.
func (s *Sequence) Len() int { return len(s.steps) }

// Cursor returns the index of the step in progress, or -1 when idle.
func (s *Sequence) Cursor() int { return s.cursor }

// Status returns the current lifecycle state.
func (s *Sequence) Status() api.Status { return s.status }

// Executing reports whether the sequence is registered and advancing.
func (s *Sequence) Executing() bool { return s.status.Executing() }

// Autoloops reports whether the sequence restarts when exhausted.
func (s *Sequence) Autoloops() bool { return s.autoloop }

// FinishAction returns the callback set with OnFinish, so callers can chain
// onto it.
func (s *Sequence) FinishAction() api.Action { return s.onFinish }

// Steps returns a copy of the step list.
func (s *Sequence) Steps() []api.Step {
	out := make([]api.Step, len(s.steps))
	copy(out, s.steps)
	return out
}

// Info returns a snapshot used by observers and events.
func (s *Sequence) Info() api.SequenceInfo {
	return api.SequenceInfo{
		ID:     s.id,
		Title:  s.title,
		Steps:  len(s.steps),
		Cursor: s.cursor,
	}
}

// Delay appends a step that waits for d.
func (s *Sequence) Delay(d time.Duration) *Sequence {
	return s.appendStep("Delay", api.Step{Kind: api.StepDelay, Duration: d})
}

// Animate appends a step that runs action through the animator over d and
// waits for the animation to complete. Without an action it behaves like
// Delay.
func (s *Sequence) Animate(d time.Duration, action api.Action) *Sequence {
	return s.appendStep("Animate", api.Step{Kind: api.StepAnimate, Duration: d, Action: action})
}

// ImmediateAnimate appends a step that starts an animation over d without
// waiting for it to complete.
func (s *Sequence) ImmediateAnimate(d time.Duration, action api.Action) *Sequence {
	return s.appendStep("ImmediateAnimate", api.Step{Kind: api.StepImmediateAnimate, Duration: d, Action: action})
}

// ImmediateAction appends a step that calls action directly.
func (s *Sequence) ImmediateAction(action api.Action) *Sequence {
	return s.appendStep("ImmediateAction", api.Step{Kind: api.StepImmediateAction, Action: action})
}

// Splice appends a copy of other's current steps. Splicing a sequence into
// itself doubles its step list.
func (s *Sequence) Splice(other *Sequence) *Sequence {
	s.mustBeIdle("Splice")
	if other == nil {
		return s
	}
	s.steps = append(s.steps, other.Steps()...)
	return s
}

func (s *Sequence) appendStep(op string, step api.Step) *Sequence {
	s.mustBeIdle(op)
	s.steps = append(s.steps, step)
	return s
}

func (s *Sequence) mustBeIdle(op string) {
	if s.status.Executing() {
		panic(fmt.Sprintf("sequencer: %s on sequence %q (%s): %v", op, s.title, s.id, ErrSequenceExecuting))
	}
}

// OnCancel sets the callback run when the sequence is cancelled.
func (s *Sequence) OnCancel(fn api.Action) *Sequence {
	s.onCancel = fn
	return s
}

// OnFinish sets the callback run when the sequence finishes or is cancelled.
func (s *Sequence) OnFinish(fn api.Action) *Sequence {
	s.onFinish = fn
	return s
}

// Autoloop makes the sequence restart from the first step instead of
// finishing.
func (s *Sequence) Autoloop(enabled bool) *Sequence {
	s.autoloop = enabled
	return s
}

// CancelReset controls what Cancel does with the steps that have not run
// yet. When enabled their actions are applied, directly if d <= 0 or as one
// batched animation over d otherwise.
func (s *Sequence) CancelReset(enabled bool, d time.Duration) *Sequence {
	s.cancelResetEnabled = enabled
	s.cancelResetDuration = d
	return s
}

// Start registers the sequence and runs its first step. Starting an
// executing sequence does nothing. A live sequence holding the same title is
// cancelled first.
func (s *Sequence) Start() *Sequence {
	if s.status.Executing() {
		return s
	}
	d := s.director
	if other, ok := d.registry.byTitleLookup(s.title); ok && other != s {
		other.Cancel()
	}

	s.run++
	s.cursor = -1
	s.pending = nil
	s.status = api.StatusRunning
	d.registry.add(s)
	d.sequenceStarted(s)

	s.advance()
	return s
}

// advance moves to the next step and dispatches it.
func (s *Sequence) advance() {
	if s.status != api.StatusRunning {
		return
	}
	s.pending = nil
	s.cursor++
	run := s.run
	defer s.recoverStep(run)

	if s.cursor >= len(s.steps) {
		s.exhausted(run)
		return
	}

	step := s.steps[s.cursor]
	s.director.stepStarted(s, s.cursor, step.Kind)

	switch step.Kind {
	case api.StepAnimate:
		if step.Action == nil {
			s.scheduleAdvance(run, api.ClampDuration(step.Duration))
			return
		}
		s.animate(run, step)
	case api.StepDelay:
		s.scheduleAdvance(run, api.ClampDuration(step.Duration))
	case api.StepImmediateAnimate:
		if step.Action != nil {
			s.director.animator.Animate(api.ClampDuration(step.Duration), step.Action, nil)
		}
		s.scheduleAdvance(run, api.MinStepDelay)
	case api.StepImmediateAction:
		if step.Action != nil {
			step.Action()
		}
		s.scheduleAdvance(run, api.MinStepDelay)
	default:
		s.scheduleAdvance(run, api.MinStepDelay)
	}
}

func (s *Sequence) animate(run uint64, step api.Step) {
	d := s.director
	id, cursor := s.id, s.cursor
	fired := false

	s.dispatching = true
	defer func() { s.dispatching = false }()

	d.animator.Animate(api.ClampDuration(step.Duration), step.Action, func() {
		if fired {
			return
		}
		fired = true
		d.resume(id, run, cursor)
	})
}

// scheduleAdvance arms the timer for the next step unless the step that
// just ran cancelled or restarted the sequence.
func (s *Sequence) scheduleAdvance(run uint64, wait time.Duration) {
	if s.status != api.StatusRunning || s.run != run {
		return
	}
	d := s.director
	id, cursor := s.id, s.cursor
	s.pending = d.timer.ScheduleOnce(wait, func() {
		d.resume(id, run, cursor)
	})
}

func (s *Sequence) exhausted(run uint64) {
	if !s.autoloop {
		s.finish()
		return
	}
	s.cursor = -1
	if len(s.steps) == 0 {
		// Nothing to loop over; stay live until cancelled.
		return
	}
	s.director.sequenceLooped(s)
	s.scheduleAdvance(run, api.MinStepDelay)
}

// recoverStep finalizes a sequence whose step, or whose onFinish callback,
// panicked and then re-panics so the scheduling context still sees it.
func (s *Sequence) recoverStep(run uint64) {
	r := recover()
	if r == nil {
		return
	}
	if s.run == run && (s.status == api.StatusRunning || s.status == api.StatusFinishing) {
		s.fail(r)
	}
	panic(r)
}

// fail unregisters a sequence after a panic. onFinish runs unless it is the
// callback that panicked.
func (s *Sequence) fail(reason any) {
	runFinish := s.status == api.StatusRunning
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.dispatching = false

	info := s.Info()
	s.director.registry.remove(s)
	s.cursor = -1
	s.status = api.StatusFailed
	s.director.sequenceFailed(info, fmt.Errorf("%w at step %d: %v", ErrStepPanicked, info.Cursor, reason))

	if runFinish && s.onFinish != nil {
		s.onFinish()
	}
}

func (s *Sequence) finish() {
	s.status = api.StatusFinishing
	if s.onFinish != nil {
		s.onFinish()
	}
	s.director.registry.remove(s)
	s.cursor = -1
	s.status = api.StatusFinished
	s.director.sequenceFinished(s.Info())
}

// Cancel stops a running sequence. Depending on CancelReset the actions of
// the steps that have not run are applied, then the cancel and finish
// callbacks run and the sequence leaves the registry. Animations started
// here are not awaited. Cancelling a sequence that is not running does
// nothing.
func (s *Sequence) Cancel() {
	if s.status != api.StatusRunning {
		return
	}
	s.status = api.StatusCancelling
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}

	from := max(s.cursor, 0)
	remaining := s.steps[from:]
	animator := s.director.animator
	wait := s.cancelResetDuration

	if s.cancelResetEnabled {
		actions := make([]api.Action, 0, len(remaining))
		for _, step := range remaining {
			if step.Action != nil {
				actions = append(actions, step.Action)
			}
		}
		switch {
		case wait <= 0:
			for _, a := range actions {
				animator.Immediate(a)
			}
		case len(actions) > 0:
			animator.AnimateBatch(wait, actions, nil)
		}
	}

	if s.onCancel != nil {
		if wait <= 0 {
			animator.Immediate(s.onCancel)
		} else {
			animator.Animate(wait, s.onCancel, nil)
		}
	}
	if s.onFinish != nil {
		animator.Immediate(s.onFinish)
	}

	info := s.Info()
	s.director.registry.remove(s)
	s.cursor = -1
	s.status = api.StatusIdle
	s.director.sequenceCancelled(info, len(remaining))
}

// Reset returns an idle sequence to the state of a fresh untitled one so it
// can be rebuilt. It does nothing while the sequence executes. The id is
// kept.
func (s *Sequence) Reset() {
	if s.status.Executing() {
		return
	}
	s.title = ""
	s.steps = nil
	s.cursor = -1
	s.status = api.StatusIdle
	s.autoloop = false
	s.onCancel = nil
	s.onFinish = nil
	s.cancelResetEnabled = false
	s.cancelResetDuration = 0
	s.pending = nil
}
