package api

import "time"

// MinStepDelay is the shortest wait the scheduler will ever hand to a Timer or
// an Animator. Shorter (including zero and negative) durations are raised to
// it so that advancing always goes through the scheduling loop.
const MinStepDelay = time.Millisecond

// ClampDuration raises d to MinStepDelay when it is shorter.
func ClampDuration(d time.Duration) time.Duration {
	if d < MinStepDelay {
		return MinStepDelay
	}
	return d
}

// Action is a zero-argument callback run by a step or a lifecycle hook.
// Actions typically mutate external (view) state.
type Action func()

// StepKind identifies how a step is executed.
type StepKind int

const (
	// StepAnimate hands its action to the Animator and waits for completion.
	// Without an action it behaves as a delay of the same duration.
	StepAnimate StepKind = iota
	// StepDelay waits for the duration.
	StepDelay
	// StepImmediateAction runs its action synchronously.
	StepImmediateAction
	// StepImmediateAnimate starts an animation without waiting for it.
	StepImmediateAnimate
)

func (k StepKind) String() string {
	switch k {
	case StepAnimate:
		return "animate"
	case StepDelay:
		return "delay"
	case StepImmediateAction:
		return "immediate-action"
	case StepImmediateAnimate:
		return "immediate-animate"
	default:
		return "unknown"
	}
}

// Step describes one unit of sequenced work. Steps are values; a Sequence
// keeps its own copy of every step appended to it.
type Step struct {
	Kind     StepKind
	Duration time.Duration
	Action   Action
}

// Status represents the lifecycle state of a sequence.
type Status string

const (
	StatusIdle       Status = "IDLE"
	StatusRunning    Status = "RUNNING"
	StatusCancelling Status = "CANCELLING"
	StatusFinishing  Status = "FINISHING"
	StatusFinished   Status = "FINISHED"
	StatusFailed     Status = "FAILED"
)

// Executing reports whether a sequence in this status is registered as live.
// Cancelling and Finishing are transient states entered while lifecycle
// callbacks run; the sequence is still registered during them.
func (s Status) Executing() bool {
	return s == StatusRunning || s == StatusCancelling || s == StatusFinishing
}

// SequenceInfo is a point-in-time snapshot of a sequence handed to observers.
type SequenceInfo struct {
	ID     string
	Title  string
	Steps  int
	Cursor int
}
