package sequencer

import "github.com/petrijr/sequencer/pkg/api"

// Step kinds, as reported by Sequence.Steps and the observer hooks.
const (
	// StepAnimate runs its action through the Animator and waits for the
	// animation to complete.
	StepAnimate = api.StepAnimate

	// StepDelay waits for its duration.
	StepDelay = api.StepDelay

	// StepImmediateAction calls its action directly.
	StepImmediateAction = api.StepImmediateAction

	// StepImmediateAnimate starts an animation and moves on without waiting
	// for it.
	StepImmediateAnimate = api.StepImmediateAnimate
)

// Event types recorded in a sequence's history.
const (
	EventSequenceStarted   = api.EventSequenceStarted
	EventSequenceLooped    = api.EventSequenceLooped
	EventSequenceFinished  = api.EventSequenceFinished
	EventSequenceCancelled = api.EventSequenceCancelled
	EventSequenceFailed    = api.EventSequenceFailed
	EventStepStarted       = api.EventStepStarted
)
