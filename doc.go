// Package sequencer plays sequences of timed animation steps.
//
// A sequence is an ordered list of steps built with a fluent API and then
// started. Steps run strictly one after another. A sequence can be cancelled
// at any point, optionally snapping the remaining steps to their end state,
// and it can loop forever until cancelled.
//
// # Core Concepts
//
//  1. Director
//  2. Sequence
//  3. Timer and Animator
//  4. LocalRunner
//
// # Director
//
// The Director creates sequences and keeps every executing one alive in its
// registry, so callers can start a sequence and forget about it. Titles are
// unique among live sequences: creating or starting a sequence with the title
// of a live one cancels the old one first.
//
//	d.NewSequence("toast").
//	    Animate(200*time.Millisecond, slideIn).
//	    Delay(3*time.Second).
//	    Animate(200*time.Millisecond, slideOut).
//	    Start()
//
//	d.CancelTitle("toast")
//
// # Sequence
//
// Four kinds of steps are available:
//
//   - Animate runs an action through the Animator and waits for it
//   - Delay waits
//   - ImmediateAction calls an action and moves on
//   - ImmediateAnimate starts an animation and moves on without waiting
//
// Every step costs at least one turn of the scheduling loop, even with a zero
// duration, so long chains of instant steps never recurse.
//
// Cancel stops a running sequence. With CancelReset enabled the actions of
// the steps that have not run yet are applied, either directly or as one
// batched animation, so the animated state ends where a full run would have
// left it. OnCancel and OnFinish callbacks fire afterwards.
//
// # Timer and Animator
//
// Sequences do not own a clock. The Director schedules through a Timer and
// runs mutations through an Animator, both small interfaces in pkg/api. The
// runloop package offers a real-time RunLoop and a virtual-clock ManualLoop
// for tests; the animation package offers a Timed animator and a logging
// decorator.
//
// All calls on a Director and its sequences must happen on the goroutine
// the Timer delivers callbacks on.
//
// # LocalRunner
//
// LocalRunner bundles a RunLoop and a Director. Other goroutines reach the
// Director through Do, or start a sequence and wait for it with Play.
//
// # History
//
// Every lifecycle transition is appended to an EventStore. NewSQLiteBundle
// returns a Director journaling into SQLite.
package sequencer
