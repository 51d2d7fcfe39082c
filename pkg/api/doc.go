// Package api contains the core building blocks used by the sequencer
// scheduler. It provides the step model, the collaborator contracts the
// scheduler drives, and the observability hooks.
//
// Most users interact with the higher-level sequencer package, which
// re-exports selected types and helpers from this package. The api package is
// intended for custom integrations: writing an Animator for a rendering
// engine, a Timer for an event loop, or an Observer for monitoring.
//
// # Steps
//
// A Step is one unit of sequenced work. Its StepKind decides how the
// scheduler waits before moving on:
//
//   - StepAnimate waits for the Animator to report completion.
//   - StepDelay waits for the Timer.
//   - StepImmediateAnimate fires an animation and moves on without waiting.
//   - StepImmediateAction runs its action synchronously and moves on.
//
// Any wait shorter than MinStepDelay is raised to MinStepDelay, so every step
// costs at least one round-trip through the Timer and a long run of zero
// length steps never recurses.
//
// # Collaborators
//
// The scheduler never renders or sleeps by itself. It consumes two narrow
// capabilities:
//
//   - Timer schedules a single callback after a duration.
//   - Animator applies mutations over a duration (reporting completion),
//     as one combined batch, or immediately.
//
// Both must deliver callbacks on the single goroutine that owns the
// scheduler state.
//
// # Observability
//
// The Observer interface reports sequence and step lifecycle events.
// LoggingObserver writes them through log/slog, BasicMetrics keeps counters,
// and NewCompositeObserver fans out to several observers.
package api
