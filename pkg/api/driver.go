package api

import "time"

// Handle is returned by Timer.ScheduleOnce and can prevent the callback from
// running.
type Handle interface {
	// Stop prevents the callback from firing. It reports whether the call
	// stopped it; false means it already fired or was already stopped.
	Stop() bool
}

// Timer schedules single callbacks on the scheduling goroutine.
type Timer interface {
	// ScheduleOnce runs fn once, after at least d has elapsed, on the same
	// goroutine that owns the scheduler state. It must accept durations as
	// small as MinStepDelay.
	ScheduleOnce(d time.Duration, fn func()) Handle
}

// Animator is the animation driver a sequence delegates visual work to.
// Implementations wrap a rendering engine; callbacks must be delivered on the
// scheduling goroutine.
type Animator interface {
	// Animate applies mutation over d and then calls onComplete once, after
	// the transition has ended. onComplete may be nil.
	Animate(d time.Duration, mutation Action, onComplete func())

	// AnimateBatch applies every mutation together as a single transition
	// lasting d, then calls onComplete once. onComplete may be nil.
	AnimateBatch(d time.Duration, mutations []Action, onComplete func())

	// Immediate applies mutation synchronously, without any transition.
	Immediate(mutation Action)
}

// HandleFunc adapts a function to the Handle interface.
type HandleFunc func() bool

func (f HandleFunc) Stop() bool { return f() }
