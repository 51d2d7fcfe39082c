// Package animation provides reference api.Animator implementations.
//
// A real application wraps its rendering engine in an api.Animator. The
// drivers here are useful for headless runs, command line tools and tests:
// Timed applies every mutation at once and reports completion when the
// requested duration has elapsed on the scheduling Timer, and Logged records
// every driver call through log/slog before delegating.
package animation

import (
	"time"

	"github.com/petrijr/sequencer/pkg/api"
)

// Timed applies mutations synchronously and signals completion through a
// Timer after the requested duration, as if the transition had been rendered.
type Timed struct {
	timer api.Timer
}

var _ api.Animator = (*Timed)(nil)

// NewTimed returns a Timed animator scheduling completions on timer.
func NewTimed(timer api.Timer) *Timed {
	return &Timed{timer: timer}
}

func (a *Timed) Animate(d time.Duration, mutation api.Action, onComplete func()) {
	if mutation != nil {
		mutation()
	}
	a.complete(d, onComplete)
}

func (a *Timed) AnimateBatch(d time.Duration, mutations []api.Action, onComplete func()) {
	for _, m := range mutations {
		if m != nil {
			m()
		}
	}
	a.complete(d, onComplete)
}

func (a *Timed) Immediate(mutation api.Action) {
	if mutation != nil {
		mutation()
	}
}

func (a *Timed) complete(d time.Duration, onComplete func()) {
	if onComplete == nil {
		return
	}
	a.timer.ScheduleOnce(d, onComplete)
}
