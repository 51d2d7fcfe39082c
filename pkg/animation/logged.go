package animation

import (
	"log/slog"
	"time"

	"github.com/petrijr/sequencer/pkg/api"
)

// Logged decorates an Animator, logging every call at debug level.
type Logged struct {
	next   api.Animator
	logger *slog.Logger
}

var _ api.Animator = (*Logged)(nil)

// NewLogged wraps next. If logger is nil, slog.Default() is used.
func NewLogged(next api.Animator, logger *slog.Logger) *Logged {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logged{
		next:   next,
		logger: logger.With(slog.String("component", "animator")),
	}
}

func (a *Logged) Animate(d time.Duration, mutation api.Action, onComplete func()) {
	a.logger.Debug("animate",
		slog.Duration("duration", d),
		slog.Bool("await", onComplete != nil),
	)
	a.next.Animate(d, mutation, onComplete)
}

func (a *Logged) AnimateBatch(d time.Duration, mutations []api.Action, onComplete func()) {
	a.logger.Debug("animate_batch",
		slog.Duration("duration", d),
		slog.Int("mutations", len(mutations)),
	)
	a.next.AnimateBatch(d, mutations, onComplete)
}

func (a *Logged) Immediate(mutation api.Action) {
	a.logger.Debug("immediate")
	a.next.Immediate(mutation)
}
