package runloop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/petrijr/sequencer/internal/taskqueue"
	"github.com/petrijr/sequencer/pkg/api"
)

// ErrLoopRunning is returned by Run when the loop is already being driven by
// another goroutine.
var ErrLoopRunning = errors.New("runloop: already running")

// Config configures a RunLoop.
type Config struct {
	// QueueCapacity bounds the number of pending tasks. Post blocks while the
	// queue is full.
	// Default: 1024.
	QueueCapacity int

	// Logger receives task panics.
	// Default: slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		QueueCapacity: taskqueue.DefaultCapacity,
		Logger:        slog.Default(),
	}
}

// RunLoop is a real-time, single-goroutine scheduling context. Every task and
// every timer callback runs on the goroutine that calls Run, so state touched
// only from those callbacks needs no locking.
//
// RunLoop implements api.Timer.
type RunLoop struct {
	queue  taskqueue.Queue
	logger *slog.Logger

	running atomic.Bool
}

var _ api.Timer = (*RunLoop)(nil)

// New creates a RunLoop. Call Run to start processing.
func New(cfg Config) *RunLoop {
	def := DefaultConfig()
	if cfg.QueueCapacity <= 0 {
		cfg.QueueCapacity = def.QueueCapacity
	}
	if cfg.Logger == nil {
		cfg.Logger = def.Logger
	}
	return &RunLoop{
		queue:  taskqueue.NewInMemoryQueue(cfg.QueueCapacity),
		logger: cfg.Logger.With(slog.String("component", "runloop")),
	}
}

// Post enqueues fn to run on the loop goroutine. It may be called from any
// goroutine, including the loop itself.
func (l *RunLoop) Post(ctx context.Context, fn func()) error {
	return l.queue.Enqueue(ctx, taskqueue.Task{
		ID:         uuid.NewString(),
		Fn:         fn,
		EnqueuedAt: time.Now(),
	})
}

// Do runs fn on the loop goroutine and waits for it to return. It must not be
// called from the loop goroutine itself, since that would deadlock.
func (l *RunLoop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if err := l.Post(ctx, func() {
		defer close(done)
		fn()
	}); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ScheduleOnce runs fn on the loop goroutine after d. Stopping the returned
// handle suppresses fn even when the underlying timer has already fired and
// its task is waiting in the queue.
func (l *RunLoop) ScheduleOnce(d time.Duration, fn func()) api.Handle {
	if d < 0 {
		d = 0
	}
	var cancelled atomic.Bool
	t := time.AfterFunc(d, func() {
		err := l.Post(context.Background(), func() {
			if cancelled.Load() {
				return
			}
			fn()
		})
		if err != nil {
			l.logger.Error("failed to post timer callback", slog.Any("error", err))
		}
	})
	return api.HandleFunc(func() bool {
		if !cancelled.CompareAndSwap(false, true) {
			return false
		}
		t.Stop()
		return true
	})
}

// ProcessOne pulls a single task from the queue and runs it.
// Returns (processed, error):
//   - processed == false, err != nil: ctx was cancelled before a task was obtained
//   - processed == true, err != nil: the task panicked; the panic is reported as err
func (l *RunLoop) ProcessOne(ctx context.Context) (processed bool, err error) {
	task, err := l.queue.Dequeue(ctx)
	if err != nil {
		return false, err
	}
	if task == nil || task.Fn == nil {
		return true, nil
	}

	defer func() {
		if r := recover(); r != nil {
			processed = true
			err = fmt.Errorf("runloop: task %s panicked: %v", task.ID, r)
		}
	}()
	task.Fn()
	return true, nil
}

// Run processes tasks on the calling goroutine until ctx is cancelled.
// A panicking task is logged and does not stop the loop.
func (l *RunLoop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.running.Store(false)

	for {
		_, err := l.ProcessOne(ctx)
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		l.logger.Error("task failed", slog.Any("error", err))
	}
}

// Len returns the number of tasks waiting to run.
func (l *RunLoop) Len() int {
	return l.queue.Len()
}
