package sequencer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/petrijr/sequencer/pkg/animation"
	"github.com/petrijr/sequencer/pkg/runloop"
)

// ErrRunnerStarted is returned by LocalRunner.Start when the runner is
// already running.
var ErrRunnerStarted = errors.New("sequencer: LocalRunner already started")

// LocalRunner bundles a real-time RunLoop and a Director scheduled on it. It
// is the simplest way to play sequences from an ordinary program.
//
// Typical usage:
//
//	runner := sequencer.NewLocalRunner()
//	_ = runner.Start(ctx)
//	defer runner.Stop()
//
//	_ = runner.Do(ctx, func(d *sequencer.Director) {
//	    d.NewSequence("intro").
//	        Animate(300*time.Millisecond, fadeIn).
//	        Delay(time.Second).
//	        Animate(300*time.Millisecond, fadeOut).
//	        Start()
//	})
type LocalRunner struct {
	// Loop is the scheduling goroutine every sequence runs on.
	Loop *runloop.RunLoop

	// Director creates sequences. It must only be touched from inside Do or
	// from sequence callbacks.
	Director *Director

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// NewLocalRunner constructs a LocalRunner with a default RunLoop and a
// Director using the default timed animator.
func NewLocalRunner() *LocalRunner {
	r, err := NewLocalRunnerWithConfig(runloop.DefaultConfig(), Config{})
	if err != nil {
		// Only a missing Timer fails, and the runner always supplies one.
		panic(err)
	}
	return r
}

// NewLocalRunnerWithConfig constructs a LocalRunner. cfg.Timer is replaced by
// the runner's RunLoop. When cfg.Logger is set and cfg.Animator is not, the
// default animator logs every call at debug level.
func NewLocalRunnerWithConfig(loopCfg runloop.Config, cfg Config) (*LocalRunner, error) {
	loop := runloop.New(loopCfg)
	cfg.Timer = loop
	if cfg.Animator == nil && cfg.Logger != nil {
		cfg.Animator = animation.NewLogged(animation.NewTimed(loop), cfg.Logger)
	}
	d, err := NewDirector(cfg)
	if err != nil {
		return nil, err
	}
	return &LocalRunner{
		Loop:     loop,
		Director: d,
	}, nil
}

// Start runs the loop on a background goroutine until Stop is called or ctx
// is cancelled.
func (r *LocalRunner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return ErrRunnerStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.running = true

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		_ = r.Loop.Run(ctx)
	}()
	return nil
}

// Stop cancels the loop goroutine and waits for it to exit. Sequences that
// are still live stay registered but no longer advance.
func (r *LocalRunner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	cancel := r.cancel
	r.running = false
	r.cancel = nil
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	r.wg.Wait()
}

// Do runs fn on the loop goroutine and waits for it to return.
func (r *LocalRunner) Do(ctx context.Context, fn func(d *Director)) error {
	return r.Loop.Do(ctx, func() { fn(r.Director) })
}

// playCancelWait bounds how long Play waits for a cancelled sequence to run
// its callbacks.
const playCancelWait = time.Second

// Play starts the sequence returned by build and blocks until it finishes,
// is cancelled, or ctx is done, in which case the sequence is cancelled.
// build runs on the loop goroutine and must not start the sequence itself;
// any OnFinish callback it sets is still called. A sequence whose step
// panics makes Play return an error wrapping ErrStepPanicked.
func (r *LocalRunner) Play(ctx context.Context, build func(d *Director) (*Sequence, error)) error {
	done := make(chan struct{})
	var (
		seq      *Sequence
		buildErr error
		failed   bool
		once     sync.Once
	)

	err := r.Do(ctx, func(d *Director) {
		// Do gave up waiting; nobody would watch the sequence.
		if buildErr = ctx.Err(); buildErr != nil {
			return
		}
		seq, buildErr = build(d)
		if buildErr != nil {
			return
		}
		seq.OnFinish(chainAction(seq.FinishAction(), func() {
			once.Do(func() {
				failed = seq.Status() == StatusFailed
				close(done)
			})
		}))
		seq.Start()
	})
	if err != nil {
		return err
	}
	if buildErr != nil {
		return buildErr
	}

	select {
	case <-done:
		return playResult(seq, failed)
	case <-ctx.Done():
	}

	// Finishing may have raced with ctx.
	select {
	case <-done:
		return playResult(seq, failed)
	default:
	}

	if err := r.Loop.Post(context.Background(), seq.Cancel); err != nil {
		return err
	}
	select {
	case <-done:
	case <-time.After(playCancelWait):
	}
	return ctx.Err()
}

func playResult(seq *Sequence, failed bool) error {
	if failed {
		return fmt.Errorf("play sequence %s: %w", seq.ID(), ErrStepPanicked)
	}
	return nil
}

func chainAction(first, then Action) Action {
	if first == nil {
		return then
	}
	return func() {
		first()
		then()
	}
}
