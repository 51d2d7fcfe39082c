package runloop

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func startLoop(t *testing.T) (*RunLoop, context.Context) {
	t.Helper()

	l := New(Config{QueueCapacity: 16})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = l.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return l, ctx
}

func TestRunLoop_DoRunsOnLoopInOrder(t *testing.T) {
	l, ctx := startLoop(t)

	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		require.NoError(t, l.Post(ctx, func() { order = append(order, i) }))
	}

	var snapshot []int
	require.NoError(t, l.Do(ctx, func() { snapshot = append(snapshot, order...) }))
	require.Equal(t, []int{1, 2, 3}, snapshot)
}

func TestRunLoop_ScheduleOnceFiresOnLoop(t *testing.T) {
	l, ctx := startLoop(t)

	fired := make(chan time.Duration, 1)
	start := time.Now()
	require.NoError(t, l.Do(ctx, func() {
		l.ScheduleOnce(20*time.Millisecond, func() { fired <- time.Since(start) })
	}))

	select {
	case elapsed := <-fired:
		require.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
	case <-time.After(2 * time.Second):
		t.Fatal("timer callback never fired")
	}
}

func TestRunLoop_StoppedTimerNeverFires(t *testing.T) {
	l, ctx := startLoop(t)

	var fired atomic.Bool
	var stopped bool
	require.NoError(t, l.Do(ctx, func() {
		h := l.ScheduleOnce(10*time.Millisecond, func() { fired.Store(true) })
		stopped = h.Stop()
	}))
	require.True(t, stopped)

	time.Sleep(40 * time.Millisecond)
	require.NoError(t, l.Do(ctx, func() {}))
	require.False(t, fired.Load())
}

func TestRunLoop_PanickingTaskDoesNotStopLoop(t *testing.T) {
	l, ctx := startLoop(t)

	require.NoError(t, l.Post(ctx, func() { panic("boom") }))

	ran := false
	require.NoError(t, l.Do(ctx, func() { ran = true }))
	require.True(t, ran)
}

func TestRunLoop_RunTwiceFails(t *testing.T) {
	l, ctx := startLoop(t)

	// Make sure the first Run has claimed the loop.
	require.NoError(t, l.Do(ctx, func() {}))
	require.ErrorIs(t, l.Run(ctx), ErrLoopRunning)
}

func TestRunLoop_ProcessOneReportsPanic(t *testing.T) {
	l := New(Config{})
	ctx := context.Background()

	require.NoError(t, l.Post(ctx, func() { panic("kaboom") }))

	processed, err := l.ProcessOne(ctx)
	require.True(t, processed)
	require.ErrorContains(t, err, "kaboom")
}

func TestRunLoop_ProcessOneHonorsContext(t *testing.T) {
	l := New(Config{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	processed, err := l.ProcessOne(ctx)
	require.False(t, processed)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
