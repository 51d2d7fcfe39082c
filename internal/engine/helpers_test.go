package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/petrijr/sequencer/pkg/api"
	"github.com/petrijr/sequencer/pkg/runloop"
)

// trace collects named actions in the order they ran.
type trace struct {
	entries []string
}

func (tr *trace) action(name string) api.Action {
	return func() { tr.entries = append(tr.entries, name) }
}

func (tr *trace) count(name string) int {
	n := 0
	for _, e := range tr.entries {
		if e == name {
			n++
		}
	}
	return n
}

type animateCall struct {
	d          time.Duration
	onComplete func()
}

type batchCall struct {
	d         time.Duration
	mutations int
}

// fakeAnimator applies mutations straight away and leaves completion to the
// test. With syncComplete set it signals completion from inside Animate.
type fakeAnimator struct {
	syncComplete bool

	calls      []animateCall
	batches    []batchCall
	immediates int
}

var _ api.Animator = (*fakeAnimator)(nil)

func (f *fakeAnimator) Animate(d time.Duration, mutation api.Action, onComplete func()) {
	f.calls = append(f.calls, animateCall{d: d, onComplete: onComplete})
	if mutation != nil {
		mutation()
	}
	if f.syncComplete && onComplete != nil {
		onComplete()
	}
}

func (f *fakeAnimator) AnimateBatch(d time.Duration, mutations []api.Action, onComplete func()) {
	f.batches = append(f.batches, batchCall{d: d, mutations: len(mutations)})
	for _, m := range mutations {
		m()
	}
	if onComplete != nil {
		onComplete()
	}
}

func (f *fakeAnimator) Immediate(mutation api.Action) {
	f.immediates++
	mutation()
}

// completeLast signals completion of the most recent Animate call.
func (f *fakeAnimator) completeLast(t *testing.T) {
	t.Helper()
	require.NotEmpty(t, f.calls, "no animation in flight")
	done := f.calls[len(f.calls)-1].onComplete
	require.NotNil(t, done, "last animation has no completion")
	done()
}

type testEnv struct {
	loop     *runloop.ManualLoop
	director *Director
	metrics  *api.BasicMetrics
}

func newTestEnv(t *testing.T, animator api.Animator) *testEnv {
	t.Helper()
	loop := runloop.NewManual()
	metrics := &api.BasicMetrics{}
	d, err := NewDirector(Config{
		Timer:    loop,
		Animator: animator,
		Observer: metrics,
	})
	require.NoError(t, err)
	return &testEnv{loop: loop, director: d, metrics: metrics}
}
