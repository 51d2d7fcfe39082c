package runloop

import (
	"container/heap"
	"time"

	"github.com/petrijr/sequencer/pkg/api"
)

// ManualLoop is a deterministic scheduling context driven by a virtual clock.
// Nothing runs until the owner calls Step, Advance or Drain, which makes it the
// natural Timer for tests: every scheduled callback is observable as a
// separate turn of the loop.
//
// ManualLoop is not safe for concurrent use; it belongs to the goroutine that
// drives it.
type ManualLoop struct {
	now    time.Duration
	seq    uint64
	timers timerHeap
}

var _ api.Timer = (*ManualLoop)(nil)

// NewManual returns a ManualLoop with its clock at zero.
func NewManual() *ManualLoop {
	return &ManualLoop{}
}

type manualTimer struct {
	due     time.Duration
	seq     uint64
	fn      func()
	stopped bool
	fired   bool
}

// ScheduleOnce registers fn to run once the virtual clock reaches now+d.
// Timers due at the same instant run in scheduling order.
func (m *ManualLoop) ScheduleOnce(d time.Duration, fn func()) api.Handle {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{due: m.now + d, seq: m.seq, fn: fn}
	heap.Push(&m.timers, t)
	return api.HandleFunc(func() bool {
		if t.stopped || t.fired {
			return false
		}
		t.stopped = true
		return true
	})
}

// Post schedules fn for the current instant.
func (m *ManualLoop) Post(fn func()) {
	m.ScheduleOnce(0, fn)
}

// Now returns the virtual time elapsed since the loop was created.
func (m *ManualLoop) Now() time.Duration {
	return m.now
}

// Pending returns the number of callbacks still waiting to run.
func (m *ManualLoop) Pending() int {
	n := 0
	for _, t := range m.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Step runs the earliest pending callback, moving the clock forward to its
// due time. It reports false when nothing is pending.
func (m *ManualLoop) Step() bool {
	for m.timers.Len() > 0 {
		t := heap.Pop(&m.timers).(*manualTimer)
		if t.stopped {
			continue
		}
		if t.due > m.now {
			m.now = t.due
		}
		t.fired = true
		t.fn()
		return true
	}
	return false
}

// Advance moves the clock forward by d, running every callback that becomes
// due on the way, including callbacks scheduled by those callbacks. It returns
// the number of callbacks run.
func (m *ManualLoop) Advance(d time.Duration) int {
	target := m.now + d
	fired := 0
	for {
		next, ok := m.peek()
		if !ok || next.due > target {
			break
		}
		m.Step()
		fired++
	}
	if target > m.now {
		m.now = target
	}
	return fired
}

// Drain runs callbacks until none are pending or limit callbacks have run,
// whichever comes first. A limit <= 0 means no limit; use a limit when an
// autoloop sequence keeps scheduling forever.
func (m *ManualLoop) Drain(limit int) int {
	fired := 0
	for limit <= 0 || fired < limit {
		if !m.Step() {
			break
		}
		fired++
	}
	return fired
}

func (m *ManualLoop) peek() (*manualTimer, bool) {
	for m.timers.Len() > 0 {
		t := m.timers[0]
		if !t.stopped {
			return t, true
		}
		heap.Pop(&m.timers)
	}
	return nil, false
}

// timerHeap orders timers by due time, then by scheduling order.
type timerHeap []*manualTimer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	return h[i].seq < h[j].seq
}

func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *timerHeap) Push(x any) { *h = append(*h, x.(*manualTimer)) }

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}
