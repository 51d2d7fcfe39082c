package taskqueue

import (
	"context"
	"time"
)

// DefaultCapacity is the number of loop tasks a queue buffers when no
// capacity is given.
const DefaultCapacity = 1024

// InMemoryQueue hands loop tasks from any goroutine (timer fires, Post and
// Do callers) to the single goroutine draining it, in arrival order.
type InMemoryQueue struct {
	ch chan Task
}

var _ Queue = (*InMemoryQueue)(nil)

// NewInMemoryQueue returns a queue holding up to capacity pending tasks.
// Producers block in Enqueue once it is full.
func NewInMemoryQueue(capacity int) *InMemoryQueue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &InMemoryQueue{ch: make(chan Task, capacity)}
}

// Enqueue stamps t with its arrival time if unset and queues it, giving up
// when ctx is done first.
func (q *InMemoryQueue) Enqueue(ctx context.Context, t Task) error {
	if t.EnqueuedAt.IsZero() {
		t.EnqueuedAt = time.Now()
	}
	select {
	case q.ch <- t:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dequeue waits for the oldest pending task.
func (q *InMemoryQueue) Dequeue(ctx context.Context) (*Task, error) {
	select {
	case t := <-q.ch:
		return &t, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Len reports how many tasks are waiting for the loop.
func (q *InMemoryQueue) Len() int {
	return len(q.ch)
}
