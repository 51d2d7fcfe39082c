// Package taskqueue carries closures from arbitrary goroutines to the
// goroutine that owns sequence state.
package taskqueue

import (
	"context"
	"time"
)

// Task is one closure waiting for the loop goroutine.
type Task struct {
	ID string
	Fn func()

	EnqueuedAt time.Time
}

// Queue is the FIFO a run loop drains.
type Queue interface {
	Enqueue(ctx context.Context, t Task) error

	// Dequeue blocks until a task arrives or ctx is done.
	Dequeue(ctx context.Context) (*Task, error)

	// Len is advisory; producers may be enqueueing concurrently.
	Len() int
}
