package taskqueue

import (
	"context"
	"testing"
	"time"
)

func TestInMemoryQueue_EnqueueDequeueOrder(t *testing.T) {
	q := NewInMemoryQueue(8)

	ctx := context.Background()

	var ran []string
	for _, id := range []string{"1", "2", "3"} {
		id := id
		if err := q.Enqueue(ctx, Task{ID: id, Fn: func() { ran = append(ran, id) }}); err != nil {
			t.Fatalf("Enqueue %s failed: %v", id, err)
		}
	}

	if q.Len() != 3 {
		t.Fatalf("expected Len 3, got %d", q.Len())
	}

	for i := 0; i < 3; i++ {
		task, err := q.Dequeue(ctx)
		if err != nil {
			t.Fatalf("Dequeue %d failed: %v", i+1, err)
		}
		task.Fn()
	}

	if len(ran) != 3 || ran[0] != "1" || ran[1] != "2" || ran[2] != "3" {
		t.Fatalf("unexpected dequeue order: %v", ran)
	}

	if q.Len() != 0 {
		t.Fatalf("expected Len 0 after dequeues, got %d", q.Len())
	}
}

func TestInMemoryQueue_DequeueHonorsContextCancellation(t *testing.T) {
	q := NewInMemoryQueue(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// No tasks enqueued, Dequeue should return ctx error.
	if _, err := q.Dequeue(ctx); err == nil {
		t.Fatalf("expected Dequeue to fail due to context cancellation")
	}
}

func TestInMemoryQueue_EnqueueHonorsContextWhenFull(t *testing.T) {
	q := NewInMemoryQueue(1)

	if err := q.Enqueue(context.Background(), Task{ID: "first"}); err != nil {
		t.Fatalf("Enqueue first: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := q.Enqueue(ctx, Task{ID: "second"}); err == nil {
		t.Fatalf("expected Enqueue on a full queue to fail once ctx expires")
	}
}

func TestNewInMemoryQueue_DefaultCapacity(t *testing.T) {
	q := NewInMemoryQueue(0)
	if cap(q.ch) != DefaultCapacity {
		t.Fatalf("expected default capacity %d, got %d", DefaultCapacity, cap(q.ch))
	}
}
