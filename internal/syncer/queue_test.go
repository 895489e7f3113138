package syncer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestQueue_SerializesPerUser(t *testing.T) {
	q := NewQueue(zerolog.Nop())
	ctx := context.Background()

	var mu sync.Mutex
	var running int
	var maxRunning int
	var order []int

	enqueue := func(n int) <-chan error {
		return q.Enqueue(ctx, 1, "inbound", func(context.Context) error {
			mu.Lock()
			running++
			if running > maxRunning {
				maxRunning = running
			}
			order = append(order, n)
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)

			mu.Lock()
			running--
			mu.Unlock()
			return nil
		})
	}

	var dones []<-chan error
	for i := 0; i < 5; i++ {
		dones = append(dones, enqueue(i))
	}
	for _, done := range dones {
		if err := <-done; err != nil {
			t.Fatalf("task failed: %v", err)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if maxRunning != 1 {
		t.Errorf("max concurrent tasks for one user = %d, want 1", maxRunning)
	}
	for i, n := range order {
		if n != i {
			t.Fatalf("tasks ran out of order: %v", order)
		}
	}
}

func TestQueue_UsersRunIndependently(t *testing.T) {
	q := NewQueue(zerolog.Nop())
	ctx := context.Background()

	release := make(chan struct{})
	blocked := q.Enqueue(ctx, 1, "inbound", func(context.Context) error {
		<-release
		return nil
	})

	// User 2's task must complete while user 1's is still blocked.
	select {
	case err := <-q.Enqueue(ctx, 2, "inbound", func(context.Context) error { return nil }):
		if err != nil {
			t.Fatalf("user 2 task: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("user 2's task waited on user 1's queue")
	}

	close(release)
	if err := <-blocked; err != nil {
		t.Fatalf("user 1 task: %v", err)
	}
}

func TestQueue_FailureDoesNotStallQueue(t *testing.T) {
	q := NewQueue(zerolog.Nop())
	ctx := context.Background()

	boom := errors.New("boom")
	first := q.Enqueue(ctx, 1, "outbound", func(context.Context) error { return boom })
	second := q.Enqueue(ctx, 1, "outbound", func(context.Context) error { return nil })

	if err := <-first; !errors.Is(err, boom) {
		t.Errorf("first task error = %v, want boom", err)
	}
	select {
	case err := <-second:
		if err != nil {
			t.Errorf("second task error = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("a failed task stalled the queue")
	}
}

func TestQueue_SurvivesCallerCancellation(t *testing.T) {
	q := NewQueue(zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := q.Enqueue(ctx, 1, "inbound", func(taskCtx context.Context) error {
		return taskCtx.Err()
	})
	cancel()

	if err := <-done; err != nil {
		t.Errorf("task saw caller cancellation: %v", err)
	}
}

func TestQueue_Status(t *testing.T) {
	q := NewQueue(zerolog.Nop())
	ctx := context.Background()

	if st := q.Status(1); st.IsProcessing || st.QueueLength != 0 {
		t.Fatalf("fresh queue status: %+v", st)
	}

	entered := make(chan struct{})
	release := make(chan struct{})
	running := q.Enqueue(ctx, 1, "inbound", func(context.Context) error {
		close(entered)
		<-release
		return nil
	})
	<-entered

	waiting := q.Enqueue(ctx, 1, "inbound", func(context.Context) error { return nil })

	st := q.Status(1)
	if !st.IsProcessing {
		t.Error("expected IsProcessing while a task runs")
	}
	if st.QueueLength != 1 {
		t.Errorf("queue length = %d, want 1", st.QueueLength)
	}

	close(release)
	<-running
	<-waiting

	// The drain goroutine flips processing off after the last task's result
	// is delivered; give it a moment.
	deadline := time.Now().Add(2 * time.Second)
	for q.Status(1).IsProcessing {
		if time.Now().After(deadline) {
			t.Fatal("queue never went idle")
		}
		time.Sleep(time.Millisecond)
	}
}
