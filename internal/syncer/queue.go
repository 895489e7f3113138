package syncer

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// TaskFunc is one queued sync pass.
type TaskFunc func(ctx context.Context) error

// QueueStatus is the coarse per-user state callers poll instead of awaiting
// completion.
type QueueStatus struct {
	IsProcessing bool `json:"isProcessing"`
	QueueLength  int  `json:"queueLength"`
}

// Queue serializes sync passes per user. The spreadsheet API has no
// transactional isolation: two concurrent passes for one user could both
// read the sheet, both decide a row is new and both append a duplicate.
// Keying on the user alone also serializes inbound against outbound, since
// both mutate the same database rows. Different users never coordinate.
type Queue struct {
	mu    sync.Mutex
	users map[int64]*userQueue
	log   zerolog.Logger
}

type userQueue struct {
	tasks      []*queueTask
	processing bool
}

type queueTask struct {
	direction string
	fn        TaskFunc
	done      chan error
}

// NewQueue builds an empty queue.
func NewQueue(log zerolog.Logger) *Queue {
	return &Queue{users: make(map[int64]*userQueue), log: log}
}

// Enqueue appends a task to the user's FIFO queue and returns immediately.
// The returned channel delivers the task's error (or nil) when it has run;
// callers wanting fire-and-forget simply ignore it - the task still runs,
// detached from the caller's cancellation.
func (q *Queue) Enqueue(ctx context.Context, userID int64, direction string, fn TaskFunc) <-chan error {
	task := &queueTask{
		direction: direction,
		fn:        fn,
		done:      make(chan error, 1),
	}

	q.mu.Lock()
	uq, ok := q.users[userID]
	if !ok {
		uq = &userQueue{}
		q.users[userID] = uq
	}
	uq.tasks = append(uq.tasks, task)

	start := !uq.processing
	if start {
		uq.processing = true
	}
	q.mu.Unlock()

	if start {
		go q.drain(context.WithoutCancel(ctx), userID)
	}

	return task.done
}

// drain runs the user's tasks one at a time until the queue empties.
// A task failure is logged and delivered to its enqueuer only; the next
// task still runs.
func (q *Queue) drain(ctx context.Context, userID int64) {
	for {
		q.mu.Lock()
		uq := q.users[userID]
		if len(uq.tasks) == 0 {
			uq.processing = false
			q.mu.Unlock()
			return
		}
		task := uq.tasks[0]
		uq.tasks = uq.tasks[1:]
		q.mu.Unlock()

		err := task.fn(ctx)
		if err != nil {
			q.log.Error().
				Int64("user", userID).
				Str("direction", task.direction).
				Err(err).
				Msg("queued sync failed")
		}
		task.done <- err
	}
}

// Status reports whether a drain is running for the user and how many tasks
// are still waiting behind it.
func (q *Queue) Status(userID int64) QueueStatus {
	q.mu.Lock()
	defer q.mu.Unlock()

	uq, ok := q.users[userID]
	if !ok {
		return QueueStatus{}
	}
	return QueueStatus{
		IsProcessing: uq.processing,
		QueueLength:  len(uq.tasks),
	}
}
