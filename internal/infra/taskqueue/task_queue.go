package taskqueue

import "context"

// TaskQueue enqueues deferred work as HTTP callback tasks. Enqueueing the
// same task ID twice is not an error; the queue keeps the first copy.
type TaskQueue interface {
	CreateTask(ctx context.Context, task *Task) (*TaskResponse, error)
}
