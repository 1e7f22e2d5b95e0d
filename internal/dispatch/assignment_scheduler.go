package dispatch

import (
	"context"
	"time"
)

// AssignmentScheduler requests creation of one assignment at or after a
// given instant. Implementations are fire-and-forget with at-least-once
// execution: Direct runs the assignment service inline, Queued routes
// through the task transport.
type AssignmentScheduler interface {
	ScheduleAssignment(ctx context.Context, userID, surveyID string, when time.Time) error
}
