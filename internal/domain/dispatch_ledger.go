package domain

import (
	"context"
	"time"
)

// DispatchLedger records task deliveries that have already been handled so
// exact duplicates from the at-least-once transport can be dropped cheaply.
// It is best-effort: ledger failures are logged and ignored, and the
// submitted-at guard in the notification service remains the correctness
// backstop.
type DispatchLedger interface {
	IsCommitted(ctx context.Context, taskKey string) (bool, error)
	Commit(ctx context.Context, taskKey string, at time.Time) error
}

// NotificationTaskKey identifies one notification delivery attempt slot.
func NotificationTaskKey(userID, assignmentID, kind string, when time.Time) string {
	return userID + ":" + assignmentID + ":" + kind + ":" + when.UTC().Format("20060102-150405")
}
