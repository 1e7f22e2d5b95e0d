package domain

import (
	"context"
	"time"
)

// AssignmentRepository owns the per-user assignment collections. Every
// operation is keyed by user id; cross-user lookups fail with
// AssignmentNotFound.
//
// The appends (notified/opened) must not lose concurrent appends; document
// stores implement them as atomic array updates rather than read-modify-write.
type AssignmentRepository interface {
	GetAssignment(ctx context.Context, userID, id string) (*Assignment, error)
	// CreateAssignment persists a new assignment. ExpiredAt is computed by
	// the repository as createdAt plus its configured expiration delay and
	// is never recomputed afterwards.
	CreateAssignment(ctx context.Context, userID, id, surveyID, surveyTitle string, createdAt time.Time) error
	// ListAssignments returns assignments ordered by created_at descending.
	// A limit of zero means no limit.
	ListAssignments(ctx context.Context, userID string, limit int) ([]*Assignment, error)
	CountAssignments(ctx context.Context, userID string) (int, error)
	AppendNotified(ctx context.Context, userID, id string, when time.Time) error
	AppendOpened(ctx context.Context, userID, id string, when time.Time) error
	// SubmitAssignment records the final submission. It fails with
	// SubmissionTooLate when `when` is after the assignment's expiration.
	SubmitAssignment(ctx context.Context, userID, id string, when time.Time, answers []Answer) error
	// ListPendingAssignments returns assignments neither submitted nor
	// expired at refTime, ordered by created_at descending.
	ListPendingAssignments(ctx context.Context, userID string, refTime time.Time) ([]*Assignment, error)
	// NextPendingAssignment returns the earliest-created pending assignment,
	// or nil when none is pending.
	NextPendingAssignment(ctx context.Context, userID string, refTime time.Time) (*Assignment, error)
	CountNonAnsweredAssignments(ctx context.Context, userID string) (int, error)
}
