package dispatch

import (
	"context"
	"time"

	"github.com/studypulse/survey-scheduling/internal/domain"
)

// NotificationScheduler requests delivery of assignment notifications.
// The initial notification fires at assignment creation; reminders fire at
// the configured offsets afterwards.
type NotificationScheduler interface {
	ScheduleInitialNotification(ctx context.Context, userID, assignmentID string, when time.Time) error
	ScheduleReminderNotification(ctx context.Context, userID, assignmentID string, when time.Time) error
}

// NotificationSender is the part of the notification service the direct
// scheduler needs. Declared here to keep the dependency one-way.
type NotificationSender interface {
	NotifyUser(ctx context.Context, userID, assignmentID string, kind domain.NotificationKind, when *time.Time) error
}

// AssignmentCreator is the part of the assignment service the direct
// scheduler needs.
type AssignmentCreator interface {
	CreateAssignment(ctx context.Context, userID, surveyID string, refTime time.Time) (string, error)
}
