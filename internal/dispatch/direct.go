package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/studypulse/survey-scheduling/internal/domain"
)

// DirectAssignmentScheduler executes assignment creation synchronously.
// Used for local runs and tests; production routes through the task queue.
type DirectAssignmentScheduler struct {
	assignmentService AssignmentCreator
}

func NewDirectAssignmentScheduler(assignmentService AssignmentCreator) *DirectAssignmentScheduler {
	return &DirectAssignmentScheduler{assignmentService: assignmentService}
}

func (s *DirectAssignmentScheduler) ScheduleAssignment(ctx context.Context, userID, surveyID string, when time.Time) error {
	assignmentID, err := s.assignmentService.CreateAssignment(ctx, userID, surveyID, when)
	if err != nil {
		return err
	}

	slog.DebugContext(ctx, "assignment created directly",
		slog.String("user_id", userID),
		slog.String("survey_id", surveyID),
		slog.String("assignment_id", assignmentID),
		slog.Time("when", when),
	)
	return nil
}

// DirectNotificationScheduler invokes the notification service inline
// instead of deferring through the task transport.
type DirectNotificationScheduler struct {
	notificationService NotificationSender
}

func NewDirectNotificationScheduler(notificationService NotificationSender) *DirectNotificationScheduler {
	return &DirectNotificationScheduler{notificationService: notificationService}
}

func (s *DirectNotificationScheduler) ScheduleInitialNotification(ctx context.Context, userID, assignmentID string, when time.Time) error {
	return s.notificationService.NotifyUser(ctx, userID, assignmentID, domain.NotificationInitial, &when)
}

func (s *DirectNotificationScheduler) ScheduleReminderNotification(ctx context.Context, userID, assignmentID string, when time.Time) error {
	return s.notificationService.NotifyUser(ctx, userID, assignmentID, domain.NotificationReminder, &when)
}
