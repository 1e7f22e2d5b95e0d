package dispatch

import (
	"context"
	"time"

	"github.com/studypulse/survey-scheduling/internal/domain"
)

// ScheduledNotification is one recorded notification request.
type ScheduledNotification struct {
	UserID       string
	AssignmentID string
	Kind         domain.NotificationKind
	When         time.Time
}

// RecordingNotificationScheduler records every request before forwarding to
// an optional next scheduler. Tests inspect Recorded to assert dispatch
// order and instants.
type RecordingNotificationScheduler struct {
	Next     NotificationScheduler
	Recorded []ScheduledNotification
}

func (s *RecordingNotificationScheduler) ScheduleInitialNotification(ctx context.Context, userID, assignmentID string, when time.Time) error {
	s.Recorded = append(s.Recorded, ScheduledNotification{
		UserID:       userID,
		AssignmentID: assignmentID,
		Kind:         domain.NotificationInitial,
		When:         when,
	})
	if s.Next == nil {
		return nil
	}
	return s.Next.ScheduleInitialNotification(ctx, userID, assignmentID, when)
}

func (s *RecordingNotificationScheduler) ScheduleReminderNotification(ctx context.Context, userID, assignmentID string, when time.Time) error {
	s.Recorded = append(s.Recorded, ScheduledNotification{
		UserID:       userID,
		AssignmentID: assignmentID,
		Kind:         domain.NotificationReminder,
		When:         when,
	})
	if s.Next == nil {
		return nil
	}
	return s.Next.ScheduleReminderNotification(ctx, userID, assignmentID, when)
}

// ScheduledAssignment is one recorded assignment request.
type ScheduledAssignment struct {
	UserID   string
	SurveyID string
	When     time.Time
}

// RecordingAssignmentScheduler records every request before forwarding to an
// optional next scheduler.
type RecordingAssignmentScheduler struct {
	Next     AssignmentScheduler
	Recorded []ScheduledAssignment
}

func (s *RecordingAssignmentScheduler) ScheduleAssignment(ctx context.Context, userID, surveyID string, when time.Time) error {
	s.Recorded = append(s.Recorded, ScheduledAssignment{
		UserID:   userID,
		SurveyID: surveyID,
		When:     when,
	})
	if s.Next == nil {
		return nil
	}
	return s.Next.ScheduleAssignment(ctx, userID, surveyID, when)
}
