package taskqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/studypulse/survey-scheduling/internal/domain"
)

const taskTimeFormat = "20060102-150405"

// QueuedAssignmentScheduler defers assignment creation through the task
// queue. Task IDs are derived from the schedule inputs so that replaying a
// scheduler run reuses the same IDs and the queue deduplicates them.
type QueuedAssignmentScheduler struct {
	queue TaskQueue
}

func NewQueuedAssignmentScheduler(queue TaskQueue) *QueuedAssignmentScheduler {
	return &QueuedAssignmentScheduler{queue: queue}
}

func (s *QueuedAssignmentScheduler) ScheduleAssignment(ctx context.Context, userID, surveyID string, when time.Time) error {
	taskID := SanitizeTaskID(fmt.Sprintf("assignment-%s-%s-%s",
		userID, surveyID, when.UTC().Format(taskTimeFormat)))

	task := &Task{
		ID:   taskID,
		Kind: TaskKindAssignment,
		Payload: AssignmentTaskPayload{
			UserID:   userID,
			SurveyID: surveyID,
			RefTime:  when.UTC(),
		},
		ScheduleAt: when,
	}

	if _, err := s.queue.CreateTask(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue assignment task: %w", err)
	}

	slog.DebugContext(ctx, "assignment task enqueued",
		slog.String("task_id", taskID),
		slog.String("user_id", userID),
		slog.String("survey_id", surveyID),
		slog.Time("when", when),
	)
	return nil
}

// QueuedNotificationScheduler defers notification delivery through the task
// queue.
type QueuedNotificationScheduler struct {
	queue TaskQueue
}

func NewQueuedNotificationScheduler(queue TaskQueue) *QueuedNotificationScheduler {
	return &QueuedNotificationScheduler{queue: queue}
}

func (s *QueuedNotificationScheduler) ScheduleInitialNotification(ctx context.Context, userID, assignmentID string, when time.Time) error {
	return s.schedule(ctx, userID, assignmentID, domain.NotificationInitial, when)
}

func (s *QueuedNotificationScheduler) ScheduleReminderNotification(ctx context.Context, userID, assignmentID string, when time.Time) error {
	return s.schedule(ctx, userID, assignmentID, domain.NotificationReminder, when)
}

func (s *QueuedNotificationScheduler) schedule(ctx context.Context, userID, assignmentID string, kind domain.NotificationKind, when time.Time) error {
	taskID := SanitizeTaskID(fmt.Sprintf("notification-%s-%s-%s-%s",
		userID, assignmentID, kind, when.UTC().Format(taskTimeFormat)))

	whenUTC := when.UTC()
	task := &Task{
		ID:   taskID,
		Kind: TaskKindNotification,
		Payload: NotificationTaskPayload{
			UserID:       userID,
			AssignmentID: assignmentID,
			Kind:         string(kind),
			When:         &whenUTC,
		},
		ScheduleAt: when,
	}

	if _, err := s.queue.CreateTask(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue notification task: %w", err)
	}

	slog.DebugContext(ctx, "notification task enqueued",
		slog.String("task_id", taskID),
		slog.String("user_id", userID),
		slog.String("assignment_id", assignmentID),
		slog.String("kind", string(kind)),
		slog.Time("when", when),
	)
	return nil
}
