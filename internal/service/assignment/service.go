package assignment

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/studypulse/survey-scheduling/internal/dispatch"
	"github.com/studypulse/survey-scheduling/internal/domain"
)

// Service creates assignments and requests their notification schedule.
type Service struct {
	notificationScheduler dispatch.NotificationScheduler
	assignmentRepo        domain.AssignmentRepository
	surveyRepo            domain.SurveyRepository
	reminderDelays        []time.Duration
	rnd                   *rand.Rand
}

func NewService(
	notificationScheduler dispatch.NotificationScheduler,
	assignmentRepo domain.AssignmentRepository,
	surveyRepo domain.SurveyRepository,
	reminderDelays []time.Duration,
	rnd *rand.Rand,
) *Service {
	return &Service{
		notificationScheduler: notificationScheduler,
		assignmentRepo:        assignmentRepo,
		surveyRepo:            surveyRepo,
		reminderDelays:        reminderDelays,
		rnd:                   rnd,
	}
}

// CreateAssignment persists a new assignment for the (user, survey) pair and
// schedules its initial notification at refTime plus one reminder per
// configured delay.
//
// Assignment creation and notification scheduling are separate steps; a
// scheduling failure leaves a created-but-unnotified assignment, which is an
// accepted degraded state. Returning an error for it would make the
// at-least-once transport replay the whole creation and produce a duplicate
// assignment instead.
func (s *Service) CreateAssignment(ctx context.Context, userID, surveyID string, refTime time.Time) (string, error) {
	survey, err := s.surveyRepo.GetSurvey(ctx, surveyID)
	if err != nil {
		return "", err
	}

	id, err := s.newAssignmentID()
	if err != nil {
		return "", fmt.Errorf("failed to generate assignment id: %w", err)
	}

	if err := s.assignmentRepo.CreateAssignment(ctx, userID, id, surveyID, survey.Title, refTime); err != nil {
		return "", fmt.Errorf("failed to create assignment: %w", err)
	}

	slog.InfoContext(ctx, "assignment created",
		slog.String("user_id", userID),
		slog.String("survey_id", surveyID),
		slog.String("assignment_id", id),
		slog.Time("created_at", refTime),
	)

	if err := s.notificationScheduler.ScheduleInitialNotification(ctx, userID, id, refTime); err != nil {
		slog.ErrorContext(ctx, "failed to schedule initial notification",
			slog.String("user_id", userID),
			slog.String("assignment_id", id),
			slog.String("error", err.Error()),
		)
	}

	for _, delay := range s.reminderDelays {
		when := refTime.Add(delay)
		if err := s.notificationScheduler.ScheduleReminderNotification(ctx, userID, id, when); err != nil {
			slog.ErrorContext(ctx, "failed to schedule reminder notification",
				slog.String("user_id", userID),
				slog.String("assignment_id", id),
				slog.Time("when", when),
				slog.String("error", err.Error()),
			)
		}
	}

	return id, nil
}

// newAssignmentID draws a UUID from the injected random source so tests with
// a seeded source get reproducible ids.
func (s *Service) newAssignmentID() (string, error) {
	id, err := uuid.NewRandomFromReader(s.rnd)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
