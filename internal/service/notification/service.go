package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/studypulse/survey-scheduling/internal/domain"
	"github.com/studypulse/survey-scheduling/internal/observability/metrics"
	"github.com/studypulse/survey-scheduling/internal/observability/tracing"
	"github.com/studypulse/survey-scheduling/internal/publisher"
)

// Service delivers assignment notifications to users across the configured
// channels and records successful deliveries on the assignment.
type Service struct {
	assignmentRepo domain.AssignmentRepository
	surveyRepo     domain.SurveyRepository
	userRepo       domain.UserRepository
	publishers     []publisher.Publisher
	metrics        *metrics.NotificationMetrics
}

func NewService(
	assignmentRepo domain.AssignmentRepository,
	surveyRepo domain.SurveyRepository,
	userRepo domain.UserRepository,
	publishers []publisher.Publisher,
	notificationMetrics *metrics.NotificationMetrics,
) *Service {
	return &Service{
		assignmentRepo: assignmentRepo,
		surveyRepo:     surveyRepo,
		userRepo:       userRepo,
		publishers:     publishers,
		metrics:        notificationMetrics,
	}
}

// NotifyUser sends one notification for an assignment. Assignments that were
// already submitted are silently skipped, which makes redelivery of a queued
// notification task harmless. A delivery is recorded on the assignment when
// at least one channel accepted the message.
func (s *Service) NotifyUser(
	ctx context.Context,
	userID, assignmentID string,
	kind domain.NotificationKind,
	when *time.Time,
) (err error) {
	ctx, span := tracing.StartNotificationSpan(ctx, userID, assignmentID, string(kind))
	delivered := false
	defer func() {
		tracing.RecordNotificationResult(span, delivered, err)
		span.End()
	}()

	user, err := s.userRepo.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	assignment, err := s.assignmentRepo.GetAssignment(ctx, userID, assignmentID)
	if err != nil {
		return fmt.Errorf("failed to get assignment: %w", err)
	}

	if assignment.Submitted() {
		slog.InfoContext(ctx, "assignment already submitted, skipping notification",
			slog.String("user_id", userID),
			slog.String("assignment_id", assignmentID),
			slog.String("kind", string(kind)),
		)
		return nil
	}

	survey, err := s.surveyRepo.GetSurvey(ctx, assignment.SurveyID)
	if err != nil {
		return fmt.Errorf("failed to get survey: %w", err)
	}

	for _, pub := range s.publishers {
		sent, err := pub.Send(ctx, userID, assignmentID, user.NotificationInfo, survey.NotificationInfo, kind)
		if err != nil {
			slog.ErrorContext(ctx, "failed to deliver notification on channel",
				slog.String("channel", pub.Channel()),
				slog.String("user_id", userID),
				slog.String("assignment_id", assignmentID),
				slog.String("error", err.Error()),
			)
			if s.metrics != nil {
				s.metrics.RecordDelivery(ctx, pub.Channel(), false)
			}
			continue
		}
		if !sent {
			continue
		}
		delivered = true
		if s.metrics != nil {
			s.metrics.RecordDelivery(ctx, pub.Channel(), true)
		}
	}

	if !delivered {
		slog.WarnContext(ctx, "notification was not delivered on any channel",
			slog.String("user_id", userID),
			slog.String("assignment_id", assignmentID),
			slog.String("kind", string(kind)),
		)
		return nil
	}

	notifiedAt := time.Now().UTC()
	if when != nil {
		notifiedAt = *when
	}
	if err := s.assignmentRepo.AppendNotified(ctx, userID, assignmentID, notifiedAt); err != nil {
		return fmt.Errorf("failed to record notification on assignment: %w", err)
	}

	slog.InfoContext(ctx, "notification delivered",
		slog.String("user_id", userID),
		slog.String("assignment_id", assignmentID),
		slog.String("kind", string(kind)),
		slog.Time("notified_at", notifiedAt),
	)
	return nil
}
