package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/studypulse/survey-scheduling/internal/domain"
	"github.com/studypulse/survey-scheduling/internal/infra/repository/memory"
	"github.com/studypulse/survey-scheduling/internal/publisher"
)

type fixture struct {
	assignmentRepo *memory.AssignmentRepository
	svc            *Service
	assignmentID   string
	createdAt      time.Time
}

func newFixture(t *testing.T, publishers []publisher.Publisher) *fixture {
	t.Helper()
	ctx := context.Background()

	userRepo := memory.NewUserRepository()
	if err := userRepo.CreateUser(ctx, &domain.User{
		ID: "user-1",
		NotificationInfo: domain.UserNotificationInfo{
			Devices: []domain.Device{{Token: "ExponentPushToken[abc]", OS: domain.DeviceAndroid}},
		},
	}); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	surveyRepo := memory.NewSurveyRepository()
	surveyRepo.AddSurvey(&domain.Survey{
		ID:    "survey-1",
		Title: "Daily Check-in",
		NotificationInfo: domain.SurveyNotificationInfo{
			Push: &domain.ChannelMessages{
				Initial:  domain.NotificationMessage{Title: "New survey", Body: "A survey is waiting"},
				Reminder: domain.NotificationMessage{Title: "Reminder", Body: "Still waiting"},
			},
		},
	})

	assignmentRepo := memory.NewAssignmentRepository(time.Hour)
	createdAt := time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC)
	if err := assignmentRepo.CreateAssignment(ctx, "user-1", "assignment-1", "survey-1", "Daily Check-in", createdAt); err != nil {
		t.Fatalf("failed to create assignment: %v", err)
	}

	return &fixture{
		assignmentRepo: assignmentRepo,
		svc:            NewService(assignmentRepo, surveyRepo, userRepo, publishers, nil),
		assignmentID:   "assignment-1",
		createdAt:      createdAt,
	}
}

func TestNotifyUserRecordsDelivery(t *testing.T) {
	ctx := context.Background()
	pub := &publisher.RecordingPublisher{Result: true}
	f := newFixture(t, []publisher.Publisher{pub})

	when := f.createdAt.Add(5 * time.Minute)
	if err := f.svc.NotifyUser(ctx, "user-1", f.assignmentID, domain.NotificationInitial, &when); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(pub.Recorded) != 1 {
		t.Fatalf("expected 1 send, got %d", len(pub.Recorded))
	}
	if pub.Recorded[0].Kind != domain.NotificationInitial {
		t.Errorf("expected initial kind, got %s", pub.Recorded[0].Kind)
	}

	assignment, err := f.assignmentRepo.GetAssignment(ctx, "user-1", f.assignmentID)
	if err != nil {
		t.Fatalf("failed to get assignment: %v", err)
	}
	if len(assignment.NotifiedAt) != 1 || !assignment.NotifiedAt[0].Equal(when) {
		t.Errorf("expected notified_at [%v], got %v", when, assignment.NotifiedAt)
	}
}

func TestNotifyUserSkipsSubmittedAssignment(t *testing.T) {
	ctx := context.Background()
	pub := &publisher.RecordingPublisher{Result: true}
	f := newFixture(t, []publisher.Publisher{pub})

	submitAt := f.createdAt.Add(10 * time.Minute)
	if err := f.assignmentRepo.SubmitAssignment(ctx, "user-1", f.assignmentID, submitAt, nil); err != nil {
		t.Fatalf("failed to submit assignment: %v", err)
	}

	if err := f.svc.NotifyUser(ctx, "user-1", f.assignmentID, domain.NotificationReminder, nil); err != nil {
		t.Fatalf("expected submitted assignment to be a silent skip, got %v", err)
	}

	if len(pub.Recorded) != 0 {
		t.Errorf("expected no sends for a submitted assignment, got %d", len(pub.Recorded))
	}
}

func TestNotifyUserNoChannelAccepted(t *testing.T) {
	ctx := context.Background()
	pub := &publisher.RecordingPublisher{Result: false}
	f := newFixture(t, []publisher.Publisher{pub})

	if err := f.svc.NotifyUser(ctx, "user-1", f.assignmentID, domain.NotificationInitial, nil); err != nil {
		t.Fatalf("expected undeliverable notification to not be an error, got %v", err)
	}

	assignment, err := f.assignmentRepo.GetAssignment(ctx, "user-1", f.assignmentID)
	if err != nil {
		t.Fatalf("failed to get assignment: %v", err)
	}
	if len(assignment.NotifiedAt) != 0 {
		t.Errorf("expected no notified_at entries, got %v", assignment.NotifiedAt)
	}
}

func TestNotifyUserChannelFailureIsContained(t *testing.T) {
	ctx := context.Background()
	failing := &publisher.RecordingPublisher{ChannelName: publisher.ChannelEmail, Err: errors.New("smtp down")}
	succeeding := &publisher.RecordingPublisher{ChannelName: publisher.ChannelPush, Result: true}
	f := newFixture(t, []publisher.Publisher{failing, succeeding})

	when := f.createdAt.Add(time.Minute)
	if err := f.svc.NotifyUser(ctx, "user-1", f.assignmentID, domain.NotificationInitial, &when); err != nil {
		t.Fatalf("expected failure on one channel to be contained, got %v", err)
	}

	if len(succeeding.Recorded) != 1 {
		t.Errorf("expected the remaining channel to be tried, got %d sends", len(succeeding.Recorded))
	}

	assignment, err := f.assignmentRepo.GetAssignment(ctx, "user-1", f.assignmentID)
	if err != nil {
		t.Fatalf("failed to get assignment: %v", err)
	}
	if len(assignment.NotifiedAt) != 1 {
		t.Errorf("expected 1 notified_at entry, got %v", assignment.NotifiedAt)
	}
}

func TestNotifyUserUnknownUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, []publisher.Publisher{&publisher.RecordingPublisher{Result: true}})

	err := f.svc.NotifyUser(ctx, "missing-user", f.assignmentID, domain.NotificationInitial, nil)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNotifyUserUnknownAssignment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, []publisher.Publisher{&publisher.RecordingPublisher{Result: true}})

	err := f.svc.NotifyUser(ctx, "user-1", "missing-assignment", domain.NotificationInitial, nil)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
