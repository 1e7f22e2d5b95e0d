package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/studypulse/survey-scheduling/internal/domain"
)

func TestAssignmentRepository_ExpirationFixedAtCreation(t *testing.T) {
	ctx := context.Background()
	repo := NewAssignmentRepository(1 * time.Hour)

	createdAt := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	if err := repo.CreateAssignment(ctx, "user-1", "a-1", "survey-1", "Daily Survey", createdAt); err != nil {
		t.Fatalf("CreateAssignment returned error: %v", err)
	}

	assignment, err := repo.GetAssignment(ctx, "user-1", "a-1")
	if err != nil {
		t.Fatalf("GetAssignment returned error: %v", err)
	}

	wantExpired := createdAt.Add(1 * time.Hour)
	if !assignment.ExpiredAt.Equal(wantExpired) {
		t.Errorf("ExpiredAt = %v, want %v", assignment.ExpiredAt, wantExpired)
	}
	if assignment.Title != "Daily Survey" {
		t.Errorf("Title = %q, want %q", assignment.Title, "Daily Survey")
	}
}

func TestAssignmentRepository_GetIsKeyedByUser(t *testing.T) {
	ctx := context.Background()
	repo := NewAssignmentRepository(0)

	createdAt := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	if err := repo.CreateAssignment(ctx, "user-1", "a-1", "survey-1", "Survey", createdAt); err != nil {
		t.Fatalf("CreateAssignment returned error: %v", err)
	}

	_, err := repo.GetAssignment(ctx, "user-2", "a-1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected NotFound for cross-user access, got %v", err)
	}
}

func TestAssignmentRepository_SubmitBoundary(t *testing.T) {
	createdAt := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		when     time.Time
		wantLate bool
	}{
		{name: "just before expiration", when: createdAt.Add(59 * time.Minute), wantLate: false},
		{name: "exactly at expiration", when: createdAt.Add(1 * time.Hour), wantLate: false},
		{name: "after expiration", when: createdAt.Add(61 * time.Minute), wantLate: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := NewAssignmentRepository(1 * time.Hour)
			if err := repo.CreateAssignment(ctx, "user-1", "a-1", "survey-1", "Survey", createdAt); err != nil {
				t.Fatalf("CreateAssignment returned error: %v", err)
			}

			answers := []domain.Answer{{Kind: domain.AnswerSingleChoice, SelectedIndex: intPtr(1)}}
			err := repo.SubmitAssignment(ctx, "user-1", "a-1", tt.when, answers)

			var tooLate domain.SubmissionTooLate
			if tt.wantLate {
				if !errors.As(err, &tooLate) {
					t.Fatalf("expected SubmissionTooLate, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SubmitAssignment returned error: %v", err)
			}

			assignment, err := repo.GetAssignment(ctx, "user-1", "a-1")
			if err != nil {
				t.Fatalf("GetAssignment returned error: %v", err)
			}
			if assignment.SubmittedAt == nil || !assignment.SubmittedAt.Equal(tt.when) {
				t.Errorf("SubmittedAt = %v, want %v", assignment.SubmittedAt, tt.when)
			}
		})
	}
}

func TestAssignmentRepository_PendingOrdering(t *testing.T) {
	ctx := context.Background()
	repo := NewAssignmentRepository(1 * time.Hour)

	base := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"a-old", "a-mid", "a-new"} {
		createdAt := base.Add(time.Duration(i) * time.Minute)
		if err := repo.CreateAssignment(ctx, "user-1", id, "survey-1", "Survey", createdAt); err != nil {
			t.Fatalf("CreateAssignment returned error: %v", err)
		}
	}

	refTime := base.Add(5 * time.Minute)
	pending, err := repo.ListPendingAssignments(ctx, "user-1", refTime)
	if err != nil {
		t.Fatalf("ListPendingAssignments returned error: %v", err)
	}

	wantOrder := []string{"a-new", "a-mid", "a-old"}
	if len(pending) != len(wantOrder) {
		t.Fatalf("got %d pending assignments, want %d", len(pending), len(wantOrder))
	}
	for i, want := range wantOrder {
		if pending[i].ID != want {
			t.Errorf("pending[%d].ID = %q, want %q", i, pending[i].ID, want)
		}
	}

	next, err := repo.NextPendingAssignment(ctx, "user-1", refTime)
	if err != nil {
		t.Fatalf("NextPendingAssignment returned error: %v", err)
	}
	if next == nil || next.ID != "a-old" {
		t.Errorf("NextPendingAssignment = %+v, want a-old", next)
	}
}

func TestAssignmentRepository_PendingExcludesSubmittedAndExpired(t *testing.T) {
	ctx := context.Background()
	repo := NewAssignmentRepository(1 * time.Hour)

	base := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	if err := repo.CreateAssignment(ctx, "user-1", "a-expired", "survey-1", "Survey", base.Add(-2*time.Hour)); err != nil {
		t.Fatalf("CreateAssignment returned error: %v", err)
	}
	if err := repo.CreateAssignment(ctx, "user-1", "a-submitted", "survey-1", "Survey", base); err != nil {
		t.Fatalf("CreateAssignment returned error: %v", err)
	}
	if err := repo.CreateAssignment(ctx, "user-1", "a-open", "survey-1", "Survey", base); err != nil {
		t.Fatalf("CreateAssignment returned error: %v", err)
	}
	if err := repo.SubmitAssignment(ctx, "user-1", "a-submitted", base.Add(time.Minute), nil); err != nil {
		t.Fatalf("SubmitAssignment returned error: %v", err)
	}

	pending, err := repo.ListPendingAssignments(ctx, "user-1", base.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("ListPendingAssignments returned error: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "a-open" {
		t.Errorf("pending = %+v, want only a-open", pending)
	}

	count, err := repo.CountNonAnsweredAssignments(ctx, "user-1")
	if err != nil {
		t.Fatalf("CountNonAnsweredAssignments returned error: %v", err)
	}
	// Expired-but-unsubmitted assignments still count as non-answered.
	if count != 2 {
		t.Errorf("CountNonAnsweredAssignments = %d, want 2", count)
	}

	total, err := repo.CountAssignments(ctx, "user-1")
	if err != nil {
		t.Fatalf("CountAssignments returned error: %v", err)
	}
	if total != 3 {
		t.Errorf("CountAssignments = %d, want 3", total)
	}
}

func TestAssignmentRepository_AppendsAreOrdered(t *testing.T) {
	ctx := context.Background()
	repo := NewAssignmentRepository(0)

	base := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	if err := repo.CreateAssignment(ctx, "user-1", "a-1", "survey-1", "Survey", base); err != nil {
		t.Fatalf("CreateAssignment returned error: %v", err)
	}

	first := base.Add(1 * time.Minute)
	second := base.Add(2 * time.Minute)
	if err := repo.AppendNotified(ctx, "user-1", "a-1", first); err != nil {
		t.Fatalf("AppendNotified returned error: %v", err)
	}
	if err := repo.AppendNotified(ctx, "user-1", "a-1", second); err != nil {
		t.Fatalf("AppendNotified returned error: %v", err)
	}

	assignment, err := repo.GetAssignment(ctx, "user-1", "a-1")
	if err != nil {
		t.Fatalf("GetAssignment returned error: %v", err)
	}
	if len(assignment.NotifiedAt) != 2 ||
		!assignment.NotifiedAt[0].Equal(first) ||
		!assignment.NotifiedAt[1].Equal(second) {
		t.Errorf("NotifiedAt = %v, want [%v %v]", assignment.NotifiedAt, first, second)
	}
}

func intPtr(v int) *int { return &v }
