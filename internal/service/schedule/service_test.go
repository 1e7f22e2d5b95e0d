package schedule

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/studypulse/survey-scheduling/internal/dispatch"
	"github.com/studypulse/survey-scheduling/internal/domain"
	"github.com/studypulse/survey-scheduling/internal/infra/repository/memory"
)

type failingAssignmentScheduler struct{}

func (failingAssignmentScheduler) ScheduleAssignment(context.Context, string, string, time.Time) error {
	return errors.New("queue unavailable")
}

func newTestService(t *testing.T, scheduler dispatch.AssignmentScheduler, seed int64, schedules []*domain.Schedule, groups []*domain.Group) *Service {
	t.Helper()
	ctx := context.Background()

	scheduleRepo := memory.NewScheduleRepository()
	for _, sched := range schedules {
		if err := scheduleRepo.CreateSchedule(ctx, sched); err != nil {
			t.Fatalf("failed to create schedule: %v", err)
		}
	}

	groupRepo := memory.NewGroupRepository()
	for _, group := range groups {
		if err := groupRepo.CreateGroup(ctx, group); err != nil {
			t.Fatalf("failed to create group: %v", err)
		}
	}

	return NewService(scheduler, scheduleRepo, groupRepo, rand.New(rand.NewSource(seed)), nil, nil)
}

func weekdayWindow() (time.Time, domain.TimeRange) {
	refTime := time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC)
	timeRange := domain.TimeRange{
		Start: domain.NewTimeOfDay(10, 0, 0),
		End:   domain.NewTimeOfDay(14, 0, 0),
	}
	return refTime, timeRange
}

func TestScheduleAssignmentsAudienceOrder(t *testing.T) {
	refTime, timeRange := weekdayWindow()
	sched := &domain.Schedule{
		ID:        "sched-1",
		SurveyID:  "survey-1",
		Active:    true,
		Days:      []domain.Day{domain.Wednesday},
		TimeRange: timeRange,
		UserIDs:   []string{"user-1"},
		GroupIDs:  []string{"group-1"},
	}
	group := &domain.Group{ID: "group-1", UserIDs: []string{"user-2", "user-1"}}

	recorder := &dispatch.RecordingAssignmentScheduler{}
	svc := newTestService(t, recorder, 1, []*domain.Schedule{sched}, []*domain.Group{group})

	run, err := svc.ScheduleAssignments(context.Background(), refTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Explicit users first, then group members in list order; the duplicate
	// user-1 is scheduled twice.
	wantUsers := []string{"user-1", "user-2", "user-1"}
	if len(recorder.Recorded) != len(wantUsers) {
		t.Fatalf("expected %d dispatches, got %d", len(wantUsers), len(recorder.Recorded))
	}
	for i, want := range wantUsers {
		if recorder.Recorded[i].UserID != want {
			t.Errorf("dispatch %d: expected user %s, got %s", i, want, recorder.Recorded[i].UserID)
		}
		if recorder.Recorded[i].SurveyID != "survey-1" {
			t.Errorf("dispatch %d: expected survey-1, got %s", i, recorder.Recorded[i].SurveyID)
		}
	}

	if run.Dispatched != 3 {
		t.Errorf("expected 3 dispatched, got %d", run.Dispatched)
	}
	if run.Skipped != 0 || run.Failed != 0 {
		t.Errorf("expected no skips or failures, got %d skipped, %d failed", run.Skipped, run.Failed)
	}
	if run.Results[0].SkipReason != "" {
		t.Errorf("expected no skip reason on a dispatching schedule, got %q", run.Results[0].SkipReason)
	}
}

func TestScheduleAssignmentsDeterministicWithSeed(t *testing.T) {
	refTime, timeRange := weekdayWindow()
	sched := &domain.Schedule{
		ID:        "sched-1",
		SurveyID:  "survey-1",
		Active:    true,
		Days:      []domain.Day{domain.Wednesday, domain.Friday},
		TimeRange: timeRange,
		UserIDs:   []string{"user-1", "user-2"},
	}

	var instants [2][]time.Time
	for attempt := 0; attempt < 2; attempt++ {
		recorder := &dispatch.RecordingAssignmentScheduler{}
		svc := newTestService(t, recorder, 42, []*domain.Schedule{sched}, nil)

		if _, err := svc.ScheduleAssignments(context.Background(), refTime); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, rec := range recorder.Recorded {
			instants[attempt] = append(instants[attempt], rec.When)
		}
	}

	if len(instants[0]) != 2 || len(instants[1]) != 2 {
		t.Fatalf("expected 2 dispatches per run, got %d and %d", len(instants[0]), len(instants[1]))
	}
	for i := range instants[0] {
		if !instants[0][i].Equal(instants[1][i]) {
			t.Errorf("dispatch %d: same seed produced different instants: %v vs %v",
				i, instants[0][i], instants[1][i])
		}
	}
}

func TestScheduleAssignmentsSameTimeForAllUsers(t *testing.T) {
	refTime, timeRange := weekdayWindow()
	sched := &domain.Schedule{
		ID:                  "sched-1",
		SurveyID:            "survey-1",
		Active:              true,
		Days:                []domain.Day{domain.Wednesday},
		TimeRange:           timeRange,
		UserIDs:             []string{"user-1", "user-2", "user-3"},
		SameTimeForAllUsers: true,
	}

	recorder := &dispatch.RecordingAssignmentScheduler{}
	svc := newTestService(t, recorder, 7, []*domain.Schedule{sched}, nil)

	if _, err := svc.ScheduleAssignments(context.Background(), refTime); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(recorder.Recorded) != 3 {
		t.Fatalf("expected 3 dispatches, got %d", len(recorder.Recorded))
	}
	for i := 1; i < len(recorder.Recorded); i++ {
		if !recorder.Recorded[i].When.Equal(recorder.Recorded[0].When) {
			t.Errorf("expected identical instants, got %v and %v",
				recorder.Recorded[0].When, recorder.Recorded[i].When)
		}
	}
}

func TestScheduleAssignmentsNoWindowSkips(t *testing.T) {
	// Monday's window lies entirely before the Wednesday reference.
	refTime, timeRange := weekdayWindow()
	sched := &domain.Schedule{
		ID:        "sched-1",
		SurveyID:  "survey-1",
		Active:    true,
		Days:      []domain.Day{domain.Monday},
		TimeRange: timeRange,
		UserIDs:   []string{"user-1"},
	}

	recorder := &dispatch.RecordingAssignmentScheduler{}
	svc := newTestService(t, recorder, 1, []*domain.Schedule{sched}, nil)

	run, err := svc.ScheduleAssignments(context.Background(), refTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(recorder.Recorded) != 0 {
		t.Errorf("expected no dispatches, got %d", len(recorder.Recorded))
	}
	if run.Skipped != 1 {
		t.Errorf("expected 1 skip, got %d", run.Skipped)
	}
	if len(run.Results) != 1 || run.Results[0].SkipReason == "" {
		t.Errorf("expected a skip reason on the schedule result: %+v", run.Results)
	}
}

func TestScheduleAssignmentsIgnoresInactive(t *testing.T) {
	refTime, timeRange := weekdayWindow()
	sched := &domain.Schedule{
		ID:        "sched-1",
		SurveyID:  "survey-1",
		Active:    false,
		Days:      []domain.Day{domain.Wednesday},
		TimeRange: timeRange,
		UserIDs:   []string{"user-1"},
	}

	recorder := &dispatch.RecordingAssignmentScheduler{}
	svc := newTestService(t, recorder, 1, []*domain.Schedule{sched}, nil)

	run, err := svc.ScheduleAssignments(context.Background(), refTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if run.Schedules != 0 {
		t.Errorf("expected 0 processed schedules, got %d", run.Schedules)
	}
	if len(recorder.Recorded) != 0 {
		t.Errorf("expected no dispatches, got %d", len(recorder.Recorded))
	}
}

func TestScheduleAssignmentsDispatchFailureIsContained(t *testing.T) {
	refTime, timeRange := weekdayWindow()
	schedules := []*domain.Schedule{
		{
			ID:        "sched-1",
			SurveyID:  "survey-1",
			Active:    true,
			Days:      []domain.Day{domain.Wednesday},
			TimeRange: timeRange,
			UserIDs:   []string{"user-1", "user-2"},
		},
	}

	svc := newTestService(t, failingAssignmentScheduler{}, 1, schedules, nil)

	run, err := svc.ScheduleAssignments(context.Background(), refTime)
	if err != nil {
		t.Fatalf("expected run to survive dispatch failures, got %v", err)
	}

	if run.Failed != 2 {
		t.Errorf("expected 2 failures, got %d", run.Failed)
	}
	if run.Dispatched != 0 {
		t.Errorf("expected 0 dispatched, got %d", run.Dispatched)
	}
}

func TestScheduleAssignmentsUnresolvableGroupSkipped(t *testing.T) {
	refTime, timeRange := weekdayWindow()
	sched := &domain.Schedule{
		ID:        "sched-1",
		SurveyID:  "survey-1",
		Active:    true,
		Days:      []domain.Day{domain.Wednesday},
		TimeRange: timeRange,
		UserIDs:   []string{"user-1"},
		GroupIDs:  []string{"missing-group"},
	}

	recorder := &dispatch.RecordingAssignmentScheduler{}
	svc := newTestService(t, recorder, 1, []*domain.Schedule{sched}, nil)

	run, err := svc.ScheduleAssignments(context.Background(), refTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(recorder.Recorded) != 1 || recorder.Recorded[0].UserID != "user-1" {
		t.Errorf("expected only the explicit user to be scheduled, got %+v", recorder.Recorded)
	}
	if run.Failed != 0 {
		t.Errorf("expected no failures for an unresolvable group, got %d", run.Failed)
	}
}
