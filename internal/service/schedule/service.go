package schedule

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/studypulse/survey-scheduling/internal/dispatch"
	"github.com/studypulse/survey-scheduling/internal/domain"
	"github.com/studypulse/survey-scheduling/internal/observability/metrics"
	"github.com/studypulse/survey-scheduling/internal/observability/tracing"
)

// Service expands active schedules into per-user assignment requests with
// randomized instants inside the allowed windows.
type Service struct {
	assignmentScheduler dispatch.AssignmentScheduler
	scheduleRepo        domain.ScheduleRepository
	groupRepo           domain.GroupRepository
	rnd                 *rand.Rand
	schedulingMetrics   *metrics.SchedulingMetrics
	runRecorder         domain.RunRecorder
}

func NewService(
	assignmentScheduler dispatch.AssignmentScheduler,
	scheduleRepo domain.ScheduleRepository,
	groupRepo domain.GroupRepository,
	rnd *rand.Rand,
	schedulingMetrics *metrics.SchedulingMetrics,
	runRecorder domain.RunRecorder,
) *Service {
	return &Service{
		assignmentScheduler: assignmentScheduler,
		scheduleRepo:        scheduleRepo,
		groupRepo:           groupRepo,
		rnd:                 rnd,
		schedulingMetrics:   schedulingMetrics,
		runRecorder:         runRecorder,
	}
}

// ScheduleAssignments processes every active schedule once. A failure on one
// schedule or one user never aborts the rest of the run; unavailable time
// windows are normal skips.
func (s *Service) ScheduleAssignments(ctx context.Context, refTime time.Time) (*RunResult, error) {
	started := time.Now()

	schedules, err := s.scheduleRepo.ListActiveSchedules(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list active schedules",
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	run := &RunResult{
		RunID:     uuid.NewString(),
		RefTime:   refTime,
		Schedules: len(schedules),
		Results:   make([]ScheduleResult, 0, len(schedules)),
	}

	ctx, span := tracing.StartScheduleRunSpan(ctx, run.RunID, refTime)
	defer span.End()

	slog.InfoContext(ctx, "scheduling run started",
		slog.String("run_id", run.RunID),
		slog.Time("ref_time", refTime),
		slog.Int("active_schedules", len(schedules)),
	)

	for _, sched := range schedules {
		result := s.scheduleOne(ctx, sched, refTime)
		run.Dispatched += result.Dispatched
		run.Skipped += result.Skipped
		run.Failed += result.Failed
		run.Results = append(run.Results, result)

		if s.schedulingMetrics != nil {
			s.schedulingMetrics.RecordScheduleProcessed(ctx, result.Dispatched, result.Skipped, result.Failed)
		}
	}

	if s.schedulingMetrics != nil {
		s.schedulingMetrics.RecordRunDuration(ctx, time.Since(started))
	}

	s.recordRun(ctx, run)
	tracing.RecordScheduleRunResult(span, run.Schedules, run.Dispatched, run.Skipped, run.Failed, nil)

	slog.InfoContext(ctx, "scheduling run finished",
		slog.String("run_id", run.RunID),
		slog.Int("dispatched", run.Dispatched),
		slog.Int("skipped", run.Skipped),
		slog.Int("failed", run.Failed),
	)

	return run, nil
}

func (s *Service) scheduleOne(ctx context.Context, sched *domain.Schedule, refTime time.Time) ScheduleResult {
	result := ScheduleResult{
		ScheduleID: sched.ID,
		SurveyID:   sched.SurveyID,
		SameTime:   sched.SameTimeForAllUsers,
	}

	if sched.SameTimeForAllUsers {
		when, ok := s.pickInstant(sched, refTime)
		if !ok {
			slog.WarnContext(ctx, "no valid time window for schedule",
				slog.String("schedule_id", sched.ID),
				slog.Time("ref_time", refTime),
			)
			result.Skipped++
			result.SkipReason = "no time window"
			return result
		}
		s.forEachUser(ctx, sched, func(userID string) {
			s.dispatchOne(ctx, sched, userID, when, &result)
		})
		return result
	}

	s.forEachUser(ctx, sched, func(userID string) {
		when, ok := s.pickInstant(sched, refTime)
		if !ok {
			slog.WarnContext(ctx, "no valid time window for user",
				slog.String("schedule_id", sched.ID),
				slog.String("user_id", userID),
				slog.Time("ref_time", refTime),
			)
			result.Skipped++
			return
		}
		s.dispatchOne(ctx, sched, userID, when, &result)
	})
	if result.Dispatched == 0 && result.Skipped > 0 {
		result.SkipReason = "no time window"
	}
	return result
}

// forEachUser enumerates the schedule's audience: explicit user ids first in
// list order, then every member of every group in list order. Duplicates are
// preserved; a user present twice is scheduled twice. A group that cannot be
// resolved is logged and skipped without aborting the schedule.
func (s *Service) forEachUser(ctx context.Context, sched *domain.Schedule, fn func(userID string)) {
	for _, userID := range sched.UserIDs {
		fn(userID)
	}

	for _, groupID := range sched.GroupIDs {
		group, err := s.groupRepo.GetGroup(ctx, groupID)
		if err != nil {
			slog.WarnContext(ctx, "failed to resolve group, skipping",
				slog.String("schedule_id", sched.ID),
				slog.String("group_id", groupID),
				slog.String("error", err.Error()),
			)
			continue
		}
		for _, userID := range group.UserIDs {
			fn(userID)
		}
	}
}

func (s *Service) pickInstant(sched *domain.Schedule, refTime time.Time) (time.Time, bool) {
	intervals := ExpandWindows(refTime, sched.Days, sched.TimeRange)
	return PickInstant(s.rnd, intervals)
}

func (s *Service) dispatchOne(ctx context.Context, sched *domain.Schedule, userID string, when time.Time, result *ScheduleResult) {
	if err := s.assignmentScheduler.ScheduleAssignment(ctx, userID, sched.SurveyID, when); err != nil {
		slog.ErrorContext(ctx, "failed to dispatch assignment request",
			slog.String("schedule_id", sched.ID),
			slog.String("user_id", userID),
			slog.String("survey_id", sched.SurveyID),
			slog.Time("when", when),
			slog.String("error", err.Error()),
		)
		result.Failed++
		return
	}

	slog.DebugContext(ctx, "assignment request dispatched",
		slog.String("schedule_id", sched.ID),
		slog.String("user_id", userID),
		slog.String("survey_id", sched.SurveyID),
		slog.Time("when", when),
	)
	result.Dispatched++
}

func (s *Service) recordRun(ctx context.Context, run *RunResult) {
	if s.runRecorder == nil {
		return
	}

	records := make([]domain.ScheduleRunRecord, 0, len(run.Results))
	for _, result := range run.Results {
		records = append(records, domain.ScheduleRunRecord{
			RunID:      run.RunID,
			RunTime:    run.RefTime,
			ScheduleID: result.ScheduleID,
			SurveyID:   result.SurveyID,
			Dispatched: result.Dispatched,
			Skipped:    result.Skipped,
			Failed:     result.Failed,
			SameTime:   result.SameTime,
		})
	}

	if err := s.runRecorder.RecordScheduleResults(ctx, records); err != nil {
		slog.WarnContext(ctx, "failed to record scheduling run results",
			slog.String("run_id", run.RunID),
			slog.String("error", err.Error()),
		)
	}
}
