package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/studypulse/survey-scheduling/internal/domain"
)

// ScheduleRepository is an in-memory implementation for tests and local
// runs. Listings are ordered by schedule id for stable iteration.
type ScheduleRepository struct {
	mu        sync.RWMutex
	schedules map[string]*domain.Schedule
}

func NewScheduleRepository() *ScheduleRepository {
	return &ScheduleRepository{
		schedules: make(map[string]*domain.Schedule),
	}
}

func (r *ScheduleRepository) GetSchedule(_ context.Context, id string) (*domain.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schedule, ok := r.schedules[id]
	if !ok {
		return nil, domain.ScheduleNotFound{ScheduleID: id}
	}
	copied := *schedule
	return &copied, nil
}

func (r *ScheduleRepository) CreateSchedule(_ context.Context, schedule *domain.Schedule) error {
	if err := schedule.TimeRange.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *schedule
	r.schedules[schedule.ID] = &copied
	return nil
}

func (r *ScheduleRepository) DeleteSchedule(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.schedules[id]; !ok {
		return domain.ScheduleNotFound{ScheduleID: id}
	}
	delete(r.schedules, id)
	return nil
}

func (r *ScheduleRepository) ListSchedules(_ context.Context) ([]*domain.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedByID(func(*domain.Schedule) bool { return true }), nil
}

func (r *ScheduleRepository) ListActiveSchedules(_ context.Context) ([]*domain.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedByID(func(s *domain.Schedule) bool { return s.Active }), nil
}

func (r *ScheduleRepository) sortedByID(keep func(*domain.Schedule) bool) []*domain.Schedule {
	schedules := make([]*domain.Schedule, 0, len(r.schedules))
	for _, schedule := range r.schedules {
		if keep(schedule) {
			copied := *schedule
			schedules = append(schedules, &copied)
		}
	}
	sort.Slice(schedules, func(i, j int) bool {
		return schedules[i].ID < schedules[j].ID
	})
	return schedules
}
