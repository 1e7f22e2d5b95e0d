package domain

import "context"

type ScheduleRepository interface {
	GetSchedule(ctx context.Context, id string) (*Schedule, error)
	CreateSchedule(ctx context.Context, schedule *Schedule) error
	DeleteSchedule(ctx context.Context, id string) error
	ListSchedules(ctx context.Context) ([]*Schedule, error)
	// ListActiveSchedules returns schedules with the active flag set, in
	// repository-defined order.
	ListActiveSchedules(ctx context.Context) ([]*Schedule, error)
}
