package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const schedulingMeterName = "scheduling.service"

type SchedulingMetrics struct {
	assignmentsDispatched metric.Int64Counter
	usersSkipped          metric.Int64Counter
	dispatchFailures      metric.Int64Counter
	runDuration           metric.Float64Histogram
}

func NewSchedulingMetrics() (*SchedulingMetrics, error) {
	meter := otel.Meter(schedulingMeterName)

	assignmentsDispatched, err := meter.Int64Counter(
		"scheduling_assignments_dispatched_total",
		metric.WithDescription("Total number of assignment requests dispatched"),
		metric.WithUnit("{assignment}"),
	)
	if err != nil {
		return nil, err
	}

	usersSkipped, err := meter.Int64Counter(
		"scheduling_users_skipped_total",
		metric.WithDescription("Total number of users skipped because no time window was available"),
		metric.WithUnit("{user}"),
	)
	if err != nil {
		return nil, err
	}

	dispatchFailures, err := meter.Int64Counter(
		"scheduling_dispatch_failures_total",
		metric.WithDescription("Total number of failed assignment dispatches"),
		metric.WithUnit("{assignment}"),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Histogram(
		"scheduling_run_duration_seconds",
		metric.WithDescription("Scheduling run duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
		),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulingMetrics{
		assignmentsDispatched: assignmentsDispatched,
		usersSkipped:          usersSkipped,
		dispatchFailures:      dispatchFailures,
		runDuration:           runDuration,
	}, nil
}

func (m *SchedulingMetrics) RecordScheduleProcessed(ctx context.Context, dispatched, skipped, failed int) {
	if dispatched > 0 {
		m.assignmentsDispatched.Add(ctx, int64(dispatched))
	}
	if skipped > 0 {
		m.usersSkipped.Add(ctx, int64(skipped))
	}
	if failed > 0 {
		m.dispatchFailures.Add(ctx, int64(failed))
	}
}

func (m *SchedulingMetrics) RecordRunDuration(ctx context.Context, duration time.Duration) {
	m.runDuration.Record(ctx, duration.Seconds())
}
