package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const schedulingTracerName = "github.com/studypulse/survey-scheduling/internal/service/schedule"

func SchedulingTracer() trace.Tracer {
	return otel.Tracer(schedulingTracerName)
}

func StartScheduleRunSpan(ctx context.Context, runID string, refTime time.Time) (context.Context, trace.Span) {
	return SchedulingTracer().Start(ctx, "scheduling.run",
		trace.WithAttributes(
			attribute.String("run_id", runID),
			attribute.String("run.ref_time", refTime.Format(time.RFC3339)),
		),
	)
}

func RecordScheduleRunResult(span trace.Span, schedules, dispatched, skipped, failed int, err error) {
	span.SetAttributes(
		attribute.Int("run.schedules", schedules),
		attribute.Int("run.dispatched_count", dispatched),
		attribute.Int("run.skipped_count", skipped),
		attribute.Int("run.failed_count", failed),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}

func StartNotificationSpan(ctx context.Context, userID, assignmentID, kind string) (context.Context, trace.Span) {
	return SchedulingTracer().Start(ctx, "notification.deliver",
		trace.WithAttributes(
			attribute.String("user_id", userID),
			attribute.String("assignment_id", assignmentID),
			attribute.String("notification.kind", kind),
		),
	)
}

func RecordNotificationResult(span trace.Span, delivered bool, err error) {
	span.SetAttributes(attribute.Bool("notification.delivered", delivered))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}
