package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const notificationMeterName = "notification.service"

type NotificationMetrics struct {
	deliveries metric.Int64Counter
}

func NewNotificationMetrics() (*NotificationMetrics, error) {
	meter := otel.Meter(notificationMeterName)

	deliveries, err := meter.Int64Counter(
		"notification_deliveries_total",
		metric.WithDescription("Total number of per-channel notification delivery attempts"),
		metric.WithUnit("{delivery}"),
	)
	if err != nil {
		return nil, err
	}

	return &NotificationMetrics{
		deliveries: deliveries,
	}, nil
}

func (m *NotificationMetrics) RecordDelivery(ctx context.Context, channel string, success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.deliveries.Add(ctx, 1, metric.WithAttributes(
		attribute.String("channel", channel),
		attribute.String("outcome", outcome),
	))
}
