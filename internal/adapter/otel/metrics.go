package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "crmforge"

// Metrics holds the CRM metric instruments.
type Metrics struct {
	Mutations         metric.Int64Counter
	EventsPublished   metric.Int64Counter
	EventsFailed      metric.Int64Counter
	DashboardDuration metric.Float64Histogram
}

// NewMetrics creates all metric instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.Mutations, err = meter.Int64Counter("crmforge.mutations",
		metric.WithDescription("Number of successful CRM writes"))
	if err != nil {
		return nil, err
	}

	m.EventsPublished, err = meter.Int64Counter("crmforge.events.published",
		metric.WithDescription("Number of change events published"))
	if err != nil {
		return nil, err
	}

	m.EventsFailed, err = meter.Int64Counter("crmforge.events.failed",
		metric.WithDescription("Number of change events that could not be published"))
	if err != nil {
		return nil, err
	}

	m.DashboardDuration, err = meter.Float64Histogram("crmforge.dashboard.duration_seconds",
		metric.WithDescription("Dashboard load duration in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordMutation implements service.Recorder.
func (m *Metrics) RecordMutation(ctx context.Context, entity, action string) {
	m.Mutations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", entity),
		attribute.String("action", action),
	))
}

// RecordEvent implements service.Recorder.
func (m *Metrics) RecordEvent(ctx context.Context, subject string, err error) {
	attrs := metric.WithAttributes(attribute.String("subject", subject))
	if err != nil {
		m.EventsFailed.Add(ctx, 1, attrs)
		return
	}
	m.EventsPublished.Add(ctx, 1, attrs)
}

// RecordDashboard implements service.Recorder.
func (m *Metrics) RecordDashboard(ctx context.Context, seconds float64) {
	m.DashboardDuration.Record(ctx, seconds)
}
