package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "crmforge"

// StartScreenSpan starts a span for a screen operation such as "deal.list".
func StartScreenSpan(ctx context.Context, entity, op string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, entity+"."+op,
		trace.WithAttributes(
			attribute.String("crm.entity", entity),
			attribute.String("crm.operation", op),
		),
	)
}

// StartDashboardSpan starts a span covering the dashboard fan-out.
func StartDashboardSpan(ctx context.Context) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "dashboard.load")
}
