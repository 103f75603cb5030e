package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// WrapJobExecution runs fn inside a span scoped to a single optimization job
// (§4.G worker pool execution), tagging it with job attributes and recording
// the outcome.
func WrapJobExecution(ctx context.Context, jobID, trigger string, priority int, fn func(ctx context.Context) error) error {
	ctx, span := StartSpan(ctx, "job.execute",
		trace.WithSpanKind(trace.SpanKindInternal),
		WithAttributes(JobAttributes(jobID, trigger, priority)...),
	)
	defer span.End()

	err := fn(ctx)

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}

	return err
}

// WrapDispatch runs fn inside a span scoped to a single dispatcher delivery
// attempt (§4.J), tagging it with the event kind and attempt number.
func WrapDispatch(ctx context.Context, eventKind string, attempt int, fn func(ctx context.Context) error) error {
	ctx, span := StartSpan(ctx, "dispatch.deliver",
		trace.WithSpanKind(trace.SpanKindProducer),
		WithAttributes(
			attribute.String("dispatch.event_kind", eventKind),
			attribute.Int("dispatch.attempt", attempt),
		),
	)
	defer span.End()

	err := fn(ctx)

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}

	return err
}
