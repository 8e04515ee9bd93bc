package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope name for batchwatch tracing.
const tracerName = "github.com/xraph/batchwatch"

// Tracing returns middleware that wraps each store call in an OpenTelemetry
// span named batchwatch.store.<op>. If no TracerProvider is configured
// globally, the default noop tracer is used.
//
// Span attributes include batchwatch.op, and batchwatch.job_id or
// batchwatch.cursor and batchwatch.limit where they apply. On error, the
// span status is set to codes.Error with the error message.
func Tracing() Middleware {
	tracer := otel.Tracer(tracerName)
	return TracingWithTracer(tracer)
}

// TracingWithTracer returns tracing middleware using the provided tracer.
func TracingWithTracer(tracer trace.Tracer) Middleware {
	return func(ctx context.Context, op *Op, next Handler) error {
		attrs := []attribute.KeyValue{attribute.String("batchwatch.op", op.Name)}
		if op.JobID != "" {
			attrs = append(attrs, attribute.String("batchwatch.job_id", op.JobID))
		}
		if op.Name == OpScanPage {
			attrs = append(attrs,
				attribute.String("batchwatch.cursor", op.Cursor),
				attribute.Int("batchwatch.limit", op.Limit),
			)
		}

		ctx, span := tracer.Start(ctx, "batchwatch.store."+op.Name,
			trace.WithAttributes(attrs...),
			trace.WithSpanKind(trace.SpanKindClient),
		)
		defer span.End()

		err := next(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}

		return err
	}
}
