package middleware

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name for batchwatch metrics.
const meterName = "github.com/xraph/batchwatch"

// Metrics returns middleware that records per-operation store metrics using
// the global OTel MeterProvider. If no MeterProvider is configured, noop
// instruments are used and this middleware becomes a pass-through.
//
// Instruments:
//   - batchwatch.store.duration (Float64Histogram): call time in seconds,
//     with attributes: op, status ("ok" or "error")
//   - batchwatch.store.operations (Int64Counter): total calls,
//     with attributes: op, status ("ok" or "error")
func Metrics() Middleware {
	meter := otel.Meter(meterName)
	return MetricsWithMeter(meter)
}

// MetricsWithMeter returns metrics middleware using the provided meter.
// This variant allows injecting a specific MeterProvider for testing.
func MetricsWithMeter(meter metric.Meter) Middleware {
	// OTel instruments are safe for concurrent use. On error, the API
	// returns noop instruments.
	duration, dErr := meter.Float64Histogram(
		"batchwatch.store.duration",
		metric.WithDescription("Duration of store calls in seconds"),
		metric.WithUnit("s"),
	)
	_ = dErr

	operations, oErr := meter.Int64Counter(
		"batchwatch.store.operations",
		metric.WithDescription("Total number of store calls"),
		metric.WithUnit("{call}"),
	)
	_ = oErr

	return func(ctx context.Context, op *Op, next Handler) error {
		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start).Seconds()

		status := "ok"
		if err != nil {
			status = "error"
		}

		attrs := metric.WithAttributes(
			attribute.String("op", op.Name),
			attribute.String("status", status),
		)

		duration.Record(ctx, elapsed, attrs)
		operations.Add(ctx, 1, attrs)

		return err
	}
}
