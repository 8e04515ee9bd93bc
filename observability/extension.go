package observability

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/xraph/batchwatch/ext"
	"github.com/xraph/batchwatch/ingest"
	"github.com/xraph/batchwatch/record"
)

// meterName is the instrumentation scope name for extension metrics.
const meterName = "github.com/xraph/batchwatch/observability"

// Compile-time interface checks.
var (
	_ ext.Extension      = (*MetricsExtension)(nil)
	_ ext.RecordStored   = (*MetricsExtension)(nil)
	_ ext.IngestFailed   = (*MetricsExtension)(nil)
	_ ext.CacheRefreshed = (*MetricsExtension)(nil)
	_ ext.CacheCleared   = (*MetricsExtension)(nil)
)

// MetricsExtension records lifecycle metrics through an OTel meter.
// Register it as an extension to track ingestion rates by status, failure
// counts by reason, and cache refresh activity.
type MetricsExtension struct {
	RecordsStored  metric.Int64Counter
	IngestFailed   metric.Int64Counter
	IngestDuration metric.Float64Histogram
	CacheRefreshes metric.Int64Counter
	CacheRecords   metric.Int64Gauge
	CacheClears    metric.Int64Counter
}

// NewMetricsExtension creates a MetricsExtension using the global
// MeterProvider.
func NewMetricsExtension() *MetricsExtension {
	return NewMetricsExtensionWithMeter(otel.Meter(meterName))
}

// NewMetricsExtensionWithMeter creates a MetricsExtension with the provided
// meter. On instrument errors the OTel API returns noop instruments.
func NewMetricsExtensionWithMeter(meter metric.Meter) *MetricsExtension {
	m := &MetricsExtension{}
	m.RecordsStored, _ = meter.Int64Counter("batchwatch.ingest.stored",
		metric.WithDescription("Events stored, by job status"),
		metric.WithUnit("{event}"))
	m.IngestFailed, _ = meter.Int64Counter("batchwatch.ingest.failed",
		metric.WithDescription("Events rejected or not stored, by reason"),
		metric.WithUnit("{event}"))
	m.IngestDuration, _ = meter.Float64Histogram("batchwatch.ingest.duration",
		metric.WithDescription("Time from decode to stored record in seconds"),
		metric.WithUnit("s"))
	m.CacheRefreshes, _ = meter.Int64Counter("batchwatch.cache.refreshes",
		metric.WithDescription("Record snapshot reloads"),
		metric.WithUnit("{refresh}"))
	m.CacheRecords, _ = meter.Int64Gauge("batchwatch.cache.records",
		metric.WithDescription("Records in the latest snapshot"),
		metric.WithUnit("{record}"))
	m.CacheClears, _ = meter.Int64Counter("batchwatch.cache.clears",
		metric.WithDescription("Explicit snapshot clears"),
		metric.WithUnit("{clear}"))
	return m
}

// Name implements ext.Extension.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// ── Ingestion hooks ─────────────────────────────────

// OnRecordStored implements ext.RecordStored.
func (m *MetricsExtension) OnRecordStored(ctx context.Context, r *record.Record, elapsed time.Duration) error {
	attrs := metric.WithAttributes(attribute.String("status", string(r.Status)))
	m.RecordsStored.Add(ctx, 1, attrs)
	m.IngestDuration.Record(ctx, elapsed.Seconds(), attrs)
	return nil
}

// OnIngestFailed implements ext.IngestFailed.
func (m *MetricsExtension) OnIngestFailed(ctx context.Context, _ []byte, err error) error {
	reason := "store"
	if errors.Is(err, ingest.ErrInvalidEvent) {
		reason = "invalid"
	}
	m.IngestFailed.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	return nil
}

// ── Cache hooks ─────────────────────────────────────

// OnCacheRefreshed implements ext.CacheRefreshed.
func (m *MetricsExtension) OnCacheRefreshed(ctx context.Context, records int, _ time.Duration) error {
	m.CacheRefreshes.Add(ctx, 1)
	m.CacheRecords.Record(ctx, int64(records))
	return nil
}

// OnCacheCleared implements ext.CacheCleared.
func (m *MetricsExtension) OnCacheCleared(ctx context.Context) error {
	m.CacheClears.Add(ctx, 1)
	return nil
}
