package ext

import (
	"context"
	"time"

	"github.com/xraph/batchwatch/record"
)

// Extension is the base interface all extensions must implement.
type Extension interface {
	// Name returns a unique human-readable name for the extension.
	Name() string
}

// ──────────────────────────────────────────────────
// Ingestion hooks
// ──────────────────────────────────────────────────

// RecordStored is called after an event's record has been written.
type RecordStored interface {
	OnRecordStored(ctx context.Context, r *record.Record, elapsed time.Duration) error
}

// IngestFailed is called when an event is invalid or the write fails.
type IngestFailed interface {
	OnIngestFailed(ctx context.Context, payload []byte, err error) error
}

// ──────────────────────────────────────────────────
// Cache hooks
// ──────────────────────────────────────────────────

// CacheRefreshed is called after the record snapshot is reloaded.
type CacheRefreshed interface {
	OnCacheRefreshed(ctx context.Context, records int, elapsed time.Duration) error
}

// CacheCleared is called after the record snapshot is dropped.
type CacheCleared interface {
	OnCacheCleared(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Other lifecycle hooks
// ──────────────────────────────────────────────────

// Shutdown is called during graceful shutdown.
type Shutdown interface {
	OnShutdown(ctx context.Context) error
}
