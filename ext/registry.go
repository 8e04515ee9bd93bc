package ext

import (
	"context"
	"log/slog"
	"time"

	"github.com/xraph/batchwatch/record"
)

// Named entry types pair a hook implementation with the extension name
// captured at registration time. This avoids type-asserting back to
// Extension inside the emit methods.
type recordStoredEntry struct {
	name string
	hook RecordStored
}

type ingestFailedEntry struct {
	name string
	hook IngestFailed
}

type cacheRefreshedEntry struct {
	name string
	hook CacheRefreshed
}

type cacheClearedEntry struct {
	name string
	hook CacheCleared
}

type shutdownEntry struct {
	name string
	hook Shutdown
}

// Registry holds registered extensions and dispatches lifecycle events
// to them. It type-caches extensions at registration time so emit calls
// iterate only over extensions that implement the relevant hook.
//
// Register is not safe to call concurrently with the emit methods; register
// every extension before the registry is handed to other components.
type Registry struct {
	extensions []Extension
	logger     *slog.Logger

	// Type-cached slices for each lifecycle hook.
	recordStored   []recordStoredEntry
	ingestFailed   []ingestFailedEntry
	cacheRefreshed []cacheRefreshedEntry
	cacheCleared   []cacheClearedEntry
	shutdown       []shutdownEntry
}

// NewRegistry creates an extension registry with the given logger. A nil
// logger selects slog.Default().
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{logger: logger}
}

// Register adds an extension and type-asserts it into all applicable
// hook caches. Extensions are notified in registration order.
func (r *Registry) Register(e Extension) {
	r.extensions = append(r.extensions, e)
	name := e.Name()

	if h, ok := e.(RecordStored); ok {
		r.recordStored = append(r.recordStored, recordStoredEntry{name, h})
	}
	if h, ok := e.(IngestFailed); ok {
		r.ingestFailed = append(r.ingestFailed, ingestFailedEntry{name, h})
	}
	if h, ok := e.(CacheRefreshed); ok {
		r.cacheRefreshed = append(r.cacheRefreshed, cacheRefreshedEntry{name, h})
	}
	if h, ok := e.(CacheCleared); ok {
		r.cacheCleared = append(r.cacheCleared, cacheClearedEntry{name, h})
	}
	if h, ok := e.(Shutdown); ok {
		r.shutdown = append(r.shutdown, shutdownEntry{name, h})
	}
}

// Extensions returns all registered extensions.
func (r *Registry) Extensions() []Extension { return r.extensions }

// ──────────────────────────────────────────────────
// Ingestion event emitters
// ──────────────────────────────────────────────────

// EmitRecordStored notifies all extensions that implement RecordStored.
func (r *Registry) EmitRecordStored(ctx context.Context, rec *record.Record, elapsed time.Duration) {
	for _, e := range r.recordStored {
		if err := e.hook.OnRecordStored(ctx, rec, elapsed); err != nil {
			r.logHookError("OnRecordStored", e.name, err)
		}
	}
}

// EmitIngestFailed notifies all extensions that implement IngestFailed.
func (r *Registry) EmitIngestFailed(ctx context.Context, payload []byte, ingestErr error) {
	for _, e := range r.ingestFailed {
		if err := e.hook.OnIngestFailed(ctx, payload, ingestErr); err != nil {
			r.logHookError("OnIngestFailed", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Cache event emitters
// ──────────────────────────────────────────────────

// EmitCacheRefreshed notifies all extensions that implement CacheRefreshed.
func (r *Registry) EmitCacheRefreshed(ctx context.Context, records int, elapsed time.Duration) {
	for _, e := range r.cacheRefreshed {
		if err := e.hook.OnCacheRefreshed(ctx, records, elapsed); err != nil {
			r.logHookError("OnCacheRefreshed", e.name, err)
		}
	}
}

// EmitCacheCleared notifies all extensions that implement CacheCleared.
func (r *Registry) EmitCacheCleared(ctx context.Context) {
	for _, e := range r.cacheCleared {
		if err := e.hook.OnCacheCleared(ctx); err != nil {
			r.logHookError("OnCacheCleared", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Other event emitters
// ──────────────────────────────────────────────────

// EmitShutdown notifies all extensions that implement Shutdown.
func (r *Registry) EmitShutdown(ctx context.Context) {
	for _, e := range r.shutdown {
		if err := e.hook.OnShutdown(ctx); err != nil {
			r.logHookError("OnShutdown", e.name, err)
		}
	}
}

// logHookError logs a warning when a lifecycle hook returns an error.
// Errors from hooks are never propagated; they must not block ingestion.
func (r *Registry) logHookError(hook, extName string, err error) {
	r.logger.Warn("extension hook error",
		slog.String("hook", hook),
		slog.String("extension", extName),
		slog.String("error", err.Error()),
	)
}
