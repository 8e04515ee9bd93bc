package audithook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/xraph/batchwatch/ext"
	"github.com/xraph/batchwatch/ingest"
	"github.com/xraph/batchwatch/record"
)

// Compile-time interface checks.
var (
	_ ext.Extension      = (*Extension)(nil)
	_ ext.RecordStored   = (*Extension)(nil)
	_ ext.IngestFailed   = (*Extension)(nil)
	_ ext.CacheRefreshed = (*Extension)(nil)
	_ ext.CacheCleared   = (*Extension)(nil)
)

// maxPayloadExcerpt bounds the rejected payload copied into metadata.
const maxPayloadExcerpt = 256

// Recorder is the interface that audit backends must implement.
type Recorder interface {
	// Record persists a fully-formed audit event.
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is one entry of the audit trail.
type AuditEvent struct {
	// What happened
	Action   string `json:"action"`
	Resource string `json:"resource"`
	Category string `json:"category"`

	// Details
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// LogRecorder returns a Recorder that writes every event to logger. Critical
// events are logged at error level, warnings at warn and the rest at info.
func LogRecorder(logger *slog.Logger) Recorder {
	return RecorderFunc(func(ctx context.Context, evt *AuditEvent) error {
		level := slog.LevelInfo
		switch evt.Severity {
		case SeverityWarning:
			level = slog.LevelWarn
		case SeverityCritical:
			level = slog.LevelError
		}
		attrs := []slog.Attr{
			slog.String("action", evt.Action),
			slog.String("resource", evt.Resource),
			slog.String("category", evt.Category),
			slog.String("outcome", evt.Outcome),
		}
		if evt.ResourceID != "" {
			attrs = append(attrs, slog.String("resource_id", evt.ResourceID))
		}
		if evt.Reason != "" {
			attrs = append(attrs, slog.String("reason", evt.Reason))
		}
		if len(evt.Metadata) > 0 {
			attrs = append(attrs, slog.Any("metadata", evt.Metadata))
		}
		logger.LogAttrs(ctx, level, "audit", attrs...)
		return nil
	})
}

// Severity constants.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Outcome constants.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Extension bridges batchwatch lifecycle events to an audit trail backend.
// Each lifecycle hook emits a structured audit event through the [Recorder].
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements ext.Extension.
func (e *Extension) Name() string { return "audit-hook" }

// ── Ingestion hooks ─────────────────────────────────

// OnRecordStored implements ext.RecordStored.
func (e *Extension) OnRecordStored(ctx context.Context, r *record.Record, elapsed time.Duration) error {
	return e.record(ctx, ActionRecordStored, SeverityInfo, OutcomeSuccess,
		ResourceRecord, r.JobID, CategoryIngest, nil,
		"status", string(r.Status),
		"queue", r.QueueName(),
		"task_type", r.TaskType(),
		"elapsed_ms", elapsed.Milliseconds(),
	)
}

// OnIngestFailed implements ext.IngestFailed. Rejected events are warnings;
// anything else failed on the way to the store and is critical.
func (e *Extension) OnIngestFailed(ctx context.Context, payload []byte, ingestErr error) error {
	severity := SeverityCritical
	if errors.Is(ingestErr, ingest.ErrInvalidEvent) {
		severity = SeverityWarning
	}
	return e.record(ctx, ActionIngestFailed, severity, OutcomeFailure,
		ResourceRecord, "", CategoryIngest, ingestErr,
		"payload_bytes", len(payload),
		"payload", excerpt(payload),
	)
}

// ── Cache hooks ─────────────────────────────────────

// OnCacheRefreshed implements ext.CacheRefreshed.
func (e *Extension) OnCacheRefreshed(ctx context.Context, records int, elapsed time.Duration) error {
	return e.record(ctx, ActionCacheRefreshed, SeverityInfo, OutcomeSuccess,
		ResourceSnapshot, "", CategoryCache, nil,
		"records", records,
		"elapsed_ms", elapsed.Milliseconds(),
	)
}

// OnCacheCleared implements ext.CacheCleared.
func (e *Extension) OnCacheCleared(ctx context.Context) error {
	return e.record(ctx, ActionCacheCleared, SeverityInfo, OutcomeSuccess,
		ResourceSnapshot, "", CategoryCache, nil,
	)
}

// ── Internal helpers ────────────────────────────────

// record builds and sends an audit event if the action is enabled.
// The kvPairs argument is a list of key-value pairs added to Metadata.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			slog.String("action", action),
			slog.String("resource_id", resourceID),
			slog.String("error", recErr.Error()),
		)
	}
	return nil
}

func excerpt(payload []byte) string {
	if len(payload) > maxPayloadExcerpt {
		return string(payload[:maxPayloadExcerpt])
	}
	return string(payload)
}
