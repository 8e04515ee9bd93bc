package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/xraph/batchwatch/ext"
	"github.com/xraph/batchwatch/extract"
	"github.com/xraph/batchwatch/record"
)

// Receipt acknowledges a stored event.
type Receipt struct {
	ID       uuid.UUID     `json:"id"`
	JobID    string        `json:"jobId"`
	Status   record.Status `json:"status"`
	StoredAt time.Time     `json:"storedAt"`
}

// Option configures a Service.
type Option func(*Service)

// WithEngine sets the identifier extraction engine.
func WithEngine(e *extract.Engine) Option {
	return func(s *Service) { s.engine = e }
}

// WithExtensions sets the extension registry notified of ingestion events.
func WithExtensions(r *ext.Registry) Option {
	return func(s *Service) { s.extensions = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock sets the time source used for default timestamps and receipts.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service writes one record per ingested event.
type Service struct {
	store      record.Store
	engine     *extract.Engine
	extensions *ext.Registry
	logger     *slog.Logger
	now        func() time.Time
}

// New creates an ingestion service writing to st.
func New(st record.Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		engine: extract.NewEngine(),
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.extensions == nil {
		s.extensions = ext.NewRegistry(s.logger)
	}
	return s
}

// Ingest decodes payload, enriches it with derived identifiers and stores
// it. Invalid payloads fail with ErrInvalidEvent and are not written; store
// failures are returned as reported by the store.
func (s *Service) Ingest(ctx context.Context, payload []byte) (Receipt, error) {
	start := s.now()

	r, ev, err := Parse(payload, start)
	if err != nil {
		s.logger.Warn("rejected event", slog.String("error", err.Error()))
		s.extensions.EmitIngestFailed(ctx, payload, err)
		return Receipt{}, err
	}

	ids := s.engine.Extract(ev)
	r.TaskID = ids.TaskID
	r.MediaID = ids.MediaID
	r.WorkspaceUID = ids.WorkspaceUID
	r.AssemblyID = ids.AssemblyID

	if err := s.store.PutRecord(ctx, r); err != nil {
		err = fmt.Errorf("ingest: store record %s: %w", r.JobID, err)
		s.logger.Error("store record failed",
			slog.String("job_id", r.JobID),
			slog.String("error", err.Error()),
		)
		s.extensions.EmitIngestFailed(ctx, payload, err)
		return Receipt{}, err
	}

	storedAt := s.now()
	s.logger.Debug("record stored",
		slog.String("job_id", r.JobID),
		slog.String("status", string(r.Status)),
		slog.String("task_id", r.TaskID),
	)
	s.extensions.EmitRecordStored(ctx, r, storedAt.Sub(start))

	return Receipt{
		ID:       newReceiptID(),
		JobID:    r.JobID,
		Status:   r.Status,
		StoredAt: storedAt.UTC(),
	}, nil
}

// newReceiptID returns a time-ordered UUID, falling back to a random one if
// the v7 generator fails.
func newReceiptID() uuid.UUID {
	if id, err := uuid.NewV7(); err == nil {
		return id
	}
	return uuid.New()
}
