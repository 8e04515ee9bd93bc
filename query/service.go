package query

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	batchwatch "github.com/xraph/batchwatch"
	"github.com/xraph/batchwatch/record"
	"github.com/xraph/batchwatch/stats"
)

// Option configures a Service.
type Option func(*Service)

// WithStateReader sets how GetByJobID resolves a single job.
func WithStateReader(r StateReader) Option {
	return func(s *Service) { s.reader = r }
}

// WithClock sets the time source for time-window filters.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithStatsOptions sets the options passed to stats.Compute.
func WithStatsOptions(opts ...stats.Option) Option {
	return func(s *Service) { s.statsOpts = opts }
}

// Service runs queries against a Source.
type Service struct {
	source    Source
	reader    StateReader
	now       func() time.Time
	logger    *slog.Logger
	statsOpts []stats.Option
}

// New creates a query service over src. Unless WithStateReader is given,
// single-job lookups use src itself when it is a StateReader and a scan of
// src otherwise.
func New(src Source, opts ...Option) *Service {
	s := &Service{
		source: src,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.reader == nil {
		if r, ok := src.(StateReader); ok {
			s.reader = r
		} else {
			s.reader = scanReader{source: src}
		}
	}
	return s
}

// ListAll returns every record.
func (s *Service) ListAll(ctx context.Context) ([]*record.Record, error) {
	records, err := s.source.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("query: list: %w", err)
	}
	if records == nil {
		records = []*record.Record{}
	}
	return records, nil
}

// Filter returns the records matching c.
func (s *Service) Filter(ctx context.Context, c Criteria) ([]*record.Record, error) {
	records, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := Apply(records, c.Filters(s.now())...)
	s.logger.Debug("query filtered",
		slog.Int("scanned", len(records)),
		slog.Int("matched", len(out)),
	)
	return out, nil
}

// GetByJobID returns the current record for jobID, or
// batchwatch.ErrRecordNotFound.
func (s *Service) GetByJobID(ctx context.Context, jobID string) (*record.Record, error) {
	if jobID == "" {
		return nil, batchwatch.ErrRecordNotFound
	}
	r, err := s.reader.LatestState(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("query: get %s: %w", jobID, err)
	}
	return r, nil
}

// Statistics aggregates the full record set.
func (s *Service) Statistics(ctx context.Context) (stats.Statistics, error) {
	records, err := s.ListAll(ctx)
	if err != nil {
		return stats.Statistics{}, err
	}
	return stats.Compute(records, s.statsOpts...), nil
}

// FilteredStatistics aggregates the records matching c.
func (s *Service) FilteredStatistics(ctx context.Context, c Criteria) (stats.Statistics, error) {
	records, err := s.Filter(ctx, c)
	if err != nil {
		return stats.Statistics{}, err
	}
	return stats.Compute(records, s.statsOpts...), nil
}
