// Package report logs the job statistics summary on a cron schedule.
package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	cronlib "github.com/robfig/cron/v3"

	"github.com/xraph/batchwatch/stats"
)

// DefaultSchedule is the report interval used by the daemon.
const DefaultSchedule = "@every 1m"

// ErrNoNextActivation is returned by Run when the schedule will never fire
// again.
var ErrNoNextActivation = errors.New("report: schedule has no next activation")

// cronParser supports standard 5-field cron and descriptors like "@every 30s".
var cronParser = cronlib.NewParser(
	cronlib.Minute | cronlib.Hour | cronlib.Dom | cronlib.Month | cronlib.Dow | cronlib.Descriptor,
)

// ParseSchedule parses a cron expression.
func ParseSchedule(expr string) (cronlib.Schedule, error) {
	s, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("report: parse schedule %q: %w", expr, err)
	}
	return s, nil
}

// Summarizer produces the statistics to report. query.Service satisfies it.
type Summarizer interface {
	Statistics(ctx context.Context) (stats.Statistics, error)
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithLogger sets the logger reports are written to.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reporter) { r.logger = l }
}

// WithClock sets the time source used to compute the next run.
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) { r.now = now }
}

// WithSink registers fn to receive every successful report.
func WithSink(fn func(stats.Statistics)) Option {
	return func(r *Reporter) { r.sink = fn }
}

// Reporter periodically computes and logs statistics.
type Reporter struct {
	source   Summarizer
	schedule cronlib.Schedule
	logger   *slog.Logger
	now      func() time.Time
	sink     func(stats.Statistics)
}

// New creates a Reporter for src running on schedule.
func New(src Summarizer, schedule cronlib.Schedule, opts ...Option) *Reporter {
	r := &Reporter{
		source:   src,
		schedule: schedule,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reports at every scheduled time until ctx is cancelled. A failed
// report is logged and does not stop the loop.
func (r *Reporter) Run(ctx context.Context) error {
	for {
		now := r.now()
		next := r.schedule.Next(now)
		if next.IsZero() {
			return ErrNoNextActivation
		}
		t := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			t.Stop()
			return nil
		case <-t.C:
		}
		_, _ = r.Report(ctx)
	}
}

// Report computes and logs one summary.
func (r *Reporter) Report(ctx context.Context) (stats.Statistics, error) {
	s, err := r.source.Statistics(ctx)
	if err != nil {
		r.logger.Error("statistics report failed", slog.String("error", err.Error()))
		return stats.Statistics{}, err
	}

	r.logger.Info("job statistics",
		slog.Int("total", s.Total),
		slog.Int("succeeded", s.Succeeded),
		slog.Int("failed", s.Failed),
		slog.Int("running", s.Running),
		slog.String("success_rate", fmt.Sprintf("%.1f%%", s.Percent())),
	)
	if r.sink != nil {
		r.sink(s)
	}
	return s, nil
}
