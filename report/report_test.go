package report_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/xraph/batchwatch/report"
	"github.com/xraph/batchwatch/stats"
)

type fixedSummarizer struct {
	s   stats.Statistics
	err error
}

func (f fixedSummarizer) Statistics(context.Context) (stats.Statistics, error) { return f.s, f.err }

// every fires at a fixed sub-second interval, which cron descriptors
// cannot express.
type every time.Duration

func (e every) Next(t time.Time) time.Time { return t.Add(time.Duration(e)) }

// never has no activation, as cron reports for an unsatisfiable spec.
type never struct{}

func (never) Next(time.Time) time.Time { return time.Time{} }

func TestParseSchedule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		expr    string
		wantErr bool
	}{
		{report.DefaultSchedule, false},
		{"*/5 * * * *", false},
		{"@hourly", false},
		{"* * * * * *", true},
		{"not a schedule", true},
	}
	for _, tt := range tests {
		_, err := report.ParseSchedule(tt.expr)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSchedule(%q) error = %v, wantErr %v", tt.expr, err, tt.wantErr)
		}
	}
}

func TestReport_LogsSummary(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	src := fixedSummarizer{s: stats.Statistics{Total: 4, Succeeded: 2, Failed: 1, Running: 1, SuccessRate: 0.5}}

	r := report.New(src, every(time.Hour), report.WithLogger(logger))
	got, err := r.Report(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got.Total != 4 {
		t.Fatalf("Report = %+v", got)
	}

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if line["msg"] != "job statistics" || line["total"] != float64(4) || line["success_rate"] != "50.0%" {
		t.Fatalf("log line = %v", line)
	}
}

func TestReport_Error(t *testing.T) {
	t.Parallel()
	boom := errors.New("store down")
	r := report.New(fixedSummarizer{err: boom}, every(time.Hour))

	if _, err := r.Report(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("got %v, want %v", err, boom)
	}
}

func TestRun_ReportsOnScheduleUntilCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reports atomic.Int32
	r := report.New(fixedSummarizer{}, every(5*time.Millisecond),
		report.WithSink(func(stats.Statistics) {
			if reports.Add(1) == 3 {
				cancel()
			}
		}),
	)

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop")
	}
	if n := reports.Load(); n < 3 {
		t.Fatalf("reports = %d, want at least 3", n)
	}
}

func TestRun_ScheduleWithoutActivation(t *testing.T) {
	t.Parallel()
	var reports atomic.Int32
	r := report.New(fixedSummarizer{}, never{},
		report.WithSink(func(stats.Statistics) { reports.Add(1) }),
	)

	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background()) }()

	select {
	case err := <-done:
		if !errors.Is(err, report.ErrNoNextActivation) {
			t.Fatalf("Run = %v, want ErrNoNextActivation", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
	if n := reports.Load(); n != 0 {
		t.Fatalf("reports = %d, want 0", n)
	}
}
