package stats_test

import (
	"encoding/json"
	"testing"

	"github.com/xraph/batchwatch/record"
	"github.com/xraph/batchwatch/stats"
)

func records(statuses ...record.Status) []*record.Record {
	out := make([]*record.Record, len(statuses))
	for i, s := range statuses {
		out[i] = &record.Record{JobID: string(rune('a' + i)), Status: s}
	}
	return out
}

func TestCompute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []*record.Record
		want  stats.Statistics
	}{
		{
			name:  "empty",
			input: nil,
			want:  stats.Statistics{},
		},
		{
			name:  "mixed",
			input: records(record.StatusRunning, record.StatusSucceeded, record.StatusFailed, record.StatusSucceeded),
			want:  stats.Statistics{Total: 4, Succeeded: 2, Failed: 1, Running: 1, SuccessRate: 0.5},
		},
		{
			name:  "starting and runnable count as running",
			input: records(record.StatusStarting, record.StatusRunnable, record.StatusPending),
			want:  stats.Statistics{Total: 3, Running: 2},
		},
		{
			name:  "unknown statuses count toward total only",
			input: records("PAUSED", record.StatusSucceeded),
			want:  stats.Statistics{Total: 2, Succeeded: 1, SuccessRate: 0.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := stats.Compute(tt.input)
			if got.Total != tt.want.Total || got.Succeeded != tt.want.Succeeded ||
				got.Failed != tt.want.Failed || got.Running != tt.want.Running ||
				got.SuccessRate != tt.want.SuccessRate {
				t.Fatalf("Compute = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCompute_ByStatus(t *testing.T) {
	t.Parallel()
	got := stats.Compute(records(record.StatusFailed, "PAUSED", record.StatusFailed))

	if len(got.ByStatus) != 2 || got.ByStatus["FAILED"] != 2 || got.ByStatus["PAUSED"] != 1 {
		t.Fatalf("ByStatus = %v", got.ByStatus)
	}
	if stats.Compute(nil).ByStatus == nil {
		t.Fatal("ByStatus is nil for empty input")
	}
}

func TestCompute_WithRunningStatuses(t *testing.T) {
	t.Parallel()
	in := records(record.StatusRunning, record.StatusStarting, record.StatusRunnable)

	got := stats.Compute(in, stats.WithRunningStatuses(record.StatusRunning))
	if got.Running != 1 {
		t.Fatalf("Running = %d, want 1", got.Running)
	}
}

func TestPercent(t *testing.T) {
	t.Parallel()
	got := stats.Compute(records(record.StatusSucceeded, record.StatusFailed, record.StatusFailed, record.StatusFailed))
	if got.Percent() != 25 {
		t.Fatalf("Percent = %v, want 25", got.Percent())
	}
}

func TestStatistics_JSONShape(t *testing.T) {
	got := stats.Compute(records(record.StatusRunning, record.StatusSucceeded, record.StatusFailed, record.StatusSucceeded))

	data, err := json.Marshal(got)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}

	want := map[string]float64{
		"total":          4,
		"succeededCount": 2,
		"failedCount":    1,
		"runningCount":   1,
		"successRate":    0.5,
	}
	for key, v := range want {
		if m[key] != v {
			t.Errorf("%s = %v, want %v", key, m[key], v)
		}
	}
}
