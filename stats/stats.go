// Package stats aggregates job records into the summary shown on the
// monitoring surface.
package stats

import "github.com/xraph/batchwatch/record"

// DefaultRunning is the status set counted as running.
var DefaultRunning = []record.Status{
	record.StatusRunning,
	record.StatusStarting,
	record.StatusRunnable,
}

// Statistics summarises a record set.
type Statistics struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeededCount"`
	Failed    int `json:"failedCount"`
	Running   int `json:"runningCount"`
	// SuccessRate is Succeeded/Total as a fraction in [0, 1]; 0 for an
	// empty set.
	SuccessRate float64 `json:"successRate"`
	// ByStatus counts every status seen, including unknown ones.
	ByStatus map[string]int `json:"byStatus"`
}

// Option configures Compute.
type Option func(*options)

type options struct {
	running map[record.Status]struct{}
}

// WithRunningStatuses replaces the statuses counted as running.
func WithRunningStatuses(statuses ...record.Status) Option {
	return func(o *options) {
		o.running = make(map[record.Status]struct{}, len(statuses))
		for _, s := range statuses {
			o.running[s] = struct{}{}
		}
	}
}

// Compute aggregates records. It is pure and never fails.
func Compute(records []*record.Record, opts ...Option) Statistics {
	o := options{}
	WithRunningStatuses(DefaultRunning...)(&o)
	for _, opt := range opts {
		opt(&o)
	}

	st := Statistics{ByStatus: make(map[string]int)}
	for _, r := range records {
		if r == nil {
			continue
		}
		st.Total++
		st.ByStatus[string(r.Status)]++
		switch r.Status {
		case record.StatusSucceeded:
			st.Succeeded++
		case record.StatusFailed:
			st.Failed++
		}
		if _, ok := o.running[r.Status]; ok {
			st.Running++
		}
	}
	if st.Total > 0 {
		st.SuccessRate = float64(st.Succeeded) / float64(st.Total)
	}
	return st
}

// Percent returns SuccessRate on a 0..100 scale.
func (s Statistics) Percent() float64 { return s.SuccessRate * 100 }
