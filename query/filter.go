package query

import (
	"slices"
	"strings"
	"time"

	"github.com/xraph/batchwatch/record"
)

// Filter reports whether a record is kept.
type Filter func(r *record.Record) bool

// ByStatus keeps records whose status is one of statuses. With no
// statuses it keeps everything.
func ByStatus(statuses ...record.Status) Filter {
	if len(statuses) == 0 {
		return all
	}
	return func(r *record.Record) bool { return slices.Contains(statuses, r.Status) }
}

// ByQueue keeps records whose queue reference contains name. An empty name
// keeps everything.
func ByQueue(name string) Filter {
	if name == "" {
		return all
	}
	return func(r *record.Record) bool { return strings.Contains(r.JobQueue, name) }
}

// ByTimeWindow keeps records whose timestamp is strictly after
// now minus hours. Records with unparsable timestamps are dropped. A
// non-positive hours keeps everything.
func ByTimeWindow(hours int, now time.Time) Filter {
	if hours <= 0 {
		return all
	}
	cutoff := now.Add(-time.Duration(hours) * time.Hour)
	return func(r *record.Record) bool {
		ts, ok := ParseTimestamp(r.Timestamp)
		return ok && ts.After(cutoff)
	}
}

// ByRegion keeps records in one of regions.
func ByRegion(regions ...string) Filter {
	if len(regions) == 0 {
		return all
	}
	return func(r *record.Record) bool { return slices.Contains(regions, r.Region) }
}

// ByTaskType keeps records whose task classification is one of types.
func ByTaskType(types ...string) Filter {
	if len(types) == 0 {
		return all
	}
	return func(r *record.Record) bool { return slices.Contains(types, r.TaskType()) }
}

func all(*record.Record) bool { return true }

// Apply returns the records that pass every filter, in input order. The
// result is never nil.
func Apply(records []*record.Record, filters ...Filter) []*record.Record {
	out := make([]*record.Record, 0, len(records))
next:
	for _, r := range records {
		for _, f := range filters {
			if !f(r) {
				continue next
			}
		}
		out = append(out, r)
	}
	return out
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses an ISO-8601 record timestamp. Timestamps without a
// zone are taken as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
