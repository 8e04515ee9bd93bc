package query

import (
	"cmp"
	"slices"

	"github.com/xraph/batchwatch/record"
)

// SortByTimestamp orders records newest first. Unparsable timestamps sort
// last; ties are broken by job ID.
func SortByTimestamp(records []*record.Record) {
	slices.SortStableFunc(records, func(a, b *record.Record) int {
		ta, okA := ParseTimestamp(a.Timestamp)
		tb, okB := ParseTimestamp(b.Timestamp)
		switch {
		case okA && !okB:
			return -1
		case !okA && okB:
			return 1
		case okA && okB && !ta.Equal(tb):
			return tb.Compare(ta)
		}
		return cmp.Compare(a.JobID, b.JobID)
	})
}

// SortByJobID orders records by job ID ascending.
func SortByJobID(records []*record.Record) {
	slices.SortFunc(records, func(a, b *record.Record) int {
		return cmp.Compare(a.JobID, b.JobID)
	})
}
