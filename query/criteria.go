package query

import (
	"time"

	"github.com/xraph/batchwatch/record"
)

// Criteria is a query over the record set. Zero fields do not constrain
// the result.
type Criteria struct {
	Statuses   []record.Status `json:"statuses,omitempty"`
	Queue      string          `json:"queue,omitempty"`
	SinceHours int             `json:"sinceHours,omitempty"`
	Regions    []string        `json:"regions,omitempty"`
	TaskTypes  []string        `json:"taskTypes,omitempty"`
}

// Filters returns the predicates for c, evaluated relative to now.
func (c Criteria) Filters(now time.Time) []Filter {
	return []Filter{
		ByStatus(c.Statuses...),
		ByQueue(c.Queue),
		ByTimeWindow(c.SinceHours, now),
		ByRegion(c.Regions...),
		ByTaskType(c.TaskTypes...),
	}
}

// IsZero reports whether c selects every record.
func (c Criteria) IsZero() bool {
	return len(c.Statuses) == 0 && c.Queue == "" && c.SinceHours <= 0 &&
		len(c.Regions) == 0 && len(c.TaskTypes) == 0
}
