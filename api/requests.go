package api

import (
	"strings"

	"github.com/xraph/batchwatch/query"
	"github.com/xraph/batchwatch/record"
	"github.com/xraph/batchwatch/stats"
)

// JobsRequest holds the filters accepted by GET /v1/jobs, GET /v1/stats
// and the export. Repeated and comma-separated values are both accepted.
type JobsRequest struct {
	Status     []string `form:"status"`
	Queue      string   `form:"queue"`
	SinceHours int      `form:"since_hours" binding:"min=0"`
	Region     []string `form:"region"`
	TaskType   []string `form:"task_type"`
	Sort       string   `form:"sort" binding:"omitempty,oneof=timestamp job_id"`
}

// Criteria converts the request to query criteria.
func (r JobsRequest) Criteria() query.Criteria {
	c := query.Criteria{
		Queue:      r.Queue,
		SinceHours: r.SinceHours,
		Regions:    splitAll(r.Region),
		TaskTypes:  r.TaskType,
	}
	for _, s := range splitAll(r.Status) {
		c.Statuses = append(c.Statuses, record.Status(s))
	}
	return c
}

// JobsResponse is the body of GET /v1/jobs.
type JobsResponse struct {
	Jobs  []*record.Record `json:"jobs"`
	Count int              `json:"count"`
}

func splitAll(vals []string) []string {
	var out []string
	for _, v := range vals {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// StatsResponse is the body of GET /v1/stats.
type StatsResponse struct {
	stats.Statistics
	// SuccessPercent is SuccessRate on a 0..100 scale.
	SuccessPercent float64 `json:"successPercent"`
	// Filtered reports whether any filter was applied.
	Filtered bool `json:"filtered"`
}
