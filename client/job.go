package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/xraph/batchwatch/api"
	"github.com/xraph/batchwatch/ingest"
	"github.com/xraph/batchwatch/query"
	"github.com/xraph/batchwatch/record"
)

// Sort orders accepted by ListJobs.
const (
	SortTimestamp = "timestamp"
	SortJobID     = "job_id"
)

// ListOptions selects and orders the jobs returned by ListJobs.
type ListOptions struct {
	query.Criteria

	// Sort is SortTimestamp, SortJobID or empty for store order.
	Sort string
}

// ListJobs returns the jobs matching opts.
func (c *Client) ListJobs(ctx context.Context, opts ListOptions) ([]*record.Record, error) {
	q := criteriaValues(opts.Criteria)
	if opts.Sort != "" {
		q.Set("sort", opts.Sort)
	}

	var resp api.JobsResponse
	if err := c.getJSON(ctx, "/v1/jobs", q, &resp); err != nil {
		return nil, err
	}
	if resp.Jobs == nil {
		resp.Jobs = make([]*record.Record, 0)
	}
	return resp.Jobs, nil
}

// GetJob returns the latest record for jobID. A missing job yields an error
// matching batchwatch.ErrRecordNotFound.
func (c *Client) GetJob(ctx context.Context, jobID string) (*record.Record, error) {
	var r record.Record
	if err := c.getJSON(ctx, "/v1/jobs/"+url.PathEscape(jobID), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Stats returns statistics over the jobs matching crit. A zero Criteria
// covers every job.
func (c *Client) Stats(ctx context.Context, crit query.Criteria) (api.StatsResponse, error) {
	var resp api.StatsResponse
	err := c.getJSON(ctx, "/v1/stats", criteriaValues(crit), &resp)
	return resp, err
}

// ExportJobs downloads the matching jobs as an XLSX workbook.
func (c *Client) ExportJobs(ctx context.Context, crit query.Criteria) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, "/v1/export/jobs.xlsx", criteriaValues(crit), nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("batchwatch/client: read export: %w", err)
	}
	return data, nil
}

// PublishEvent submits one raw event for ingestion.
func (c *Client) PublishEvent(ctx context.Context, payload []byte) (ingest.Receipt, error) {
	var receipt ingest.Receipt
	resp, err := c.do(ctx, http.MethodPost, "/v1/events", nil, bytes.NewReader(payload), "application/json")
	if err != nil {
		return receipt, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return receipt, fmt.Errorf("batchwatch/client: decode receipt: %w", err)
	}
	return receipt, nil
}

// ClearCache drops the server's record snapshot.
func (c *Client) ClearCache(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodPost, "/v1/cache/clear", nil, nil, "")
	if err != nil {
		return err
	}
	return drain(resp)
}

func criteriaValues(crit query.Criteria) url.Values {
	q := make(url.Values)
	for _, s := range crit.Statuses {
		q.Add("status", string(s))
	}
	if crit.Queue != "" {
		q.Set("queue", crit.Queue)
	}
	if crit.SinceHours > 0 {
		q.Set("since_hours", strconv.Itoa(crit.SinceHours))
	}
	for _, r := range crit.Regions {
		q.Add("region", r)
	}
	for _, tt := range crit.TaskTypes {
		q.Add("task_type", tt)
	}
	return q
}
