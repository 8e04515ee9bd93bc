package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	batchwatch "github.com/xraph/batchwatch"
	"github.com/xraph/batchwatch/ingest"
	"github.com/xraph/batchwatch/query"
	"github.com/xraph/batchwatch/record"
)

func (a *API) listJobs(c *gin.Context) {
	var req JobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	jobs, err := a.filter(c, req)
	if err != nil {
		a.writeError(c, err)
		return
	}
	switch req.Sort {
	case "timestamp":
		query.SortByTimestamp(jobs)
	case "job_id":
		query.SortByJobID(jobs)
	}

	c.JSON(http.StatusOK, JobsResponse{Jobs: jobs, Count: len(jobs)})
}

func (a *API) getJob(c *gin.Context) {
	r, err := a.queries.GetByJobID(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (a *API) exportJobs(c *gin.Context) {
	var req JobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	jobs, err := a.filter(c, req)
	if err != nil {
		a.writeError(c, err)
		return
	}
	query.SortByTimestamp(jobs)

	data, err := a.exporter.XLSX(jobs)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="jobs.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (a *API) filter(c *gin.Context, req JobsRequest) ([]*record.Record, error) {
	crit := req.Criteria()
	if crit.IsZero() {
		return a.queries.ListAll(c.Request.Context())
	}
	return a.queries.Filter(c.Request.Context(), crit)
}

// writeError maps domain errors to HTTP status codes.
func (a *API) writeError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error("request failed",
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()),
		)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, batchwatch.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, ingest.ErrInvalidEvent), errors.Is(err, batchwatch.ErrInvalidRecord):
		return http.StatusBadRequest
	case errors.Is(err, batchwatch.ErrConnectivity):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
