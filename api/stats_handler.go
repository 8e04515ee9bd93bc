package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) stats(c *gin.Context) {
	var req JobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	crit := req.Criteria()
	ctx := c.Request.Context()

	var err error
	resp := StatsResponse{}
	if crit.IsZero() {
		resp.Statistics, err = a.queries.Statistics(ctx)
	} else {
		resp.Statistics, err = a.queries.FilteredStatistics(ctx, crit)
		resp.Filtered = true
	}
	if err != nil {
		a.writeError(c, err)
		return
	}
	resp.SuccessPercent = resp.Statistics.Percent()
	c.JSON(http.StatusOK, resp)
}
