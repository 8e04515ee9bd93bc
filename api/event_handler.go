package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) ingestEvent(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, a.maxEventBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "event too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	receipt, err := a.ingester.Ingest(c.Request.Context(), body)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

func (a *API) clearCache(c *gin.Context) {
	a.cache.Clear(c.Request.Context())
	c.Status(http.StatusNoContent)
}
