// Package api provides the HTTP surface of batchwatch: job queries,
// statistics, XLSX export, event ingestion, cache control and health.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xraph/batchwatch/export"
	"github.com/xraph/batchwatch/ingest"
	"github.com/xraph/batchwatch/query"
	"github.com/xraph/batchwatch/record"
	"github.com/xraph/batchwatch/stats"
)

// DefaultMaxEventBytes bounds the body of POST /v1/events.
const DefaultMaxEventBytes = 1 << 20

// Querier is the read side used by the handlers. query.Service satisfies it.
type Querier interface {
	ListAll(ctx context.Context) ([]*record.Record, error)
	Filter(ctx context.Context, c query.Criteria) ([]*record.Record, error)
	GetByJobID(ctx context.Context, jobID string) (*record.Record, error)
	Statistics(ctx context.Context) (stats.Statistics, error)
	FilteredStatistics(ctx context.Context, c query.Criteria) (stats.Statistics, error)
}

// Ingester accepts raw events. ingest.Service satisfies it.
type Ingester interface {
	Ingest(ctx context.Context, payload []byte) (ingest.Receipt, error)
}

// Clearer drops cached state. cache.Cache satisfies it.
type Clearer interface {
	Clear(ctx context.Context)
}

// Pinger reports backend health. Every store.Store satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Option configures an API.
type Option func(*API)

// WithIngester enables POST /v1/events.
func WithIngester(in Ingester) Option {
	return func(a *API) { a.ingester = in }
}

// WithCache enables POST /v1/cache/clear.
func WithCache(c Clearer) Option {
	return func(a *API) { a.cache = c }
}

// WithHealth sets the dependency checked by GET /healthz.
func WithHealth(p Pinger) Option {
	return func(a *API) { a.health = p }
}

// WithExporter sets the XLSX exporter.
func WithExporter(e *export.Exporter) Option {
	return func(a *API) { a.exporter = e }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *API) { a.logger = l }
}

// WithMaxEventBytes bounds the size of an ingested event body.
func WithMaxEventBytes(n int64) Option {
	return func(a *API) { a.maxEventBytes = n }
}

// API wires all HTTP handlers together.
type API struct {
	queries       Querier
	ingester      Ingester
	cache         Clearer
	health        Pinger
	exporter      *export.Exporter
	logger        *slog.Logger
	maxEventBytes int64
}

// New creates an API serving queries from q.
func New(q Querier, opts ...Option) *API {
	a := &API{
		queries:       q,
		logger:        slog.Default(),
		maxEventBytes: DefaultMaxEventBytes,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.exporter == nil {
		a.exporter = export.New(a.logger)
	}
	return a
}

// Handler returns the fully assembled http.Handler with all routes.
func (a *API) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), a.requestLog())
	a.RegisterRoutes(r)
	return r
}

// RegisterRoutes registers all routes into router.
func (a *API) RegisterRoutes(router gin.IRouter) {
	router.GET("/healthz", a.healthz)

	v1 := router.Group("/v1")
	v1.GET("/jobs", a.listJobs)
	v1.GET("/jobs/:jobId", a.getJob)
	v1.GET("/stats", a.stats)
	v1.GET("/export/jobs.xlsx", a.exportJobs)

	if a.ingester != nil {
		v1.POST("/events", a.ingestEvent)
	}
	if a.cache != nil {
		v1.POST("/cache/clear", a.clearCache)
	}
}

func (a *API) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		a.logger.Debug("http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("elapsed", time.Since(start)),
		)
	}
}

func (a *API) healthz(c *gin.Context) {
	if a.health != nil {
		if err := a.health.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
