// Command batchwatchd runs the batchwatch service: the query and ingestion
// HTTP API, the optional AMQP consumer and the periodic statistics report.
//
// Configuration comes from BATCHWATCH_* environment variables, optionally
// loaded from a .env file in the working directory.
package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	batchwatch "github.com/xraph/batchwatch"
	"github.com/xraph/batchwatch/api"
	audithook "github.com/xraph/batchwatch/audit_hook"
	"github.com/xraph/batchwatch/cache"
	"github.com/xraph/batchwatch/ext"
	"github.com/xraph/batchwatch/ingest"
	amqpingest "github.com/xraph/batchwatch/ingest/amqp"
	"github.com/xraph/batchwatch/middleware"
	"github.com/xraph/batchwatch/observability"
	"github.com/xraph/batchwatch/query"
	"github.com/xraph/batchwatch/record"
	"github.com/xraph/batchwatch/report"
)

const shutdownTimeout = 10 * time.Second

func main() {
	envErr := godotenv.Load()

	cfg := batchwatch.LoadConfig()
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		logger.Warn("could not load .env file", slog.String("error", envErr.Error()))
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("batchwatchd stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg batchwatch.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := backend.Close(); cerr != nil {
			logger.Warn("close store", slog.String("error", cerr.Error()))
		}
	}()
	if err := backend.Migrate(ctx); err != nil {
		return err
	}

	st := middleware.Wrap(backend,
		middleware.Recover(logger),
		middleware.Tracing(),
		middleware.Metrics(),
		middleware.Logging(logger),
		middleware.Timeout(cfg.StoreTimeout),
	)

	extensions := ext.NewRegistry(logger)
	extensions.Register(observability.NewMetricsExtension())
	extensions.Register(audithook.New(audithook.LogRecorder(logger), audithook.WithLogger(logger)))

	in := ingest.New(st, ingest.WithLogger(logger), ingest.WithExtensions(extensions))

	scanOpts := []record.ScanOption{record.WithPageSize(cfg.ScanPageSize)}
	if cfg.ScanRate > 0 {
		scanOpts = append(scanOpts, record.WithLimiter(rate.NewLimiter(rate.Limit(cfg.ScanRate), 1)))
	}

	// A zero configured TTL means no caching.
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = -1
	}
	snapshot := cache.New(query.StoreSource(st, scanOpts...), ttl,
		cache.WithLogger(logger),
		cache.WithExtensions(extensions),
	)
	queries := query.New(snapshot, query.WithLogger(logger))

	var reporter *report.Reporter
	if cfg.ReportSchedule != "" {
		schedule, err := report.ParseSchedule(cfg.ReportSchedule)
		if err != nil {
			return err
		}
		reporter = report.New(queries, schedule, report.WithLogger(logger))
	}

	if !strings.EqualFold(cfg.LogLevel, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := api.New(queries,
		api.WithIngester(in),
		api.WithCache(snapshot),
		api.WithHealth(st),
		api.WithLogger(logger),
	).Handler()
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http listening", slog.String("addr", cfg.HTTPAddr), slog.String("store", cfg.Store))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		extensions.EmitShutdown(shutdownCtx)
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.AMQPURL != "" {
		consumer := amqpingest.New(cfg.AMQPURL, cfg.AMQPQueue, in, amqpingest.WithLogger(logger))
		g.Go(func() error { return consumer.Run(gctx) })
	}

	if reporter != nil {
		g.Go(func() error { return reporter.Run(gctx) })
	}

	return g.Wait()
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
