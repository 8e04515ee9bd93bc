// Package cache serves the full record set from a fixed-TTL snapshot.
//
// A [Cache] sits in front of a query.Source. The first read loads the set
// and later reads are answered from the snapshot until it is older than
// the TTL. Concurrent misses share one load. Failed loads are not cached.
// There is no per-key invalidation: [Cache.Clear] drops the whole snapshot.
package cache

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	batchwatch "github.com/xraph/batchwatch"
	"github.com/xraph/batchwatch/ext"
	"github.com/xraph/batchwatch/query"
	"github.com/xraph/batchwatch/record"
)

// DefaultTTL is the snapshot lifetime used when New is given none.
const DefaultTTL = 60 * time.Second

// DefaultLoadTimeout bounds one shared load of the full record set.
const DefaultLoadTimeout = 2 * time.Minute

// Option configures a Cache.
type Option func(*Cache)

// WithClock sets the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// WithLoadTimeout bounds a shared load. The load runs detached from the
// caller that started it, so this is its only deadline.
func WithLoadTimeout(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.loadTimeout = d
		}
	}
}

// WithExtensions sets the registry notified of refreshes and clears.
func WithExtensions(r *ext.Registry) Option {
	return func(c *Cache) { c.extensions = r }
}

// Cache is a query.Source backed by a snapshot of another Source.
type Cache struct {
	source      query.Source
	ttl         time.Duration
	loadTimeout time.Duration
	now         func() time.Time
	logger      *slog.Logger
	extensions  *ext.Registry

	group singleflight.Group

	mu       sync.RWMutex
	records  []*record.Record
	loadedAt time.Time
	valid    bool
	gen      uint64
}

var (
	_ query.Source      = (*Cache)(nil)
	_ query.StateReader = (*Cache)(nil)
)

// New wraps src with a snapshot that lives for ttl. A zero ttl selects
// DefaultTTL; a negative ttl disables caching and every read goes to src.
func New(src query.Source, ttl time.Duration, opts ...Option) *Cache {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		source:      src,
		ttl:         ttl,
		loadTimeout: DefaultLoadTimeout,
		now:         time.Now,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.extensions == nil {
		c.extensions = ext.NewRegistry(c.logger)
	}
	return c
}

// TTL returns the snapshot lifetime.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Records returns the snapshot, loading it when absent or expired. The
// returned slice is the caller's; the records it points to are shared and
// must not be modified.
func (c *Cache) Records(ctx context.Context) ([]*record.Record, error) {
	if c.ttl < 0 {
		return c.source.Records(ctx)
	}
	if recs, ok := c.fresh(); ok {
		return recs, nil
	}

	// The shared load is detached from ctx; a cancelled caller only stops waiting.
	ch := c.group.DoChan("records", func() (any, error) {
		if recs, ok := c.fresh(); ok {
			return recs, nil
		}
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout)
		defer cancel()
		return c.load(loadCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]*record.Record)), nil
	}
}

func (c *Cache) fresh() ([]*record.Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.valid || c.now().Sub(c.loadedAt) >= c.ttl {
		return nil, false
	}
	return slices.Clone(c.records), true
}

func (c *Cache) load(ctx context.Context) ([]*record.Record, error) {
	c.mu.RLock()
	gen := c.gen
	c.mu.RUnlock()

	start := c.now()
	recs, err := c.source.Records(ctx)
	if err != nil {
		c.logger.Warn("cache load failed", slog.String("error", err.Error()))
		return nil, err
	}
	if recs == nil {
		recs = []*record.Record{}
	}
	elapsed := c.now().Sub(start)

	c.mu.Lock()
	// A Clear during the load wins; the result is served once but not kept.
	if gen == c.gen {
		c.records = recs
		c.loadedAt = c.now()
		c.valid = true
	}
	c.mu.Unlock()

	c.logger.Debug("cache refreshed",
		slog.Int("records", len(recs)),
		slog.Duration("elapsed", elapsed),
	)
	c.extensions.EmitCacheRefreshed(ctx, len(recs), elapsed)
	return recs, nil
}

// Clear drops the snapshot. The next read reloads from the source.
func (c *Cache) Clear(ctx context.Context) {
	c.mu.Lock()
	c.records = nil
	c.valid = false
	c.gen++
	c.mu.Unlock()
	c.group.Forget("records")

	c.logger.Info("cache cleared")
	c.extensions.EmitCacheCleared(ctx)
}

// LoadedAt returns when the current snapshot was loaded, and false when
// there is none.
func (c *Cache) LoadedAt() (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt, c.valid
}

// LatestState looks a job up directly in the source when it supports
// single-key reads, bypassing the snapshot. Otherwise it searches the
// snapshot.
func (c *Cache) LatestState(ctx context.Context, jobID string) (*record.Record, error) {
	if r, ok := c.source.(query.StateReader); ok {
		return r.LatestState(ctx, jobID)
	}
	recs, err := c.Records(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range recs {
		if r.JobID == jobID {
			return r, nil
		}
	}
	return nil, batchwatch.ErrRecordNotFound
}
