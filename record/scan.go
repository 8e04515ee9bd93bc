package record

import (
	"context"
	"fmt"
	"iter"

	"golang.org/x/time/rate"
)

// DefaultPageSize is the page size used by Scan when none is configured.
const DefaultPageSize = 100

// ScanOption configures a Scan.
type ScanOption func(*scanConfig)

type scanConfig struct {
	pageSize int
	limiter  *rate.Limiter
}

// WithPageSize sets the number of records requested per page.
func WithPageSize(n int) ScanOption {
	return func(c *scanConfig) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithLimiter waits on l before every page request after the first.
func WithLimiter(l *rate.Limiter) ScanOption {
	return func(c *scanConfig) { c.limiter = l }
}

// Scan returns every record in s. The sequence is lazy: pages are fetched
// as the caller iterates, following continuation tokens until the store
// reports no further page. Each call starts a fresh scan.
//
// On failure the sequence yields a single (nil, err) pair and stops. A
// store that hands back the same continuation token twice is reported as an
// error rather than looped on.
func Scan(ctx context.Context, s Store, opts ...ScanOption) iter.Seq2[*Record, error] {
	cfg := scanConfig{pageSize: DefaultPageSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(yield func(*Record, error) bool) {
		cursor := ""
		for first := true; ; first = false {
			if !first && cfg.limiter != nil {
				if err := cfg.limiter.Wait(ctx); err != nil {
					yield(nil, fmt.Errorf("record: scan wait: %w", err))
					return
				}
			}

			page, err := s.ScanPage(ctx, cursor, cfg.pageSize)
			if err != nil {
				yield(nil, err)
				return
			}
			for _, r := range page.Records {
				if !yield(r, nil) {
					return
				}
			}

			if page.Next == "" {
				return
			}
			if page.Next == cursor {
				yield(nil, fmt.Errorf("record: scan cursor %q did not advance", cursor))
				return
			}
			cursor = page.Next
		}
	}
}

// Collect drains Scan into a slice. An empty store yields an empty,
// non-nil slice.
func Collect(ctx context.Context, s Store, opts ...ScanOption) ([]*Record, error) {
	out := make([]*Record, 0)
	for r, err := range Scan(ctx, s, opts...) {
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
