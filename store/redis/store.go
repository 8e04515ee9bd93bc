package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	goredis "github.com/redis/go-redis/v9"

	"github.com/xraph/batchwatch"
	"github.com/xraph/batchwatch/codec"
	"github.com/xraph/batchwatch/store"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// Option configures the Store.
type Option func(*Store)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithCodec sets the record encoding. Defaults to msgpack.
func WithCodec(c codec.Codec) Option {
	return func(s *Store) { s.codec = c }
}

// WithNamespace sets the key prefix. A trailing ":" is added when missing.
func WithNamespace(ns string) Option {
	return func(s *Store) {
		if ns == "" {
			return
		}
		if ns[len(ns)-1] != ':' {
			ns += ":"
		}
		s.namespace = ns
	}
}

// Store implements the composite store.Store interface backed by Redis.
type Store struct {
	client    goredis.Cmdable
	codec     codec.Codec
	namespace string
	logger    *slog.Logger
}

// New creates a new Redis-backed store. The caller owns the Redis client
// lifecycle.
func New(client goredis.Cmdable, opts ...Option) *Store {
	s := &Store{
		client:    client,
		codec:     codec.Msgpack{},
		namespace: defaultNamespace,
		logger:    slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Client returns the underlying Redis client.
func (s *Store) Client() goredis.Cmdable { return s.client }

// Migrate is a no-op for Redis (schemaless).
func (s *Store) Migrate(_ context.Context) error { return nil }

// Ping verifies the Redis connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return wrapErr("ping", err)
	}
	return nil
}

// Close is a no-op. The caller owns the Redis client lifecycle.
func (s *Store) Close() error { return nil }

// wrapErr classifies a client error. Replies from the server keep their
// message; everything else means the server could not be reached in time.
func wrapErr(op string, err error) error {
	var replyErr goredis.Error
	if errors.As(err, &replyErr) && !isTransport(err) {
		return fmt.Errorf("batchwatch/redis: %s: %w", op, err)
	}
	return fmt.Errorf("batchwatch/redis: %s: %w: %w", op, batchwatch.ErrConnectivity, err)
}

func isTransport(err error) bool {
	var netErr net.Error
	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, goredis.ErrClosed) ||
		errors.As(err, &netErr)
}
