package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	goredis "github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	batchwatch "github.com/xraph/batchwatch"
	"github.com/xraph/batchwatch/codec"
	"github.com/xraph/batchwatch/store"
	bunstore "github.com/xraph/batchwatch/store/bun"
	"github.com/xraph/batchwatch/store/memory"
	mongostore "github.com/xraph/batchwatch/store/mongo"
	"github.com/xraph/batchwatch/store/postgres"
	redisstore "github.com/xraph/batchwatch/store/redis"
	"github.com/xraph/batchwatch/store/sqlite"
)

const defaultMongoDatabase = "batchwatch"

// openStore builds the backend selected by cfg.Store. The returned store
// owns every handle it opened; Close releases them.
func openStore(ctx context.Context, cfg batchwatch.Config, logger *slog.Logger) (store.Store, error) {
	switch cfg.Store {
	case "", "memory":
		return memory.New(), nil

	case "redis":
		c, err := codec.Lookup(cfg.Codec)
		if err != nil {
			return nil, err
		}
		opts, err := goredis.ParseURL(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("redis dsn: %w", err)
		}
		client := goredis.NewClient(opts)
		return closing{
			Store: redisstore.New(client, redisstore.WithLogger(logger), redisstore.WithCodec(c)),
			close: client.Close,
		}, nil

	case "postgres":
		return postgres.New(ctx, cfg.DSN, postgres.WithLogger(logger), postgres.WithTable(cfg.Table))

	case "bun":
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
		db := bun.NewDB(sqldb, pgdialect.New())
		return closing{
			Store: bunstore.New(db, bunstore.WithLogger(logger), bunstore.WithTable(cfg.Table)),
			close: db.Close,
		}, nil

	case "sqlite":
		return sqlite.Open(ctx, cfg.DSN, sqlite.WithLogger(logger), sqlite.WithTable(cfg.Table))

	case "mongo":
		return mongostore.Open(ctx, cfg.DSN, mongoDatabase(cfg.DSN),
			mongostore.WithLogger(logger),
			mongostore.WithCollection(cfg.Table),
		)

	default:
		return nil, fmt.Errorf("%w: unknown store %q", batchwatch.ErrNoStore, cfg.Store)
	}
}

// closing attaches the close of a caller-owned handle to a store.
type closing struct {
	store.Store
	close func() error
}

func (c closing) Close() error {
	if err := c.Store.Close(); err != nil {
		return err
	}
	return c.close()
}

// mongoDatabase returns the database named in the URI path, or the default.
func mongoDatabase(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return defaultMongoDatabase
	}
	if name := strings.Trim(u.Path, "/"); name != "" {
		return name
	}
	return defaultMongoDatabase
}
