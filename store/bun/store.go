package bunstore

import (
	"context"
	"log/slog"

	"github.com/uptrace/bun"

	"github.com/xraph/batchwatch/store"
)

// DefaultTable is the record table used when none is configured.
const DefaultTable = "batchwatch_records"

// Ensure Store implements store.Store at compile time.
var _ store.Store = (*Store)(nil)

// Store is a Bun ORM implementation of store.Store using PostgreSQL dialect.
// The caller owns the *bun.DB lifecycle; Store never closes it.
type Store struct {
	db     *bun.DB
	table  string
	logger *slog.Logger
}

// Option configures the Store.
type Option func(*Store)

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithTable sets the record table name.
func WithTable(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.table = name
		}
	}
}

// New creates a new Bun store. The caller owns the db lifecycle. The Store
// will not close it on Close().
func New(db *bun.DB, opts ...Option) *Store {
	s := &Store{
		db:     db,
		table:  DefaultTable,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB returns the underlying *bun.DB for advanced usage.
func (s *Store) DB() *bun.DB {
	return s.db
}

// aliased is the table expression for queries that reference the model alias.
func (s *Store) aliased() (string, bun.Ident) {
	return "? AS r", bun.Ident(s.table)
}

// Migrate creates the record table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*recordModel)(nil)).
		ModelTableExpr("?", bun.Ident(s.table)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return wrapErr("create table", err)
	}
	s.logger.Info("record table ready", "table", s.table)
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return wrapErr("ping", err)
	}
	return nil
}

// Close is a no-op. The caller owns the *bun.DB lifecycle.
func (s *Store) Close() error {
	return nil
}
