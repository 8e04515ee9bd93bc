package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/xraph/batchwatch"
	"github.com/xraph/batchwatch/store"
)

// DefaultTable is the record table used when none is configured.
const DefaultTable = "batchwatch_records"

// Ensure Store implements store.Store at compile time.
var _ store.Store = (*Store)(nil)

// Store is a database/sql implementation of store.Store using SQLite.
type Store struct {
	db     *sql.DB
	owned  bool
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

// New creates a store on an existing database handle. The caller owns the db
// lifecycle; the Store will not close it on Close().
func New(db *sql.DB, opts ...Option) *Store {
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

// Open opens dsn with the modernc driver and returns a store that closes the
// handle on Close(). SQLite serializes writers, so the pool is limited to a
// single connection; this also keeps ":memory:" databases shared.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("batchwatch/sqlite: open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, wrapErr("ping", err)
	}

	s := New(db, opts...)
	s.owned = true
	return s, nil
}

// DB returns the underlying *sql.DB for advanced usage.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) tableIdent() string { return quoteIdent(s.table) }

func (s *Store) migrationsIdent() string { return quoteIdent(s.table + "_migrations") }

// Migrate applies pending schema steps in order.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS `+s.migrationsIdent()+` (
			version    TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		)
	`)
	if err != nil {
		return wrapErr("create migrations table", err)
	}

	for _, m := range migrations {
		var applied bool
		err = s.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM `+s.migrationsIdent()+` WHERE version = ?)`,
			m.Version,
		).Scan(&applied)
		if err != nil {
			return wrapErr("check migration "+m.Name, err)
		}
		if applied {
			continue
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return wrapErr("begin migration "+m.Name, err)
		}
		for _, stmt := range m.Up {
			if _, err := tx.ExecContext(ctx, strings.ReplaceAll(stmt, "{{table}}", s.tableIdent())); err != nil {
				_ = tx.Rollback()
				return wrapErr("execute migration "+m.Name, err)
			}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO `+s.migrationsIdent()+` (version, name) VALUES (?, ?)`,
			m.Version, m.Name,
		); err != nil {
			_ = tx.Rollback()
			return wrapErr("record migration "+m.Name, err)
		}
		if err := tx.Commit(); err != nil {
			return wrapErr("commit migration "+m.Name, err)
		}

		s.logger.Info("applied migration", "version", m.Version, "name", m.Name)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return wrapErr("ping", err)
	}
	return nil
}

// Close closes the handle when it was created by Open.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

// ── helpers ──────────────────────────────────────────────────────

// isNoRows returns true when err indicates no rows were found.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isNoSuchTable checks if err reports a missing table.
func isNoSuchTable(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such table")
}

// isUnavailable reports whether err means the database could not be used
// right now rather than that the statement was wrong.
func isUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, sql.ErrConnDone) ||
		strings.Contains(err.Error(), "database is closed") {
		return true
	}
	var sqlErr *sqlite.Error
	if errors.As(err, &sqlErr) {
		switch sqlErr.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_IOERR:
			return true
		}
	}
	return false
}

// wrapErr maps err onto the store sentinels.
func wrapErr(op string, err error) error {
	switch {
	case isNoSuchTable(err):
		return fmt.Errorf("batchwatch/sqlite: %s: %w: %w", op, batchwatch.ErrSchema, err)
	case isUnavailable(err):
		return fmt.Errorf("batchwatch/sqlite: %s: %w: %w", op, batchwatch.ErrConnectivity, err)
	default:
		return fmt.Errorf("batchwatch/sqlite: %s: %w", op, err)
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
