package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/xraph/batchwatch"
)

// isNoRows returns true when err indicates no rows were found.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// isUndefinedTable checks if a PostgreSQL error is undefined_table (42P01).
func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "42P01"
	}
	return false
}

// isServerError reports whether err was returned by the server rather than
// by the connection or the context.
func isServerError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		!errors.Is(err, context.DeadlineExceeded) &&
		!errors.Is(err, context.Canceled)
}

// wrapErr maps err onto the store sentinels.
func wrapErr(op string, err error) error {
	switch {
	case isUndefinedTable(err):
		return fmt.Errorf("batchwatch/postgres: %s: %w: %w", op, batchwatch.ErrSchema, err)
	case isServerError(err):
		return fmt.Errorf("batchwatch/postgres: %s: %w", op, err)
	default:
		return fmt.Errorf("batchwatch/postgres: %s: %w: %w", op, batchwatch.ErrConnectivity, err)
	}
}

// pgText makes s storable in a PostgreSQL text column, which rejects NUL
// and invalid UTF-8 (SQLSTATE 22021). Invalid bytes become U+FFFD.
func pgText(s string) string {
	return strings.ReplaceAll(strings.ToValidUTF8(s, "\uFFFD"), "\x00", "")
}
