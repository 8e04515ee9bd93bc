package bunstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/xraph/batchwatch"
)

// isNoRows returns true when err indicates no rows were found.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// pgCode returns the SQLSTATE of a server error, or "" for any other error.
func pgCode(err error) string {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C')
	}
	return ""
}

// wrapErr maps err onto the store sentinels.
func wrapErr(op string, err error) error {
	code := pgCode(err)
	switch {
	case code == "42P01":
		return fmt.Errorf("batchwatch/bun: %s: %w: %w", op, batchwatch.ErrSchema, err)
	case code != "" && !errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("batchwatch/bun: %s: %w", op, err)
	default:
		return fmt.Errorf("batchwatch/bun: %s: %w: %w", op, batchwatch.ErrConnectivity, err)
	}
}

// pgText makes s storable in a PostgreSQL text column, which rejects NUL
// and invalid UTF-8 (SQLSTATE 22021). Invalid bytes become U+FFFD.
func pgText(s string) string {
	return strings.ReplaceAll(strings.ToValidUTF8(s, "\uFFFD"), "\x00", "")
}
