// Package store defines the aggregate persistence interface. The record
// package defines the data contract; Store adds lifecycle operations.
// Backends: Memory, Redis, Postgres, Bun, SQLite and Mongo.
package store

import (
	"context"

	"github.com/xraph/batchwatch/record"
)

// Store is the aggregate persistence interface.
// A single backend (postgres, bun, sqlite, etc.) implements all of it.
type Store interface {
	record.Store

	// Migrate creates the record table or collection if it does not exist.
	Migrate(ctx context.Context) error

	// Ping checks connectivity to the backing store.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	Close() error
}
