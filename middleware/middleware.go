// Package middleware provides composable middleware for store operations.
// Middleware wraps store calls synchronously and can modify execution
// (recover from panics, bound with a deadline, log, add tracing, etc.).
package middleware

import (
	"context"
)

// Operation names reported in Op.Name.
const (
	OpPutRecord = "put_record"
	OpGetRecord = "get_record"
	OpScanPage  = "scan_page"
	OpMigrate   = "migrate"
	OpPing      = "ping"
)

// Op describes the store call being executed.
type Op struct {
	// Name is one of the Op* constants.
	Name string
	// JobID is set for put_record and get_record.
	JobID string
	// Cursor and Limit are set for scan_page.
	Cursor string
	Limit  int
}

// Handler is the terminal function that performs the store call.
type Handler func(ctx context.Context) error

// Middleware wraps a Handler with cross-cutting logic.
// It receives the current context, the operation being executed, and the
// next handler to call. Middleware MUST call next to continue the chain
// (unless short-circuiting on error).
type Middleware func(ctx context.Context, op *Op, next Handler) error

// Chain composes multiple middleware into a single Middleware.
// Middleware are applied right-to-left: the first middleware in the
// list is the outermost wrapper.
//
// Example: Chain(logging, recover, timeout) executes as:
//
//	logging → recover → timeout → handler
func Chain(mws ...Middleware) Middleware {
	return func(ctx context.Context, op *Op, next Handler) error {
		// Build the chain from the end backwards.
		h := next
		for i := len(mws) - 1; i >= 0; i-- {
			mw := mws[i]
			prev := h
			h = func(ctx context.Context) error {
				return mw(ctx, op, prev)
			}
		}
		return h(ctx)
	}
}
