package batchwatch

import "errors"

var (
	// Store errors.
	ErrNoStore = errors.New("batchwatch: no store configured")

	// ErrConnectivity means the store could not be reached or the call
	// exceeded its deadline. Callers may retry by their own policy.
	ErrConnectivity = errors.New("batchwatch: store unreachable")

	// ErrSchema means the target table or collection does not exist. It is
	// not retryable.
	ErrSchema = errors.New("batchwatch: store target missing")

	// ErrInvalidRecord means a record cannot be stored: it is nil or has an
	// empty JobID. It is not retryable.
	ErrInvalidRecord = errors.New("batchwatch: invalid record")

	// Not found errors.
	ErrRecordNotFound = errors.New("batchwatch: record not found")
)
