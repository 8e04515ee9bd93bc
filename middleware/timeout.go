package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	batchwatch "github.com/xraph/batchwatch"
)

// Timeout returns middleware that bounds every store call by d. A call that
// fails after the deadline expires is reported as batchwatch.ErrConnectivity,
// whatever error the backend returned. A non-positive d disables the bound.
func Timeout(d time.Duration) Middleware {
	return func(ctx context.Context, op *Op, next Handler) error {
		if d <= 0 {
			return next(ctx)
		}
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()

		err := next(ctx)
		if err == nil || errors.Is(err, batchwatch.ErrConnectivity) {
			return err
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s timed out after %s: %w", batchwatch.ErrConnectivity, op.Name, d, err)
		}
		return err
	}
}
