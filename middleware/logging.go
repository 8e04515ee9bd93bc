package middleware

import (
	"context"
	"log/slog"
	"time"
)

// Logging returns middleware that logs store call completion. Successful
// calls are logged at debug level, failures at error level.
func Logging(logger *slog.Logger) Middleware {
	return func(ctx context.Context, op *Op, next Handler) error {
		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start)

		attrs := []any{
			slog.String("op", op.Name),
			slog.Duration("elapsed", elapsed),
		}
		if op.JobID != "" {
			attrs = append(attrs, slog.String("job_id", op.JobID))
		}
		if op.Name == OpScanPage {
			attrs = append(attrs, slog.String("cursor", op.Cursor), slog.Int("limit", op.Limit))
		}

		if err != nil {
			logger.Error("store call failed", append(attrs, slog.String("error", err.Error()))...)
		} else {
			logger.Debug("store call completed", attrs...)
		}

		return err
	}
}
