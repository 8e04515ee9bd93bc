// Package middleware provides composable middleware for store operations.
//
// A [Middleware] wraps one store call. Middleware are composed into a chain
// using [Chain] and applied to a store with [Wrap]. They are applied
// right-to-left: the first middleware in the slice is the outermost
// wrapper.
//
//	// logging → timeout → store
//	st := middleware.Wrap(backend,
//	    middleware.Logging(logger),
//	    middleware.Timeout(10*time.Second),
//	)
//
// # Built-in Middleware
//
//   - [Logging]: logs operation, job ID, duration, and outcome
//   - [Recover]: catches panics in a backend and converts them to errors
//   - [Timeout]: bounds each call; expiry is reported as batchwatch.ErrConnectivity
//   - [Tracing]: wraps each call in an OpenTelemetry span
//   - [Metrics]: records per-operation duration and outcome counters
//
// # Writing Custom Middleware
//
//	func MyMiddleware() middleware.Middleware {
//	    return func(ctx context.Context, op *middleware.Op, next middleware.Handler) error {
//	        // pre-processing
//	        err := next(ctx)
//	        // post-processing
//	        return err
//	    }
//	}
//
// Middleware MUST call next to continue the chain unless intentionally
// short-circuiting. Each call is attempted once; there is no retry
// middleware.
package middleware
