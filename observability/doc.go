// Package observability provides an OpenTelemetry metrics extension for
// batchwatch. The MetricsExtension implements lifecycle hooks to record
// system-wide counters for stored events, rejected or failed events, and
// cache refreshes.
//
// For per-call store tracing and metrics, see the middleware package:
// middleware.Tracing() and middleware.Metrics().
package observability
