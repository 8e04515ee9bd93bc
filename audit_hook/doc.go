// Package audithook is a batchwatch extension that turns ingestion and cache
// lifecycle events into an audit trail.
//
// Every hook emits a structured [AuditEvent] through the [Recorder]
// interface. Normal operations are recorded at info severity. Rejected events
// are warnings and failed writes are critical.
//
// # Logging recorder
//
// [LogRecorder] writes each event as a structured log line and is what
// batchwatchd wires by default:
//
//	reg.Register(audithook.New(audithook.LogRecorder(logger)))
//
// # Selective filtering
//
//	audithook.New(recorder,
//	    audithook.WithActions(
//	        audithook.ActionIngestFailed,
//	        audithook.ActionCacheCleared,
//	    ),
//	)
package audithook
