// Package ext defines the extension system for batchwatch.
//
// Extensions are notified of lifecycle events and can react to them by
// recording metrics, writing audit logs, forwarding alerts and so on.
// Each lifecycle hook is a separate interface so extensions opt in only
// to the events they care about.
//
// # Implementing an Extension
//
//	type MyExtension struct{}
//
//	func (e *MyExtension) Name() string { return "my-extension" }
//
//	// Opt in to specific hooks by implementing their interfaces.
//	func (e *MyExtension) OnRecordStored(ctx context.Context, r *record.Record, elapsed time.Duration) error {
//	    log.Printf("job %s is now %s", r.JobID, r.Status)
//	    return nil
//	}
//
// # Ingestion Hooks
//
//   - [RecordStored]: an event was decoded and its record written
//   - [IngestFailed]: an event was rejected or could not be written
//
// # Cache Hooks
//
//   - [CacheRefreshed]: the record snapshot was reloaded from the store
//   - [CacheCleared]: the snapshot was dropped on request
//
// # Other Hooks
//
//   - [Shutdown]: the process is shutting down gracefully
//
// The [Registry] fans out each event to all registered extensions that
// implement the corresponding hook interface.
package ext
