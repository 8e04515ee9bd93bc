package audithook

// Audit event actions. Each constant corresponds to one ext lifecycle hook
// and becomes the Action field of the audit event.
const (
	ActionRecordStored   = "record.stored"
	ActionIngestFailed   = "ingest.failed"
	ActionCacheRefreshed = "cache.refreshed"
	ActionCacheCleared   = "cache.cleared"
)

// Audit event categories group related actions.
const (
	CategoryIngest = "batchwatch.ingest"
	CategoryCache  = "batchwatch.cache"
)

// Resource types used as the Resource field in audit events.
const (
	ResourceRecord   = "job_record"
	ResourceSnapshot = "record_snapshot"
)

// AllActions returns every action this extension can emit.
func AllActions() []string {
	return []string{
		ActionRecordStored,
		ActionIngestFailed,
		ActionCacheRefreshed,
		ActionCacheCleared,
	}
}
