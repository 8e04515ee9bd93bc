package sqlite

// migration is one schema step. Statements reference the record table
// through the {{table}} placeholder.
type migration struct {
	Version string
	Name    string
	Up      []string
}

// migrations lists every schema step in application order.
var migrations = []migration{
	{
		Version: "20251201000000",
		Name:    "create_records_table",
		Up: []string{
			`CREATE TABLE IF NOT EXISTS {{table}} (
				job_id          TEXT PRIMARY KEY,
				timestamp       TEXT NOT NULL DEFAULT '',
				job_name        TEXT NOT NULL DEFAULT '',
				status          TEXT NOT NULL DEFAULT '',
				job_queue       TEXT NOT NULL DEFAULT '',
				job_definition  TEXT NOT NULL DEFAULT '',
				region          TEXT NOT NULL DEFAULT '',
				account         TEXT NOT NULL DEFAULT '',
				status_reason   TEXT NOT NULL DEFAULT '',
				full_event      TEXT NOT NULL,
				media_id        TEXT,
				task_id         TEXT,
				workspace_uid   TEXT,
				assembly_id     TEXT
			)`,
		},
	},
}
