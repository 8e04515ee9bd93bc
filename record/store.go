package record

import "context"

// Page is one store-side page of a scan.
type Page struct {
	// Records holds the page content in store order.
	Records []*Record
	// Next is the continuation token for the following page. Empty means
	// the scan is exhausted.
	Next string
}

// Store defines the persistence contract for job records. It holds at most
// one record per job ID and has no secondary indexes.
type Store interface {
	// PutRecord stores r under r.JobID, replacing any existing record.
	// Last writer wins; there is no conflict error.
	PutRecord(ctx context.Context, r *Record) error

	// GetRecord returns the record for jobID, or batchwatch.ErrRecordNotFound.
	GetRecord(ctx context.Context, jobID string) (*Record, error)

	// ScanPage returns up to limit records following cursor. An empty
	// cursor starts from the beginning. Implementations may return fewer
	// records than limit on any page; only an empty Next ends the scan.
	ScanPage(ctx context.Context, cursor string, limit int) (Page, error)
}
