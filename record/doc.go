// Package record defines the job record entity, its open status set, the
// reference parsing helpers used by queries, and the store contract.
//
// # Record Entity
//
// A [Record] is the latest state of one batch job, keyed by JobID. Writing
// a record for an existing JobID replaces it; there is no history. Status
// is an open string set: the [Status] constants cover the values producers
// emit today, and any other value is stored unchanged.
//
// # Store Contract
//
// A [Store] offers three operations: PutRecord (unconditional upsert),
// GetRecord (lookup by key) and ScanPage (one page of the full set, with a
// continuation token). Backends only ever implement a single page.
//
// # Scanning
//
// [Scan] turns any Store into a complete sequence, following continuation
// tokens until the store reports the end:
//
//	for r, err := range record.Scan(ctx, s, record.WithPageSize(500)) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(r.JobID, r.Status)
//	}
//
// Stopping after one page is never correct; Scan exists so that no caller
// has to write the pagination loop.
package record
