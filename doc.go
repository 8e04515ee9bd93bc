// Package batchwatch keeps the latest known state of asynchronous batch jobs
// and answers monitoring queries over that state.
//
// Every state-change event for a job overwrites the single record held for
// its job ID. Secondary identifiers (task, media, workspace, assembly) are
// derived from loosely structured event payloads before the write. Reads scan
// the full record set, page by page, and filter or aggregate it in memory.
//
// # Quick Start
//
//	s := memory.New()
//	st := middleware.Wrap(s, middleware.Timeout(cfg.StoreTimeout))
//
//	in := ingest.New(st)
//	_, err := in.Ingest(ctx, payload)
//
//	q := query.New(cache.New(query.StoreSource(st), cfg.CacheTTL))
//	summary, err := q.Statistics(ctx)
//
// # Architecture
//
// The record package defines the Record entity and the record.Store
// contract (put one, get by key, scan one page). record.Scan turns any
// record.Store into a complete, lazily paged sequence. The store package
// composes the contract with lifecycle methods, and each store/* backend
// implements it: memory, redis, postgres (pgx), bun, sqlite and mongo.
//
// Failures are reported with the sentinels in this package: ErrConnectivity
// when a store is unreachable or a call expires, ErrSchema when the target
// table or collection does not exist, and ErrRecordNotFound for absent keys.
package batchwatch
