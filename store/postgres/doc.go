// Package postgres implements the store using pgx/v5 with raw SQL.
// Records live in one table keyed by job_id. Writes are INSERT ... ON
// CONFLICT DO UPDATE, scans use keyset pagination on the primary key and
// migrations are tracked in a companion table.
package postgres
