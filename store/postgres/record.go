package postgres

import (
	"context"
	"fmt"

	"github.com/xraph/batchwatch"
	"github.com/xraph/batchwatch/record"
)

// PutRecord upserts r. Every column is overwritten, so fields absent from r
// are cleared on the stored row.
func (s *Store) PutRecord(ctx context.Context, r *record.Record) error {
	if err := record.Validate(r); err != nil {
		return fmt.Errorf("batchwatch/postgres: put record: %w", err)
	}
	m := toRecordRow(r)
	if m.JobID == "" {
		return fmt.Errorf("batchwatch/postgres: put record: %w: job id is empty once cleaned", batchwatch.ErrInvalidRecord)
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO `+s.tableIdent()+` (`+recordColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (job_id) DO UPDATE SET
			timestamp      = EXCLUDED.timestamp,
			job_name       = EXCLUDED.job_name,
			status         = EXCLUDED.status,
			job_queue      = EXCLUDED.job_queue,
			job_definition = EXCLUDED.job_definition,
			region         = EXCLUDED.region,
			account        = EXCLUDED.account,
			status_reason  = EXCLUDED.status_reason,
			full_event     = EXCLUDED.full_event,
			media_id       = EXCLUDED.media_id,
			task_id        = EXCLUDED.task_id,
			workspace_uid  = EXCLUDED.workspace_uid,
			assembly_id    = EXCLUDED.assembly_id`,
		m.args()...,
	)
	if err != nil {
		return wrapErr("put record", err)
	}
	return nil
}

// GetRecord retrieves a record by job ID.
func (s *Store) GetRecord(ctx context.Context, jobID string) (*record.Record, error) {
	var m recordRow
	err := s.pool.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM `+s.tableIdent()+` WHERE job_id = $1`,
		pgText(jobID),
	).Scan(m.dest()...)
	if err != nil {
		if isNoRows(err) {
			return nil, batchwatch.ErrRecordNotFound
		}
		return nil, wrapErr("get record", err)
	}
	return fromRecordRow(&m), nil
}

// ScanPage returns up to limit records with job_id greater than cursor,
// ordered by job_id.
func (s *Store) ScanPage(ctx context.Context, cursor string, limit int) (record.Page, error) {
	if limit <= 0 {
		limit = record.DefaultPageSize
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+recordColumns+` FROM `+s.tableIdent()+`
		WHERE job_id > $1
		ORDER BY job_id
		LIMIT $2`,
		cursor, limit+1,
	)
	if err != nil {
		return record.Page{}, wrapErr("scan", err)
	}
	defer rows.Close()

	page := record.Page{Records: make([]*record.Record, 0, limit)}
	for rows.Next() {
		var m recordRow
		if err := rows.Scan(m.dest()...); err != nil {
			return record.Page{}, wrapErr("scan row", err)
		}
		page.Records = append(page.Records, fromRecordRow(&m))
	}
	if err := rows.Err(); err != nil {
		return record.Page{}, wrapErr("scan rows", err)
	}

	if len(page.Records) > limit {
		page.Records = page.Records[:limit]
		page.Next = page.Records[limit-1].JobID
	}
	return page, nil
}
