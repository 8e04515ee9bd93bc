package sqlite

import (
	"context"
	"fmt"

	"github.com/xraph/batchwatch"
	"github.com/xraph/batchwatch/record"
)

// PutRecord upserts r, replacing every column of an existing row.
func (s *Store) PutRecord(ctx context.Context, r *record.Record) error {
	if err := record.Validate(r); err != nil {
		return fmt.Errorf("batchwatch/sqlite: put record: %w", err)
	}
	m := toRecordRow(r)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO `+s.tableIdent()+` (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (job_id) DO UPDATE SET
			timestamp      = excluded.timestamp,
			job_name       = excluded.job_name,
			status         = excluded.status,
			job_queue      = excluded.job_queue,
			job_definition = excluded.job_definition,
			region         = excluded.region,
			account        = excluded.account,
			status_reason  = excluded.status_reason,
			full_event     = excluded.full_event,
			media_id       = excluded.media_id,
			task_id        = excluded.task_id,
			workspace_uid  = excluded.workspace_uid,
			assembly_id    = excluded.assembly_id`,
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
	err := s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM `+s.tableIdent()+` WHERE job_id = ?`,
		jobID,
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

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM `+s.tableIdent()+`
		WHERE job_id > ?
		ORDER BY job_id
		LIMIT ?`,
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
