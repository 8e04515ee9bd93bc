package bunstore

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/xraph/batchwatch"
	"github.com/xraph/batchwatch/record"
)

// overwriteColumns are replaced from EXCLUDED on conflict.
var overwriteColumns = []string{
	"timestamp", "job_name", "status", "job_queue", "job_definition",
	"region", "account", "status_reason", "full_event",
	"media_id", "task_id", "workspace_uid", "assembly_id",
}

// PutRecord upserts r, replacing every column of an existing row.
func (s *Store) PutRecord(ctx context.Context, r *record.Record) error {
	if err := record.Validate(r); err != nil {
		return fmt.Errorf("batchwatch/bun: put record: %w", err)
	}
	m := toRecordModel(r)
	if m.JobID == "" {
		return fmt.Errorf("batchwatch/bun: put record: %w: job id is empty once cleaned", batchwatch.ErrInvalidRecord)
	}

	q := s.db.NewInsert().
		Model(m).
		ModelTableExpr(s.aliased()).
		On("CONFLICT (job_id) DO UPDATE")
	for _, col := range overwriteColumns {
		q = q.Set("? = EXCLUDED.?", bun.Ident(col), bun.Ident(col))
	}

	if _, err := q.Exec(ctx); err != nil {
		return wrapErr("put record", err)
	}
	return nil
}

// GetRecord retrieves a record by job ID.
func (s *Store) GetRecord(ctx context.Context, jobID string) (*record.Record, error) {
	m := new(recordModel)
	err := s.db.NewSelect().Model(m).
		ModelTableExpr(s.aliased()).
		Where("r.job_id = ?", pgText(jobID)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, batchwatch.ErrRecordNotFound
		}
		return nil, wrapErr("get record", err)
	}
	return fromRecordModel(m), nil
}

// ScanPage returns up to limit records with job_id greater than cursor,
// ordered by job_id.
func (s *Store) ScanPage(ctx context.Context, cursor string, limit int) (record.Page, error) {
	if limit <= 0 {
		limit = record.DefaultPageSize
	}

	var models []recordModel
	err := s.db.NewSelect().Model(&models).
		ModelTableExpr(s.aliased()).
		Where("r.job_id > ?", cursor).
		Order("r.job_id ASC").
		Limit(limit + 1).
		Scan(ctx)
	if err != nil && !isNoRows(err) {
		return record.Page{}, wrapErr("scan", err)
	}

	page := record.Page{Records: make([]*record.Record, 0, min(len(models), limit))}
	for i := range models {
		if i == limit {
			page.Next = models[limit-1].JobID
			break
		}
		page.Records = append(page.Records, fromRecordModel(&models[i]))
	}
	return page, nil
}
