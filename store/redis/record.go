package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/xraph/batchwatch"
	"github.com/xraph/batchwatch/record"
)

// PutRecord writes the encoded record and indexes its job ID in one
// transaction.
func (s *Store) PutRecord(ctx context.Context, r *record.Record) error {
	if err := record.Validate(r); err != nil {
		return fmt.Errorf("batchwatch/redis: put record: %w", err)
	}
	data, err := s.codec.Encode(r)
	if err != nil {
		return fmt.Errorf("batchwatch/redis: encode record: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.recordKey(r.JobID), data, 0)
	pipe.ZAdd(ctx, s.indexKey(), goredis.Z{Score: 0, Member: r.JobID})

	if _, err := pipe.Exec(ctx); err != nil {
		return wrapErr("put record", err)
	}
	return nil
}

// GetRecord loads and decodes the record stored under jobID.
func (s *Store) GetRecord(ctx context.Context, jobID string) (*record.Record, error) {
	data, err := s.client.Get(ctx, s.recordKey(jobID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, batchwatch.ErrRecordNotFound
		}
		return nil, wrapErr("get record", err)
	}

	r, err := s.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("batchwatch/redis: decode record %s: %w", jobID, err)
	}
	return r, nil
}

// ScanPage reads up to limit job IDs after cursor from the index and loads
// their values with a single MGET. Index entries whose value has been
// removed out of band are skipped.
func (s *Store) ScanPage(ctx context.Context, cursor string, limit int) (record.Page, error) {
	if limit <= 0 {
		limit = record.DefaultPageSize
	}

	ids, err := s.client.ZRangeByLex(ctx, s.indexKey(), &goredis.ZRangeBy{
		Min:   lexAfter(cursor),
		Max:   "+",
		Count: int64(limit + 1),
	}).Result()
	if err != nil {
		return record.Page{}, wrapErr("scan index", err)
	}

	page := record.Page{Records: make([]*record.Record, 0, min(len(ids), limit))}
	if len(ids) > limit {
		ids = ids[:limit]
		page.Next = ids[limit-1]
	}
	if len(ids) == 0 {
		return page, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.recordKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return record.Page{}, wrapErr("scan values", err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			s.logger.Warn("redis: indexed record has no value",
				slog.String("job_id", ids[i]),
			)
			continue
		}
		r, err := s.codec.Decode([]byte(raw))
		if err != nil {
			return record.Page{}, fmt.Errorf("batchwatch/redis: decode record %s: %w", ids[i], err)
		}
		page.Records = append(page.Records, r)
	}
	return page, nil
}
