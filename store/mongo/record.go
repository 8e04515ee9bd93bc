package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/batchwatch"
	"github.com/xraph/batchwatch/record"
)

// PutRecord replaces the document for r.JobID, inserting it when absent.
func (s *Store) PutRecord(ctx context.Context, r *record.Record) error {
	if err := record.Validate(r); err != nil {
		return fmt.Errorf("batchwatch/mongo: put record: %w", err)
	}
	_, err := s.records().ReplaceOne(ctx,
		bson.M{"_id": r.JobID},
		toRecordModel(r),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return wrapErr("put record", err)
	}
	return nil
}

// GetRecord retrieves a record by job ID.
func (s *Store) GetRecord(ctx context.Context, jobID string) (*record.Record, error) {
	var m recordModel
	err := s.records().FindOne(ctx, bson.M{"_id": jobID}).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, batchwatch.ErrRecordNotFound
		}
		return nil, wrapErr("get record", err)
	}
	return fromRecordModel(&m), nil
}

// ScanPage returns up to limit records with _id greater than cursor,
// ordered by _id.
func (s *Store) ScanPage(ctx context.Context, cursor string, limit int) (record.Page, error) {
	if limit <= 0 {
		limit = record.DefaultPageSize
	}

	filter := bson.M{}
	if cursor != "" {
		filter["_id"] = bson.M{"$gt": cursor}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(int64(limit + 1))

	cur, err := s.records().Find(ctx, filter, opts)
	if err != nil {
		return record.Page{}, wrapErr("scan", err)
	}

	var models []recordModel
	if err := cur.All(ctx, &models); err != nil {
		return record.Page{}, wrapErr("scan decode", err)
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
