package query

import (
	"context"

	batchwatch "github.com/xraph/batchwatch"
	"github.com/xraph/batchwatch/record"
)

// Source yields the complete record set.
type Source interface {
	Records(ctx context.Context) ([]*record.Record, error)
}

// StateReader resolves the current state of one job.
type StateReader interface {
	LatestState(ctx context.Context, jobID string) (*record.Record, error)
}

// LatestFromStore reads state straight from a store. Stores keep only the
// latest record per job, so this is a plain GetRecord; there is nothing to
// deduplicate.
type LatestFromStore struct {
	Store record.Store
}

// LatestState returns the stored record for jobID.
func (l LatestFromStore) LatestState(ctx context.Context, jobID string) (*record.Record, error) {
	return l.Store.GetRecord(ctx, jobID)
}

// StoreSource reads the full set from st with record.Scan. It also
// implements StateReader through LatestFromStore.
func StoreSource(st record.Store, opts ...record.ScanOption) Source {
	return &storeSource{LatestFromStore: LatestFromStore{Store: st}, opts: opts}
}

type storeSource struct {
	LatestFromStore
	opts []record.ScanOption
}

func (s *storeSource) Records(ctx context.Context) ([]*record.Record, error) {
	return record.Collect(ctx, s.Store, s.opts...)
}

// scanReader finds a job by scanning a source. It backs sources that
// cannot look up a single key.
type scanReader struct {
	source Source
}

func (s scanReader) LatestState(ctx context.Context, jobID string) (*record.Record, error) {
	records, err := s.source.Records(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if r.JobID == jobID {
			return r, nil
		}
	}
	return nil, batchwatch.ErrRecordNotFound
}
