package middleware

import (
	"context"

	"github.com/xraph/batchwatch/record"
	"github.com/xraph/batchwatch/store"
)

// Wrap returns a store that runs every call through mws. Close is passed
// through unwrapped.
func Wrap(s store.Store, mws ...Middleware) store.Store {
	if len(mws) == 0 {
		return s
	}
	return &wrapped{next: s, chain: Chain(mws...)}
}

type wrapped struct {
	next  store.Store
	chain Middleware
}

var _ store.Store = (*wrapped)(nil)

func (w *wrapped) PutRecord(ctx context.Context, r *record.Record) error {
	op := &Op{Name: OpPutRecord, JobID: r.JobID}
	return w.chain(ctx, op, func(ctx context.Context) error {
		return w.next.PutRecord(ctx, r)
	})
}

func (w *wrapped) GetRecord(ctx context.Context, jobID string) (*record.Record, error) {
	var out *record.Record
	op := &Op{Name: OpGetRecord, JobID: jobID}
	err := w.chain(ctx, op, func(ctx context.Context) error {
		var err error
		out, err = w.next.GetRecord(ctx, jobID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (w *wrapped) ScanPage(ctx context.Context, cursor string, limit int) (record.Page, error) {
	var out record.Page
	op := &Op{Name: OpScanPage, Cursor: cursor, Limit: limit}
	err := w.chain(ctx, op, func(ctx context.Context) error {
		var err error
		out, err = w.next.ScanPage(ctx, cursor, limit)
		return err
	})
	if err != nil {
		return record.Page{}, err
	}
	return out, nil
}

func (w *wrapped) Migrate(ctx context.Context) error {
	return w.chain(ctx, &Op{Name: OpMigrate}, w.next.Migrate)
}

func (w *wrapped) Ping(ctx context.Context) error {
	return w.chain(ctx, &Op{Name: OpPing}, w.next.Ping)
}

func (w *wrapped) Close() error { return w.next.Close() }
