package query_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	batchwatch "github.com/xraph/batchwatch"
	"github.com/xraph/batchwatch/query"
	"github.com/xraph/batchwatch/record"
	"github.com/xraph/batchwatch/store/memory"
)

func seeded(t *testing.T, n int, status func(i int) record.Status) *memory.Store {
	t.Helper()
	st := memory.New(memory.WithPageSize(3))
	for i := range n {
		r := &record.Record{
			JobID:     fmt.Sprintf("job-%02d", i),
			Status:    status(i),
			Timestamp: now.Add(-1).Format("2006-01-02T15:04:05Z07:00"),
		}
		if err := st.PutRecord(context.Background(), r); err != nil {
			t.Fatal(err)
		}
	}
	return st
}

func clock() func() time.Time { return func() time.Time { return now } }

func TestService_ListAllSpansPages(t *testing.T) {
	t.Parallel()
	st := seeded(t, 10, func(int) record.Status { return record.StatusRunning })
	svc := query.New(query.StoreSource(st, record.WithPageSize(3)))

	got, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 10 {
		t.Fatalf("got %d records, want 10", len(got))
	}
}

func TestService_EmptyStore(t *testing.T) {
	t.Parallel()
	svc := query.New(query.StoreSource(memory.New()))
	ctx := context.Background()

	all, err := svc.ListAll(ctx)
	if err != nil || all == nil || len(all) != 0 {
		t.Fatalf("ListAll = %#v, %v", all, err)
	}
	filtered, err := svc.Filter(ctx, query.Criteria{Statuses: []record.Status{record.StatusFailed}})
	if err != nil || filtered == nil || len(filtered) != 0 {
		t.Fatalf("Filter = %#v, %v", filtered, err)
	}
	s, err := svc.Statistics(ctx)
	if err != nil || s.Total != 0 || s.SuccessRate != 0 {
		t.Fatalf("Statistics = %+v, %v", s, err)
	}
}

func TestService_Statistics(t *testing.T) {
	t.Parallel()
	order := []record.Status{record.StatusRunning, record.StatusSucceeded, record.StatusFailed, record.StatusSucceeded}
	st := seeded(t, len(order), func(i int) record.Status { return order[i] })
	svc := query.New(query.StoreSource(st), query.WithClock(clock()))
	ctx := context.Background()

	s, err := svc.Statistics(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if s.Total != 4 || s.Succeeded != 2 || s.Failed != 1 || s.Running != 1 || s.SuccessRate != 0.5 {
		t.Fatalf("Statistics = %+v", s)
	}

	fs, err := svc.FilteredStatistics(ctx, query.Criteria{Statuses: []record.Status{record.StatusSucceeded}})
	if err != nil {
		t.Fatal(err)
	}
	if fs.Total != 2 || fs.SuccessRate != 1 {
		t.Fatalf("FilteredStatistics = %+v", fs)
	}
}

func TestService_GetByJobID(t *testing.T) {
	t.Parallel()
	st := seeded(t, 3, func(int) record.Status { return record.StatusPending })
	svc := query.New(query.StoreSource(st))
	ctx := context.Background()

	r, err := svc.GetByJobID(ctx, "job-01")
	if err != nil || r.JobID != "job-01" {
		t.Fatalf("GetByJobID = %v, %v", r, err)
	}
	for _, id := range []string{"missing", ""} {
		if _, err := svc.GetByJobID(ctx, id); !errors.Is(err, batchwatch.ErrRecordNotFound) {
			t.Errorf("GetByJobID(%q) = %v, want ErrRecordNotFound", id, err)
		}
	}
}

// sliceSource is a Source without single-key lookup.
type sliceSource struct {
	records []*record.Record
	err     error
	calls   int
}

func (s *sliceSource) Records(context.Context) ([]*record.Record, error) {
	s.calls++
	return s.records, s.err
}

func TestService_GetByJobIDFallsBackToScan(t *testing.T) {
	t.Parallel()
	src := &sliceSource{records: fixture()}
	svc := query.New(src)

	r, err := svc.GetByJobID(context.Background(), "c")
	if err != nil || r.JobID != "c" {
		t.Fatalf("GetByJobID = %v, %v", r, err)
	}
	if src.calls != 1 {
		t.Fatalf("source read %d times, want 1", src.calls)
	}
}

type fixedReader struct{ r *record.Record }

func (f fixedReader) LatestState(context.Context, string) (*record.Record, error) { return f.r, nil }

func TestService_WithStateReader(t *testing.T) {
	t.Parallel()
	want := &record.Record{JobID: "override"}
	svc := query.New(&sliceSource{}, query.WithStateReader(fixedReader{want}))

	got, err := svc.GetByJobID(context.Background(), "anything")
	if err != nil || got != want {
		t.Fatalf("GetByJobID = %v, %v", got, err)
	}
}

func TestService_SourceErrorPropagates(t *testing.T) {
	t.Parallel()
	svc := query.New(&sliceSource{err: batchwatch.ErrConnectivity})
	ctx := context.Background()

	if _, err := svc.ListAll(ctx); !errors.Is(err, batchwatch.ErrConnectivity) {
		t.Errorf("ListAll = %v", err)
	}
	if _, err := svc.Statistics(ctx); !errors.Is(err, batchwatch.ErrConnectivity) {
		t.Errorf("Statistics = %v", err)
	}
}

func TestService_FilterAfterStatusTransition(t *testing.T) {
	t.Parallel()
	st := memory.New()
	ctx := context.Background()
	for _, s := range []record.Status{record.StatusRunning, record.StatusSucceeded} {
		if err := st.PutRecord(ctx, &record.Record{JobID: "j", Status: s}); err != nil {
			t.Fatal(err)
		}
	}
	svc := query.New(query.StoreSource(st))

	running, err := svc.Filter(ctx, query.Criteria{Statuses: []record.Status{record.StatusRunning}})
	if err != nil || len(running) != 0 {
		t.Fatalf("RUNNING = %v, %v", ids(running), err)
	}
	all, err := svc.ListAll(ctx)
	if err != nil || len(all) != 1 || all[0].Status != record.StatusSucceeded {
		t.Fatalf("ListAll = %v, %v", all, err)
	}
}
