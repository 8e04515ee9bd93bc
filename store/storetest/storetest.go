// Package storetest provides a conformance suite that every store backend
// runs against its own implementation.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/xraph/batchwatch"
	"github.com/xraph/batchwatch/record"
	"github.com/xraph/batchwatch/store"
)

// Factory returns a fresh, migrated and empty store. The suite closes it.
type Factory func(t *testing.T) store.Store

// Run executes the record store conformance suite.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, s store.Store)
	}{
		{"PutAndGet", testPutAndGet},
		{"GetMissing", testGetMissing},
		{"OverwriteLastWriterWins", testOverwrite},
		{"OverwriteDropsAbsentFields", testOverwriteDropsFields},
		{"StatusTransition", testStatusTransition},
		{"ScanEmpty", testScanEmpty},
		{"ScanMultiPage", testScanMultiPage},
		{"RejectsInvalidRecord", testRejectsInvalidRecord},
		{"Ping", testPing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			t.Cleanup(func() { _ = s.Close() })
			tt.fn(t, s)
		})
	}
}

// Sample returns a fully populated record for jobID.
func Sample(jobID string, status record.Status) *record.Record {
	return &record.Record{
		JobID:         jobID,
		Timestamp:     "2025-12-23T13:47:15Z",
		JobName:       "pre-694a9d57b88940a9e5cd3bee-1766497635776",
		Status:        status,
		JobQueue:      "arn:aws:batch:eu-west-1:123456789012:job-queue/storage-standard-pre",
		JobDefinition: "arn:aws:batch:eu-west-1:123456789012:job-definition/storage-pre-v2:129",
		Region:        "eu-west-1",
		Account:       "123456789012",
		StatusReason:  "",
		FullEvent:     `{"detail":{"jobId":"` + jobID + `"}}`,
		MediaID:       "694a9d57b88940a9e5cd3bee",
		TaskID:        "694a9d57b88940a9e5cd3bee",
	}
}

func testPutAndGet(t *testing.T, s store.Store) {
	ctx := context.Background()
	want := Sample("job-1", record.StatusRunning)
	want.WorkspaceUID = "ws-1"
	want.AssemblyID = "5f0c2a9d1e3b4c5d6e7f8a9b"

	mustPut(t, s, want)

	got, err := s.GetRecord(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if *got != *want {
		t.Fatalf("GetRecord = %+v, want %+v", got, want)
	}
}

func testGetMissing(t *testing.T, s store.Store) {
	_, err := s.GetRecord(context.Background(), "does-not-exist")
	if !errors.Is(err, batchwatch.ErrRecordNotFound) {
		t.Fatalf("GetRecord error = %v, want ErrRecordNotFound", err)
	}
}

func testOverwrite(t *testing.T, s store.Store) {
	ctx := context.Background()
	statuses := []record.Status{
		record.StatusSubmitted, record.StatusPending, record.StatusRunnable,
		record.StatusStarting, record.StatusRunning, record.StatusFailed,
	}
	var last *record.Record
	for i, st := range statuses {
		last = Sample("job-ow", st)
		last.StatusReason = fmt.Sprintf("attempt %d", i)
		mustPut(t, s, last)
	}

	got, err := s.GetRecord(ctx, "job-ow")
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if *got != *last {
		t.Fatalf("GetRecord = %+v, want last write %+v", got, last)
	}

	all, err := record.Collect(ctx, s)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("Collect returned %d records, want 1", len(all))
	}
}

func testOverwriteDropsFields(t *testing.T, s store.Store) {
	ctx := context.Background()
	first := Sample("job-drop", record.StatusRunning)
	first.WorkspaceUID = "ws-1"
	mustPut(t, s, first)

	second := Sample("job-drop", record.StatusSucceeded)
	second.MediaID = ""
	second.TaskID = ""
	mustPut(t, s, second)

	got, err := s.GetRecord(ctx, "job-drop")
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if got.MediaID != "" || got.TaskID != "" || got.WorkspaceUID != "" {
		t.Fatalf("optional fields merged from previous write: %+v", got)
	}
}

func testStatusTransition(t *testing.T, s store.Store) {
	ctx := context.Background()
	mustPut(t, s, Sample("job-t", record.StatusRunning))
	mustPut(t, s, Sample("job-t", record.StatusSucceeded))

	all, err := record.Collect(ctx, s)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(all) != 1 || all[0].Status != record.StatusSucceeded {
		t.Fatalf("Collect = %+v, want one SUCCEEDED record", all)
	}
}

func testScanEmpty(t *testing.T, s store.Store) {
	all, err := record.Collect(context.Background(), s)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if all == nil || len(all) != 0 {
		t.Fatalf("Collect = %#v, want empty non-nil", all)
	}
}

func testScanMultiPage(t *testing.T, s store.Store) {
	ctx := context.Background()
	const n = 23
	for i := range n {
		mustPut(t, s, Sample(fmt.Sprintf("job-%02d", i), record.StatusRunning))
	}

	seen := make(map[string]int, n)
	for r, err := range record.Scan(ctx, s, record.WithPageSize(4)) {
		if err != nil {
			t.Fatalf("Scan: %v", err)
		}
		seen[r.JobID]++
	}
	if len(seen) != n {
		t.Fatalf("Scan saw %d distinct records, want %d", len(seen), n)
	}
	for id, c := range seen {
		if c != 1 {
			t.Errorf("record %s yielded %d times", id, c)
		}
	}
}

func testPing(t *testing.T, s store.Store) {
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func mustPut(t *testing.T, s store.Store, r *record.Record) {
	t.Helper()
	if err := s.PutRecord(context.Background(), r); err != nil {
		t.Fatalf("PutRecord(%s): %v", r.JobID, err)
	}
}

func testRejectsInvalidRecord(t *testing.T, s store.Store) {
	ctx := context.Background()

	if err := s.PutRecord(ctx, nil); !errors.Is(err, batchwatch.ErrInvalidRecord) {
		t.Fatalf("PutRecord(nil) = %v, want ErrInvalidRecord", err)
	}
	if err := s.PutRecord(ctx, Sample("", record.StatusRunning)); !errors.Is(err, batchwatch.ErrInvalidRecord) {
		t.Fatalf("PutRecord(empty job id) = %v, want ErrInvalidRecord", err)
	}

	mustPut(t, s, Sample("a", record.StatusRunning))
	mustPut(t, s, Sample("b", record.StatusRunning))

	got, err := record.Collect(ctx, s, record.WithPageSize(1))
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("scanned %d records, want 2", len(got))
	}
	if _, err := s.GetRecord(ctx, ""); !errors.Is(err, batchwatch.ErrRecordNotFound) {
		t.Fatalf("GetRecord(\"\") = %v, want ErrRecordNotFound", err)
	}
}
