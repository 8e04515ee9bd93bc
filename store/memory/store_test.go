package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/xraph/batchwatch"
	"github.com/xraph/batchwatch/record"
	"github.com/xraph/batchwatch/store"
	"github.com/xraph/batchwatch/store/storetest"
)

func TestConformance(t *testing.T) {
	t.Parallel()
	storetest.Run(t, func(*testing.T) store.Store { return New() })
}

func TestConformance_SmallPages(t *testing.T) {
	t.Parallel()
	storetest.Run(t, func(*testing.T) store.Store { return New(WithPageSize(2)) })
}

// ──────────────────────────────────────────────────
// Lifecycle tests
// ──────────────────────────────────────────────────

func TestLifecycle(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()

	tests := []struct {
		name string
		fn   func() error
	}{
		{"Migrate", func() error { return s.Migrate(ctx) }},
		{"Ping", func() error { return s.Ping(ctx) }},
		{"Close", func() error { return s.Close() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); err != nil {
				t.Fatalf("%s returned error: %v", tt.name, err)
			}
		})
	}
}

func TestClosedStoreIsUnreachable(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()
	_ = s.Close()

	tests := []struct {
		name string
		fn   func() error
	}{
		{"Ping", func() error { return s.Ping(ctx) }},
		{"PutRecord", func() error { return s.PutRecord(ctx, &record.Record{JobID: "a"}) }},
		{"GetRecord", func() error { _, err := s.GetRecord(ctx, "a"); return err }},
		{"ScanPage", func() error { _, err := s.ScanPage(ctx, "", 10); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, batchwatch.ErrConnectivity) {
				t.Fatalf("%s error = %v, want ErrConnectivity", tt.name, err)
			}
		})
	}
}

// ──────────────────────────────────────────────────
// Record Store tests
// ──────────────────────────────────────────────────

func TestScanPage_Cursor(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()
	for _, id := range []string{"c", "a", "e", "b", "d"} {
		if err := s.PutRecord(ctx, &record.Record{JobID: id}); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name     string
		cursor   string
		limit    int
		wantIDs  []string
		wantNext string
	}{
		{"first page", "", 2, []string{"a", "b"}, "b"},
		{"middle page", "b", 2, []string{"c", "d"}, "d"},
		{"last page", "d", 2, []string{"e"}, ""},
		{"exact end", "c", 2, []string{"d", "e"}, ""},
		{"past end", "e", 2, []string{}, ""},
		{"cursor between keys", "bb", 10, []string{"c", "d", "e"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := s.ScanPage(ctx, tt.cursor, tt.limit)
			if err != nil {
				t.Fatal(err)
			}
			if len(page.Records) != len(tt.wantIDs) {
				t.Fatalf("got %d records, want %d", len(page.Records), len(tt.wantIDs))
			}
			for i, r := range page.Records {
				if r.JobID != tt.wantIDs[i] {
					t.Errorf("record %d = %q, want %q", i, r.JobID, tt.wantIDs[i])
				}
			}
			if page.Next != tt.wantNext {
				t.Errorf("Next = %q, want %q", page.Next, tt.wantNext)
			}
		})
	}
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()

	in := &record.Record{JobID: "a", Status: record.StatusRunning}
	if err := s.PutRecord(ctx, in); err != nil {
		t.Fatal(err)
	}
	in.Status = record.StatusFailed

	got, err := s.GetRecord(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != record.StatusRunning {
		t.Fatalf("store observed caller mutation: %s", got.Status)
	}
	got.Status = record.StatusFailed

	again, _ := s.GetRecord(ctx, "a")
	if again.Status != record.StatusRunning {
		t.Fatalf("store observed reader mutation: %s", again.Status)
	}
}

func TestConcurrentPuts(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				_ = s.PutRecord(ctx, &record.Record{JobID: "shared", StatusReason: string(rune('a' + w))})
			}
		}()
	}
	wg.Wait()

	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
}
