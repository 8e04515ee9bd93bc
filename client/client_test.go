package client_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	batchwatch "github.com/xraph/batchwatch"
	"github.com/xraph/batchwatch/api"
	"github.com/xraph/batchwatch/cache"
	"github.com/xraph/batchwatch/client"
	"github.com/xraph/batchwatch/ingest"
	"github.com/xraph/batchwatch/query"
	"github.com/xraph/batchwatch/record"
	"github.com/xraph/batchwatch/store/memory"
)

func init() { gin.SetMode(gin.TestMode) }

// ── Test Helpers ──────────────────────────────────────

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupClientTest serves a full API over httptest backed by a memory store
// and returns a client pointed at it.
func setupClientTest(t *testing.T) (*client.Client, *memory.Store) {
	t.Helper()

	st := memory.New()
	c := cache.New(query.StoreSource(st), -1)
	handler := api.New(query.New(c),
		api.WithIngester(ingest.New(st)),
		api.WithCache(c),
		api.WithHealth(st),
		api.WithLogger(testLogger()),
	).Handler()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cl, err := client.New(srv.URL+"/", client.WithLogger(testLogger()))
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}
	return cl, st
}

func seed(t *testing.T, st *memory.Store, records ...*record.Record) {
	t.Helper()
	for _, r := range records {
		if err := st.PutRecord(context.Background(), r); err != nil {
			t.Fatal(err)
		}
	}
}

func event(jobID, status string) []byte {
	return []byte(`{"detail-type":"Batch Job State Change","region":"eu-west-1","time":"2026-01-02T03:04:05Z",` +
		`"detail":{"jobId":"` + jobID + `","jobName":"TextRecognition","status":"` + status + `",` +
		`"jobQueue":"arn:aws:batch:eu-west-1:1:job-queue/text-recognition-pre"}}`)
}

// ── Tests ─────────────────────────────────────────────

func TestNew_RejectsRelativeURL(t *testing.T) {
	if _, err := client.New("localhost:8080/api"); err == nil {
		t.Fatal("expected error for relative base url")
	}
}

func TestPublishThenGet(t *testing.T) {
	cl, _ := setupClientTest(t)
	ctx := context.Background()

	receipt, err := cl.PublishEvent(ctx, event("job-1", "RUNNING"))
	if err != nil {
		t.Fatalf("PublishEvent: %v", err)
	}
	if receipt.JobID != "job-1" || receipt.Status != record.StatusRunning {
		t.Fatalf("receipt = %+v", receipt)
	}

	got, err := cl.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.Status != record.StatusRunning || got.Region != "eu-west-1" {
		t.Fatalf("record = %+v", got)
	}
}

func TestErrorsMapToSentinels(t *testing.T) {
	cl, st := setupClientTest(t)
	ctx := context.Background()

	if _, err := cl.GetJob(ctx, "missing"); !errors.Is(err, batchwatch.ErrRecordNotFound) {
		t.Errorf("GetJob missing: got %v, want ErrRecordNotFound", err)
	}

	_, err := cl.PublishEvent(ctx, []byte(`{"detail":{}}`))
	if !errors.Is(err, ingest.ErrInvalidEvent) {
		t.Errorf("PublishEvent invalid: got %v, want ErrInvalidEvent", err)
	}
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest || apiErr.Message == "" {
		t.Errorf("expected APIError with message, got %#v", err)
	}

	_ = st.Close()
	if err := cl.Healthy(ctx); !errors.Is(err, batchwatch.ErrConnectivity) {
		t.Errorf("Healthy after close: got %v, want ErrConnectivity", err)
	}
}

func TestListJobs_Filters(t *testing.T) {
	cl, st := setupClientTest(t)
	seed(t, st,
		&record.Record{JobID: "a", Status: record.StatusFailed, Region: "eu-west-1", Timestamp: "2026-01-01T00:00:00Z"},
		&record.Record{JobID: "b", Status: record.StatusSucceeded, Region: "us-east-1", Timestamp: "2026-01-03T00:00:00Z"},
		&record.Record{JobID: "c", Status: record.StatusFailed, Region: "us-east-1", Timestamp: "2026-01-02T00:00:00Z"},
	)
	ctx := context.Background()

	tests := []struct {
		name string
		opts client.ListOptions
		want []string
	}{
		{"all by job id", client.ListOptions{Sort: client.SortJobID}, []string{"a", "b", "c"}},
		{"newest first", client.ListOptions{Sort: client.SortTimestamp}, []string{"b", "c", "a"}},
		{"failed", client.ListOptions{
			Criteria: query.Criteria{Statuses: []record.Status{record.StatusFailed}},
			Sort:     client.SortJobID,
		}, []string{"a", "c"}},
		{"failed in us-east-1", client.ListOptions{
			Criteria: query.Criteria{Statuses: []record.Status{record.StatusFailed}, Regions: []string{"us-east-1"}},
		}, []string{"c"}},
		{"no match", client.ListOptions{Criteria: query.Criteria{Regions: []string{"ap-south-1"}}}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs, err := cl.ListJobs(ctx, tt.opts)
			if err != nil {
				t.Fatalf("ListJobs: %v", err)
			}
			if jobs == nil {
				t.Fatal("ListJobs returned nil slice")
			}
			if len(jobs) != len(tt.want) {
				t.Fatalf("got %d jobs, want %d", len(jobs), len(tt.want))
			}
			for i, id := range tt.want {
				if jobs[i].JobID != id {
					t.Errorf("jobs[%d] = %q, want %q", i, jobs[i].JobID, id)
				}
			}
		})
	}
}

func TestStats(t *testing.T) {
	cl, st := setupClientTest(t)
	seed(t, st,
		&record.Record{JobID: "a", Status: record.StatusSucceeded},
		&record.Record{JobID: "b", Status: record.StatusFailed},
		&record.Record{JobID: "c", Status: record.StatusRunning},
		&record.Record{JobID: "d", Status: record.StatusSucceeded},
	)

	s, err := cl.Stats(context.Background(), query.Criteria{})
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if s.Total != 4 || s.Succeeded != 2 || s.Failed != 1 || s.Running != 1 {
		t.Fatalf("stats = %+v", s.Statistics)
	}
	if s.SuccessPercent != 50 || s.Filtered {
		t.Fatalf("percent=%v filtered=%v", s.SuccessPercent, s.Filtered)
	}

	filtered, err := cl.Stats(context.Background(), query.Criteria{Statuses: []record.Status{record.StatusFailed}})
	if err != nil {
		t.Fatal(err)
	}
	if !filtered.Filtered || filtered.Total != 1 {
		t.Fatalf("filtered stats = %+v", filtered)
	}
}

func TestExportJobs(t *testing.T) {
	cl, st := setupClientTest(t)
	seed(t, st, &record.Record{JobID: "a", Status: record.StatusSucceeded})

	data, err := cl.ExportJobs(context.Background(), query.Criteria{})
	if err != nil {
		t.Fatalf("ExportJobs: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	if idx, _ := f.GetSheetIndex("Jobs"); idx < 0 {
		t.Fatal("Jobs sheet missing")
	}
}

func TestClearCache(t *testing.T) {
	cl, _ := setupClientTest(t)
	if err := cl.ClearCache(context.Background()); err != nil {
		t.Fatalf("ClearCache: %v", err)
	}
}

func TestWithHeader(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cl, err := client.New(srv.URL, client.WithHeader("Authorization", "Bearer t0k"))
	if err != nil {
		t.Fatal(err)
	}
	if err := cl.Healthy(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got != "Bearer t0k" {
		t.Fatalf("Authorization = %q", got)
	}
}

func TestUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	cl, err := client.New(srv.URL, client.WithHTTPClient(&http.Client{Timeout: time.Second}))
	if err != nil {
		t.Fatal(err)
	}
	err = cl.Healthy(context.Background())
	if !errors.Is(err, client.ErrUnexpectedStatus) {
		t.Fatalf("got %v, want ErrUnexpectedStatus", err)
	}
}
