package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/xraph/batchwatch"
	"github.com/xraph/batchwatch/record"
	"github.com/xraph/batchwatch/store"
)

// Ensure Store implements store.Store at compile time.
var _ store.Store = (*Store)(nil)

// Option configures a memory Store.
type Option func(*Store)

// WithPageSize caps the number of records returned by a single ScanPage,
// regardless of the limit the caller asks for. It lets tests exercise
// multi-page scans against small data sets.
func WithPageSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxPage = n
		}
	}
}

// Store is a fully in-memory implementation of store.Store.
// Safe for concurrent access. Intended for unit testing and development.
type Store struct {
	mu sync.RWMutex

	records map[string]*record.Record

	// keys holds the job IDs in ascending order; scans page over it.
	keys    []string
	maxPage int
	closed  bool
}

// New returns a new empty Store.
func New(opts ...Option) *Store {
	s := &Store{records: make(map[string]*record.Record)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ──────────────────────────────────────────────────
// Lifecycle: Migrate, Ping, Close
// ──────────────────────────────────────────────────

// Migrate is a no-op for the memory store.
func (m *Store) Migrate(_ context.Context) error { return nil }

// Ping succeeds until the store is closed.
func (m *Store) Ping(_ context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return fmt.Errorf("batchwatch/memory: ping: %w", batchwatch.ErrConnectivity)
	}
	return nil
}

// Close marks the store closed. Subsequent calls fail with ErrConnectivity.
func (m *Store) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// ──────────────────────────────────────────────────
// Record Store
// ──────────────────────────────────────────────────

// PutRecord stores a copy of r, replacing any record with the same job ID.
func (m *Store) PutRecord(_ context.Context, r *record.Record) error {
	if err := record.Validate(r); err != nil {
		return fmt.Errorf("batchwatch/memory: put record: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("batchwatch/memory: put record: %w", batchwatch.ErrConnectivity)
	}

	if _, exists := m.records[r.JobID]; !exists {
		i := sort.SearchStrings(m.keys, r.JobID)
		m.keys = append(m.keys, "")
		copy(m.keys[i+1:], m.keys[i:])
		m.keys[i] = r.JobID
	}
	m.records[r.JobID] = r.Clone()
	return nil
}

// GetRecord returns a copy of the record stored under jobID.
func (m *Store) GetRecord(_ context.Context, jobID string) (*record.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("batchwatch/memory: get record: %w", batchwatch.ErrConnectivity)
	}

	r, ok := m.records[jobID]
	if !ok {
		return nil, batchwatch.ErrRecordNotFound
	}
	return r.Clone(), nil
}

// ScanPage returns up to limit records with job IDs greater than cursor, in
// ascending job ID order. The continuation token is the last job ID returned.
func (m *Store) ScanPage(_ context.Context, cursor string, limit int) (record.Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return record.Page{}, fmt.Errorf("batchwatch/memory: scan: %w", batchwatch.ErrConnectivity)
	}

	if limit <= 0 {
		limit = record.DefaultPageSize
	}
	if m.maxPage > 0 && limit > m.maxPage {
		limit = m.maxPage
	}

	start := 0
	if cursor != "" {
		start = sort.Search(len(m.keys), func(i int) bool { return m.keys[i] > cursor })
	}
	end := min(start+limit, len(m.keys))

	page := record.Page{Records: make([]*record.Record, 0, end-start)}
	for _, k := range m.keys[start:end] {
		page.Records = append(page.Records, m.records[k].Clone())
	}
	if end < len(m.keys) {
		page.Next = m.keys[end-1]
	}
	return page, nil
}

// Len returns the number of stored records.
func (m *Store) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
