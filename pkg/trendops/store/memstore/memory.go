package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cognicore/trendops/pkg/trendops/internalerr"
	"github.com/cognicore/trendops/pkg/trendops/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu      sync.RWMutex
	reports map[string]store.StoredReport
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{reports: make(map[string]store.StoredReport)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveReport inserts or replaces a report.
func (s *Store) SaveReport(ctx context.Context, r store.StoredReport) error {
	if r.ID == "" {
		return fmt.Errorf("%w: report ID is required", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[r.ID] = r
	return nil
}

// GetReport returns a report by ID.
func (s *Store) GetReport(ctx context.Context, id string) (store.StoredReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reports[id]
	if !ok {
		return store.StoredReport{}, fmt.Errorf("report %s: %w", id, internalerr.ErrNotFound)
	}
	return r, nil
}

// ListReports returns summaries newest first.
func (s *Store) ListReports(ctx context.Context, limit int) ([]store.Summary, error) {
	if limit <= 0 {
		limit = store.DefaultListLimit
	}
	s.mu.RLock()
	out := make([]store.Summary, 0, len(s.reports))
	for _, r := range s.reports {
		out = append(out, r.Summarize())
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// DeleteReportsBefore removes reports created before cutoff.
func (s *Store) DeleteReportsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, r := range s.reports {
		if r.CreatedAt.Before(cutoff) {
			delete(s.reports, id)
			n++
		}
	}
	return n, nil
}
