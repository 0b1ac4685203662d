package store

import (
	"context"
	"time"

	"github.com/cognicore/trendops/pkg/trendops/report"
)

// Store persists analysis reports. It lives outside the analytics engine,
// which never reads or writes it.
type Store interface {
	Close() error

	// SaveReport inserts or replaces a report keyed by ID.
	SaveReport(ctx context.Context, r StoredReport) error
	// GetReport returns internalerr.ErrNotFound for unknown IDs.
	GetReport(ctx context.Context, id string) (StoredReport, error)
	// ListReports returns the newest summaries first.
	ListReports(ctx context.Context, limit int) ([]Summary, error)
	// DeleteReportsBefore removes reports created strictly before cutoff and
	// returns how many were removed.
	DeleteReportsBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// StoredReport is a report with the request that produced it
type StoredReport struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"createdAt"`
	Region    string        `json:"region"`
	Category  string        `json:"category,omitempty"`
	Report    report.Report `json:"report"`
}

// Summary is the list view of a stored report
type Summary struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	Region      string    `json:"region"`
	Category    string    `json:"category,omitempty"`
	TotalVideos int       `json:"totalVideos"`
	Insights    string    `json:"insights"`
}

// Summarize derives the list view of r.
func (r StoredReport) Summarize() Summary {
	return Summary{
		ID:          r.ID,
		CreatedAt:   r.CreatedAt,
		Region:      r.Region,
		Category:    r.Category,
		TotalVideos: r.Report.Metrics.TotalVideos,
		Insights:    r.Report.Insights,
	}
}

// DefaultListLimit applies when ListReports is called with limit <= 0.
const DefaultListLimit = 20
