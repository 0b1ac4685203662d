package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/trendops/pkg/trendops/internalerr"
	"github.com/cognicore/trendops/pkg/trendops/report"
	"github.com/cognicore/trendops/pkg/trendops/store"
)

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Reports are small and written once per analysis; a single connection
	// avoids SQLITE_BUSY between pooled writers.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS reports (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	region TEXT,
	category TEXT,
	total_videos INTEGER NOT NULL DEFAULT 0,
	insights TEXT,
	report_json TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveReport inserts or replaces a report
func (s *sqliteStore) SaveReport(ctx context.Context, r store.StoredReport) error {
	if r.ID == "" {
		return fmt.Errorf("%w: report ID is required", internalerr.ErrInvalidInput)
	}
	payload, err := json.Marshal(r.Report)
	if err != nil {
		return fmt.Errorf("encode report %s: %w", r.ID, err)
	}

	const stmt = `
INSERT INTO reports (id, created_at, region, category, total_videos, insights, report_json)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	created_at=excluded.created_at,
	region=excluded.region,
	category=excluded.category,
	total_videos=excluded.total_videos,
	insights=excluded.insights,
	report_json=excluded.report_json;
`
	_, err = s.db.ExecContext(ctx, stmt,
		r.ID,
		r.CreatedAt.UTC().Format(timeLayout),
		r.Region,
		r.Category,
		r.Report.Metrics.TotalVideos,
		r.Report.Insights,
		string(payload),
	)
	return err
}

// GetReport loads a report by ID
func (s *sqliteStore) GetReport(ctx context.Context, id string) (store.StoredReport, error) {
	const q = `SELECT id, created_at, region, category, report_json FROM reports WHERE id = ?`

	var (
		r         store.StoredReport
		createdAt string
		region    sql.NullString
		category  sql.NullString
		payload   string
	)
	err := s.db.QueryRowContext(ctx, q, id).Scan(&r.ID, &createdAt, &region, &category, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return store.StoredReport{}, fmt.Errorf("report %s: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.StoredReport{}, err
	}

	r.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return store.StoredReport{}, fmt.Errorf("parse created_at for %s: %w", id, err)
	}
	r.Region = region.String
	r.Category = category.String

	var rep report.Report
	if err := json.Unmarshal([]byte(payload), &rep); err != nil {
		return store.StoredReport{}, fmt.Errorf("decode report %s: %w", id, err)
	}
	r.Report = rep
	return r, nil
}

// ListReports returns the newest summaries first
func (s *sqliteStore) ListReports(ctx context.Context, limit int) ([]store.Summary, error) {
	if limit <= 0 {
		limit = store.DefaultListLimit
	}
	const q = `
SELECT id, created_at, region, category, total_videos, insights
FROM reports
ORDER BY created_at DESC, id DESC
LIMIT ?
`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []store.Summary{}
	for rows.Next() {
		var (
			sum       store.Summary
			createdAt string
			region    sql.NullString
			category  sql.NullString
			insights  sql.NullString
		)
		if err := rows.Scan(&sum.ID, &createdAt, &region, &category, &sum.TotalVideos, &insights); err != nil {
			return nil, err
		}
		sum.CreatedAt, err = time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at for %s: %w", sum.ID, err)
		}
		sum.Region = region.String
		sum.Category = category.String
		sum.Insights = insights.String
		out = append(out, sum)
	}
	return out, rows.Err()
}

// DeleteReportsBefore removes reports older than cutoff
func (s *sqliteStore) DeleteReportsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE created_at < ?`, cutoff.UTC().Format(timeLayout))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
