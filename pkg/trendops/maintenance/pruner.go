// Package maintenance keeps the report history bounded.
package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/sosodev/duration"

	"github.com/cognicore/trendops/pkg/trendops/internalerr"
	"github.com/cognicore/trendops/pkg/trendops/store"
)

// Pruner deletes reports that have outlived the retention window.
type Pruner struct {
	Store     store.Store
	Retention time.Duration
	Now       func() time.Time
}

// Result summarizes a pruning run.
type Result struct {
	Cutoff  time.Time
	Deleted int
}

// Prune removes every report created before now minus Retention. A zero
// retention keeps everything.
func (p *Pruner) Prune(ctx context.Context) (Result, error) {
	var res Result
	if p.Store == nil {
		return res, fmt.Errorf("%w: pruner has no store", internalerr.ErrInvalidConfig)
	}
	if p.Retention <= 0 {
		return res, nil
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	res.Cutoff = now().UTC().Add(-p.Retention)

	n, err := p.Store.DeleteReportsBefore(ctx, res.Cutoff)
	if err != nil {
		return res, fmt.Errorf("prune reports: %w", err)
	}
	res.Deleted = n
	return res, nil
}

// ParseRetention reads an ISO-8601 duration such as "P30D" or "PT12H".
// The empty string and "0" disable pruning.
func ParseRetention(s string) (time.Duration, error) {
	if s == "" || s == "0" {
		return 0, nil
	}
	d, err := duration.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("%w: retention %q: %v", internalerr.ErrInvalidConfig, s, err)
	}
	out := d.ToTimeDuration()
	if out < 0 {
		return 0, fmt.Errorf("%w: retention %q is negative", internalerr.ErrInvalidConfig, s)
	}
	return out, nil
}
