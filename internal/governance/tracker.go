package governance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cognicore/trendops/pkg/trendops/internalerr"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Record is one tool execution.
type Record struct {
	ID              string        `json:"id"`
	Tool            string        `json:"tool"`
	Timestamp       time.Time     `json:"timestamp"`
	Duration        time.Duration `json:"-"`
	DurationMS      float64       `json:"duration_ms"`
	Status          Status        `json:"status"`
	APICalls        int           `json:"api_calls"`
	EstimatedTokens int           `json:"estimated_tokens"`
	Error           string        `json:"error,omitempty"`
}

// Usage is what an instrumented call reports back.
type Usage struct {
	APICalls        int
	EstimatedTokens int
}

// Trace summarises the session.
type Trace struct {
	SessionID       string   `json:"session_id"`
	TotalExecutions int      `json:"total_executions"`
	Successful      int      `json:"successful"`
	Failed          int      `json:"failed"`
	TotalAPICalls   int      `json:"total_api_calls"`
	TotalTokens     int      `json:"total_estimated_tokens"`
	TotalDurationMS float64  `json:"total_duration_ms"`
	RequestBudget   int      `json:"request_budget"`
	RequestsUsed    int      `json:"requests_used"`
	Records         []Record `json:"records"`
}

// Tracker records executions for one session. Safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex
	sessionID string
	budget    int
	used      int
	records   []Record

	metrics *Metrics
	log     zerolog.Logger
	now     func() time.Time
}

// NewTracker returns a tracker allowing budget external API calls; zero
// disables the limit.
func NewTracker(budget int, metrics *Metrics, log zerolog.Logger) *Tracker {
	return &Tracker{
		sessionID: uuid.NewString(),
		budget:    budget,
		metrics:   metrics,
		log:       log,
		now:       time.Now,
	}
}

// Reserve consumes n requests from the budget.
func (t *Tracker) Reserve(n int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.budget > 0 && t.used+n > t.budget {
		return fmt.Errorf("%w: session limit of %d requests reached", internalerr.ErrQuotaExceeded, t.budget)
	}
	t.used += n
	return nil
}

// Remaining reports how many requests are left; -1 means unlimited.
func (t *Tracker) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.budget <= 0 {
		return -1
	}
	return t.budget - t.used
}

// Record appends rec, assigning an ID and timestamp when missing.
func (t *Tracker) Record(rec Record) Record {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = t.now().UTC()
	}
	rec.DurationMS = float64(rec.Duration.Microseconds()) / 1000

	t.mu.Lock()
	t.records = append(t.records, rec)
	t.mu.Unlock()

	t.metrics.observe(rec)

	ev := t.log.Info()
	if rec.Status == StatusFailure {
		ev = t.log.Warn().Str("error", rec.Error)
	}
	ev.Str("tool", rec.Tool).
		Str("execution_id", rec.ID).
		Float64("duration_ms", rec.DurationMS).
		Int("api_calls", rec.APICalls).
		Int("estimated_tokens", rec.EstimatedTokens).
		Msg("tool execution")
	return rec
}

// Instrument runs fn, timing and recording it under tool.
func (t *Tracker) Instrument(ctx context.Context, tool string, fn func(ctx context.Context) (Usage, error)) error {
	start := t.now()
	usage, err := fn(ctx)
	rec := Record{
		Tool:            tool,
		Timestamp:       start.UTC(),
		Duration:        t.now().Sub(start),
		Status:          StatusSuccess,
		APICalls:        usage.APICalls,
		EstimatedTokens: usage.EstimatedTokens,
	}
	if err != nil {
		rec.Status = StatusFailure
		rec.Error = err.Error()
	}
	t.Record(rec)
	return err
}

// Trace returns a snapshot of the session.
func (t *Tracker) Trace() Trace {
	t.mu.Lock()
	defer t.mu.Unlock()

	tr := Trace{
		SessionID:     t.sessionID,
		RequestBudget: t.budget,
		RequestsUsed:  t.used,
		Records:       append([]Record(nil), t.records...),
	}
	if tr.Records == nil {
		tr.Records = []Record{}
	}
	var total time.Duration
	for _, r := range t.records {
		tr.TotalExecutions++
		if r.Status == StatusSuccess {
			tr.Successful++
		} else {
			tr.Failed++
		}
		tr.TotalAPICalls += r.APICalls
		tr.TotalTokens += r.EstimatedTokens
		total += r.Duration
	}
	tr.TotalDurationMS = float64(total.Microseconds()) / 1000
	return tr
}
