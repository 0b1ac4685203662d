package governance

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/trendops/pkg/trendops/internalerr"
)

func TestNormalizeDefaults(t *testing.T) {
	req := AnalyzeRequest{RegionCode: " gb "}
	require.NoError(t, req.Normalize(25, 50))
	assert.Equal(t, "GB", req.RegionCode)
	assert.Equal(t, 25, req.MaxResults)

	empty := AnalyzeRequest{}
	require.NoError(t, empty.Normalize(25, 50))
	assert.Equal(t, DefaultRegion, empty.RegionCode)
}

func TestNormalizeRejects(t *testing.T) {
	cases := []struct {
		name string
		req  AnalyzeRequest
		max  int
		want string
	}{
		{"unknown region", AnalyzeRequest{RegionCode: "XX"}, 0, "invalid region code"},
		{"unknown category", AnalyzeRequest{RegionCode: "US", CategoryID: "99"}, 0, "invalid category id"},
		{"too many", AnalyzeRequest{RegionCode: "US", MaxResults: 51}, 0, "between 1 and 50"},
		{"negative", AnalyzeRequest{RegionCode: "US", MaxResults: -1}, 0, "between 1 and 50"},
		{"over configured cap", AnalyzeRequest{RegionCode: "US", MaxResults: 40}, 30, "at most 30"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Normalize(25, tc.max)
			require.Error(t, err)
			assert.ErrorIs(t, err, internalerr.ErrInvalidInput)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestNormalizeAcceptsCategory(t *testing.T) {
	req := AnalyzeRequest{RegionCode: "jp", CategoryID: "20", MaxResults: 50}
	assert.NoError(t, req.Normalize(25, 50))
}

func TestTrackerBudget(t *testing.T) {
	tr := NewTracker(2, nil, zerolog.New(io.Discard))
	require.NoError(t, tr.Reserve(1))
	require.NoError(t, tr.Reserve(1))
	assert.Equal(t, 0, tr.Remaining())
	assert.ErrorIs(t, tr.Reserve(1), internalerr.ErrQuotaExceeded)

	unlimited := NewTracker(0, nil, zerolog.New(io.Discard))
	require.NoError(t, unlimited.Reserve(1000))
	assert.Equal(t, -1, unlimited.Remaining())
}

func TestInstrumentRecordsAndCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	tr := NewTracker(10, m, zerolog.New(io.Discard))

	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tr.now = func() time.Time {
		clock = clock.Add(250 * time.Millisecond)
		return clock
	}

	err := tr.Instrument(context.Background(), "youtube_fetch", func(context.Context) (Usage, error) {
		return Usage{APICalls: 1}, nil
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = tr.Instrument(context.Background(), "llm_report", func(context.Context) (Usage, error) {
		return Usage{EstimatedTokens: 120}, boom
	})
	assert.ErrorIs(t, err, boom)

	trace := tr.Trace()
	assert.NotEmpty(t, trace.SessionID)
	assert.Equal(t, 2, trace.TotalExecutions)
	assert.Equal(t, 1, trace.Successful)
	assert.Equal(t, 1, trace.Failed)
	assert.Equal(t, 1, trace.TotalAPICalls)
	assert.Equal(t, 120, trace.TotalTokens)
	assert.InDelta(t, 500.0, trace.TotalDurationMS, 0.001)
	require.Len(t, trace.Records, 2)
	assert.Equal(t, "boom", trace.Records[1].Error)
	assert.NotEqual(t, trace.Records[0].ID, trace.Records[1].ID)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Executions.WithLabelValues("youtube_fetch", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Executions.WithLabelValues("llm_report", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.APICalls))
	assert.Equal(t, 120.0, testutil.ToFloat64(m.LLMTokens))
}

func TestTraceEmpty(t *testing.T) {
	tr := NewTracker(5, nil, zerolog.New(io.Discard))
	trace := tr.Trace()
	assert.Equal(t, 0, trace.TotalExecutions)
	assert.NotNil(t, trace.Records)
	assert.Equal(t, 5, trace.RequestBudget)
}

func TestTrackerConcurrent(t *testing.T) {
	tr := NewTracker(0, NewMetrics(prometheus.NewRegistry()), zerolog.New(io.Discard))
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = tr.Instrument(context.Background(), "analyze", func(context.Context) (Usage, error) {
				return Usage{}, nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 16, tr.Trace().TotalExecutions)
}
