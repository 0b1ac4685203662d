// Package youtube fetches trending videos from the YouTube Data API.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"github.com/sosodev/duration"
	"golang.org/x/time/rate"

	"github.com/cognicore/trendops/pkg/trendops"
	"github.com/cognicore/trendops/pkg/trendops/internalerr"
)

const (
	DefaultBaseURL    = "https://www.googleapis.com/youtube/v3"
	DefaultMaxResults = 25
	MaxResultsCap     = 50
	DefaultTimeout    = 10 * time.Second
)

// Query selects a trending chart.
type Query struct {
	RegionCode string
	CategoryID string
	MaxResults int
}

// Options configures a Client. Zero values take the package defaults.
type Options struct {
	BaseURL    string
	APIKey     string
	MaxResults int
	RPS        float64
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Client calls the videos endpoint with rate limiting and a circuit breaker.
type Client struct {
	BaseURL    string
	APIKey     string
	MaxResults int
	HTTPClient *http.Client

	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]trendops.Item]
	log     zerolog.Logger
}

// New builds a Client.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = MaxResultsCap
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	limit := rate.Inf
	if opts.RPS > 0 {
		limit = rate.Limit(opts.RPS)
	}

	c := &Client{
		BaseURL:    strings.TrimRight(opts.BaseURL, "/"),
		APIKey:     opts.APIKey,
		MaxResults: opts.MaxResults,
		HTTPClient: opts.HTTPClient,
		limiter:    rate.NewLimiter(limit, 1),
		log:        opts.Logger,
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]trendops.Item](gobreaker.Settings{
		Name:        "youtube-api",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
		// Context cancellation is the caller's doing, not an upstream failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	return c
}

type videoListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string   `json:"title"`
			Description  string   `json:"description"`
			Tags         []string `json:"tags"`
			ChannelTitle string   `json:"channelTitle"`
			PublishedAt  string   `json:"publishedAt"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

// FetchTrending returns the most popular videos for q.
func (c *Client) FetchTrending(ctx context.Context, q Query) ([]trendops.Item, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("%w: youtube api key not configured", internalerr.ErrInvalidConfig)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	items, err := c.breaker.Execute(func() ([]trendops.Item, error) {
		return c.fetch(ctx, q)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrUpstream, err)
	}
	return items, err
}

func (c *Client) fetch(ctx context.Context, q Query) ([]trendops.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(q), nil)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: youtube api status %d: %s", internalerr.ErrUpstream, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload videoListResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode videos response: %v", internalerr.ErrUpstream, err)
	}

	items := make([]trendops.Item, 0, len(payload.Items))
	for _, v := range payload.Items {
		it := trendops.Item{
			VideoID:      v.ID,
			Title:        v.Snippet.Title,
			Description:  v.Snippet.Description,
			Tags:         v.Snippet.Tags,
			ChannelTitle: v.Snippet.ChannelTitle,
			ViewCount:    parseCount(v.Statistics.ViewCount),
			LikeCount:    parseCount(v.Statistics.LikeCount),
			CommentCount: parseCount(v.Statistics.CommentCount),
		}
		if ts, err := time.Parse(time.RFC3339, v.Snippet.PublishedAt); err == nil {
			it.PublishedAt = ts
		}
		if v.ContentDetails.Duration != "" {
			if d, err := duration.Parse(v.ContentDetails.Duration); err == nil {
				it.Duration = d.ToTimeDuration()
			}
		}
		items = append(items, it)
	}

	c.log.Debug().
		Str("region", q.RegionCode).
		Str("category", q.CategoryID).
		Int("videos", len(items)).
		Dur("elapsed", time.Since(start)).
		Msg("fetched trending videos")
	return items, nil
}

func (c *Client) requestURL(q Query) string {
	params := url.Values{}
	params.Set("part", "snippet,statistics,contentDetails")
	params.Set("chart", "mostPopular")
	params.Set("regionCode", q.RegionCode)
	params.Set("maxResults", strconv.Itoa(c.clampResults(q.MaxResults)))
	if q.CategoryID != "" {
		params.Set("videoCategoryId", q.CategoryID)
	}
	params.Set("key", c.APIKey)
	return c.BaseURL + "/videos?" + params.Encode()
}

func (c *Client) clampResults(n int) int {
	if n <= 0 {
		n = DefaultMaxResults
	}
	return min(n, c.MaxResults)
}

// parseCount reads the string counters the API returns; hidden counters are 0.
func parseCount(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
