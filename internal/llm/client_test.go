package llm

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/cognicore/trendops/pkg/trendops"
	"github.com/cognicore/trendops/pkg/trendops/internalerr"
	"github.com/cognicore/trendops/pkg/trendops/keywords"
	"github.com/cognicore/trendops/pkg/trendops/scoring"
)

type roundTrip func(*http.Request) *http.Response

func (rt roundTrip) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt(req), nil
}

func sampleReport() trendops.Report {
	return trendops.Report{
		TopThemes: []scoring.ThemeEngagement{
			{Theme: "goals", Keywords: []string{"goals", "derby"}, VideoCount: 2, AvgEngagement: 50.33},
		},
		TopKeywords: []keywords.Keyword{{Keyword: "goals", Frequency: 3}},
		Insights:    "Average engagement score: 40.00/100",
		Anomalies:   []scoring.Anomaly{},
	}
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestIntelligenceReportSuccess(t *testing.T) {
	client := New(Config{
		APIKey:  "test-key",
		BaseURL: "https://api.test/v1/",
		Model:   "gpt-test",
		HTTPClient: &http.Client{
			Transport: roundTrip(func(req *http.Request) *http.Response {
				if req.URL.String() != "https://api.test/v1/chat/completions" {
					t.Fatalf("unexpected url %s", req.URL)
				}
				if got := req.Header.Get("Authorization"); got != "Bearer test-key" {
					t.Fatalf("unexpected auth header %q", got)
				}
				body, _ := io.ReadAll(req.Body)
				if !strings.Contains(string(body), "Region: GB") || !strings.Contains(string(body), "goals") {
					t.Fatalf("expected report facts in payload: %s", body)
				}
				return jsonResponse(200, `{
					"model":"gpt-test",
					"choices":[{"message":{"role":"assistant","content":"  Football dominates.  "}}],
					"usage":{"prompt_tokens":80,"completion_tokens":20,"total_tokens":100}
				}`)
			}),
		},
	})

	intel, err := client.IntelligenceReport(context.Background(), sampleReport(), "GB")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intel.Summary != "Football dominates." {
		t.Fatalf("unexpected summary %q", intel.Summary)
	}
	if intel.Model != "gpt-test" || intel.EstimatedTokens != 100 {
		t.Fatalf("unexpected metadata %+v", intel)
	}
}

func TestIntelligenceReportDisabled(t *testing.T) {
	client := New(Config{})
	if client.Enabled() {
		t.Fatalf("expected disabled client")
	}
	intel, err := client.IntelligenceReport(context.Background(), sampleReport(), "US")
	if err != nil || intel != nil {
		t.Fatalf("expected nil, nil; got %v, %v", intel, err)
	}
}

func TestIntelligenceReportUpstreamError(t *testing.T) {
	client := New(Config{
		APIKey:  "k",
		BaseURL: "https://api.test/v1",
		HTTPClient: &http.Client{
			Transport: roundTrip(func(req *http.Request) *http.Response {
				return jsonResponse(500, `{"error":{"message":"overloaded","type":"server_error"}}`)
			}),
		},
	})
	_, err := client.IntelligenceReport(context.Background(), sampleReport(), "US")
	if !errors.Is(err, internalerr.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestIntelligenceReportEmptyChoices(t *testing.T) {
	client := New(Config{
		APIKey:  "k",
		BaseURL: "https://api.test/v1",
		HTTPClient: &http.Client{
			Transport: roundTrip(func(req *http.Request) *http.Response {
				return jsonResponse(200, `{"choices":[]}`)
			}),
		},
	})
	_, err := client.IntelligenceReport(context.Background(), sampleReport(), "US")
	if !errors.Is(err, internalerr.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestFormatPrompt(t *testing.T) {
	rep := sampleReport()
	rep.Anomalies = []scoring.Anomaly{{Title: "Viral clip", EngagementScore: 99, ZScore: 2.5, Type: scoring.AnomalyHigh}}
	prompt := formatPrompt(rep, "US")
	for _, want := range []string{"Region: US", "1. goals (2 videos, avg 50.33)", "Keywords: goals, derby", "goals (3)", "Viral clip"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}
