// Package llm turns an analytics report into a short written briefing using
// an OpenAI-compatible chat endpoint.
package llm

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/cognicore/trendops/pkg/trendops"
	"github.com/cognicore/trendops/pkg/trendops/internalerr"
)

const DefaultModel = "gpt-4o-mini"

const systemPrompt = "You are a content strategy analyst. Answer using ONLY the provided metrics. Do not invent numbers."

// Intelligence is the generated briefing.
type Intelligence struct {
	Summary         string `json:"summary"`
	Model           string `json:"model"`
	EstimatedTokens int    `json:"estimated_tokens"`
}

// Config configures a Client.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// Client calls a chat completion endpoint.
type Client struct {
	model  string
	client *openai.Client
}

// New returns nil when cfg has no API key; a nil Client is disabled.
func New(cfg Config) *Client {
	if cfg.APIKey == "" {
		return nil
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.HTTPClient != nil {
		oc.HTTPClient = cfg.HTTPClient
	} else {
		oc.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{model: model, client: openai.NewClientWithConfig(oc)}
}

// Enabled reports whether c can make calls.
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// IntelligenceReport writes a briefing grounded in rep. A disabled client
// returns nil, nil.
func (c *Client) IntelligenceReport(ctx context.Context, rep trendops.Report, region string) (*Intelligence, error) {
	if !c.Enabled() {
		return nil, nil
	}
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: formatPrompt(rep, region)},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: llm: %v", internalerr.ErrUpstream, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: llm: empty response", internalerr.ErrUpstream)
	}
	return &Intelligence{
		Summary:         strings.TrimSpace(resp.Choices[0].Message.Content),
		Model:           resp.Model,
		EstimatedTokens: resp.Usage.TotalTokens,
	}, nil
}

func formatPrompt(rep trendops.Report, region string) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Region: %s\n", region)
	fmt.Fprintf(&buf, "Videos analyzed: %d\n", rep.Metrics.TotalVideos)
	fmt.Fprintf(&buf, "Average engagement: %.2f/100\n", rep.Metrics.AvgEngagement)
	fmt.Fprintf(&buf, "Insights: %s\n", rep.Insights)

	buf.WriteString("Themes:\n")
	for idx, th := range rep.TopThemes {
		fmt.Fprintf(&buf, "%d. %s (%d videos, avg %.2f)\n", idx+1, th.Theme, th.VideoCount, th.AvgEngagement)
		if len(th.Keywords) > 0 {
			fmt.Fprintf(&buf, "   Keywords: %s\n", strings.Join(th.Keywords, ", "))
		}
	}

	buf.WriteString("Top keywords:\n")
	for _, kw := range rep.TopKeywords {
		fmt.Fprintf(&buf, "   - %s (%d)\n", kw.Keyword, kw.Frequency)
	}

	if len(rep.Anomalies) > 0 {
		buf.WriteString("Anomalies:\n")
		for _, a := range rep.Anomalies {
			fmt.Fprintf(&buf, "   - %s: %.2f (z=%.2f, %s)\n", a.Title, a.EngagementScore, a.ZScore, a.Type)
		}
	}
	buf.WriteString("\nWrite a short briefing: what is trending, what drives engagement, and one recommendation.\n")
	return buf.String()
}
