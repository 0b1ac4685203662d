// Package loader reads offline video snapshots.
package loader

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/cognicore/trendops/pkg/trendops"
	"github.com/cognicore/trendops/pkg/trendops/internalerr"
)

// record is the on-disk line shape. Counters may be numbers or numeric
// strings, as in raw API dumps.
type record struct {
	VideoID      string          `json:"videoId"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Tags         []string        `json:"tags"`
	ViewCount    json.Number     `json:"viewCount"`
	LikeCount    json.Number     `json:"likeCount"`
	CommentCount json.Number     `json:"commentCount"`
	ChannelTitle string          `json:"channelTitle"`
	PublishedAt  string          `json:"publishedAt"`
	Duration     json.RawMessage `json:"duration,omitempty"`
}

// LoadJSONL loads items from a JSONL file, one item per line.
func LoadJSONL(path string, log zerolog.Logger) ([]trendops.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	items, err := ReadJSONL(f, log.With().Str("file", path).Logger())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

// ReadJSONL decodes items from r. Malformed lines are skipped with a
// warning; it fails only when no line is valid.
func ReadJSONL(r io.Reader, log zerolog.Logger) ([]trendops.Item, error) {
	var items []trendops.Item
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var rec record
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			log.Warn().Int("line", line).Err(err).Msg("skipping malformed line")
			continue
		}
		it, err := rec.item()
		if err != nil {
			log.Warn().Int("line", line).Err(err).Msg("skipping invalid item")
			continue
		}
		items = append(items, it)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no valid items found", internalerr.ErrInvalidInput)
	}
	return items, nil
}

func (rec record) item() (trendops.Item, error) {
	views, err := count(rec.ViewCount)
	if err != nil {
		return trendops.Item{}, fmt.Errorf("viewCount: %w", err)
	}
	likes, err := count(rec.LikeCount)
	if err != nil {
		return trendops.Item{}, fmt.Errorf("likeCount: %w", err)
	}
	comments, err := count(rec.CommentCount)
	if err != nil {
		return trendops.Item{}, fmt.Errorf("commentCount: %w", err)
	}

	it := trendops.Item{
		VideoID:      rec.VideoID,
		Title:        rec.Title,
		Description:  StripHTML(rec.Description),
		Tags:         rec.Tags,
		ViewCount:    views,
		LikeCount:    likes,
		CommentCount: comments,
		ChannelTitle: rec.ChannelTitle,
	}
	if rec.PublishedAt != "" {
		ts, err := dateparse.ParseAny(rec.PublishedAt)
		if err != nil {
			return trendops.Item{}, fmt.Errorf("publishedAt: %w", err)
		}
		it.PublishedAt = ts.UTC()
	}
	if len(rec.Duration) > 0 {
		var d time.Duration
		if err := json.Unmarshal(rec.Duration, &d); err == nil {
			it.Duration = d
		}
	}
	return it, nil
}

func count(n json.Number) (int64, error) {
	if n == "" {
		return 0, nil
	}
	v, err := n.Int64()
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative count %d", v)
	}
	return v, nil
}

// StripHTML reduces s to its text content. Plain text passes through
// unchanged.
func StripHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			b.WriteByte(' ')
		}
	}
}
