// Package scoring computes bounded engagement scores, flags statistical
// outliers and joins themes to engagement.
package scoring

import (
	"math"
	"sort"
	"strconv"
	"time"
)

const (
	// MaxScore caps every engagement score.
	MaxScore = 100.0

	likeWeight    = 1000.0
	commentWeight = 500.0
	scale         = 10.0
)

// Item is one input record. Only the title, description and counters feed
// the analytics; the remaining fields are carried through for reporting.
type Item struct {
	VideoID      string        `json:"videoId,omitempty"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Tags         []string      `json:"tags,omitempty"`
	ViewCount    int64         `json:"viewCount"`
	LikeCount    int64         `json:"likeCount"`
	CommentCount int64         `json:"commentCount"`
	ChannelTitle string        `json:"channelTitle,omitempty"`
	PublishedAt  time.Time     `json:"publishedAt,omitzero"`
	Duration     time.Duration `json:"duration,omitempty"`
}

// Text is the document fed to the text pipeline: title and description
// joined by a space.
func (it Item) Text() string {
	return it.Title + " " + it.Description
}

// ScoredItem is an Item with its engagement score.
type ScoredItem struct {
	Item
	EngagementScore float64 `json:"engagementScore"`
}

// Score returns the engagement score of it in [0, 100]:
//
//	likeRatio    = likes / views * 1000
//	commentRatio = comments / views * 500
//	score        = min(100, (likeRatio + commentRatio) * 10)
//
// rounded to two decimals. Zero views score exactly 0.
func Score(it Item) float64 {
	if it.ViewCount == 0 {
		return 0.0
	}
	views := float64(it.ViewCount)
	likeRatio := (float64(it.LikeCount) / views) * likeWeight
	commentRatio := (float64(it.CommentCount) / views) * commentWeight

	raw := likeRatio + commentRatio
	return Round2(math.Min(MaxScore, raw*scale))
}

// Rank scores a copy of every item and orders them by descending score.
// Equal scores keep input order. The caller's slice is not modified.
func Rank(items []Item) []ScoredItem {
	out := make([]ScoredItem, len(items))
	for i, it := range items {
		it.Tags = append([]string(nil), it.Tags...)
		out[i] = ScoredItem{Item: it, EngagementScore: Score(it)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EngagementScore > out[j].EngagementScore
	})
	return out
}

// Mean returns the arithmetic mean of the scores, or 0 for no items.
func Mean(scored []ScoredItem) float64 {
	if len(scored) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scored {
		sum += s.EngagementScore
	}
	return sum / float64(len(scored))
}

// Round2 rounds x to two decimal places, resolving exact ties to even on the
// exact binary value.
func Round2(x float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 2, 64), 64)
	if err != nil {
		return x
	}
	return r
}
