package scoring

import (
	"reflect"
	"sort"
	"testing"
)

func TestScoreScenario(t *testing.T) {
	cat := Item{Title: "Cat video", ViewCount: 1000, LikeCount: 100, CommentCount: 10}
	dog := Item{Title: "Dog clip", ViewCount: 1000, LikeCount: 5, CommentCount: 1}

	if got := Score(cat); got != 100 {
		t.Errorf("Score(cat) = %v, want 100", got)
	}
	if got := Score(dog); got != 55 {
		t.Errorf("Score(dog) = %v, want 55", got)
	}

	ranked := Rank([]Item{dog, cat})
	if ranked[0].Title != "Cat video" || ranked[1].Title != "Dog clip" {
		t.Fatalf("unexpected ranking: %q, %q", ranked[0].Title, ranked[1].Title)
	}
}

func TestScoreZeroViews(t *testing.T) {
	it := Item{ViewCount: 0, LikeCount: 500, CommentCount: 40}
	if got := Score(it); got != 0.0 {
		t.Fatalf("zero views must score 0, got %v", got)
	}
}

func TestScoreBounds(t *testing.T) {
	tests := []Item{
		{ViewCount: 1, LikeCount: 0, CommentCount: 0},
		{ViewCount: 1, LikeCount: 1_000_000, CommentCount: 1_000_000},
		{ViewCount: 10_000_000, LikeCount: 1, CommentCount: 0},
		{ViewCount: 123_456, LikeCount: 789, CommentCount: 12},
		{ViewCount: 0, LikeCount: 1, CommentCount: 1},
	}
	for _, it := range tests {
		s := Score(it)
		if s < 0 || s > MaxScore {
			t.Errorf("Score(%+v) = %v out of [0,100]", it, s)
		}
	}
}

func TestScoreRounding(t *testing.T) {
	// 7/100000*1000*10 = 0.7, 3/100000*500*10 = 0.15
	it := Item{ViewCount: 100_000, LikeCount: 7, CommentCount: 3}
	if got := Score(it); got != 0.85 {
		t.Fatalf("Score() = %v, want 0.85", got)
	}
	// 1/3000*1000*10 = 3.3333...
	it = Item{ViewCount: 3000, LikeCount: 1}
	if got := Score(it); got != 3.33 {
		t.Fatalf("Score() = %v, want 3.33", got)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1.005, 1.0},
		{2.675, 2.67},
		{0.125, 0.12},
		{0.375, 0.38},
		{55, 55},
		{-1.239, -1.24},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRankSortedAndStable(t *testing.T) {
	items := []Item{
		{Title: "a", ViewCount: 100_000, LikeCount: 1},
		{Title: "b", ViewCount: 100_000, LikeCount: 3},
		{Title: "c", ViewCount: 100_000, LikeCount: 1},
		{Title: "d", ViewCount: 0, LikeCount: 9},
		{Title: "e", ViewCount: 100_000, LikeCount: 3},
	}
	ranked := Rank(items)

	if !sort.SliceIsSorted(ranked, func(i, j int) bool {
		return ranked[i].EngagementScore > ranked[j].EngagementScore
	}) {
		t.Fatal("ranking must be non-increasing")
	}
	var titles []string
	for _, r := range ranked {
		titles = append(titles, r.Title)
	}
	if !reflect.DeepEqual(titles, []string{"b", "e", "a", "c", "d"}) {
		t.Fatalf("ties must keep input order, got %v", titles)
	}
}

func TestRankIdempotent(t *testing.T) {
	items := []Item{
		{Title: "x", ViewCount: 5000, LikeCount: 40, CommentCount: 2},
		{Title: "y", ViewCount: 800, LikeCount: 8, CommentCount: 9},
		{Title: "z", ViewCount: 90, LikeCount: 0, CommentCount: 0},
	}
	first := Rank(items)

	again := make([]Item, len(first))
	for i, s := range first {
		again[i] = s.Item
	}
	second := Rank(again)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("re-ranking changed result:\n%v\n%v", first, second)
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	items := []Item{
		{Title: "low", ViewCount: 100, LikeCount: 0, Tags: []string{"t"}},
		{Title: "high", ViewCount: 100, LikeCount: 5},
	}
	ranked := Rank(items)
	ranked[1].Tags[0] = "changed"

	if items[0].Title != "low" || items[0].Tags[0] != "t" {
		t.Fatal("Rank must not modify the caller's items")
	}
}

func TestMean(t *testing.T) {
	if Mean(nil) != 0 {
		t.Fatal("mean of nothing should be 0")
	}
	scored := []ScoredItem{{EngagementScore: 10}, {EngagementScore: 20}}
	if Mean(scored) != 15 {
		t.Fatalf("Mean() = %v", Mean(scored))
	}
}
