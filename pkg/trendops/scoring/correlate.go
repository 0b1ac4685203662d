package scoring

import (
	"sort"
	"strings"

	"github.com/cognicore/trendops/pkg/trendops/themes"
)

// ThemeEngagement is the aggregate engagement of the items matching a theme.
type ThemeEngagement struct {
	Theme         string   `json:"theme"`
	Keywords      []string `json:"keywords"`
	VideoCount    int      `json:"videoCount"`
	AvgEngagement float64  `json:"avgEngagement"`
}

// CorrelateThemes matches every theme against item titles. An item belongs
// to a theme when its title contains any of the theme's keywords,
// case-insensitively. Themes without matches are dropped; the rest are
// ordered by descending average engagement.
func CorrelateThemes(scored []ScoredItem, ths []themes.Theme) []ThemeEngagement {
	titles := make([]string, len(scored))
	for i, s := range scored {
		titles[i] = strings.ToLower(s.Title)
	}

	out := []ThemeEngagement{}
	for _, th := range ths {
		lowered := make([]string, len(th.Keywords))
		for i, kw := range th.Keywords {
			lowered[i] = strings.ToLower(kw)
		}

		var sum float64
		matched := 0
		for i, title := range titles {
			if containsAny(title, lowered) {
				sum += scored[i].EngagementScore
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		out = append(out, ThemeEngagement{
			Theme:         th.RepresentativeTerm,
			Keywords:      append([]string(nil), th.Keywords...),
			VideoCount:    matched,
			AvgEngagement: Round2(sum / float64(matched)),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AvgEngagement > out[j].AvgEngagement
	})
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
