package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Table,
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
)

// Markdown renders rep as a markdown document.
func Markdown(rep Report) string {
	var buf strings.Builder

	buf.WriteString("# Trend report\n\n")
	if rep.ID != "" {
		fmt.Fprintf(&buf, "Report `%s` generated %s\n\n", rep.ID, rep.GeneratedAt.Format("2006-01-02 15:04 MST"))
	}
	fmt.Fprintf(&buf, "%s\n\n", escape(rep.Insights))

	buf.WriteString("## Metrics\n\n")
	fmt.Fprintf(&buf, "- Videos analyzed: %d\n", rep.Metrics.TotalVideos)
	fmt.Fprintf(&buf, "- Average engagement: %.2f/100\n", rep.Metrics.AvgEngagement)
	fmt.Fprintf(&buf, "- Themes identified: %d\n\n", rep.Metrics.ThemesIdentified)

	if len(rep.TopThemes) > 0 {
		buf.WriteString("## Themes\n\n")
		buf.WriteString("| Theme | Keywords | Videos | Avg engagement |\n")
		buf.WriteString("|---|---|---|---|\n")
		for _, th := range rep.TopThemes {
			fmt.Fprintf(&buf, "| %s | %s | %d | %.2f |\n",
				escape(th.Theme), escape(strings.Join(th.Keywords, ", ")), th.VideoCount, th.AvgEngagement)
		}
		buf.WriteString("\n")
	}

	if len(rep.TopKeywords) > 0 {
		buf.WriteString("## Keywords\n\n")
		for _, kw := range rep.TopKeywords {
			fmt.Fprintf(&buf, "- %s (%d)\n", escape(kw.Keyword), kw.Frequency)
		}
		buf.WriteString("\n")
	}

	if len(rep.Anomalies) > 0 {
		buf.WriteString("## Anomalies\n\n")
		for _, a := range rep.Anomalies {
			fmt.Fprintf(&buf, "- **%s** %s: score %.2f, z %.2f\n", a.Type, escape(a.Title), a.EngagementScore, a.ZScore)
		}
		buf.WriteString("\n")
	}

	return buf.String()
}

// HTML renders rep as an HTML fragment.
func HTML(rep Report) ([]byte, error) {
	var out bytes.Buffer
	if err := md.Convert([]byte(Markdown(rep)), &out); err != nil {
		return nil, fmt.Errorf("render report %s: %w", rep.ID, err)
	}
	return out.Bytes(), nil
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"|", `\|`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"<", "&lt;",
	">", "&gt;",
)

func escape(s string) string {
	return markdownEscaper.Replace(s)
}
