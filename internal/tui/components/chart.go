package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/budgetsync/internal/tui/theme"
	"github.com/theirongolddev/budgetsync/internal/view"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	peak := seriesMax(values)
	if peak == 0 {
		peak = 1
	}

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := int(v / peak * float64(len(sparkBlocks)-1))
		idx = max(0, min(idx, len(sparkBlocks)-1))
		buf.WriteRune(sparkBlocks[idx])
	}

	return style.Render(buf.String())
}

// HBarChart renders one labelled horizontal bar per point, scaled to the
// largest value. width is the total width available to a row.
func HBarChart(s view.Series, color lipgloss.Color, width int) string {
	if s.Len() == 0 {
		return ""
	}
	t := theme.Active

	labelW := 0
	for _, l := range s.Labels {
		labelW = max(labelW, runewidth.StringWidth(l))
	}
	labelW = min(labelW, max(8, width/3))

	valueW := 0
	for _, v := range s.Values {
		valueW = max(valueW, len(formatChartLabel(v)))
	}

	barW := width - labelW - valueW - 3
	if barW < 4 {
		barW = 4
	}

	peak := seriesMax(s.Values)
	if peak == 0 {
		peak = 1
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	trackStyle := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	rows := make([]string, 0, s.Len())
	for i, label := range s.Labels {
		v := s.Values[i]
		filled := int(math.Round(v / peak * float64(barW)))
		filled = max(0, min(filled, barW))
		if v > 0 && filled == 0 {
			filled = 1
		}

		name := runewidth.FillRight(runewidth.Truncate(label, labelW, "…"), labelW)
		rows = append(rows, labelStyle.Render(name)+spaceStyle.Render(" ")+
			barStyle.Render(strings.Repeat("█", filled))+
			trackStyle.Render(strings.Repeat("░", barW-filled))+spaceStyle.Render(" ")+
			valueStyle.Render(fmt.Sprintf("%*s", valueW, formatChartLabel(v))))
	}
	return strings.Join(rows, "\n")
}

// ShareChart renders each point's share of the total as one stacked bar
// followed by a legend with percentages.
func ShareChart(s view.Series, width int) string {
	total := s.Total()
	if s.Len() == 0 || total <= 0 {
		return ""
	}
	t := theme.Active

	barW := max(width, 10)
	var bar strings.Builder
	used := 0
	for i, v := range s.Values {
		seg := int(math.Round(v / total * float64(barW)))
		if i == s.Len()-1 {
			seg = barW - used
		}
		seg = max(0, min(seg, barW-used))
		used += seg
		bar.WriteString(lipgloss.NewStyle().
			Foreground(t.Category(i)).
			Background(t.Surface).
			Render(strings.Repeat("█", seg)))
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	lines := []string{bar.String(), ""}
	for i, label := range s.Labels {
		swatch := lipgloss.NewStyle().Foreground(t.Category(i)).Background(t.Surface).Render("■ ")
		pct := s.Values[i] / total * 100
		lines = append(lines, swatch+labelStyle.Render(label)+
			pctStyle.Render(fmt.Sprintf("  %.1f%%  %s", pct, formatChartLabel(s.Values[i]))))
	}
	return strings.Join(lines, "\n")
}

// ProjectionBody renders the body of a chart card for any projection state.
// draw is only called when the projection is ready.
func ProjectionBody(p view.Projection, draw func(view.Series) string) string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	switch p.State {
	case view.Loading:
		return dim.Render("Loading...")
	case view.Error:
		return lipgloss.NewStyle().Foreground(t.Failure).Background(t.Surface).Render(p.Err)
	case view.NoData:
		return dim.Render("No data available")
	default:
		return draw(p.Series)
	}
}

func seriesMax(values []float64) float64 {
	peak := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}
	return peak
}

// formatChartLabel formats a money amount compactly for chart labels.
func formatChartLabel(v float64) string {
	switch {
	case v >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	case v >= 10e3:
		return fmt.Sprintf("$%.0fk", v/1e3)
	case v >= 1e3:
		return fmt.Sprintf("$%.1fk", v/1e3)
	case v == math.Trunc(v):
		return fmt.Sprintf("$%.0f", v)
	default:
		return fmt.Sprintf("$%.2f", v)
	}
}
