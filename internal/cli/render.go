package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/theirongolddev/budgetsync/internal/view"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	amountStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	errorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

func (t Table) columns() []int {
	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
		return widths
	}
	for i, h := range t.Headers {
		widths[i] = max(widths[i], runewidth.StringWidth(h))
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < numCols {
				widths[i] = max(widths[i], runewidth.StringWidth(cell))
			}
		}
	}
	return widths
}

// rule draws a horizontal border line across all columns.
func rule(widths []int, left, mid, right string) string {
	var b strings.Builder
	b.WriteString(left)
	for i, w := range widths {
		b.WriteString(strings.Repeat("─", w+2))
		if i < len(widths)-1 {
			b.WriteString(mid)
		}
	}
	b.WriteString(right)
	return dimStyle.Render(b.String()) + "\n"
}

// pad fits cell into w columns. The first column is left-aligned, the
// others hold amounts and are right-aligned.
func pad(cell string, w, col int) string {
	gap := strings.Repeat(" ", max(0, w-runewidth.StringWidth(cell)))
	if col == 0 {
		return " " + cell + gap + " "
	}
	return " " + gap + cell + " "
}

// RenderTable renders a bordered table with headers and rows. A row holding
// the single cell "---" renders as a separator.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}
	widths := t.columns()
	bar := dimStyle.Render("│")

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + headerStyle.Render(t.Title) + "\n")
	}

	b.WriteString(rule(widths, "╭", "┬", "╮"))
	if len(t.Headers) > 0 {
		b.WriteString(bar)
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(pad(h, widths[i], 0)))
			b.WriteString(bar)
		}
		b.WriteString("\n")
		b.WriteString(rule(widths, "├", "┼", "┤"))
	}

	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			b.WriteString(rule(widths, "├", "┼", "┤"))
			continue
		}
		b.WriteString(bar)
		for i, w := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(pad(cell, w, i))
			b.WriteString(bar)
		}
		b.WriteString("\n")
	}
	b.WriteString(rule(widths, "╰", "┴", "╯"))

	return b.String()
}

// RenderBarRow renders one labeled horizontal bar with its amount.
func RenderBarRow(label string, labelWidth int, value, maxValue float64, barWidth int) string {
	barLen := 0
	if maxValue > 0 && value > 0 {
		barLen = min(barWidth, int(value/maxValue*float64(barWidth)+0.5))
	}
	name := runewidth.Truncate(label, labelWidth, "…")
	name += strings.Repeat(" ", max(0, labelWidth-runewidth.StringWidth(name)))
	return fmt.Sprintf("  %s %s%s %s",
		name,
		amountStyle.Render(strings.Repeat("█", barLen)),
		dimStyle.Render(strings.Repeat("░", barWidth-barLen)),
		FormatFloatAmount(value),
	)
}

// RenderProjection renders a chart view in whichever state it is in.
func RenderProjection(title string, p view.Projection, barWidth int) string {
	var b strings.Builder
	b.WriteString("  " + headerStyle.Render(title) + "\n")

	switch p.State {
	case view.Loading:
		b.WriteString("  " + mutedStyle.Render("Loading...") + "\n")
	case view.Error:
		b.WriteString("  " + errorStyle.Render(p.Err) + "\n")
	case view.NoData:
		b.WriteString("  " + warnStyle.Render("No data available") + "\n")
	case view.Ready:
		labelWidth := 0
		maxValue := 0.0
		for i, l := range p.Series.Labels {
			labelWidth = max(labelWidth, runewidth.StringWidth(l))
			maxValue = max(maxValue, p.Series.Values[i])
		}
		labelWidth = min(labelWidth, 24)
		for i, l := range p.Series.Labels {
			b.WriteString(RenderBarRow(l, labelWidth, p.Series.Values[i], maxValue, barWidth) + "\n")
		}
		if total := p.Series.Total(); total > 0 {
			b.WriteString("  " + mutedStyle.Render("Total "+FormatFloatAmount(total)) + "\n")
		}
	}
	return b.String()
}
