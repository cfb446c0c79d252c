package components

import (
	"strings"

	"github.com/theirongolddev/budgetsync/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Column describes one column of a List.
type Column struct {
	Title string
	Width int
	Right bool
	Flex  bool // takes the slack in FitColumns
}

// FitColumns grows the flex column, or the first one, so the columns
// fill width.
func FitColumns(cols []Column, width int) []Column {
	out := append([]Column(nil), cols...)
	if len(out) == 0 {
		return out
	}
	grow := 0
	for i, c := range out {
		if c.Flex {
			grow = i
			break
		}
	}
	used := len(out) - 1
	for i, c := range out {
		if i != grow {
			used += c.Width
		}
	}
	out[grow].Width = max(width-used, out[grow].Width)
	return out
}

// ListWindow returns the first visible row so cursor stays within a window
// of height rows.
func ListWindow(cursor, rows, height int) int {
	if height <= 0 || rows <= height {
		return 0
	}
	start := cursor - height/2
	return max(0, min(start, rows-height))
}

// List renders a header plus at most height rows, highlighting the cursor.
func List(cols []Column, rows [][]string, cursor, height int) string {
	t := theme.Active

	headerStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true)

	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.Title
	}

	lines := []string{headerStyle.Render(formatRow(cols, titles))}

	start := ListWindow(cursor, len(rows), height)
	end := len(rows)
	if height > 0 {
		end = min(end, start+height)
	}
	for i := start; i < end; i++ {
		style := rowStyle
		if i == cursor {
			style = selStyle
		}
		lines = append(lines, style.Render(formatRow(cols, rows[i])))
	}
	return strings.Join(lines, "\n")
}

func formatRow(cols []Column, cells []string) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		cell := ""
		if i < len(cells) {
			cell = runewidth.Truncate(cells[i], c.Width, "…")
		}
		if c.Right {
			parts[i] = runewidth.FillLeft(cell, c.Width)
		} else {
			parts[i] = runewidth.FillRight(cell, c.Width)
		}
	}
	return strings.Join(parts, " ")
}
