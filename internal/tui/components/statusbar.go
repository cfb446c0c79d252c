package components

import (
	"strings"

	"github.com/theirongolddev/budgetsync/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Status is what the bottom bar reports.
type Status struct {
	Error    string // localized store error, shown in place of the hints
	Notice   string // result of the last action
	Language string
	User     string
	Busy     bool
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, s Status) string {
	t := theme.Active

	barStyle := lipgloss.NewStyle().Background(t.Surface)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	errStyle := lipgloss.NewStyle().Foreground(t.Failure).Background(t.Surface).Bold(true)
	noticeStyle := lipgloss.NewStyle().Foreground(t.Notice).Background(t.Surface)
	metaStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var left string
	switch {
	case s.Error != "":
		left = errStyle.Render(" ✗ "+s.Error) + hintStyle.Render("  [esc]dismiss")
	case s.Notice != "":
		left = noticeStyle.Render(" ✓ " + s.Notice)
	default:
		left = hintStyle.Render(" [a]dd [u]pdate [d]elete [r]efresh [l]ang [?]help [q]uit")
	}

	var meta []string
	if s.Busy {
		meta = append(meta, "syncing")
	}
	if s.User != "" {
		meta = append(meta, "user "+s.User)
	}
	if s.Language != "" {
		meta = append(meta, s.Language)
	}
	right := ""
	if len(meta) > 0 {
		right = metaStyle.Render(strings.Join(meta, " · ") + " ")
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		// Errors win over the metadata on narrow terminals.
		left = lipgloss.NewStyle().MaxWidth(width).Render(left)
		return left + barStyle.Render(strings.Repeat(" ", max(0, width-lipgloss.Width(left))))
	}

	return left + barStyle.Render(strings.Repeat(" ", gap)) + right
}
