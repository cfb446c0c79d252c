package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/budgetsync/internal/dashboard"
)

// Run shows the dashboard until the user quits or ctx is done. The server
// aggregates follow expense changes while it runs.
func Run(ctx context.Context, d *dashboard.Dashboard, opts ...Option) error {
	// Without a forced profile lipgloss may fall back to Ascii and drop
	// every background fill.
	if termenv.EnvNoColor() {
		lipgloss.SetColorProfile(termenv.Ascii)
	} else {
		lipgloss.SetColorProfile(termenv.TrueColor)
	}

	d.Watch(ctx)

	app := NewApp(d, append([]Option{WithContext(ctx)}, opts...)...)
	defer app.unsub()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
