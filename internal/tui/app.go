// Package tui implements the interactive budgetsync dashboard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/theirongolddev/budgetsync/internal/dashboard"
	"github.com/theirongolddev/budgetsync/internal/model"
	"github.com/theirongolddev/budgetsync/internal/store"
	"github.com/theirongolddev/budgetsync/internal/tui/components"
	"github.com/theirongolddev/budgetsync/internal/tui/theme"
)

// loadedMsg reports the end of a full (re)load.
type loadedMsg struct {
	err  error
	took time.Duration
}

// mutatedMsg reports the end of a create, update, or delete.
type mutatedMsg struct {
	notice string
	err    error
}

// feedMsg carries a store event.
type feedMsg store.Event

type tickMsg struct{}

// App is the dashboard model.
type App struct {
	dash *dashboard.Dashboard
	ctx  context.Context
	log  zerolog.Logger

	loaded  bool
	loading bool
	loadErr error
	busy    int

	width     int
	height    int
	activeTab int
	showHelp  bool

	budgetCursor  int
	expenseCursor int

	// Add/edit form
	form        *huh.Form
	formKind    formKind
	editID      int64
	budgetVals  *budgetValues
	expenseVals *expenseValues

	pendingDelete int64
	notice        string

	spinner spinner.Model
	events  <-chan store.Event
	unsub   func()
}

const (
	minTerminalWidth = 70
	maxContentWidth  = 160
	minContentHeight = 5
)

// Option configures an App.
type Option func(*App)

// WithContext sets the context remote calls run under. Requests carry no
// deadline of their own; they end when ctx does.
func WithContext(ctx context.Context) Option {
	return func(a *App) { a.ctx = ctx }
}

// WithLogger sets the logger for UI events.
func WithLogger(l zerolog.Logger) Option {
	return func(a *App) { a.log = l }
}

// NewApp creates the dashboard model over d.
func NewApp(d *dashboard.Dashboard, opts ...Option) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	events, unsub := d.Feed.Subscribe(store.AllKinds, 16)

	a := App{
		dash:    d,
		ctx:     context.Background(),
		log:     zerolog.Nop(),
		loading: true,
		spinner: sp,
		events:  events,
		unsub:   unsub,
	}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadCmd(a.ctx, a.dash, false),
		waitForEvent(a.events),
		a.spinner.Tick,
		tickCmd(),
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(a.formWidth())
		}
		return a, nil

	case loadedMsg:
		a.loaded = true
		a.loading = false
		a.loadErr = msg.err
		if msg.err != nil {
			a.log.Warn().Err(msg.err).Dur("took", msg.took).Msg("dashboard load failed")
		} else {
			a.log.Debug().Dur("took", msg.took).Msg("dashboard loaded")
		}
		a.clampCursors()
		return a, nil

	case mutatedMsg:
		a.busy = max(0, a.busy-1)
		if msg.err == nil {
			a.notice = msg.notice
		} else {
			a.notice = ""
			a.log.Debug().Err(msg.err).Msg("mutation failed")
		}
		a.clampCursors()
		return a, nil

	case feedMsg:
		a.clampCursors()
		return a, waitForEvent(a.events)

	case tickMsg:
		return a, tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.MouseMsg:
		if a.form != nil {
			return a.updateForm(msg)
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.form != nil {
			return a.updateForm(msg)
		}
		return a.updateKey(msg)
	}

	// huh drives its fields with its own messages.
	if a.form != nil {
		return a.updateForm(msg)
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !a.loaded || a.showHelp {
		return a, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		a.moveCursor(-1)
	case tea.MouseButtonWheelDown:
		a.moveCursor(1)
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X - a.contentLeft()); tab >= 0 {
				a.switchTab(tab)
			}
		}
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	if a.pendingDelete != 0 {
		id := a.pendingDelete
		a.pendingDelete = 0
		a.notice = ""
		if key == "y" || key == "Y" {
			return a.deleteSelected(id)
		}
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "?":
		a.showHelp = true
		return a, nil
	}

	if !a.loaded {
		return a, nil
	}

	if len(key) == 1 {
		if tab := components.TabIdxByKey(rune(key[0])); tab >= 0 {
			a.switchTab(tab)
			return a, nil
		}
	}

	switch key {
	case "right", "tab", "L":
		a.switchTab((a.activeTab + 1) % len(components.Tabs))
	case "left", "shift+tab", "H":
		a.switchTab((a.activeTab + len(components.Tabs) - 1) % len(components.Tabs))
	case "j", "down":
		a.moveCursor(1)
	case "k", "up":
		a.moveCursor(-1)
	case "g", "home":
		a.moveCursor(-a.listLen())
	case "G", "end":
		a.moveCursor(a.listLen())
	case "a":
		return a.openAddForm()
	case "u", "enter":
		return a.openEditForm()
	case "d", "delete":
		a.confirmDelete()
	case "r":
		a.loading = true
		a.notice = ""
		return a, tea.Batch(loadCmd(a.ctx, a.dash, true), a.spinner.Tick)
	case "l":
		next := "fr"
		if a.dash.Localizer.Language().String() == "fr" {
			next = "en"
		}
		a.notice = "Language: " + a.dash.SetLanguage(next)
	case "esc":
		a.dash.Budgets.ResetError()
		a.dash.Expenses.ResetError()
		a.loadErr = nil
		a.notice = ""
	}
	return a, nil
}

func (a *App) switchTab(tab int) {
	a.activeTab = tab
	a.notice = ""
	a.pendingDelete = 0
}

func (a App) listLen() int {
	switch a.activeTab {
	case components.TabBudgets:
		return len(a.dash.Budgets.Budgets())
	case components.TabExpenses:
		return len(a.dash.Expenses.Expenses())
	}
	return 0
}

func (a *App) moveCursor(delta int) {
	n := a.listLen()
	if n == 0 {
		return
	}
	switch a.activeTab {
	case components.TabBudgets:
		a.budgetCursor = max(0, min(a.budgetCursor+delta, n-1))
	case components.TabExpenses:
		a.expenseCursor = max(0, min(a.expenseCursor+delta, n-1))
	}
}

// clampCursors keeps both cursors inside their lists after a change.
func (a *App) clampCursors() {
	nb := len(a.dash.Budgets.Budgets())
	a.budgetCursor = max(0, min(a.budgetCursor, nb-1))
	ne := len(a.dash.Expenses.Expenses())
	a.expenseCursor = max(0, min(a.expenseCursor, ne-1))
}

func (a App) selectedBudget() (model.Budget, bool) {
	budgets := a.dash.Budgets.Budgets()
	if a.budgetCursor < 0 || a.budgetCursor >= len(budgets) {
		return model.Budget{}, false
	}
	return budgets[a.budgetCursor], true
}

func (a App) selectedExpense() (model.Expense, bool) {
	expenses := a.dash.Expenses.Expenses()
	if a.expenseCursor < 0 || a.expenseCursor >= len(expenses) {
		return model.Expense{}, false
	}
	return expenses[a.expenseCursor], true
}

func (a *App) confirmDelete() {
	switch a.activeTab {
	case components.TabBudgets:
		if b, ok := a.selectedBudget(); ok {
			a.pendingDelete = b.ID
			a.notice = fmt.Sprintf("Delete budget %q? [y/N]", b.Description)
		}
	case components.TabExpenses:
		if e, ok := a.selectedExpense(); ok {
			a.pendingDelete = e.ID
			a.notice = fmt.Sprintf("Delete expense %q? [y/N]", e.Description)
		}
	}
}

func (a App) deleteSelected(id int64) (tea.Model, tea.Cmd) {
	d := a.dash
	a.busy++
	switch a.activeTab {
	case components.TabBudgets:
		return a, mutateCmd(a.ctx, "Budget deleted", func(ctx context.Context) error {
			return d.Budgets.Delete(ctx, id)
		})
	case components.TabExpenses:
		return a, mutateCmd(a.ctx, "Expense deleted", func(ctx context.Context) error {
			return d.Expenses.Delete(ctx, id)
		})
	}
	a.busy--
	return a, nil
}

// ─── Forms ──────────────────────────────────────────────────────

func (a App) openAddForm() (tea.Model, tea.Cmd) {
	switch a.activeTab {
	case components.TabBudgets:
		a.budgetVals = &budgetValues{}
		a.formKind = formAddBudget
		a.form = newBudgetForm(a.budgetVals, false)
	case components.TabExpenses:
		a.expenseVals = newExpenseValues(model.Today())
		a.formKind = formAddExpense
		a.form = newExpenseForm(a.expenseVals, a.dash.Budgets.Budgets(), false)
	default:
		return a, nil
	}
	a.editID = 0
	a.notice = ""
	a.form = a.form.WithWidth(a.formWidth())
	return a, a.form.Init()
}

func (a App) openEditForm() (tea.Model, tea.Cmd) {
	switch a.activeTab {
	case components.TabBudgets:
		b, ok := a.selectedBudget()
		if !ok {
			return a, nil
		}
		a.dash.Budgets.EnableFormPopulation()
		a.budgetVals = &budgetValues{}
		if a.dash.Budgets.ShouldPopulateForm() {
			a.budgetVals = budgetValuesFrom(b)
		}
		a.dash.Budgets.DisableFormPopulation()
		a.formKind = formEditBudget
		a.editID = b.ID
		a.form = newBudgetForm(a.budgetVals, true)
	case components.TabExpenses:
		e, ok := a.selectedExpense()
		if !ok {
			return a, nil
		}
		a.expenseVals = expenseValuesFrom(e)
		a.formKind = formEditExpense
		a.editID = e.ID
		a.form = newExpenseForm(a.expenseVals, a.dash.Budgets.Budgets(), true)
	default:
		return a, nil
	}
	a.notice = ""
	a.form = a.form.WithWidth(a.formWidth())
	return a, a.form.Init()
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		a.closeForm()
		return a, nil
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		submit := a.submitForm()
		a.closeForm()
		return a, submit
	case huh.StateAborted:
		a.closeForm()
		return a, nil
	}
	return a, cmd
}

func (a *App) closeForm() {
	a.form = nil
	a.formKind = formNone
	a.editID = 0
}

// submitForm turns the completed form into a store mutation.
func (a *App) submitForm() tea.Cmd {
	d := a.dash
	id := a.editID

	switch a.formKind {
	case formAddBudget, formEditBudget:
		in, err := a.budgetVals.input()
		if err != nil {
			a.notice = err.Error()
			return nil
		}
		a.busy++
		if a.formKind == formAddBudget {
			return mutateCmd(a.ctx, "Budget created", func(ctx context.Context) error {
				_, err := d.Budgets.Create(ctx, in)
				return err
			})
		}
		return mutateCmd(a.ctx, "Budget updated", func(ctx context.Context) error {
			_, err := d.Budgets.Update(ctx, id, in)
			return err
		})

	case formAddExpense, formEditExpense:
		in, err := a.expenseVals.input()
		if err != nil {
			a.notice = err.Error()
			return nil
		}
		a.busy++
		if a.formKind == formAddExpense {
			return mutateCmd(a.ctx, "Expense added", func(ctx context.Context) error {
				_, err := d.Expenses.Create(ctx, in)
				return err
			})
		}
		return mutateCmd(a.ctx, "Expense updated", func(ctx context.Context) error {
			_, err := d.Expenses.Update(ctx, id, in)
			return err
		})
	}
	return nil
}

// ─── Layout ─────────────────────────────────────────────────────

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) contentLeft() int {
	return max(0, (a.width-a.contentWidth())/2)
}

func (a App) formWidth() int {
	return max(40, min(a.contentWidth()-4, 72))
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  budgetsync needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ budgetsync"))
	b.WriteString(subtitleStyle.Render(" · Budgets & Expenses"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" Loading from " + a.dash.Client.BaseURL()))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.KeyHint).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"b e c", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Move in lists"},
			{"g G", "First / Last row"},
		}},
		{"Actions", []struct{ key, desc string }{
			{"a", "Add budget or expense"},
			{"u Enter", "Edit selected row"},
			{"d", "Delete selected row"},
			{"r", "Reload from the service"},
			{"l", "Switch language (en / fr)"},
			{"Esc", "Dismiss error / Close form"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, cw)
	statusBar := components.RenderStatusBar(w, a.status())

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch {
	case a.form != nil:
		content = components.FocusCard("", a.form.View(), a.formWidth()+4)
	case a.activeTab == components.TabBudgets:
		content = a.renderBudgetsTab(cw, contentH)
	case a.activeTab == components.TabExpenses:
		content = a.renderExpensesTab(cw, contentH)
	case a.activeTab == components.TabCharts:
		content = a.renderChartsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)

	header = lipgloss.PlaceHorizontal(w, lipgloss.Center, header,
		lipgloss.WithWhitespaceBackground(t.Surface))
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// status assembles the bottom bar for the active tab. The store error of
// the tab in view wins over everything else.
func (a App) status() components.Status {
	s := components.Status{
		Notice:   a.notice,
		Language: a.dash.Localizer.Language().String(),
		Busy:     a.busy > 0 || a.loading,
	}
	if uid, err := a.dash.UserID(); err == nil {
		s.User = strconv.FormatInt(uid, 10)
	}

	switch a.activeTab {
	case components.TabBudgets:
		s.Error = a.dash.Budgets.Error()
	case components.TabExpenses:
		s.Error = a.dash.Expenses.Error()
	default:
		if s.Error = a.dash.Budgets.Error(); s.Error == "" {
			s.Error = a.dash.Expenses.Error()
		}
	}
	if s.Error == "" && errors.Is(a.loadErr, store.ErrNotAuthenticated) {
		s.Error = "No user configured. Run `budgetsync setup` or pass --user."
	}
	if a.pendingDelete != 0 {
		s.Error = ""
	}
	return s
}

// ─── Commands ───────────────────────────────────────────────────

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadCmd fetches everything. force also refetches the server aggregates
// when no expense changed since their last fetch.
func loadCmd(ctx context.Context, d *dashboard.Dashboard, force bool) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		err := d.Load(ctx)
		if force && err == nil {
			err = errors.Join(d.CategoryChart.Reload(ctx), d.BudgetTotals.Reload(ctx))
		}
		return loadedMsg{err: err, took: time.Since(start)}
	}
}

func mutateCmd(ctx context.Context, notice string, run func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return mutatedMsg{notice: notice, err: run(ctx)}
	}
}

// waitForEvent blocks until the next store event. It returns nil once the
// feed is closed, which ends the subscription loop.
func waitForEvent(events <-chan store.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return feedMsg(ev)
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1
	}
	return -1
}
