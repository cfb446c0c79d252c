package tui

import (
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetsync/internal/cli"
	"github.com/theirongolddev/budgetsync/internal/model"
	"github.com/theirongolddev/budgetsync/internal/tui/components"
	"github.com/theirongolddev/budgetsync/internal/tui/theme"
	"github.com/theirongolddev/budgetsync/internal/view"
)

func (a App) renderExpensesTab(cw, h int) string {
	t := theme.Active
	expenses := a.dash.Expenses.Expenses()

	var total decimal.Decimal
	var latest model.Date
	unassigned := 0
	for _, e := range expenses {
		total = total.Add(e.Amount)
		if e.Date.String() > latest.String() {
			latest = e.Date
		}
		if e.BudgetID() == 0 {
			unassigned++
		}
	}

	widths := components.LayoutRow(cw, 4)
	trend := components.Sparkline(amountsByDate(expenses, components.CardInnerWidth(widths[3])), t.Trend)
	if trend == "" {
		trend = lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("-")
	}

	header := components.CardRow([]string{
		components.MetricCard(components.Metric{Label: "Expenses", Value: strconv.Itoa(len(expenses))}, widths[0]),
		components.MetricCard(components.Metric{Label: "Spent", Value: cli.FormatAmount(total), Color: t.Spent}, widths[1]),
		components.MetricCard(components.Metric{
			Label: "Latest",
			Value: cli.FormatDate(latest),
			Note:  strconv.Itoa(unassigned) + " without budget",
		}, widths[2]),
		components.ContentCard("Trend", trend, widths[3]),
	})

	listH := h - lipgloss.Height(header) - 4
	inner := components.CardInnerWidth(cw)

	body := components.ProjectionBody(a.dash.ExpenseList.Current(), func(view.Series) string {
		cols := components.FitColumns([]components.Column{
			{Title: "Date", Width: 10},
			{Title: "Description", Width: 12, Flex: true},
			{Title: "Budget", Width: 16},
			{Title: "Amount", Width: 13, Right: true},
		}, inner)

		rows := make([][]string, len(expenses))
		for i, e := range expenses {
			rows[i] = []string{
				cli.FormatDate(e.Date),
				e.Description,
				a.budgetName(e.BudgetID()),
				cli.FormatAmount(e.Amount),
			}
		}
		return components.List(cols, rows, a.expenseCursor, listH)
	})

	return header + "\n" + components.ContentCard("Expenses", body, cw)
}

func (a App) budgetName(id int64) string {
	if id == 0 {
		return "-"
	}
	if b, ok := a.dash.Budgets.Get(id); ok {
		return b.Description
	}
	return "#" + strconv.FormatInt(id, 10)
}

// amountsByDate returns at most limit of the most recent expense amounts in
// date order.
func amountsByDate(expenses []model.Expense, limit int) []float64 {
	sorted := slices.Clone(expenses)
	slices.SortStableFunc(sorted, func(x, y model.Expense) int {
		return strings.Compare(x.Date.String(), y.Date.String())
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[len(sorted)-limit:]
	}

	values := make([]float64, len(sorted))
	for i, e := range sorted {
		values[i] = e.Amount.InexactFloat64()
	}
	return values
}
