package tui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetsync/internal/cli"
	"github.com/theirongolddev/budgetsync/internal/model"
	"github.com/theirongolddev/budgetsync/internal/tui/components"
	"github.com/theirongolddev/budgetsync/internal/tui/theme"
	"github.com/theirongolddev/budgetsync/internal/view"
)

func (a App) renderBudgetsTab(cw, h int) string {
	t := theme.Active
	budgets := a.dash.Budgets.Budgets()
	spent := spentByBudget(a.dash.Expenses.Expenses())

	var total, used decimal.Decimal
	for _, b := range budgets {
		total = total.Add(b.Amount)
		used = used.Add(spent[b.ID])
	}
	left := total.Sub(used)

	leftColor := t.Remaining
	if total.IsPositive() {
		leftColor = t.Usage(used.Div(total).InexactFloat64())
	} else if left.IsNegative() {
		leftColor = t.OverBudget
	}

	metrics := components.MetricCardRow([]components.Metric{
		{Label: "Budgets", Value: strconv.Itoa(len(budgets))},
		{Label: "Budgeted", Value: cli.FormatAmount(total), Color: t.Budget},
		{Label: "Spent", Value: cli.FormatAmount(used), Color: t.Spent},
		{Label: "Remaining", Value: cli.FormatAmount(left), Color: leftColor},
	}, cw)

	// card border, card title and list header
	listH := h - lipgloss.Height(metrics) - 4
	inner := components.CardInnerWidth(cw)

	body := components.ProjectionBody(a.dash.BudgetList.Current(), func(view.Series) string {
		cols := components.FitColumns([]components.Column{
			{Title: "Budget", Width: 12},
			{Title: "Amount", Width: 13, Right: true},
			{Title: "Spent", Width: 13, Right: true},
			{Title: "Left", Width: 13, Right: true},
			{Title: "Used", Width: 7, Right: true},
		}, inner)

		rows := make([][]string, len(budgets))
		for i, b := range budgets {
			s := spent[b.ID]
			rows[i] = []string{
				b.Description,
				cli.FormatAmount(b.Amount),
				cli.FormatAmount(s),
				cli.FormatAmount(b.Amount.Sub(s)),
				usedShare(s, b.Amount),
			}
		}
		return components.List(cols, rows, a.budgetCursor, listH)
	})

	return metrics + "\n" + components.ContentCard("Budgets", body, cw)
}

// spentByBudget sums expense amounts per referenced budget id.
func spentByBudget(expenses []model.Expense) map[int64]decimal.Decimal {
	out := make(map[int64]decimal.Decimal)
	for _, e := range expenses {
		if id := e.BudgetID(); id != 0 {
			out[id] = out[id].Add(e.Amount)
		}
	}
	return out
}

func usedShare(spent, limit decimal.Decimal) string {
	if !limit.IsPositive() {
		return "-"
	}
	return cli.FormatPercent(spent.Div(limit).InexactFloat64())
}
