package tui

import (
	"github.com/theirongolddev/budgetsync/internal/tui/components"
	"github.com/theirongolddev/budgetsync/internal/tui/theme"
	"github.com/theirongolddev/budgetsync/internal/view"
)

const twoColumnChartsWidth = 100

func (a App) renderChartsTab(cw int) string {
	t := theme.Active

	chartCard := func(title string, p view.Projection, w int, draw func(view.Series, int) string) string {
		inner := components.CardInnerWidth(w)
		return components.ContentCard(title, components.ProjectionBody(p, func(s view.Series) string {
			return draw(s, inner)
		}), w)
	}
	bars := func(s view.Series, w int) string { return components.HBarChart(s, t.Budget, w) }
	share := func(s view.Series, w int) string { return components.ShareChart(s, w) }
	totals := func(s view.Series, w int) string { return components.HBarChart(s, t.Spent, w) }

	top := []struct {
		title string
		p     view.Projection
		draw  func(view.Series, int) string
	}{
		{"Budgets", a.dash.BudgetChart.Current(), bars},
		{"Expenses by category", a.dash.CategoryChart.Current(), share},
	}

	var row string
	if cw >= twoColumnChartsWidth {
		widths := components.LayoutRow(cw, len(top))
		cards := make([]string, len(top))
		for i, c := range top {
			cards[i] = chartCard(c.title, c.p, widths[i], c.draw)
		}
		row = components.CardRow(cards)
	} else {
		for i, c := range top {
			if i > 0 {
				row += "\n"
			}
			row += chartCard(c.title, c.p, cw, c.draw)
		}
	}

	return row + "\n" + chartCard("Total expenses by budget (all users)", a.dash.BudgetTotals.Current(), cw, totals)
}
