package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/theirongolddev/budgetsync/internal/model"
)

// ExpensesByCategory returns userID's expense totals keyed by budget name,
// in the order the server sent them.
func (c *Client) ExpensesByCategory(ctx context.Context, userID int64) (model.Totals, error) {
	var totals model.Totals
	q := url.Values{"userId": []string{itoa(userID)}}
	if err := c.do(ctx, OpExpensesByCategory, http.MethodGet, "/data/expenses-by-category", q, nil, &totals); err != nil {
		return model.Totals{}, err
	}
	return totals, nil
}

// TotalExpensesByBudget returns expense totals per budget across all users.
func (c *Client) TotalExpensesByBudget(ctx context.Context) (model.Totals, error) {
	var totals model.Totals
	if err := c.do(ctx, OpTotalExpensesByBudget, http.MethodGet, "/data/totalexpenses-by-budget", nil, nil, &totals); err != nil {
		return model.Totals{}, err
	}
	return totals, nil
}
