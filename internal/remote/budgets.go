package remote

import (
	"context"
	"net/http"
	"strconv"

	"github.com/theirongolddev/budgetsync/internal/model"
)

// ListBudgets returns every budget owned by userID.
func (c *Client) ListBudgets(ctx context.Context, userID int64) ([]model.Budget, error) {
	var budgets []model.Budget
	if err := c.do(ctx, OpListBudgets, http.MethodGet, "/budgets/user/"+itoa(userID), nil, nil, &budgets); err != nil {
		return nil, err
	}
	return budgets, nil
}

// CreateBudget submits b and returns the stored record.
func (c *Client) CreateBudget(ctx context.Context, b model.Budget) (model.Budget, error) {
	var created model.Budget
	if err := c.do(ctx, OpCreateBudget, http.MethodPost, "/budgets", nil, b, &created); err != nil {
		return model.Budget{}, err
	}
	return created, nil
}

// UpdateBudget replaces the budget with the given id and returns the stored record.
func (c *Client) UpdateBudget(ctx context.Context, id int64, b model.Budget) (model.Budget, error) {
	var updated model.Budget
	if err := c.do(ctx, OpUpdateBudget, http.MethodPut, "/budgets/"+itoa(id), nil, b, &updated); err != nil {
		return model.Budget{}, err
	}
	return updated, nil
}

// DeleteBudget removes the budget with the given id.
func (c *Client) DeleteBudget(ctx context.Context, id int64) error {
	return c.do(ctx, OpDeleteBudget, http.MethodDelete, "/budgets/"+itoa(id), nil, nil, nil)
}

// BudgetNamesAndAmounts returns the chart aggregate of userID's budgets.
func (c *Client) BudgetNamesAndAmounts(ctx context.Context, userID int64) ([]model.CategoryTotal, error) {
	var totals []model.CategoryTotal
	if err := c.do(ctx, OpBudgetChart, http.MethodGet, "/budgets/user/"+itoa(userID)+"/names-and-amounts", nil, nil, &totals); err != nil {
		return nil, err
	}
	return totals, nil
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
