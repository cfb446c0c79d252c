package remote

import (
	"context"
	"net/http"

	"github.com/theirongolddev/budgetsync/internal/model"
)

// ListExpenses returns every expense owned by userID.
func (c *Client) ListExpenses(ctx context.Context, userID int64) ([]model.Expense, error) {
	var expenses []model.Expense
	if err := c.do(ctx, OpListExpenses, http.MethodGet, "/expenses/user/"+itoa(userID), nil, nil, &expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// CreateExpense submits e and returns the stored record.
func (c *Client) CreateExpense(ctx context.Context, e model.Expense) (model.Expense, error) {
	var created model.Expense
	if err := c.do(ctx, OpCreateExpense, http.MethodPost, "/expenses", nil, e, &created); err != nil {
		return model.Expense{}, err
	}
	return created, nil
}

// UpdateExpense replaces the expense with the given id and returns the stored record.
func (c *Client) UpdateExpense(ctx context.Context, id int64, e model.Expense) (model.Expense, error) {
	var updated model.Expense
	if err := c.do(ctx, OpUpdateExpense, http.MethodPut, "/expenses/"+itoa(id), nil, e, &updated); err != nil {
		return model.Expense{}, err
	}
	return updated, nil
}

// DeleteExpense removes the expense with the given id.
func (c *Client) DeleteExpense(ctx context.Context, id int64) error {
	return c.do(ctx, OpDeleteExpense, http.MethodDelete, "/expenses/"+itoa(id), nil, nil, nil)
}
