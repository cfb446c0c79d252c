package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetsync/internal/model"
)

const budgetColumns = `id, description, amount, user_id`

func scanBudget(row interface{ Scan(...any) error }) (model.Budget, error) {
	var (
		b      model.Budget
		amount string
	)
	if err := row.Scan(&b.ID, &b.Description, &amount, &b.UserID); err != nil {
		return model.Budget{}, err
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return model.Budget{}, fmt.Errorf("budget %d amount %q: %w", b.ID, amount, err)
	}
	b.Amount = d
	return b, nil
}

// BudgetDescriptionTaken reports whether userID has a budget named
// description other than excludeID.
func (s *Store) BudgetDescriptionTaken(ctx context.Context, userID int64, description string, excludeID int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM budgets WHERE user_id = ? AND description = ? AND id != ?`,
		userID, description, excludeID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check budget description: %w", err)
	}
	return n > 0, nil
}

// CreateBudget inserts b and returns it with its new id.
func (s *Store) CreateBudget(ctx context.Context, b model.Budget) (model.Budget, error) {
	taken, err := s.BudgetDescriptionTaken(ctx, b.UserID, b.Description, 0)
	if err != nil {
		return model.Budget{}, err
	}
	if taken {
		return model.Budget{}, ErrDuplicate
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (description, amount, user_id) VALUES (?, ?, ?)`,
		b.Description, b.Amount.String(), b.UserID,
	)
	if err != nil {
		return model.Budget{}, fmt.Errorf("insert budget: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Budget{}, fmt.Errorf("insert budget: %w", err)
	}
	b.ID = id
	return b, nil
}

// Budget returns the budget with the given id.
func (s *Store) Budget(ctx context.Context, id int64) (model.Budget, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE id = ?`, id)
	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Budget{}, ErrNotFound
	}
	if err != nil {
		return model.Budget{}, fmt.Errorf("get budget %d: %w", id, err)
	}
	return b, nil
}

// BudgetsByUser returns userID's budgets in creation order.
func (s *Store) BudgetsByUser(ctx context.Context, userID int64) ([]model.Budget, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	budgets := []model.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// UpdateBudget overwrites the description and amount of budget id. The owner
// never changes.
func (s *Store) UpdateBudget(ctx context.Context, id int64, b model.Budget) (model.Budget, error) {
	current, err := s.Budget(ctx, id)
	if err != nil {
		return model.Budget{}, err
	}

	taken, err := s.BudgetDescriptionTaken(ctx, current.UserID, b.Description, id)
	if err != nil {
		return model.Budget{}, err
	}
	if taken {
		return model.Budget{}, ErrDuplicate
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE budgets SET description = ?, amount = ? WHERE id = ?`,
		b.Description, b.Amount.String(), id,
	)
	if err != nil {
		return model.Budget{}, fmt.Errorf("update budget %d: %w", id, err)
	}

	current.Description = b.Description
	current.Amount = b.Amount
	return current, nil
}

// DeleteBudget removes budget id. Expenses that referenced it keep existing
// without a budget.
func (s *Store) DeleteBudget(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget %d: %w", id, err)
	}
	return rowsAffected(res)
}

// BudgetNamesAndAmounts returns (description, amount) for userID's budgets.
func (s *Store) BudgetNamesAndAmounts(ctx context.Context, userID int64) ([]model.CategoryTotal, error) {
	budgets, err := s.BudgetsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]model.CategoryTotal, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, model.CategoryTotal{Name: b.Description, Amount: b.Amount})
	}
	return out, nil
}
