package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetsync/internal/model"
)

const expenseColumns = `id, description, amount, date, budget_id, user_id`

func scanExpense(row interface{ Scan(...any) error }) (model.Expense, error) {
	var (
		e        model.Expense
		amount   string
		date     string
		budgetID sql.NullInt64
	)
	if err := row.Scan(&e.ID, &e.Description, &amount, &date, &budgetID, &e.UserID); err != nil {
		return model.Expense{}, err
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return model.Expense{}, fmt.Errorf("expense %d amount %q: %w", e.ID, amount, err)
	}
	e.Amount = d

	if date != "" {
		if e.Date, err = model.ParseDate(date); err != nil {
			return model.Expense{}, fmt.Errorf("expense %d: %w", e.ID, err)
		}
	}
	if budgetID.Valid {
		e.Budget = &model.BudgetRef{ID: budgetID.Int64}
	}
	return e, nil
}

func nullBudget(e model.Expense) sql.NullInt64 {
	id := e.BudgetID()
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

// ExpenseDescriptionTaken reports whether userID has an expense named
// description other than excludeID.
func (s *Store) ExpenseDescriptionTaken(ctx context.Context, userID int64, description string, excludeID int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM expenses WHERE user_id = ? AND description = ? AND id != ?`,
		userID, description, excludeID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check expense description: %w", err)
	}
	return n > 0, nil
}

// CreateExpense inserts e and returns it with its new id.
func (s *Store) CreateExpense(ctx context.Context, e model.Expense) (model.Expense, error) {
	taken, err := s.ExpenseDescriptionTaken(ctx, e.UserID, e.Description, 0)
	if err != nil {
		return model.Expense{}, err
	}
	if taken {
		return model.Expense{}, ErrDuplicate
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (description, amount, date, budget_id, user_id) VALUES (?, ?, ?, ?, ?)`,
		e.Description, e.Amount.String(), e.Date.String(), nullBudget(e), e.UserID,
	)
	if err != nil {
		return model.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	e.ID = id
	return e, nil
}

// Expense returns the expense with the given id.
func (s *Store) Expense(ctx context.Context, id int64) (model.Expense, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Expense{}, ErrNotFound
	}
	if err != nil {
		return model.Expense{}, fmt.Errorf("get expense %d: %w", id, err)
	}
	return e, nil
}

// ExpensesByUser returns userID's expenses in creation order.
func (s *Store) ExpensesByUser(ctx context.Context, userID int64) ([]model.Expense, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []model.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// UpdateExpense replaces the description and amount of expense id. Date and
// budget are replaced only when e carries them.
func (s *Store) UpdateExpense(ctx context.Context, id int64, e model.Expense) (model.Expense, error) {
	current, err := s.Expense(ctx, id)
	if err != nil {
		return model.Expense{}, err
	}

	next := current
	next.Description = e.Description
	next.Amount = e.Amount
	if !e.Date.IsZero() {
		next.Date = e.Date
	}
	if e.BudgetID() != 0 {
		next.Budget = &model.BudgetRef{ID: e.BudgetID()}
	}

	taken, err := s.ExpenseDescriptionTaken(ctx, current.UserID, next.Description, id)
	if err != nil {
		return model.Expense{}, err
	}
	if taken {
		return model.Expense{}, ErrDuplicate
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE expenses SET description = ?, amount = ?, date = ?, budget_id = ? WHERE id = ?`,
		next.Description, next.Amount.String(), next.Date.String(), nullBudget(next), id,
	)
	if err != nil {
		return model.Expense{}, fmt.Errorf("update expense %d: %w", id, err)
	}
	return next, nil
}

// DeleteExpense removes expense id. The referenced budget is untouched.
func (s *Store) DeleteExpense(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	return rowsAffected(res)
}

// ExpensesByCategory sums userID's expenses per referenced budget
// description, in budget order. Expenses without a budget are skipped.
func (s *Store) ExpensesByCategory(ctx context.Context, userID int64) (model.Totals, error) {
	return s.sumByBudget(ctx,
		`SELECT b.description, e.amount FROM expenses e
		 JOIN budgets b ON b.id = e.budget_id
		 WHERE e.user_id = ?
		 ORDER BY b.id, e.id`, userID)
}

// TotalExpensesByBudget sums every user's expenses per budget description.
func (s *Store) TotalExpensesByBudget(ctx context.Context) (model.Totals, error) {
	return s.sumByBudget(ctx,
		`SELECT b.description, e.amount FROM expenses e
		 JOIN budgets b ON b.id = e.budget_id
		 ORDER BY b.id, e.id`)
}

func (s *Store) sumByBudget(ctx context.Context, query string, args ...any) (model.Totals, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return model.Totals{}, fmt.Errorf("sum expenses: %w", err)
	}
	defer rows.Close()

	totals := model.NewTotals()
	for rows.Next() {
		var label, amount string
		if err := rows.Scan(&label, &amount); err != nil {
			return model.Totals{}, fmt.Errorf("scan total: %w", err)
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return model.Totals{}, fmt.Errorf("total %q amount %q: %w", label, amount, err)
		}
		prev, _ := totals.Get(label)
		totals.Set(label, prev.Add(d))
	}
	return totals, rows.Err()
}
