package model

import "github.com/shopspring/decimal"

// Expense is a single spend recorded against a budget. Amount is never negative.
type Expense struct {
	ID          int64           `json:"expensesId,omitempty"`
	Description string          `json:"expensesDescription"`
	Amount      decimal.Decimal `json:"expensesAmount"`
	Date        Date            `json:"expensesDate"`
	Budget      *BudgetRef      `json:"budget,omitempty"`
	UserID      int64           `json:"userId,omitempty"`
}

// BudgetID returns the referenced budget id, or 0 when the expense has none.
func (e Expense) BudgetID() int64 {
	if e.Budget == nil {
		return 0
	}
	return e.Budget.ID
}

// ExpenseInput holds the user-editable fields of an expense.
type ExpenseInput struct {
	Description string
	Amount      decimal.Decimal
	Date        Date
	BudgetID    int64
}

// Record returns the input as an Expense owned by userID.
func (in ExpenseInput) Record(userID int64) Expense {
	e := Expense{
		Description: in.Description,
		Amount:      in.Amount,
		Date:        in.Date,
		UserID:      userID,
	}
	if in.BudgetID != 0 {
		e.Budget = &BudgetRef{ID: in.BudgetID}
	}
	return e
}

// Apply returns e with the user-editable fields of in. The amount is always
// taken, since zero is a valid amount. A blank description, a zero date or a
// zero budget keep e's values.
func (e Expense) Apply(in ExpenseInput) Expense {
	if in.Description != "" {
		e.Description = in.Description
	}
	e.Amount = in.Amount
	if !in.Date.IsZero() {
		e.Date = in.Date
	}
	if in.BudgetID != 0 {
		e.Budget = &BudgetRef{ID: in.BudgetID}
	}
	return e
}

// Merge overlays the fields other carries onto e. The ID is never changed.
// A record with an ID is a stored record and always carries its amount;
// otherwise a zero amount counts as absent.
func (e Expense) Merge(other Expense) Expense {
	if other.Description != "" {
		e.Description = other.Description
	}
	if other.ID != 0 || !other.Amount.IsZero() {
		e.Amount = other.Amount
	}
	if !other.Date.IsZero() {
		e.Date = other.Date
	}
	if other.Budget != nil && other.Budget.ID != 0 {
		ref := *other.Budget
		e.Budget = &ref
	}
	if other.UserID != 0 {
		e.UserID = other.UserID
	}
	return e
}
