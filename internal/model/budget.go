// Package model defines the budget and expense records exchanged with the
// budget tracker REST service.
package model

import (
	"github.com/shopspring/decimal"
)

func init() {
	// The service speaks JSON numbers for amounts, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Budget is a spending limit owned by a single user.
// Description is unique within a user's budgets and Amount is strictly positive.
type Budget struct {
	ID          int64           `json:"budgetId,omitempty"`
	Description string          `json:"budgetDescription"`
	Amount      decimal.Decimal `json:"budgetAmount"`
	UserID      int64           `json:"userId,omitempty"`
}

// BudgetInput holds the user-editable fields of a budget.
type BudgetInput struct {
	Description string
	Amount      decimal.Decimal
}

// Record returns the input as a Budget owned by userID.
func (in BudgetInput) Record(userID int64) Budget {
	return Budget{
		Description: in.Description,
		Amount:      in.Amount,
		UserID:      userID,
	}
}

// Merge overlays the non-zero fields of other onto b. The ID is never changed.
func (b Budget) Merge(other Budget) Budget {
	if other.Description != "" {
		b.Description = other.Description
	}
	if !other.Amount.IsZero() {
		b.Amount = other.Amount
	}
	if other.UserID != 0 {
		b.UserID = other.UserID
	}
	return b
}

// BudgetRef references a budget from an expense.
type BudgetRef struct {
	ID int64 `json:"budgetId"`
}
