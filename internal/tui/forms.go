package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetsync/internal/model"
)

// formKind says what a completed form submits.
type formKind int

const (
	formNone formKind = iota
	formAddBudget
	formEditBudget
	formAddExpense
	formEditExpense
)

func (k formKind) editing() bool {
	return k == formEditBudget || k == formEditExpense
}

// budgetValues backs the budget form.
type budgetValues struct {
	Description string
	Amount      string
}

func (v budgetValues) input() (model.BudgetInput, error) {
	amount, err := parseAmount(v.Amount)
	if err != nil {
		return model.BudgetInput{}, err
	}
	return model.BudgetInput{
		Description: strings.TrimSpace(v.Description),
		Amount:      amount,
	}, nil
}

func budgetValuesFrom(b model.Budget) *budgetValues {
	return &budgetValues{
		Description: b.Description,
		Amount:      b.Amount.StringFixed(2),
	}
}

func newBudgetForm(v *budgetValues, editing bool) *huh.Form {
	title := "New budget"
	if editing {
		title = "Edit budget"
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title(title),
			huh.NewInput().
				Title("Description").
				Placeholder("Groceries").
				Value(&v.Description).
				Validate(required),
			huh.NewInput().
				Title("Amount").
				Placeholder("0.00").
				Value(&v.Amount).
				Validate(validAmount),
		),
	).WithShowHelp(true)
}

// expenseValues backs the expense form. A blank date on an edit keeps the
// stored one.
type expenseValues struct {
	Description string
	Amount      string
	Date        string
	BudgetID    int64
}

func (v expenseValues) input() (model.ExpenseInput, error) {
	amount, err := parseAmount(v.Amount)
	if err != nil {
		return model.ExpenseInput{}, err
	}

	var date model.Date
	if s := strings.TrimSpace(v.Date); s != "" {
		if date, err = model.ParseDate(s); err != nil {
			return model.ExpenseInput{}, err
		}
	}

	return model.ExpenseInput{
		Description: strings.TrimSpace(v.Description),
		Amount:      amount,
		Date:        date,
		BudgetID:    v.BudgetID,
	}, nil
}

func newExpenseValues(today model.Date) *expenseValues {
	return &expenseValues{Date: today.String()}
}

func expenseValuesFrom(e model.Expense) *expenseValues {
	v := &expenseValues{
		Description: e.Description,
		Amount:      e.Amount.StringFixed(2),
		BudgetID:    e.BudgetID(),
	}
	if !e.Date.IsZero() {
		v.Date = e.Date.String()
	}
	return v
}

func newExpenseForm(v *expenseValues, budgets []model.Budget, editing bool) *huh.Form {
	title := "New expense"
	if editing {
		title = "Edit expense"
	}

	options := []huh.Option[int64]{huh.NewOption("(no budget)", int64(0))}
	for _, b := range budgets {
		options = append(options, huh.NewOption(b.Description, b.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title(title),
			huh.NewInput().
				Title("Description").
				Placeholder("Lunch").
				Value(&v.Description).
				Validate(required),
			huh.NewInput().
				Title("Amount").
				Placeholder("0.00").
				Value(&v.Amount).
				Validate(validAmount),
			huh.NewInput().
				Title("Date").
				Placeholder(time.DateOnly).
				Value(&v.Date).
				Validate(dateField(editing)),
			huh.NewSelect[int64]().
				Title("Budget").
				Options(options...).
				Value(&v.BudgetID),
		),
	).WithShowHelp(true)
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not an amount", s)
	}
	return d, nil
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func validAmount(s string) error {
	if err := required(s); err != nil {
		return err
	}
	_, err := parseAmount(s)
	return err
}

func dateField(optional bool) func(string) error {
	return func(s string) error {
		if s = strings.TrimSpace(s); s == "" {
			if optional {
				return nil
			}
			return errors.New("required")
		}
		if _, err := model.ParseDate(s); err != nil {
			return fmt.Errorf("use %s", time.DateOnly)
		}
		return nil
	}
}
