package server

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetsync/internal/i18n"
	"github.com/theirongolddev/budgetsync/internal/model"
)

// Letters and digits, with single spaces allowed between words.
var descriptionPattern = regexp.MustCompile(`^[\p{L}\p{N}]+( [\p{L}\p{N}]+)*$`)

const (
	msgBudgetAmount       = "Invalid input: Budget amount cannot be negative or zero."
	msgBudgetDescription  = "Invalid input: BudgetDescription must be alphanumeric"
	msgExpenseAmount      = "Invalid input: Expenses amount cannot be negative."
	msgExpenseDescription = "Invalid input: ExpensesDescription must be alphanumeric"
	msgExpenseDate        = "Invalid input: Expense date is required"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	_ = v.RegisterValidation("alnumspace", func(fl validator.FieldLevel) bool {
		return descriptionPattern.MatchString(fl.Field().String())
	})
	return v
}

// decimalValue lets numeric tags such as gt=0 apply to decimal amounts.
func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.InexactFloat64()
	}
	return nil
}

type budgetRequest struct {
	Description string          `json:"budgetDescription" validate:"alnumspace"`
	Amount      decimal.Decimal `json:"budgetAmount" validate:"gt=0"`
	UserID      int64           `json:"userId"`
}

func (r budgetRequest) record() model.Budget {
	return model.Budget{
		Description: strings.TrimSpace(r.Description),
		Amount:      r.Amount,
		UserID:      r.UserID,
	}
}

type expenseRequest struct {
	Description string           `json:"expensesDescription" validate:"alnumspace"`
	Amount      decimal.Decimal  `json:"expensesAmount" validate:"gte=0"`
	Date        model.Date       `json:"expensesDate" validate:"-"`
	Budget      *model.BudgetRef `json:"budget" validate:"-"`
	UserID      int64            `json:"userId"`
}

func (r expenseRequest) record() model.Expense {
	e := model.Expense{
		Description: strings.TrimSpace(r.Description),
		Amount:      r.Amount,
		Date:        r.Date,
		UserID:      r.UserID,
	}
	if r.Budget != nil && r.Budget.ID != 0 {
		e.Budget = &model.BudgetRef{ID: r.Budget.ID}
	}
	return e
}

// failedFields returns the struct field names that failed validation.
func failedFields(err error) map[string]bool {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make(map[string]bool, len(verrs))
	for _, fe := range verrs {
		fields[fe.StructField()] = true
	}
	return fields
}

// checkBudget reports the first validation problem of r, amount first.
func (s *Server) checkBudget(r budgetRequest) *httpError {
	r.Description = strings.TrimSpace(r.Description)
	err := s.validate.Struct(r)
	if err == nil {
		return nil
	}
	fields := failedFields(err)
	switch {
	case fields["Amount"]:
		return &httpError{Error: msgBudgetAmount, Code: i18n.CodeInvalidBudgetAmount}
	case fields["Description"]:
		return &httpError{Error: msgBudgetDescription, Code: i18n.CodeInvalidBudgetDescription}
	}
	return &httpError{Error: "Invalid input: " + err.Error()}
}

// checkExpense reports the first validation problem of r, amount first.
func (s *Server) checkExpense(r expenseRequest) *httpError {
	r.Description = strings.TrimSpace(r.Description)
	err := s.validate.Struct(r)
	if err == nil {
		return nil
	}
	fields := failedFields(err)
	switch {
	case fields["Amount"]:
		return &httpError{Error: msgExpenseAmount, Code: i18n.CodeInvalidExpenseAmount}
	case fields["Description"]:
		return &httpError{Error: msgExpenseDescription, Code: i18n.CodeInvalidExpenseDescription}
	}
	return &httpError{Error: "Invalid input: " + err.Error()}
}
