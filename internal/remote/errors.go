package remote

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse indicates a 2xx response whose body did not have the
// expected shape.
var ErrMalformedResponse = errors.New("remote: malformed response")

// Op names a remote operation.
type Op string

// Remote operations.
const (
	OpCreateBudget          Op = "create budget"
	OpListBudgets           Op = "list budgets"
	OpUpdateBudget          Op = "update budget"
	OpDeleteBudget          Op = "delete budget"
	OpBudgetChart           Op = "budget chart"
	OpCreateExpense         Op = "create expense"
	OpListExpenses          Op = "list expenses"
	OpUpdateExpense         Op = "update expense"
	OpDeleteExpense         Op = "delete expense"
	OpExpensesByCategory    Op = "expenses by category"
	OpTotalExpensesByBudget Op = "total expenses by budget"
	OpCreateUser            Op = "create user"
	OpFindUser              Op = "find user"
)

var fallbackMessages = map[Op]string{
	OpCreateBudget:          "An error occurred while creating the budget. Please try again later.",
	OpListBudgets:           "Failed to load budgets. Please refresh the page to try again.",
	OpUpdateBudget:          "An error occurred while updating the budget. Please try again later.",
	OpDeleteBudget:          "An error occurred while deleting the budget. Please try again later.",
	OpBudgetChart:           "Failed to fetch budget categories for chart.",
	OpCreateExpense:         "An error occurred while creating the expense. Please try again later.",
	OpListExpenses:          "Failed to load expenses. Please refresh the page to try again.",
	OpUpdateExpense:         "An error occurred while updating the expense. Please try again later.",
	OpDeleteExpense:         "An error occurred while deleting the expense. Please try again later.",
	OpExpensesByCategory:    "Failed to load expenses by category. Please try again later.",
	OpTotalExpensesByBudget: "Failed to load total expenses by budget. Please try again later.",
	OpCreateUser:            "A user with the provided email already exists.",
	OpFindUser:              "Failed to look up the user. Please try again later.",
}

// Fallback returns the message used when the server does not provide one.
func (op Op) Fallback() string {
	return fallbackMessages[op]
}

// RemoteError is returned by every Client method that fails.
// Message is the server-provided text when there was one, else the
// operation's fallback message.
type RemoteError struct {
	Op      Op
	Status  int // 0 when no response was received
	Message string
	Code    string            // structured error code, if the server sent one
	Params  map[string]string // parameters for Code
	Err     error
}

func (e *RemoteError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("remote: %s: status %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("remote: %s: %s", e.Op, e.Message)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Message extracts the user-facing text of err. Non-remote errors yield
// err.Error().
func Message(err error) string {
	if err == nil {
		return ""
	}
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Message
	}
	return err.Error()
}

// IsMalformed reports whether err stems from a response with an unexpected shape.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedResponse)
}
