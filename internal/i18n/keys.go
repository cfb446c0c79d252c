// Package i18n turns raw service errors into localized, re-renderable
// messages.
package i18n

// Key identifies a localized message.
type Key string

// Message keys.
const (
	KeyBudgetExists           Key = "app.budgetExistsError"
	KeyInvalidBudgetInput     Key = "app.invalidBudgetInput"
	KeyBudgetDescriptionError Key = "app.budgetDescriptionError"
	KeyExpenseExists          Key = "app.expenseExistsError"
	KeyInvalidExpenseInput    Key = "app.invalidExpenseInput"
	KeyExpenseDescription     Key = "app.expenseDescriptionError"
	KeyMissingID              Key = "app.missingId"
	KeyMissingExpenseID       Key = "app.missingExpenseId"
	KeyFetchBudgets           Key = "app.fetchBudgetsError"
	KeyFetchExpenses          Key = "app.fetchExpensesError"
	KeyNotAuthenticated       Key = "app.notAuthenticated"
	KeyRemote                 Key = "app.remoteError"
	KeyUnexpected             Key = "app.unexpectedError"
)

// English texts of errors raised on the client side.
const (
	MissingBudgetIDMessage  = "Failed to update budget: Missing budget ID"
	MissingExpenseIDMessage = "Failed to update expense: Missing expense ID"
	FetchBudgetsMessage     = "Failed to fetch budgets correctly"
	FetchExpensesMessage    = "Failed to fetch expenses correctly"
)

// Params holds the named dynamic values of a message.
type Params map[string]string

// paramNames lists, in catalog argument order, the parameters each key takes.
var paramNames = map[Key][]string{
	KeyBudgetExists:  {"name"},
	KeyExpenseExists: {"name"},
	KeyRemote:        {"message"},
}

// ParamNames returns the ordered parameter names of key.
func ParamNames(key Key) []string {
	return paramNames[key]
}

func (p Params) args(key Key) []any {
	names := paramNames[key]
	args := make([]any, len(names))
	for i, name := range names {
		args[i] = p[name]
	}
	return args
}

// Clone returns a copy of p.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
