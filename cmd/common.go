package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetsync/internal/cli"
	"github.com/theirongolddev/budgetsync/internal/dashboard"
	"github.com/theirongolddev/budgetsync/internal/model"
)

// maxSuggestions caps the "did you mean" list.
const maxSuggestions = 3

// localizedError shows the store's localized message and keeps the
// underlying error for errors.Is.
type localizedError struct {
	msg string
	err error
}

func (e *localizedError) Error() string { return e.msg }
func (e *localizedError) Unwrap() error { return e.err }

// storeError prefers the store's localized message over err's text.
func storeError(msg string, err error) error {
	if err == nil {
		return nil
	}
	if msg == "" {
		return err
	}
	return &localizedError{msg: msg, err: err}
}

// errNotFound reports a name that matched nothing, suggesting close names.
func errNotFound(kind, ref string, names []string) error {
	msg := fmt.Sprintf("%s %q not found", kind, ref)
	if hints := cli.Suggest(ref, names, maxSuggestions); len(hints) > 0 {
		msg += " (did you mean " + joinQuoted(hints) + "?)"
	}
	return errors.New(msg)
}

func joinQuoted(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = strconv.Quote(n)
	}
	return strings.Join(quoted, " or ")
}

// findBudget resolves a budget by id or, case-insensitively, by name.
// The budget store must already be listed.
func findBudget(d *dashboard.Dashboard, ref string) (model.Budget, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		if b, ok := d.Budgets.Get(id); ok {
			return b, nil
		}
	}
	if b, ok := d.Budgets.Find(ref); ok {
		return b, nil
	}

	budgets := d.Budgets.Budgets()
	names := make([]string, len(budgets))
	for i, b := range budgets {
		names[i] = b.Description
	}
	return model.Budget{}, errNotFound("budget", ref, names)
}

// findExpense resolves an expense by id or by description.
// The expense store must already be listed.
func findExpense(d *dashboard.Dashboard, ref string) (model.Expense, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		if e, ok := d.Expenses.Get(id); ok {
			return e, nil
		}
	}
	if e, ok := d.Expenses.Find(ref); ok {
		return e, nil
	}

	expenses := d.Expenses.Expenses()
	names := make([]string, len(expenses))
	for i, e := range expenses {
		names[i] = e.Description
	}
	return model.Expense{}, errNotFound("expense", ref, names)
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimPrefix(strings.TrimSpace(s), "$"), ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

// openDashboard builds the dashboard for a command that needs a user.
func openDashboard() (*dashboard.Dashboard, int64, error) {
	d, err := newDashboard()
	if err != nil {
		return nil, 0, err
	}
	uid, err := d.UserID()
	if err != nil {
		d.Close()
		return nil, 0, errors.New("no user configured: run `budgetsync users signin`, `budgetsync setup` or pass --user")
	}
	return d, uid, nil
}
