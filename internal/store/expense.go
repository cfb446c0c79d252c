package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/theirongolddev/budgetsync/internal/i18n"
	"github.com/theirongolddev/budgetsync/internal/model"
	"github.com/theirongolddev/budgetsync/internal/remote"
)

// ExpenseAPI is the part of the remote service the expense store uses.
type ExpenseAPI interface {
	ListExpenses(ctx context.Context, userID int64) ([]model.Expense, error)
	CreateExpense(ctx context.Context, e model.Expense) (model.Expense, error)
	UpdateExpense(ctx context.Context, id int64, e model.Expense) (model.Expense, error)
	DeleteExpense(ctx context.Context, id int64) error
}

// ExpenseStore holds the signed-in user's expenses. It never refetches its
// own list after a mutation; dependents follow its ExpensesChanged events.
type ExpenseStore struct {
	*core
	api ExpenseAPI

	expenses []model.Expense
	listGen  uint64
}

// NewExpenseStore creates an empty expense store.
func NewExpenseStore(api ExpenseAPI, id Identity, loc *i18n.Localizer, opts ...Option) *ExpenseStore {
	return &ExpenseStore{
		core: newCore(id, loc, buildOptions(opts)),
		api:  api,
	}
}

// Expenses returns a copy of the collection.
func (s *ExpenseStore) Expenses() []model.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Expense, len(s.expenses))
	copy(out, s.expenses)
	return out
}

// Find returns the expense whose description matches, ignoring case.
func (s *ExpenseStore) Find(description string) (model.Expense, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.expenses {
		if strings.EqualFold(e.Description, description) {
			return e, true
		}
	}
	return model.Expense{}, false
}

// Get returns the expense with the given id.
func (s *ExpenseStore) Get(id int64) (model.Expense, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.expenses {
		if e.ID == id {
			return e, true
		}
	}
	return model.Expense{}, false
}

// List replaces the collection with userID's expenses from the service.
// On failure the previous collection is kept. A pending error outlives a
// successful list; only mutations clear it.
func (s *ExpenseStore) List(ctx context.Context, userID int64) error {
	s.mu.Lock()
	s.listGen++
	gen := s.listGen
	s.mu.Unlock()

	expenses, err := s.api.ListExpenses(ctx, userID)

	s.mu.Lock()
	if gen != s.listGen {
		s.mu.Unlock()
		s.log.Debug().Uint64("gen", gen).Msg("dropping stale expense list")
		return ErrSuperseded
	}
	if err != nil {
		s.listSettled(err)
		s.version++
		s.mu.Unlock()
		if remote.IsMalformed(err) {
			s.errs.Fail(i18n.FetchExpensesMessage, i18n.KeyFetchExpenses, nil)
		} else {
			s.failRaw(err)
		}
		return fmt.Errorf("store: listing expenses: %w", err)
	}
	if expenses == nil {
		expenses = []model.Expense{}
	}
	s.expenses = expenses
	s.listSettled(nil)
	s.version++
	seq := s.seq
	s.mu.Unlock()

	s.log.Debug().Int64("user_id", userID).Int("count", len(expenses)).Msg("expenses loaded")
	s.publish(ExpensesChanged, OpList, seq)
	return nil
}

// Create submits a new expense for the signed-in user and appends the
// stored record.
func (s *ExpenseStore) Create(ctx context.Context, in model.ExpenseInput) (model.Expense, error) {
	uid, err := s.user()
	if err != nil {
		return model.Expense{}, err
	}

	created, err := s.api.CreateExpense(ctx, in.Record(uid))
	if err != nil {
		s.failClassified(err, i18n.ExpenseTable)
		return model.Expense{}, fmt.Errorf("store: creating expense: %w", err)
	}

	s.mu.Lock()
	s.expenses = append(s.expenses, created)
	seq := s.mutated()
	s.mu.Unlock()

	s.publish(ExpensesChanged, OpCreate, seq)
	s.errs.Clear()
	return created, nil
}

// Update submits new values for the expense with the given id. The local
// record takes the submitted fields, then the fields the service returned.
// A zero amount is a real amount and is never skipped.
func (s *ExpenseStore) Update(ctx context.Context, id int64, in model.ExpenseInput) (model.Expense, error) {
	uid, err := s.user()
	if err != nil {
		return model.Expense{}, err
	}
	if id == 0 {
		s.errs.Fail(i18n.MissingExpenseIDMessage, i18n.KeyMissingExpenseID, nil)
		return model.Expense{}, fmt.Errorf("store: updating expense: %w", ErrMissingID)
	}

	submitted := in.Record(uid)
	updated, err := s.api.UpdateExpense(ctx, id, submitted)
	if err != nil {
		s.failClassified(err, i18n.ExpenseTable)
		return model.Expense{}, fmt.Errorf("store: updating expense %d: %w", id, err)
	}

	s.mu.Lock()
	result := model.Expense{ID: id, UserID: uid}.Apply(in).Merge(updated)
	for i := range s.expenses {
		if s.expenses[i].ID == id {
			s.expenses[i] = s.expenses[i].Apply(in).Merge(updated)
			result = s.expenses[i]
			break
		}
	}
	seq := s.mutated()
	s.mu.Unlock()

	s.publish(ExpensesChanged, OpUpdate, seq)
	s.errs.Clear()
	return result, nil
}

// Delete removes the expense with the given id from the service, then from
// the collection. The referenced budget is left alone.
func (s *ExpenseStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.user(); err != nil {
		return err
	}

	if err := s.api.DeleteExpense(ctx, id); err != nil {
		s.failRaw(err)
		return fmt.Errorf("store: deleting expense %d: %w", id, err)
	}

	s.mu.Lock()
	kept := make([]model.Expense, 0, len(s.expenses))
	for _, e := range s.expenses {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	s.expenses = kept
	seq := s.mutated()
	s.mu.Unlock()

	s.publish(ExpensesChanged, OpDelete, seq)
	s.errs.Clear()
	return nil
}
