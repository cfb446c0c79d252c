package store

import (
	"context"
	"sync"

	"github.com/theirongolddev/budgetsync/internal/model"
)

type fakeBudgetAPI struct {
	mu    sync.Mutex
	calls map[string]int

	list   func(ctx context.Context, userID int64) ([]model.Budget, error)
	create func(ctx context.Context, b model.Budget) (model.Budget, error)
	update func(ctx context.Context, id int64, b model.Budget) (model.Budget, error)
	delete func(ctx context.Context, id int64) error
	chart  func(ctx context.Context, userID int64) ([]model.CategoryTotal, error)
}

func newFakeBudgetAPI() *fakeBudgetAPI {
	return &fakeBudgetAPI{calls: make(map[string]int)}
}

func (f *fakeBudgetAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBudgetAPI) record(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeBudgetAPI) ListBudgets(ctx context.Context, userID int64) ([]model.Budget, error) {
	f.record("list")
	if f.list == nil {
		return []model.Budget{}, nil
	}
	return f.list(ctx, userID)
}

func (f *fakeBudgetAPI) CreateBudget(ctx context.Context, b model.Budget) (model.Budget, error) {
	f.record("create")
	if f.create == nil {
		b.ID = 1
		return b, nil
	}
	return f.create(ctx, b)
}

func (f *fakeBudgetAPI) UpdateBudget(ctx context.Context, id int64, b model.Budget) (model.Budget, error) {
	f.record("update")
	if f.update == nil {
		b.ID = id
		return b, nil
	}
	return f.update(ctx, id, b)
}

func (f *fakeBudgetAPI) DeleteBudget(ctx context.Context, id int64) error {
	f.record("delete")
	if f.delete == nil {
		return nil
	}
	return f.delete(ctx, id)
}

func (f *fakeBudgetAPI) BudgetNamesAndAmounts(ctx context.Context, userID int64) ([]model.CategoryTotal, error) {
	f.record("chart")
	if f.chart == nil {
		return []model.CategoryTotal{}, nil
	}
	return f.chart(ctx, userID)
}

type fakeExpenseAPI struct {
	mu    sync.Mutex
	calls map[string]int

	list   func(ctx context.Context, userID int64) ([]model.Expense, error)
	create func(ctx context.Context, e model.Expense) (model.Expense, error)
	update func(ctx context.Context, id int64, e model.Expense) (model.Expense, error)
	delete func(ctx context.Context, id int64) error
}

func newFakeExpenseAPI() *fakeExpenseAPI {
	return &fakeExpenseAPI{calls: make(map[string]int)}
}

func (f *fakeExpenseAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeExpenseAPI) record(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeExpenseAPI) ListExpenses(ctx context.Context, userID int64) ([]model.Expense, error) {
	f.record("list")
	if f.list == nil {
		return []model.Expense{}, nil
	}
	return f.list(ctx, userID)
}

func (f *fakeExpenseAPI) CreateExpense(ctx context.Context, e model.Expense) (model.Expense, error) {
	f.record("create")
	if f.create == nil {
		e.ID = 1
		return e, nil
	}
	return f.create(ctx, e)
}

func (f *fakeExpenseAPI) UpdateExpense(ctx context.Context, id int64, e model.Expense) (model.Expense, error) {
	f.record("update")
	if f.update == nil {
		e.ID = id
		return e, nil
	}
	return f.update(ctx, id, e)
}

func (f *fakeExpenseAPI) DeleteExpense(ctx context.Context, id int64) error {
	f.record("delete")
	if f.delete == nil {
		return nil
	}
	return f.delete(ctx, id)
}
