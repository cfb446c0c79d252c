package store

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/budgetsync/internal/i18n"
	"github.com/theirongolddev/budgetsync/internal/model"
	"github.com/theirongolddev/budgetsync/internal/remote"
)

func newExpenseStore(t *testing.T, api *fakeExpenseAPI) *ExpenseStore {
	t.Helper()
	s := NewExpenseStore(api, NewSession(testUser), newLocalizer(t))
	t.Cleanup(s.Close)
	return s
}

func expenseInput(desc string, amount int64) model.ExpenseInput {
	return model.ExpenseInput{
		Description: desc,
		Amount:      decimal.NewFromInt(amount),
		Date:        model.NewDate(2024, time.May, 1),
		BudgetID:    3,
	}
}

func TestExpenseMutationsBumpCounterOnce(t *testing.T) {
	api := newFakeExpenseAPI()
	s := newExpenseStore(t, api)

	events, cancel := s.Subscribe(ExpensesChanged, 8)
	defer cancel()

	created, err := s.Create(context.Background(), expenseInput("Taxi", 20))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), s.Changes())

	_, err = s.Update(context.Background(), created.ID, expenseInput("Taxi", 25))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), s.Changes())

	require.NoError(t, s.Delete(context.Background(), created.ID))
	assert.Equal(t, uint64(3), s.Changes())
	assert.Empty(t, s.Expenses())

	for i, op := range []Op{OpCreate, OpUpdate, OpDelete} {
		ev := <-events
		assert.Equal(t, ExpensesChanged, ev.Kind)
		assert.Equal(t, op, ev.Op)
		assert.Equal(t, uint64(i+1), ev.Seq)
	}

	assert.Zero(t, api.count("list"), "mutations never refetch the list")
}

func TestExpenseFailedMutationLeavesCounter(t *testing.T) {
	api := newFakeExpenseAPI()
	api.create = func(context.Context, model.Expense) (model.Expense, error) {
		return model.Expense{}, &remote.RemoteError{
			Op:      remote.OpCreateExpense,
			Status:  http.StatusBadRequest,
			Message: "Invalid input: Expenses amount cannot be negative.",
		}
	}
	s := newExpenseStore(t, api)

	_, err := s.Create(context.Background(), expenseInput("Taxi", -1))
	require.Error(t, err)
	assert.Zero(t, s.Changes())
	assert.Equal(t, i18n.KeyInvalidExpenseInput, s.ErrorState().Key)
	assert.Equal(t, "Invalid input: the expense amount cannot be negative.", s.Error())
}

func TestExpenseDuplicateName(t *testing.T) {
	api := newFakeExpenseAPI()
	api.update = func(context.Context, int64, model.Expense) (model.Expense, error) {
		return model.Expense{}, &remote.RemoteError{Message: `An expense with the name "Taxi" already exists`}
	}
	s := newExpenseStore(t, api)

	_, err := s.Update(context.Background(), 4, expenseInput("Taxi", 1))
	require.Error(t, err)
	state := s.ErrorState()
	assert.Equal(t, i18n.KeyExpenseExists, state.Key)
	assert.Equal(t, i18n.Params{"name": "Taxi"}, state.Params)
}

func TestExpenseRequiresUser(t *testing.T) {
	api := newFakeExpenseAPI()
	session := NewSession(testUser)
	s := NewExpenseStore(api, session, newLocalizer(t))
	defer s.Close()

	session.SignOut()
	_, err := s.Create(context.Background(), expenseInput("Taxi", 1))
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.ErrorIs(t, s.Delete(context.Background(), 1), ErrNotAuthenticated)
	assert.Zero(t, api.count("create")+api.count("delete"))
	assert.Zero(t, s.Changes())
	assert.False(t, s.ErrorState().Pending)
}

func TestExpenseUpdateMissingID(t *testing.T) {
	api := newFakeExpenseAPI()
	s := newExpenseStore(t, api)

	_, err := s.Update(context.Background(), 0, expenseInput("Taxi", 1))
	assert.ErrorIs(t, err, ErrMissingID)
	assert.Zero(t, api.count("update"))
	assert.Equal(t, i18n.KeyMissingExpenseID, s.ErrorState().Key)
}

func TestExpenseUpdateMerges(t *testing.T) {
	api := newFakeExpenseAPI()
	api.list = func(context.Context, int64) ([]model.Expense, error) {
		return []model.Expense{{
			ID:          9,
			Description: "Lunch",
			Amount:      decimal.NewFromInt(12),
			Date:        model.NewDate(2024, time.April, 2),
			Budget:      &model.BudgetRef{ID: 1},
		}}, nil
	}
	api.update = func(_ context.Context, id int64, e model.Expense) (model.Expense, error) {
		e.ID = id
		e.Budget = &model.BudgetRef{ID: 5}
		return e, nil
	}
	s := newExpenseStore(t, api)
	require.NoError(t, s.List(context.Background(), testUser))

	in := model.ExpenseInput{Description: "Dinner", Amount: decimal.NewFromInt(30)}
	_, err := s.Update(context.Background(), 9, in)
	require.NoError(t, err)

	got, ok := s.Find("dinner")
	require.True(t, ok)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, "2024-04-02", got.Date.String(), "unsubmitted fields are kept")
	assert.Equal(t, int64(5), got.BudgetID())

	byID, ok := s.Get(9)
	require.True(t, ok)
	assert.Equal(t, got, byID)
	_, ok = s.Get(10)
	assert.False(t, ok)
}

func TestExpenseListMalformed(t *testing.T) {
	api := newFakeExpenseAPI()
	api.list = func(context.Context, int64) ([]model.Expense, error) {
		return nil, &remote.RemoteError{Err: fmt.Errorf("%w: not a list", remote.ErrMalformedResponse)}
	}
	s := newExpenseStore(t, api)

	require.Error(t, s.List(context.Background(), testUser))
	assert.Equal(t, "Failed to fetch expenses correctly", s.Error())
}

func TestExpenseDeleteFailure(t *testing.T) {
	api := newFakeExpenseAPI()
	api.delete = func(context.Context, int64) error {
		return &remote.RemoteError{Message: remote.OpDeleteExpense.Fallback()}
	}
	s := newExpenseStore(t, api)

	require.Error(t, s.Delete(context.Background(), 2))
	assert.Equal(t, "An error occurred while deleting the expense. Please try again later.", s.Error())
	assert.Zero(t, s.Changes())
}

func TestExpenseUpdateToZeroAmount(t *testing.T) {
	api := newFakeExpenseAPI()
	api.list = func(context.Context, int64) ([]model.Expense, error) {
		return []model.Expense{{
			ID:          9,
			Description: "Lunch",
			Amount:      decimal.NewFromInt(12),
			Date:        model.NewDate(2024, time.April, 2),
		}}, nil
	}
	s := newExpenseStore(t, api)
	require.NoError(t, s.List(context.Background(), testUser))

	updated, err := s.Update(context.Background(), 9, model.ExpenseInput{Description: "Lunch", Amount: decimal.Zero})
	require.NoError(t, err)
	assert.True(t, updated.Amount.IsZero(), "returned amount = %s", updated.Amount)

	got, ok := s.Get(9)
	require.True(t, ok)
	assert.True(t, got.Amount.IsZero(), "stored amount = %s", got.Amount)
	assert.Equal(t, "2024-04-02", got.Date.String())
}
