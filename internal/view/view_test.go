package view

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/budgetsync/internal/model"
	"github.com/theirongolddev/budgetsync/internal/remote"
	"github.com/theirongolddev/budgetsync/internal/store"
)

type stubExpenseAPI struct{}

func (stubExpenseAPI) ListExpenses(context.Context, int64) ([]model.Expense, error) {
	return []model.Expense{}, nil
}

func (stubExpenseAPI) CreateExpense(_ context.Context, e model.Expense) (model.Expense, error) {
	e.ID = 1
	return e, nil
}

func (stubExpenseAPI) UpdateExpense(_ context.Context, id int64, e model.Expense) (model.Expense, error) {
	e.ID = id
	return e, nil
}

func (stubExpenseAPI) DeleteExpense(context.Context, int64) error { return nil }

type stubBudgetAPI struct {
	budgets   []model.Budget
	listErr   error
	createErr error
	chart     []model.CategoryTotal
	chartErr  error
}

func (s stubBudgetAPI) ListBudgets(context.Context, int64) ([]model.Budget, error) {
	return s.budgets, s.listErr
}

func (s stubBudgetAPI) CreateBudget(_ context.Context, b model.Budget) (model.Budget, error) {
	if s.createErr != nil {
		return model.Budget{}, s.createErr
	}
	return b, nil
}

func (s stubBudgetAPI) UpdateBudget(_ context.Context, _ int64, b model.Budget) (model.Budget, error) {
	return b, nil
}

func (s stubBudgetAPI) DeleteBudget(context.Context, int64) error { return nil }

func (s stubBudgetAPI) BudgetNamesAndAmounts(context.Context, int64) ([]model.CategoryTotal, error) {
	return s.chart, s.chartErr
}

type stubCategoryAPI struct {
	mu     sync.Mutex
	totals model.Totals
	err    error
	calls  int
}

func (s *stubCategoryAPI) ExpensesByCategory(context.Context, int64) (model.Totals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.totals, s.err
}

func (s *stubCategoryAPI) TotalExpensesByBudget(context.Context) (model.Totals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.totals, s.err
}

func TestFromTotalsKeepsOrder(t *testing.T) {
	totals := model.NewTotals(
		model.CategoryTotal{Name: "Food", Amount: decimal.NewFromInt(200)},
		model.CategoryTotal{Name: "Transport", Amount: decimal.NewFromInt(100)},
	)

	s := FromTotals(totals)
	assert.Equal(t, []string{"Food", "Transport"}, s.Labels)
	assert.Equal(t, []float64{200, 100}, s.Values)
	assert.InDelta(t, 300, s.Total(), 0.001)
}

func TestProjectionsOfEmptyInputs(t *testing.T) {
	assert.Equal(t, NoData, resolve(FromBudgets(nil), "").State)
	assert.Equal(t, NoData, resolve(FromExpenses([]model.Expense{}), "").State)
	assert.Equal(t, NoData, resolve(FromTotals(model.Totals{}), "").State)
	assert.Equal(t, Error, resolve(Series{}, "boom").State)
}

func TestFromBudgetsAndExpenses(t *testing.T) {
	b := FromBudgets([]model.Budget{{Description: "Rent", Amount: decimal.RequireFromString("950.5")}})
	assert.Equal(t, []string{"Rent"}, b.Labels)
	assert.Equal(t, []float64{950.5}, b.Values)

	e := FromExpenses([]model.Expense{{Description: "Bus", Amount: decimal.NewFromInt(3)}})
	assert.Equal(t, []string{"Bus"}, e.Labels)
}

func TestStoreViewReprojectsOnVersionChange(t *testing.T) {
	var version atomic.Uint64
	v := NewStoreView(version.Load, func() Projection {
		return resolve(Series{Labels: []string{"a"}, Values: []float64{1}}, "")
	})

	assert.Equal(t, Loading, v.Current().State)
	assert.Zero(t, v.Projections())

	version.Store(1)
	assert.Equal(t, Ready, v.Current().State)
	v.Current()
	assert.Equal(t, 1, v.Projections())

	version.Store(2)
	v.Current()
	assert.Equal(t, 2, v.Projections())
}

func TestBudgetViews(t *testing.T) {
	api := stubBudgetAPI{
		budgets: []model.Budget{{ID: 1, Description: "Food", Amount: decimal.NewFromInt(100)}},
		chart:   []model.CategoryTotal{{Name: "Food", Amount: decimal.NewFromInt(100)}},
	}
	bs := store.NewBudgetStore(api, store.NewSession(1), nil)

	list := BudgetList(bs)
	chart := BudgetChart(bs)
	assert.Equal(t, Loading, list.Current().State)

	require.NoError(t, bs.List(context.Background(), 1))
	assert.Equal(t, Ready, list.Current().State)
	assert.Equal(t, []string{"Food"}, list.Current().Series.Labels)

	require.NoError(t, bs.FetchChart(context.Background(), 1))
	assert.Equal(t, Ready, chart.Current().State)
}

func TestBudgetChartLoadingUntilFetched(t *testing.T) {
	bs := store.NewBudgetStore(stubBudgetAPI{}, store.NewSession(1), nil)
	chart := BudgetChart(bs)

	require.NoError(t, bs.List(context.Background(), 1))
	assert.Equal(t, Loading, chart.Current().State, "a budget list is not a chart fetch")

	require.NoError(t, bs.FetchChart(context.Background(), 1))
	assert.Equal(t, NoData, chart.Current().State)
}

func TestBudgetListIgnoresMutationFailure(t *testing.T) {
	rejected := &remote.RemoteError{
		Op:      remote.OpCreateBudget,
		Status:  400,
		Message: "Invalid input: Budget amount cannot be negative or zero.",
	}
	bs := store.NewBudgetStore(stubBudgetAPI{createErr: rejected}, store.NewSession(1), nil)
	list := BudgetList(bs)

	require.NoError(t, bs.List(context.Background(), 1))
	assert.Equal(t, NoData, list.Current().State)

	_, err := bs.Create(context.Background(), model.BudgetInput{Description: "Rent"})
	require.Error(t, err)
	require.NotEmpty(t, bs.Error())
	assert.Equal(t, NoData, list.Current().State)
}

func TestBudgetListFetchFailure(t *testing.T) {
	bs := store.NewBudgetStore(stubBudgetAPI{listErr: errors.New("connection refused")}, store.NewSession(1), nil)
	list := BudgetList(bs)

	require.Error(t, bs.List(context.Background(), 1))
	p := list.Current()
	assert.Equal(t, Error, p.State)
	assert.NotEmpty(t, p.Err)
}

func TestExpenseListLoadingBeforeFetch(t *testing.T) {
	es := store.NewExpenseStore(stubExpenseAPI{}, store.NewSession(1), nil)
	list := ExpenseList(es)
	assert.Equal(t, Loading, list.Current().State)

	require.NoError(t, es.List(context.Background(), 1))
	assert.Equal(t, NoData, list.Current().State)
}

func TestBudgetChartFailure(t *testing.T) {
	bs := store.NewBudgetStore(stubBudgetAPI{chartErr: errors.New("down")}, store.NewSession(1), nil)
	chart := BudgetChart(bs)

	require.Error(t, bs.FetchChart(context.Background(), 1))
	p := chart.Current()
	assert.Equal(t, Error, p.State)
	assert.Equal(t, "Failed to fetch budget categories for chart.", p.Err)
}

func TestBudgetChartEmpty(t *testing.T) {
	bs := store.NewBudgetStore(stubBudgetAPI{}, store.NewSession(1), nil)
	chart := BudgetChart(bs)

	require.NoError(t, bs.FetchChart(context.Background(), 1))
	assert.Equal(t, NoData, chart.Current().State)
}

func TestRemoteViewRefetchesOnlyWhenCounterAdvances(t *testing.T) {
	var counter atomic.Uint64
	fetches := 0
	v := NewRemoteView(func(context.Context) (Series, error) {
		fetches++
		return Series{Labels: []string{"Food"}, Values: []float64{200}}, nil
	}, counter.Load)

	assert.Equal(t, Loading, v.Current().State)

	require.NoError(t, v.Refresh(context.Background()))
	require.NoError(t, v.Refresh(context.Background()))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, Ready, v.Current().State)

	counter.Add(1)
	require.NoError(t, v.Refresh(context.Background()))
	assert.Equal(t, 2, fetches)

	require.NoError(t, v.Reload(context.Background()))
	assert.Equal(t, 3, fetches)
}

func TestRemoteViewError(t *testing.T) {
	v := NewRemoteView(func(context.Context) (Series, error) {
		return Series{}, &remote.RemoteError{Message: remote.OpExpensesByCategory.Fallback()}
	}, func() uint64 { return 0 })

	require.Error(t, v.Refresh(context.Background()))
	p := v.Current()
	assert.Equal(t, Error, p.State)
	assert.Equal(t, "Failed to load expenses by category. Please try again later.", p.Err)
}

func TestRemoteViewDropsLateResponse(t *testing.T) {
	var counter atomic.Uint64
	release := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32

	v := NewRemoteView(func(context.Context) (Series, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
			return Series{Labels: []string{"old"}, Values: []float64{1}}, nil
		}
		return Series{Labels: []string{"new"}, Values: []float64{2}}, nil
	}, counter.Load)

	done := make(chan error, 1)
	go func() { done <- v.Refresh(context.Background()) }()
	<-started

	counter.Add(1)
	require.NoError(t, v.Refresh(context.Background()))
	close(release)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, store.ErrSuperseded)
	case <-time.After(2 * time.Second):
		t.Fatal("late fetch never returned")
	}
	assert.Equal(t, []string{"new"}, v.Current().Series.Labels)
}

func TestExpensesByCategoryWatch(t *testing.T) {
	api := &stubCategoryAPI{totals: model.NewTotals(
		model.CategoryTotal{Name: "Food", Amount: decimal.NewFromInt(200)},
		model.CategoryTotal{Name: "Transport", Amount: decimal.NewFromInt(100)},
	)}
	session := store.NewSession(3)
	es := store.NewExpenseStore(stubExpenseAPI{}, session, nil)

	v := ExpensesByCategory(api, session, es)
	require.NoError(t, v.Refresh(context.Background()))
	assert.Equal(t, []string{"Food", "Transport"}, v.Current().Series.Labels)

	events, cancel := es.Subscribe(store.ExpensesChanged, 4)
	defer cancel()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go v.Watch(ctx, events)

	_, err := es.Create(context.Background(), model.ExpenseInput{Description: "Taxi", Amount: decimal.NewFromInt(5)})
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return v.Fetches() == 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestExpensesByCategoryNeedsUser(t *testing.T) {
	api := &stubCategoryAPI{}
	session := store.NewSession(0)
	es := store.NewExpenseStore(stubExpenseAPI{}, session, nil)

	v := ExpensesByCategory(api, session, es)
	require.ErrorIs(t, v.Refresh(context.Background()), store.ErrNotAuthenticated)
	assert.Equal(t, Error, v.Current().State)
	assert.Zero(t, api.calls)
}

func TestTotalsByBudgetEmpty(t *testing.T) {
	api := &stubCategoryAPI{}
	es := store.NewExpenseStore(stubExpenseAPI{}, store.NewSession(1), nil)

	v := TotalsByBudget(api, es)
	require.NoError(t, v.Refresh(context.Background()))
	assert.Equal(t, NoData, v.Current().State)
}
