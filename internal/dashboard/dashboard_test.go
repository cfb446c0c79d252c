package dashboard_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/budgetsync/internal/config"
	"github.com/theirongolddev/budgetsync/internal/dashboard"
	"github.com/theirongolddev/budgetsync/internal/i18n"
	"github.com/theirongolddev/budgetsync/internal/model"
	"github.com/theirongolddev/budgetsync/internal/remote"
	"github.com/theirongolddev/budgetsync/internal/server"
	"github.com/theirongolddev/budgetsync/internal/server/storage"
	"github.com/theirongolddev/budgetsync/internal/store"
	"github.com/theirongolddev/budgetsync/internal/view"
)

func newService(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	srv := httptest.NewServer(server.New(st).Router(config.ServerConfig{}))
	t.Cleanup(func() {
		srv.Close()
		_ = st.Close()
	})
	return srv
}

func newDashboard(t *testing.T, baseURL string, userID int64) *dashboard.Dashboard {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.API.BaseURL = baseURL
	cfg.User.ID = userID

	d, err := dashboard.New(cfg)
	require.NoError(t, err)
	t.Cleanup(d.Close)
	return d
}

func TestLoadEmpty(t *testing.T) {
	srv := newService(t)
	d := newDashboard(t, srv.URL, 1)

	assert.Equal(t, view.Loading, d.BudgetList.Current().State)

	require.NoError(t, d.Load(context.Background()))
	assert.Equal(t, view.NoData, d.BudgetList.Current().State)
	assert.Equal(t, view.NoData, d.BudgetChart.Current().State)
	assert.Equal(t, view.NoData, d.ExpenseList.Current().State)
	assert.Equal(t, view.NoData, d.CategoryChart.Current().State)
	assert.Equal(t, view.NoData, d.BudgetTotals.Current().State)
}

func TestLoadWithoutUser(t *testing.T) {
	srv := newService(t)
	d := newDashboard(t, srv.URL, 0)

	err := d.Load(context.Background())
	assert.ErrorIs(t, err, store.ErrNotAuthenticated)

	_, err = d.Budgets.Create(context.Background(), model.BudgetInput{Description: "Food", Amount: decimal.NewFromInt(10)})
	assert.ErrorIs(t, err, store.ErrNotAuthenticated)
}

func TestLoadUnreachable(t *testing.T) {
	srv := newService(t)
	url := srv.URL
	srv.Close()

	d := newDashboard(t, url, 1)
	err := d.Load(context.Background())
	require.Error(t, err)

	var re *remote.RemoteError
	assert.True(t, errors.As(err, &re))
	assert.Equal(t, "Failed to load budgets. Please refresh the page to try again.", d.Budgets.Error())
	assert.Equal(t, view.Error, d.BudgetList.Current().State)
	assert.Equal(t, view.Error, d.BudgetChart.Current().State)
}

func TestBudgetAndExpenseFlow(t *testing.T) {
	ctx := context.Background()
	srv := newService(t)
	d := newDashboard(t, srv.URL, 1)
	require.NoError(t, d.Load(ctx))

	food, err := d.Budgets.Create(ctx, model.BudgetInput{Description: "Food", Amount: decimal.NewFromInt(300)})
	require.NoError(t, err)
	_, err = d.Budgets.Create(ctx, model.BudgetInput{Description: "Transport", Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)

	chart := d.BudgetChart.Current()
	require.Equal(t, view.Ready, chart.State)
	assert.Equal(t, []string{"Food", "Transport"}, chart.Series.Labels)

	_, err = d.Budgets.Create(ctx, model.BudgetInput{Description: "Food", Amount: decimal.NewFromInt(5)})
	require.Error(t, err)
	snap := d.Budgets.ErrorState()
	assert.Equal(t, i18n.KeyBudgetExists, snap.Key)
	assert.Equal(t, "Food", snap.Params["name"])
	assert.Len(t, d.Budgets.Budgets(), 2)

	d.SetLanguage("fr")
	assert.Contains(t, d.Budgets.Error(), "« Food »")
	d.SetLanguage("en")

	_, err = d.Expenses.Create(ctx, model.ExpenseInput{
		Description: "Lunch",
		Amount:      decimal.RequireFromString("12.50"),
		Date:        model.NewDate(2024, time.June, 3),
		BudgetID:    food.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), d.Expenses.Changes())

	require.NoError(t, d.CategoryChart.Refresh(ctx))
	cat := d.CategoryChart.Current()
	require.Equal(t, view.Ready, cat.State)
	assert.Equal(t, []string{"Food"}, cat.Series.Labels)
	assert.InDelta(t, 12.5, cat.Series.Values[0], 1e-9)

	_, err = d.Budgets.Update(ctx, 0, model.BudgetInput{Description: "x"})
	assert.ErrorIs(t, err, store.ErrMissingID)
	assert.Equal(t, "Failed to update budget: Missing budget ID", d.Budgets.Error())

	require.NoError(t, d.Budgets.Delete(ctx, food.ID))
	assert.Empty(t, d.Budgets.Error())
	assert.Len(t, d.Budgets.Budgets(), 1)
}

func TestWatchFollowsExpenses(t *testing.T) {
	ctx := context.Background()
	srv := newService(t)
	d := newDashboard(t, srv.URL, 1)
	require.NoError(t, d.Load(ctx))
	d.Watch(ctx)

	food, err := d.Budgets.Create(ctx, model.BudgetInput{Description: "Food", Amount: decimal.NewFromInt(300)})
	require.NoError(t, err)
	_, err = d.Expenses.Create(ctx, model.ExpenseInput{
		Description: "Lunch",
		Amount:      decimal.NewFromInt(20),
		Date:        model.NewDate(2024, time.June, 3),
		BudgetID:    food.ID,
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		p := d.BudgetTotals.Current()
		return p.State == view.Ready && len(p.Series.Labels) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSignIn(t *testing.T) {
	srv := newService(t)
	d := newDashboard(t, srv.URL, 0)
	ctx := context.Background()

	_, err := d.SignIn(ctx, "Ada", "ada@example.com", false)
	require.ErrorIs(t, err, dashboard.ErrUnknownUser)
	_, ok := d.Session.UserID()
	assert.False(t, ok)

	ada, err := d.SignIn(ctx, "Ada", "ada@example.com", true)
	require.NoError(t, err)
	id, err := d.UserID()
	require.NoError(t, err)
	assert.Equal(t, ada.ID, id)

	d.Session.SignOut()
	again, err := d.SignIn(ctx, "Ada", "ada@example.com", false)
	require.NoError(t, err)
	assert.Equal(t, ada.ID, again.ID)

	require.NoError(t, d.Load(ctx))
	assert.Equal(t, view.NoData, d.BudgetList.Current().State)
}
