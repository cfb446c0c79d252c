package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/theirongolddev/budgetsync/internal/config"
	"github.com/theirongolddev/budgetsync/internal/model"
	"github.com/theirongolddev/budgetsync/internal/server"
	"github.com/theirongolddev/budgetsync/internal/server/storage"
)

type errorBody struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Params map[string]string `json:"params"`
}

type ServerSuite struct {
	suite.Suite
	store  *storage.Store
	router *gin.Engine
}

func TestServer(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

func (ts *ServerSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (ts *ServerSuite) SetupTest() {
	st, err := storage.Open(filepath.Join(ts.T().TempDir(), "test.db"))
	ts.Require().NoError(err)
	ts.store = st
	ts.router = server.New(st).Router(config.ServerConfig{})
}

func (ts *ServerSuite) TearDownTest() {
	ts.Require().NoError(ts.store.Close())
}

func (ts *ServerSuite) request(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func (ts *ServerSuite) decode(rec *httptest.ResponseRecorder, target any) {
	ts.Require().NoError(json.Unmarshal(rec.Body.Bytes(), target), "body: %s", rec.Body.String())
}

func (ts *ServerSuite) assertStatus(expected int, rec *httptest.ResponseRecorder) {
	ts.Require().Equal(expected, rec.Code, "HTTP status is wrong. Response body: %s", rec.Body.String())
}

func (ts *ServerSuite) createBudget(description string, amount float64) model.Budget {
	rec := ts.request(http.MethodPost, "/budgets",
		fmt.Sprintf(`{"budgetDescription":%q,"budgetAmount":%v,"userId":1}`, description, amount))
	ts.assertStatus(http.StatusCreated, rec)
	var b model.Budget
	ts.decode(rec, &b)
	return b
}

func (ts *ServerSuite) TestCreateAndListBudgets() {
	food := ts.createBudget("Food", 300)
	ts.NotZero(food.ID)
	ts.Equal("Food", food.Description)
	ts.Equal(int64(1), food.UserID)

	rec := ts.request(http.MethodGet, "/budgets/user/1", "")
	ts.assertStatus(http.StatusOK, rec)
	var budgets []model.Budget
	ts.decode(rec, &budgets)
	ts.Len(budgets, 1)

	rec = ts.request(http.MethodGet, "/budgets/user/42", "")
	ts.assertStatus(http.StatusOK, rec)
	ts.JSONEq(`[]`, rec.Body.String())
}

func (ts *ServerSuite) TestBudgetValidation() {
	tests := []struct {
		name string
		body string
		msg  string
		code string
	}{
		{"zero amount", `{"budgetDescription":"Food","budgetAmount":0,"userId":1}`, "Invalid input: Budget amount cannot be negative or zero.", "invalid_budget_amount"},
		{"negative amount", `{"budgetDescription":"Food","budgetAmount":-5,"userId":1}`, "Invalid input: Budget amount cannot be negative or zero.", "invalid_budget_amount"},
		{"symbols", `{"budgetDescription":"Food!","budgetAmount":5,"userId":1}`, "Invalid input: BudgetDescription must be alphanumeric", "invalid_budget_description"},
		{"empty description", `{"budgetDescription":"","budgetAmount":5,"userId":1}`, "Invalid input: BudgetDescription must be alphanumeric", "invalid_budget_description"},
	}

	for _, tt := range tests {
		ts.Run(tt.name, func() {
			rec := ts.request(http.MethodPost, "/budgets", tt.body)
			ts.assertStatus(http.StatusBadRequest, rec)
			var body errorBody
			ts.decode(rec, &body)
			ts.Equal(tt.msg, body.Error)
			ts.Equal(tt.code, body.Code)
		})
	}
}

func (ts *ServerSuite) TestDuplicateBudget() {
	ts.createBudget("Food", 300)

	rec := ts.request(http.MethodPost, "/budgets", `{"budgetDescription":"Food","budgetAmount":10,"userId":1}`)
	ts.assertStatus(http.StatusBadRequest, rec)
	var body errorBody
	ts.decode(rec, &body)
	ts.Equal(`A budget with the name "Food" already exists`, body.Error)
	ts.Equal("budget_exists", body.Code)
	ts.Equal(map[string]string{"name": "Food"}, body.Params)
}

func (ts *ServerSuite) TestUpdateBudget() {
	food := ts.createBudget("Food", 300)

	rec := ts.request(http.MethodPut, fmt.Sprintf("/budgets/%d", food.ID), `{"budgetDescription":"Groceries","budgetAmount":250}`)
	ts.assertStatus(http.StatusOK, rec)
	var updated model.Budget
	ts.decode(rec, &updated)
	ts.Equal(food.ID, updated.ID)
	ts.Equal("Groceries", updated.Description)
	ts.Equal("250", updated.Amount.String())
	ts.Equal(int64(1), updated.UserID)

	rec = ts.request(http.MethodPut, "/budgets/99", `{"budgetDescription":"Groceries","budgetAmount":250}`)
	ts.assertStatus(http.StatusNotFound, rec)
	var body errorBody
	ts.decode(rec, &body)
	ts.Equal("Budget with ID 99 not found", body.Error)
}

func (ts *ServerSuite) TestDeleteBudget() {
	food := ts.createBudget("Food", 300)
	path := fmt.Sprintf("/budgets/%d", food.ID)

	rec := ts.request(http.MethodDelete, path, "")
	ts.assertStatus(http.StatusOK, rec)
	ts.Equal("Budget deleted successfully!", rec.Body.String())

	rec = ts.request(http.MethodDelete, path, "")
	ts.assertStatus(http.StatusNotFound, rec)
	var body errorBody
	ts.decode(rec, &body)
	ts.Equal(fmt.Sprintf("Invalid input: Budget with ID %d not found", food.ID), body.Error)
}

func (ts *ServerSuite) TestExpenseLifecycle() {
	food := ts.createBudget("Food", 300)

	rec := ts.request(http.MethodPost, "/expenses",
		fmt.Sprintf(`{"expensesDescription":"Lunch","expensesAmount":12.5,"budget":{"budgetId":%d},"userId":1}`, food.ID))
	ts.assertStatus(http.StatusBadRequest, rec)
	var body errorBody
	ts.decode(rec, &body)
	ts.Equal("Invalid input: Expense date is required", body.Error)

	rec = ts.request(http.MethodPost, "/expenses",
		`{"expensesDescription":"Lunch","expensesAmount":12.5,"expensesDate":"2024-06-03","budget":{"budgetId":99},"userId":1}`)
	ts.assertStatus(http.StatusBadRequest, rec)
	ts.decode(rec, &body)
	ts.Equal("Invalid input: Budget with ID 99 not found", body.Error)

	rec = ts.request(http.MethodPost, "/expenses",
		fmt.Sprintf(`{"expensesDescription":"Lunch","expensesAmount":12.5,"expensesDate":"2024-06-03","budget":{"budgetId":%d},"userId":1}`, food.ID))
	ts.assertStatus(http.StatusCreated, rec)
	var lunch model.Expense
	ts.decode(rec, &lunch)
	ts.NotZero(lunch.ID)
	ts.Equal("2024-06-03", lunch.Date.String())
	ts.Equal(food.ID, lunch.BudgetID())

	path := fmt.Sprintf("/expenses/%d", lunch.ID)
	rec = ts.request(http.MethodGet, path, "")
	ts.assertStatus(http.StatusOK, rec)

	rec = ts.request(http.MethodPut, path, `{"expensesDescription":"Brunch","expensesAmount":15}`)
	ts.assertStatus(http.StatusOK, rec)
	var updated model.Expense
	ts.decode(rec, &updated)
	ts.Equal("Brunch", updated.Description)
	ts.Equal("2024-06-03", updated.Date.String())
	ts.Equal(food.ID, updated.BudgetID())

	rec = ts.request(http.MethodPut, "/expenses/99", `{"expensesDescription":"Brunch","expensesAmount":15}`)
	ts.assertStatus(http.StatusNotFound, rec)
	ts.decode(rec, &body)
	ts.Equal("An expense with ID = 99 is not found", body.Error)

	rec = ts.request(http.MethodDelete, path, "")
	ts.assertStatus(http.StatusOK, rec)
	ts.Equal(fmt.Sprintf("Expense with ID %d deleted successfully", lunch.ID), rec.Body.String())

	rec = ts.request(http.MethodDelete, path, "")
	ts.assertStatus(http.StatusNotFound, rec)
	ts.decode(rec, &body)
	ts.Equal(fmt.Sprintf("Expense with ID %d not found", lunch.ID), body.Error)

	rec = ts.request(http.MethodGet, "/budgets/user/1", "")
	var budgets []model.Budget
	ts.decode(rec, &budgets)
	ts.Len(budgets, 1, "deleting an expense keeps its budget")
}

func (ts *ServerSuite) TestExpenseValidation() {
	rec := ts.request(http.MethodPost, "/expenses", `{"expensesDescription":"Lunch","expensesAmount":-1,"expensesDate":"2024-06-03","userId":1}`)
	ts.assertStatus(http.StatusBadRequest, rec)
	var body errorBody
	ts.decode(rec, &body)
	ts.Equal("Invalid input: Expenses amount cannot be negative.", body.Error)
	ts.Equal("invalid_expense_amount", body.Code)

	rec = ts.request(http.MethodPost, "/expenses", `{"expensesDescription":"Lunch #2","expensesAmount":0,"expensesDate":"2024-06-03","userId":1}`)
	ts.assertStatus(http.StatusBadRequest, rec)
	ts.decode(rec, &body)
	ts.Equal("invalid_expense_description", body.Code)

	rec = ts.request(http.MethodPost, "/expenses", `{"expensesDescription":"Free sample","expensesAmount":0,"expensesDate":"2024-06-03","userId":1}`)
	ts.assertStatus(http.StatusCreated, rec)

	rec = ts.request(http.MethodPost, "/expenses", `{"expensesDescription":"Free sample","expensesAmount":1,"expensesDate":"2024-06-04","userId":1}`)
	ts.assertStatus(http.StatusBadRequest, rec)
	ts.decode(rec, &body)
	ts.Equal(`An expense with the name "Free sample" already exists`, body.Error)
	ts.Equal("expense_exists", body.Code)
}

func (ts *ServerSuite) TestChartData() {
	food := ts.createBudget("Food", 300)
	transport := ts.createBudget("Transport", 100)

	for _, e := range []struct {
		desc   string
		amount string
		budget int64
	}{
		{"Lunch", "120.50", food.ID},
		{"Bus", "100", transport.ID},
		{"Dinner", "79.50", food.ID},
	} {
		rec := ts.request(http.MethodPost, "/expenses", fmt.Sprintf(
			`{"expensesDescription":%q,"expensesAmount":%s,"expensesDate":"2024-06-03","budget":{"budgetId":%d},"userId":1}`,
			e.desc, e.amount, e.budget))
		ts.assertStatus(http.StatusCreated, rec)
	}

	rec := ts.request(http.MethodGet, "/data/expenses-by-category?userId=1", "")
	ts.assertStatus(http.StatusOK, rec)
	var totals model.Totals
	ts.decode(rec, &totals)
	entries := totals.Entries()
	ts.Require().Len(entries, 2)
	ts.Equal("Food", entries[0].Name)
	ts.Equal("200", entries[0].Amount.String())
	ts.Equal("Transport", entries[1].Name)

	rec = ts.request(http.MethodGet, "/data/expenses-by-category", "")
	ts.assertStatus(http.StatusBadRequest, rec)

	rec = ts.request(http.MethodGet, "/data/totalexpenses-by-budget", "")
	ts.assertStatus(http.StatusOK, rec)

	for _, path := range []string{"/budgets/user/1/names-and-amounts", "/data/user/1/budgets"} {
		rec = ts.request(http.MethodGet, path, "")
		ts.assertStatus(http.StatusOK, rec)
		var names []model.CategoryTotal
		ts.decode(rec, &names)
		ts.Require().Len(names, 2)
		ts.Equal("Food", names[0].Name)
		ts.Equal("300", names[0].Amount.String())
	}
}

func (ts *ServerSuite) TestInvalidID() {
	rec := ts.request(http.MethodGet, "/expenses/abc", "")
	ts.assertStatus(http.StatusBadRequest, rec)

	rec = ts.request(http.MethodPatch, "/budgets/1", "{}")
	ts.assertStatus(http.StatusMethodNotAllowed, rec)
}

func (ts *ServerSuite) TestHealthz() {
	rec := ts.request(http.MethodGet, "/healthz", "")
	ts.assertStatus(http.StatusNoContent, rec)
}

func (ts *ServerSuite) TestPprof() {
	routes := func(r *gin.Engine) []string {
		var paths []string
		for _, info := range r.Routes() {
			paths = append(paths, info.Path)
		}
		return paths
	}

	ts.NotContains(routes(ts.router), "/debug/pprof/")

	r := server.New(ts.store).Router(config.ServerConfig{EnablePprof: true})
	ts.Contains(routes(r), "/debug/pprof/")
}

func (ts *ServerSuite) TestUsers() {
	rec := ts.request(http.MethodPost, "/users", `{"name":"Ada","email":"ada@example.com"}`)
	ts.assertStatus(http.StatusCreated, rec)
	var ada model.User
	ts.decode(rec, &ada)
	ts.NotZero(ada.ID)
	ts.Equal("Ada", ada.Name)

	rec = ts.request(http.MethodPost, "/users", `{"name":"Imposter","email":"ada@example.com"}`)
	ts.assertStatus(http.StatusBadRequest, rec)
	var eb errorBody
	ts.decode(rec, &eb)
	ts.Equal("A user with the provided email already exists.", eb.Error)

	rec = ts.request(http.MethodPost, "/users", `{"name":"Bob","email":"not-an-email"}`)
	ts.assertStatus(http.StatusBadRequest, rec)

	rec = ts.request(http.MethodGet, "/users/find?name=Ada&email=ada%40example.com", "")
	ts.assertStatus(http.StatusOK, rec)
	var found model.User
	ts.decode(rec, &found)
	ts.Equal(ada, found)

	rec = ts.request(http.MethodGet, "/users/find?name=Grace&email=grace%40example.com", "")
	ts.assertStatus(http.StatusOK, rec)
	ts.Equal("User not found. Proceed with creation.", rec.Body.String())
}
