package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetWireNames(t *testing.T) {
	b := Budget{ID: 3, Description: "Utilities", Amount: decimal.NewFromInt(500), UserID: 7}

	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `{"budgetId":3,"budgetDescription":"Utilities","budgetAmount":500,"userId":7}`, string(data))

	var back Budget
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, b.ID, back.ID)
	assert.True(t, b.Amount.Equal(back.Amount))
}

func TestExpenseWireNames(t *testing.T) {
	in := ExpenseInput{
		Description: "Groceries",
		Amount:      decimal.RequireFromString("42.5"),
		Date:        NewDate(2024, time.March, 9),
		BudgetID:    2,
	}

	data, err := json.Marshal(in.Record(7))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"expensesDescription": "Groceries",
		"expensesAmount": 42.5,
		"expensesDate": "2024-03-09",
		"budget": {"budgetId": 2},
		"userId": 7
	}`, string(data))
}

func TestExpenseWithoutBudget(t *testing.T) {
	e := ExpenseInput{Description: "Misc"}.Record(1)
	assert.Nil(t, e.Budget)
	assert.Zero(t, e.BudgetID())
}

func TestBudgetMerge(t *testing.T) {
	b := Budget{ID: 1, Description: "Food", Amount: decimal.NewFromInt(100), UserID: 9}

	merged := b.Merge(Budget{ID: 99, Amount: decimal.NewFromInt(250)})
	assert.Equal(t, int64(1), merged.ID)
	assert.Equal(t, "Food", merged.Description)
	assert.True(t, merged.Amount.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, int64(9), merged.UserID)
}

func TestDateJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"day", `"2024-01-31"`, "2024-01-31"},
		{"timestamp", `"2024-01-31T22:15:00Z"`, "2024-01-31"},
		{"null", `null`, ""},
		{"empty", `""`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, json.Unmarshal([]byte(tt.input), &d))
			assert.Equal(t, tt.want, d.String())
		})
	}

	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"31/01/2024"`), &d))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2023-12-01 ")
	require.NoError(t, err)
	assert.Equal(t, "2023-12-01", d.String())

	_, err = ParseDate("yesterday")
	assert.Error(t, err)
}

func TestTotalsPreservesOrder(t *testing.T) {
	var totals Totals
	require.NoError(t, json.Unmarshal([]byte(`{"Transport":100,"Food":200.25,"Rent":0}`), &totals))

	entries := totals.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "Transport", entries[0].Name)
	assert.Equal(t, "Food", entries[1].Name)
	assert.Equal(t, "Rent", entries[2].Name)
	assert.True(t, entries[1].Amount.Equal(decimal.RequireFromString("200.25")))

	data, err := json.Marshal(totals)
	require.NoError(t, err)
	assert.Equal(t, `{"Transport":100,"Food":200.25,"Rent":0}`, string(data))
}

func TestTotalsRejectsNonObject(t *testing.T) {
	var totals Totals
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &totals))
	assert.Error(t, json.Unmarshal([]byte(`{"Food":"lots"}`), &totals))
}

func TestTotalsEmpty(t *testing.T) {
	var totals Totals
	require.NoError(t, json.Unmarshal([]byte(`{}`), &totals))
	assert.Zero(t, totals.Len())

	data, err := json.Marshal(totals)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

func TestExpenseApplyAndMergeKeepZeroAmount(t *testing.T) {
	e := Expense{ID: 4, Description: "Taxi", Amount: decimal.NewFromInt(20), Date: NewDate(2024, time.May, 1)}

	applied := e.Apply(ExpenseInput{Amount: decimal.Zero})
	assert.Equal(t, "Taxi", applied.Description)
	assert.True(t, applied.Amount.IsZero())
	assert.Equal(t, "2024-05-01", applied.Date.String())

	stored := e.Merge(Expense{ID: 4, Description: "Taxi"})
	assert.True(t, stored.Amount.IsZero(), "a stored record carries its amount")

	partial := e.Merge(Expense{Description: "Cab"})
	assert.Equal(t, "Cab", partial.Description)
	assert.True(t, partial.Amount.Equal(decimal.NewFromInt(20)), "a bare zero amount is absent")
}
