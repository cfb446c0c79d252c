package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func newLocalizer(t *testing.T, lang string) *Localizer {
	t.Helper()
	l, err := NewLocalizer(lang)
	require.NoError(t, err)
	return l
}

func TestCatalogCoversEveryKeyInEveryLanguage(t *testing.T) {
	en := messages[language.English]
	for _, tag := range Supported {
		for key := range en {
			assert.Contains(t, messages[tag], key, "%s missing %s", tag, key)
		}
	}
}

func TestLocalizerMatchesLanguage(t *testing.T) {
	tests := []struct {
		lang string
		want language.Tag
	}{
		{"", language.English},
		{"fr", language.French},
		{"fr-CA", language.French},
		{"en-GB", language.English},
		{"de", language.English},
		{"not a tag", language.English},
	}
	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			assert.Equal(t, tt.want, newLocalizer(t, tt.lang).Language())
		})
	}
}

func TestLocalizerText(t *testing.T) {
	l := newLocalizer(t, "en")
	assert.Equal(t, `A budget with the name "Food" already exists.`, l.Text(KeyBudgetExists, Params{"name": "Food"}))
	assert.Equal(t, "Failed to update budget: Missing budget ID", l.Text(KeyMissingID, nil))
	assert.Equal(t, "server said 100% no", l.Text(KeyRemote, Params{"message": "server said 100% no"}))

	l.SetLanguage("fr")
	assert.Equal(t, "Un budget nommé « Food » existe déjà.", l.Text(KeyBudgetExists, Params{"name": "Food"}))
}

func TestSetLanguageNotifiesSynchronously(t *testing.T) {
	l := newLocalizer(t, "en")

	var got []language.Tag
	cancel := l.OnChange(func(tag language.Tag) { got = append(got, tag) })

	l.SetLanguage("fr")
	assert.Equal(t, []language.Tag{language.French}, got)

	l.SetLanguage("fr")
	assert.Len(t, got, 1, "same language is not a change")

	cancel()
	l.SetLanguage("en")
	assert.Len(t, got, 1)
}

func TestClassifyBudget(t *testing.T) {
	tests := []struct {
		raw        string
		wantKey    Key
		wantParams Params
	}{
		{`A budget with the name "Groceries" already exists`, KeyBudgetExists, Params{"name": "Groceries"}},
		{`A budget with the name Groceries already exists`, KeyBudgetExists, Params{"name": "Unknown"}},
		{"Invalid input: Budget amount cannot be negative or zero.", KeyInvalidBudgetInput, nil},
		{"Invalid input: BudgetDescription must be alphanumeric", KeyBudgetDescriptionError, nil},
		{"invalid input: budgetdescription must be alphanumeric", KeyUnexpected, nil},
		{"boom", KeyUnexpected, nil},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			key, params := Classify(tt.raw, BudgetTable)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantParams, params)
		})
	}
}

func TestClassifyExpenseIgnoresCase(t *testing.T) {
	key, _ := Classify("Invalid input: Expenses amount cannot be negative.", ExpenseTable)
	assert.Equal(t, KeyInvalidExpenseInput, key)

	key, _ = Classify("Invalid input: ExpensesDescription must be alphanumeric", ExpenseTable)
	assert.Equal(t, KeyExpenseDescription, key)

	key, params := Classify(`An expense with the name "Taxi" already exists`, ExpenseTable)
	assert.Equal(t, KeyExpenseExists, key)
	assert.Equal(t, Params{"name": "Taxi"}, params)
}

func TestFromCode(t *testing.T) {
	key, params, ok := FromCode(CodeBudgetExists, map[string]string{"name": "Rent", "extra": "x"})
	require.True(t, ok)
	assert.Equal(t, KeyBudgetExists, key)
	assert.Equal(t, Params{"name": "Rent"}, params)

	key, params, ok = FromCode(CodeInvalidExpenseAmount, nil)
	require.True(t, ok)
	assert.Equal(t, KeyInvalidExpenseInput, key)
	assert.Nil(t, params)

	_, _, ok = FromCode("", nil)
	assert.False(t, ok)
	_, _, ok = FromCode("teapot", nil)
	assert.False(t, ok)
}

func TestErrorStateLifecycle(t *testing.T) {
	l := newLocalizer(t, "en")

	notified := 0
	s := NewErrorState(l, func() { notified++ })
	defer s.Close()

	assert.False(t, s.Pending())
	assert.Empty(t, s.Message())

	s.Fail(`A budget with the name "Food" already exists`, KeyBudgetExists, Params{"name": "Food"})
	assert.True(t, s.Pending())
	assert.Equal(t, `A budget with the name "Food" already exists.`, s.Message())
	assert.Equal(t, 1, notified)

	l.SetLanguage("fr")
	assert.Equal(t, "Un budget nommé « Food » existe déjà.", s.Message())
	snap := s.Snapshot()
	assert.Equal(t, KeyBudgetExists, snap.Key)
	assert.Equal(t, Params{"name": "Food"}, snap.Params)
	assert.Equal(t, 2, notified)

	s.Clear()
	assert.False(t, s.Pending())
	assert.Empty(t, s.Message())
	assert.Equal(t, 3, notified)

	l.SetLanguage("en")
	assert.Empty(t, s.Message(), "idle state does not re-render")
	assert.Equal(t, 3, notified)
}

func TestErrorStateReset(t *testing.T) {
	s := NewErrorState(newLocalizer(t, "en"), nil)
	defer s.Close()

	s.Fail("Failed to fetch budgets correctly", KeyFetchBudgets, nil)
	require.True(t, s.Pending())

	s.Reset()
	assert.False(t, s.Pending())
	assert.Equal(t, ErrorSnapshot{}, s.Snapshot())
}
