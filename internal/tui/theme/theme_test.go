package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsage(t *testing.T) {
	th := FlexokiDark
	assert.Equal(t, th.Remaining, th.Usage(0))
	assert.Equal(t, th.Remaining, th.Usage(0.5))
	assert.Equal(t, th.NearLimit, th.Usage(NearLimitShare))
	assert.Equal(t, th.NearLimit, th.Usage(1), "spending exactly the limit is not over it")
	assert.Equal(t, th.OverBudget, th.Usage(1.01))
}

func TestCategoryCycles(t *testing.T) {
	for _, th := range All {
		n := len(th.Categories)
		if assert.NotZero(t, n, th.Name) {
			assert.Equal(t, th.Categories[0], th.Category(0), th.Name)
			assert.Equal(t, th.Category(1), th.Category(n+1), th.Name)
		}
	}

	assert.Equal(t, FlexokiDark.Accent, Theme{Accent: FlexokiDark.Accent}.Category(3))
}

func TestEveryThemeFillsMoneyRoles(t *testing.T) {
	for _, th := range All {
		for role, c := range map[string]string{
			"budget":      string(th.Budget),
			"spent":       string(th.Spent),
			"remaining":   string(th.Remaining),
			"near limit":  string(th.NearLimit),
			"over budget": string(th.OverBudget),
			"failure":     string(th.Failure),
		} {
			assert.NotEmpty(t, c, "%s: %s", th.Name, role)
		}
		assert.NotEqual(t, th.Remaining, th.OverBudget, th.Name)
	}
}

func TestByName(t *testing.T) {
	assert.Equal(t, "tokyo-night", ByName("tokyo-night").Name)
	assert.Equal(t, FlexokiDark.Name, ByName("nope").Name)
	assert.True(t, Known("terminal"))
	assert.False(t, Known("nope"))
	assert.Len(t, Names(), len(All))
}
