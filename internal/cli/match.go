package cli

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/ryanuber/go-glob"

	"github.com/theirongolddev/budgetsync/internal/model"
)

// maxSuggestDistance is the largest edit distance still offered as a
// suggestion.
const maxSuggestDistance = 3

// MatchName reports whether name matches a case-insensitive glob pattern.
// An empty pattern matches everything.
func MatchName(pattern, name string) bool {
	if pattern == "" {
		return true
	}
	return glob.Glob(strings.ToLower(pattern), strings.ToLower(name))
}

// FilterBudgets keeps the budgets whose description matches pattern.
func FilterBudgets(budgets []model.Budget, pattern string) []model.Budget {
	out := make([]model.Budget, 0, len(budgets))
	for _, b := range budgets {
		if MatchName(pattern, b.Description) {
			out = append(out, b)
		}
	}
	return out
}

// FilterExpenses keeps the expenses whose description matches pattern.
func FilterExpenses(expenses []model.Expense, pattern string) []model.Expense {
	out := make([]model.Expense, 0, len(expenses))
	for _, e := range expenses {
		if MatchName(pattern, e.Description) {
			out = append(out, e)
		}
	}
	return out
}

// Suggest returns up to limit candidates closest to name, nearest first.
// Candidates farther than a few edits are left out.
func Suggest(name string, candidates []string, limit int) []string {
	type scored struct {
		name string
		dist int
	}

	target := strings.ToLower(name)
	var hits []scored
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(target, strings.ToLower(c))
		if d <= maxSuggestDistance {
			hits = append(hits, scored{c, d})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.name
	}
	return out
}
