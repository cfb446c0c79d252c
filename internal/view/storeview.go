package view

import (
	"sync"

	"github.com/theirongolddev/budgetsync/internal/remote"
	"github.com/theirongolddev/budgetsync/internal/store"
)

// StoreView projects a store snapshot and re-projects only when the store's
// version moves.
type StoreView struct {
	mu      sync.Mutex
	version func() uint64
	project func() Projection
	seen    uint64
	has     bool
	current Projection
	runs    int
}

// NewStoreView creates a view over any versioned source. A version of zero
// means nothing has been loaded yet and renders as Loading.
func NewStoreView(version func() uint64, project func() Projection) *StoreView {
	return &StoreView{version: version, project: project}
}

// Current returns the projection for the source's present version.
func (v *StoreView) Current() Projection {
	ver := v.version()

	v.mu.Lock()
	defer v.mu.Unlock()
	if ver == 0 {
		return Projection{State: Loading}
	}
	if v.has && ver == v.seen {
		return v.current
	}
	v.current = v.project()
	v.seen = ver
	v.has = true
	v.runs++
	return v.current
}

// Projections returns how many times the view has projected.
func (v *StoreView) Projections() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.runs
}

// BudgetList lists the store's budgets. It shows Loading until a list fetch
// settles and Error only when the latest list fetch failed and nothing is
// held; mutation failures leave it alone.
func BudgetList(s *store.BudgetStore) *StoreView {
	return NewStoreView(s.Version, func() Projection {
		listed, failed := s.ListStatus()
		return listProjection(FromBudgets(s.Budgets()), listed, failed, s.Error(), remote.OpListBudgets)
	})
}

// BudgetChart charts the store's budget names and amounts. It shows Loading
// until the first chart fetch settles.
func BudgetChart(s *store.BudgetStore) *StoreView {
	return NewStoreView(s.Version, func() Projection {
		if !s.ChartFetched() {
			return Projection{State: Loading}
		}
		totals, failed := s.Chart()
		if failed {
			return resolve(Series{}, remote.OpBudgetChart.Fallback())
		}
		return resolve(FromCategoryTotals(totals), "")
	})
}

// ExpenseList lists the store's expenses, with the states of BudgetList.
func ExpenseList(s *store.ExpenseStore) *StoreView {
	return NewStoreView(s.Version, func() Projection {
		listed, failed := s.ListStatus()
		return listProjection(FromExpenses(s.Expenses()), listed, failed, s.Error(), remote.OpListExpenses)
	})
}

func listProjection(series Series, listed, failed bool, errText string, op remote.Op) Projection {
	switch {
	case series.Len() > 0:
		return resolve(series, "")
	case failed:
		if errText == "" {
			errText = op.Fallback()
		}
		return resolve(series, errText)
	case !listed:
		return Projection{State: Loading}
	}
	return resolve(series, "")
}
