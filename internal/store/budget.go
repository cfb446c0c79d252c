package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/theirongolddev/budgetsync/internal/i18n"
	"github.com/theirongolddev/budgetsync/internal/model"
	"github.com/theirongolddev/budgetsync/internal/remote"
)

// BudgetAPI is the part of the remote service the budget store uses.
type BudgetAPI interface {
	ListBudgets(ctx context.Context, userID int64) ([]model.Budget, error)
	CreateBudget(ctx context.Context, b model.Budget) (model.Budget, error)
	UpdateBudget(ctx context.Context, id int64, b model.Budget) (model.Budget, error)
	DeleteBudget(ctx context.Context, id int64) error
	BudgetNamesAndAmounts(ctx context.Context, userID int64) ([]model.CategoryTotal, error)
}

// BudgetStore holds the signed-in user's budgets and the budget chart
// aggregate. Every successful mutation refreshes the chart.
type BudgetStore struct {
	*core
	api BudgetAPI

	budgets      []model.Budget
	chart        []model.CategoryTotal
	chartFailed  bool
	chartFetched bool
	listGen      uint64
	chartGen     uint64
	populateForm bool
}

// NewBudgetStore creates an empty budget store.
func NewBudgetStore(api BudgetAPI, id Identity, loc *i18n.Localizer, opts ...Option) *BudgetStore {
	return &BudgetStore{
		core: newCore(id, loc, buildOptions(opts)),
		api:  api,
	}
}

// Budgets returns a copy of the collection.
func (s *BudgetStore) Budgets() []model.Budget {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Budget, len(s.budgets))
	copy(out, s.budgets)
	return out
}

// Chart returns the latest chart aggregate and whether its last fetch failed.
func (s *BudgetStore) Chart() (totals []model.CategoryTotal, failed bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.CategoryTotal, len(s.chart))
	copy(out, s.chart)
	return out, s.chartFailed
}

// ChartFetched reports whether any chart fetch has settled.
func (s *BudgetStore) ChartFetched() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chartFetched
}

// Find returns the budget whose description matches, ignoring case.
func (s *BudgetStore) Find(description string) (model.Budget, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.budgets {
		if strings.EqualFold(b.Description, description) {
			return b, true
		}
	}
	return model.Budget{}, false
}

// Get returns the budget with the given id.
func (s *BudgetStore) Get(id int64) (model.Budget, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.budgets {
		if b.ID == id {
			return b, true
		}
	}
	return model.Budget{}, false
}

// List replaces the collection with userID's budgets from the service.
// On failure the previous collection is kept. A pending error outlives a
// successful list; only mutations clear it.
func (s *BudgetStore) List(ctx context.Context, userID int64) error {
	s.mu.Lock()
	s.listGen++
	gen := s.listGen
	s.mu.Unlock()

	budgets, err := s.api.ListBudgets(ctx, userID)

	s.mu.Lock()
	if gen != s.listGen {
		s.mu.Unlock()
		s.log.Debug().Uint64("gen", gen).Msg("dropping stale budget list")
		return ErrSuperseded
	}
	if err != nil {
		s.listSettled(err)
		s.version++
		s.mu.Unlock()
		if remote.IsMalformed(err) {
			s.errs.Fail(i18n.FetchBudgetsMessage, i18n.KeyFetchBudgets, nil)
		} else {
			s.failRaw(err)
		}
		return fmt.Errorf("store: listing budgets: %w", err)
	}
	if budgets == nil {
		budgets = []model.Budget{}
	}
	s.budgets = budgets
	s.listSettled(nil)
	s.version++
	seq := s.seq
	s.mu.Unlock()

	s.log.Debug().Int64("user_id", userID).Int("count", len(budgets)).Msg("budgets loaded")
	s.publish(BudgetsChanged, OpList, seq)
	return nil
}

// FetchChart replaces the chart aggregate with userID's budget totals. On
// any failure the aggregate is emptied and marked failed.
func (s *BudgetStore) FetchChart(ctx context.Context, userID int64) error {
	s.mu.Lock()
	s.chartGen++
	gen := s.chartGen
	s.mu.Unlock()

	totals, err := s.api.BudgetNamesAndAmounts(ctx, userID)

	s.mu.Lock()
	if gen != s.chartGen {
		s.mu.Unlock()
		return ErrSuperseded
	}
	s.chartFetched = true
	if err != nil {
		s.chart = []model.CategoryTotal{}
		s.chartFailed = true
	} else {
		if totals == nil {
			totals = []model.CategoryTotal{}
		}
		s.chart = totals
		s.chartFailed = false
	}
	s.version++
	seq := s.seq
	s.mu.Unlock()

	s.publish(ChartChanged, OpChart, seq)
	if err != nil {
		s.log.Warn().Err(err).Int64("user_id", userID).Msg("budget chart fetch failed")
		return fmt.Errorf("store: fetching budget chart: %w", err)
	}
	return nil
}

// Create submits a new budget for the signed-in user and appends the
// stored record.
func (s *BudgetStore) Create(ctx context.Context, in model.BudgetInput) (model.Budget, error) {
	uid, err := s.user()
	if err != nil {
		return model.Budget{}, err
	}

	created, err := s.api.CreateBudget(ctx, in.Record(uid))
	if err != nil {
		s.failClassified(err, i18n.BudgetTable)
		return model.Budget{}, fmt.Errorf("store: creating budget: %w", err)
	}

	s.mu.Lock()
	s.budgets = append(s.budgets, created)
	seq := s.mutated()
	s.mu.Unlock()

	s.publish(BudgetsChanged, OpCreate, seq)
	s.errs.Clear()
	s.refreshChart(ctx, uid)
	return created, nil
}

// Update submits new values for the budget with the given id. The local
// record takes the submitted fields, then the fields the service returned.
func (s *BudgetStore) Update(ctx context.Context, id int64, in model.BudgetInput) (model.Budget, error) {
	uid, err := s.user()
	if err != nil {
		return model.Budget{}, err
	}
	if id == 0 {
		s.errs.Fail(i18n.MissingBudgetIDMessage, i18n.KeyMissingID, nil)
		return model.Budget{}, fmt.Errorf("store: updating budget: %w", ErrMissingID)
	}

	submitted := in.Record(uid)
	updated, err := s.api.UpdateBudget(ctx, id, submitted)
	if err != nil {
		s.failClassified(err, i18n.BudgetTable)
		return model.Budget{}, fmt.Errorf("store: updating budget %d: %w", id, err)
	}

	s.mu.Lock()
	result := submitted.Merge(updated)
	result.ID = id
	for i := range s.budgets {
		if s.budgets[i].ID == id {
			s.budgets[i] = s.budgets[i].Merge(submitted).Merge(updated)
			result = s.budgets[i]
			break
		}
	}
	seq := s.mutated()
	s.mu.Unlock()

	s.publish(BudgetsChanged, OpUpdate, seq)
	s.errs.Clear()
	s.refreshChart(ctx, uid)
	return result, nil
}

// Delete removes the budget with the given id from the service, then from
// the collection.
func (s *BudgetStore) Delete(ctx context.Context, id int64) error {
	uid, err := s.user()
	if err != nil {
		return err
	}

	if err := s.api.DeleteBudget(ctx, id); err != nil {
		s.failRaw(err)
		return fmt.Errorf("store: deleting budget %d: %w", id, err)
	}

	s.mu.Lock()
	kept := make([]model.Budget, 0, len(s.budgets))
	for _, b := range s.budgets {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	s.budgets = kept
	seq := s.mutated()
	s.mu.Unlock()

	s.publish(BudgetsChanged, OpDelete, seq)
	s.errs.Clear()
	s.refreshChart(ctx, uid)
	return nil
}

// refreshChart refetches the chart after a mutation. Its failure is recorded
// on the chart only.
func (s *BudgetStore) refreshChart(ctx context.Context, uid int64) {
	_ = s.FetchChart(ctx, uid)
}

// EnableFormPopulation asks the budget form to prefill from a selected budget.
func (s *BudgetStore) EnableFormPopulation() {
	s.mu.Lock()
	s.populateForm = true
	s.mu.Unlock()
}

// DisableFormPopulation clears the prefill request.
func (s *BudgetStore) DisableFormPopulation() {
	s.mu.Lock()
	s.populateForm = false
	s.mu.Unlock()
}

// ShouldPopulateForm reports whether the budget form should prefill.
func (s *BudgetStore) ShouldPopulateForm() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.populateForm
}
