package view

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/theirongolddev/budgetsync/internal/model"
	"github.com/theirongolddev/budgetsync/internal/remote"
	"github.com/theirongolddev/budgetsync/internal/store"
)

// Fetcher loads a server aggregate.
type Fetcher func(ctx context.Context) (Series, error)

// RemoteView shows a server aggregate and refetches it only when a watched
// change counter has advanced since the last completed fetch. Responses to
// fetches that have been overtaken by a newer one are dropped.
type RemoteView struct {
	mu       sync.Mutex
	fetch    Fetcher
	counter  func() uint64
	log      zerolog.Logger
	onChange func(Projection)

	seen    uint64
	fetched bool
	gen     uint64
	current Projection
	fetches int
}

// RemoteOption configures a RemoteView.
type RemoteOption func(*RemoteView)

// WithViewLogger sets the logger used for fetch failures.
func WithViewLogger(l zerolog.Logger) RemoteOption {
	return func(v *RemoteView) { v.log = l }
}

// OnChange registers fn to receive every new projection.
func OnChange(fn func(Projection)) RemoteOption {
	return func(v *RemoteView) { v.onChange = fn }
}

// NewRemoteView creates a view that starts in Loading.
func NewRemoteView(fetch Fetcher, counter func() uint64, opts ...RemoteOption) *RemoteView {
	v := &RemoteView{
		fetch:   fetch,
		counter: counter,
		log:     zerolog.Nop(),
		current: Projection{State: Loading},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Current returns the latest projection.
func (v *RemoteView) Current() Projection {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Fetches returns how many fetches the view has started.
func (v *RemoteView) Fetches() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.fetches
}

// Refresh fetches when the watched counter has moved since the last
// completed fetch, or when nothing has been fetched yet.
func (v *RemoteView) Refresh(ctx context.Context) error {
	target := v.counter()

	v.mu.Lock()
	if v.fetched && target == v.seen {
		v.mu.Unlock()
		return nil
	}
	v.mu.Unlock()
	return v.load(ctx, target)
}

// Reload fetches unconditionally.
func (v *RemoteView) Reload(ctx context.Context) error {
	return v.load(ctx, v.counter())
}

func (v *RemoteView) load(ctx context.Context, target uint64) error {
	v.mu.Lock()
	v.gen++
	gen := v.gen
	v.fetches++
	v.mu.Unlock()

	series, err := v.fetch(ctx)

	v.mu.Lock()
	if gen != v.gen {
		v.mu.Unlock()
		return store.ErrSuperseded
	}
	if err != nil {
		v.current = Projection{State: Error, Err: remote.Message(err)}
	} else {
		v.current = resolve(series, "")
	}
	v.seen = target
	v.fetched = true
	p := v.current
	v.mu.Unlock()

	if v.onChange != nil {
		v.onChange(p)
	}
	if err != nil {
		v.log.Warn().Err(err).Msg("chart fetch failed")
		return fmt.Errorf("view: fetching aggregate: %w", err)
	}
	return nil
}

// Watch refreshes the view for every event until ctx is done or events is
// closed. Bursts of events collapse into one refresh per counter value.
func (v *RemoteView) Watch(ctx context.Context, events <-chan store.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			_ = v.Refresh(ctx)
		}
	}
}

// CategoryAPI is the part of the remote service behind the aggregate views.
type CategoryAPI interface {
	ExpensesByCategory(ctx context.Context, userID int64) (model.Totals, error)
	TotalExpensesByBudget(ctx context.Context) (model.Totals, error)
}

// ExpensesByCategory charts the signed-in user's spend per budget, following
// the expense store's change counter.
func ExpensesByCategory(api CategoryAPI, id store.Identity, es *store.ExpenseStore, opts ...RemoteOption) *RemoteView {
	fetch := func(ctx context.Context) (Series, error) {
		uid, ok := id.UserID()
		if !ok {
			return Series{}, store.ErrNotAuthenticated
		}
		totals, err := api.ExpensesByCategory(ctx, uid)
		if err != nil {
			return Series{}, err
		}
		return FromTotals(totals), nil
	}
	return NewRemoteView(fetch, es.Changes, opts...)
}

// TotalsByBudget charts expense totals per budget across all users,
// following the expense store's change counter.
func TotalsByBudget(api CategoryAPI, es *store.ExpenseStore, opts ...RemoteOption) *RemoteView {
	fetch := func(ctx context.Context) (Series, error) {
		totals, err := api.TotalExpensesByBudget(ctx)
		if err != nil {
			return Series{}, err
		}
		return FromTotals(totals), nil
	}
	return NewRemoteView(fetch, es.Changes, opts...)
}
