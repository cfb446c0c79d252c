// Package dashboard wires the remote client, stores, and views into one unit
// shared by the CLI and the TUI.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/budgetsync/internal/config"
	"github.com/theirongolddev/budgetsync/internal/i18n"
	"github.com/theirongolddev/budgetsync/internal/model"
	"github.com/theirongolddev/budgetsync/internal/remote"
	"github.com/theirongolddev/budgetsync/internal/store"
	"github.com/theirongolddev/budgetsync/internal/view"
)

// Dashboard is the client-side state of one signed-in user.
type Dashboard struct {
	Client    *remote.Client
	Session   *store.Session
	Localizer *i18n.Localizer
	Feed      *store.Feed
	Budgets   *store.BudgetStore
	Expenses  *store.ExpenseStore

	BudgetList    *view.StoreView
	BudgetChart   *view.StoreView
	ExpenseList   *view.StoreView
	CategoryChart *view.RemoteView
	BudgetTotals  *view.RemoteView

	log    zerolog.Logger
	cancel context.CancelFunc
}

// Option configures a Dashboard.
type Option func(*settings)

type settings struct {
	log        zerolog.Logger
	httpClient *http.Client
}

// WithLogger sets the logger handed to every component.
func WithLogger(l zerolog.Logger) Option {
	return func(s *settings) { s.log = l }
}

// WithHTTPClient sets the http.Client used for the service.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *settings) { s.httpClient = hc }
}

// New builds a dashboard from cfg. Nothing is fetched until Load.
func New(cfg config.Config, opts ...Option) (*Dashboard, error) {
	s := settings{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&s)
	}

	client, err := remote.New(cfg.API.BaseURL,
		remote.WithHTTPClient(s.httpClient),
		remote.WithLogger(s.log.With().Str("component", "remote").Logger()),
		remote.WithTimeout(cfg.API.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	loc, err := i18n.NewLocalizer(cfg.General.Language)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	session := store.NewSession(cfg.User.ID)
	feed := store.NewFeed()
	storeLog := s.log.With().Str("component", "store").Logger()

	budgets := store.NewBudgetStore(client, session, loc, store.WithFeed(feed), store.WithLogger(storeLog))
	expenses := store.NewExpenseStore(client, session, loc, store.WithFeed(feed), store.WithLogger(storeLog))

	viewLog := view.WithViewLogger(s.log.With().Str("component", "view").Logger())

	return &Dashboard{
		Client:        client,
		Session:       session,
		Localizer:     loc,
		Feed:          feed,
		Budgets:       budgets,
		Expenses:      expenses,
		BudgetList:    view.BudgetList(budgets),
		BudgetChart:   view.BudgetChart(budgets),
		ExpenseList:   view.ExpenseList(expenses),
		CategoryChart: view.ExpensesByCategory(client, session, expenses, viewLog),
		BudgetTotals:  view.TotalsByBudget(client, expenses, viewLog),
		log:           s.log,
	}, nil
}

// UserID returns the signed-in user or store.ErrNotAuthenticated.
func (d *Dashboard) UserID() (int64, error) {
	id, ok := d.Session.UserID()
	if !ok {
		return 0, store.ErrNotAuthenticated
	}
	return id, nil
}

// ErrUnknownUser is returned by SignIn when no user matches and registering
// was not requested.
var ErrUnknownUser = errors.New("dashboard: no user with that name and email")

// SignIn looks the user up by name and email and switches the session to
// them. When nobody matches and register is set, the user is created first.
func (d *Dashboard) SignIn(ctx context.Context, name, email string, register bool) (model.User, error) {
	u, ok, err := d.Client.FindUser(ctx, name, email)
	if err != nil {
		return model.User{}, err
	}
	if !ok {
		if !register {
			return model.User{}, ErrUnknownUser
		}
		u, err = d.Client.CreateUser(ctx, model.User{Name: name, Email: email})
		if err != nil {
			return model.User{}, err
		}
		d.log.Info().Int64("user", u.ID).Msg("user registered")
	}
	d.Session.SignIn(u.ID)
	return u, nil
}

// Load fetches budgets, the budget chart, expenses, and both server
// aggregates concurrently. Every part is attempted; the errors of the
// failed parts are joined.
func (d *Dashboard) Load(ctx context.Context) error {
	uid, err := d.UserID()
	if err != nil {
		return err
	}

	tasks := []struct {
		name string
		run  func(context.Context) error
	}{
		{"budgets", func(ctx context.Context) error { return d.Budgets.List(ctx, uid) }},
		{"budget chart", func(ctx context.Context) error { return d.Budgets.FetchChart(ctx, uid) }},
		{"expenses", func(ctx context.Context) error { return d.Expenses.List(ctx, uid) }},
		{"expenses by category", d.CategoryChart.Refresh},
		{"totals by budget", d.BudgetTotals.Refresh},
	}

	errs := make([]error, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	for i, task := range tasks {
		g.Go(func() error {
			if err := task.run(gctx); err != nil && !errors.Is(err, store.ErrSuperseded) {
				d.log.Warn().Err(err).Str("part", task.name).Msg("initial load failed")
				errs[i] = fmt.Errorf("%s: %w", task.name, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

// Watch keeps the server aggregates following the expense store until ctx
// is done or Close is called.
func (d *Dashboard) Watch(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	categoryEvents, stopCategory := d.Feed.Subscribe(store.ExpensesChanged, 1)
	totalsEvents, stopTotals := d.Feed.Subscribe(store.ExpensesChanged, 1)

	go func() {
		defer stopCategory()
		d.CategoryChart.Watch(ctx, categoryEvents)
	}()
	go func() {
		defer stopTotals()
		d.BudgetTotals.Watch(ctx, totalsEvents)
	}()
}

// SetLanguage switches the language of every rendered error.
func (d *Dashboard) SetLanguage(lang string) string {
	return d.Localizer.SetLanguage(lang).String()
}

// Close stops watchers and releases subscriptions.
func (d *Dashboard) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	d.Budgets.Close()
	d.Expenses.Close()
	d.Feed.Close()
}
