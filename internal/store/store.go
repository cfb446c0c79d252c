// Package store keeps the client-side budget and expense collections in sync
// with the remote service and announces every change on a Feed.
package store

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/theirongolddev/budgetsync/internal/i18n"
	"github.com/theirongolddev/budgetsync/internal/remote"
)

var (
	// ErrNotAuthenticated is returned by mutations when no user is signed in.
	ErrNotAuthenticated = errors.New("store: no authenticated user")
	// ErrMissingID is returned by updates given a zero id.
	ErrMissingID = errors.New("store: missing id")
	// ErrSuperseded is returned by a read whose result was dropped because a
	// newer read of the same data started after it.
	ErrSuperseded = errors.New("store: superseded by a newer request")
)

// Option configures a store.
type Option func(*options)

type options struct {
	feed *Feed
	log  zerolog.Logger
}

// WithFeed publishes events on f instead of a private feed.
func WithFeed(f *Feed) Option {
	return func(o *options) {
		if f != nil {
			o.feed = f
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

func buildOptions(opts []Option) options {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.feed == nil {
		o.feed = NewFeed()
	}
	return o
}

// core is the state shared by both stores: the lock, the counters, the
// error state, and the feed.
type core struct {
	mu      sync.RWMutex
	id      Identity
	feed    *Feed
	errs    *i18n.ErrorState
	log     zerolog.Logger
	seq     uint64 // successful mutations
	version uint64 // any observable change

	listed     bool // a List has succeeded
	listFailed bool // the latest settled List failed
}

func newCore(id Identity, loc *i18n.Localizer, o options) *core {
	c := &core{
		id:   id,
		feed: o.feed,
		log:  o.log,
	}
	c.errs = i18n.NewErrorState(loc, c.errorChanged)
	return c
}

func (c *core) user() (int64, error) {
	if c.id == nil {
		return 0, ErrNotAuthenticated
	}
	uid, ok := c.id.UserID()
	if !ok {
		return 0, ErrNotAuthenticated
	}
	return uid, nil
}

// mutated bumps both counters. Callers hold mu.
func (c *core) mutated() uint64 {
	c.seq++
	c.version++
	return c.seq
}

func (c *core) publish(kind Kind, op Op, seq uint64) {
	c.feed.Publish(Event{Kind: kind, Op: op, Seq: seq})
}

// errorChanged runs after the error state changes. Store methods must not
// touch errs while holding mu.
func (c *core) errorChanged() {
	op := OpClear
	if c.errs.Pending() {
		op = OpFail
	}
	c.mu.Lock()
	c.version++
	seq := c.seq
	c.mu.Unlock()
	c.publish(ErrorChanged, op, seq)
}

// failClassified records a create or update failure under its localization key.
func (c *core) failClassified(err error, table i18n.Table) {
	raw := remote.Message(err)
	var re *remote.RemoteError
	if errors.As(err, &re) {
		if key, params, ok := i18n.FromCode(re.Code, re.Params); ok {
			c.errs.Fail(raw, key, params)
			return
		}
	}
	key, params := i18n.Classify(raw, table)
	c.errs.Fail(raw, key, params)
}

// failRaw records err's message verbatim.
func (c *core) failRaw(err error) {
	raw := remote.Message(err)
	c.errs.Fail(raw, i18n.KeyRemote, i18n.Params{"message": raw})
}

// Error returns the rendered error text, or "" when there is none.
func (c *core) Error() string {
	return c.errs.Message()
}

// ErrorState returns the full current error state.
func (c *core) ErrorState() i18n.ErrorSnapshot {
	return c.errs.Snapshot()
}

// ResetError dismisses the current error.
func (c *core) ResetError() {
	c.errs.Reset()
}

// ListStatus reports whether a List has ever succeeded and whether the
// latest settled List failed. Mutation failures do not count.
func (c *core) ListStatus() (listed, failed bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.listed, c.listFailed
}

// listSettled records the outcome of a List. Callers hold mu.
func (c *core) listSettled(err error) {
	if err != nil {
		c.listFailed = true
		return
	}
	c.listed = true
	c.listFailed = false
}

// Version returns a counter that increases on every observable change.
func (c *core) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Changes returns the number of successful mutations so far.
func (c *core) Changes() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.seq
}

// Subscribe returns a channel of this store's events whose kind is in kinds.
func (c *core) Subscribe(kinds Kind, buffer int) (<-chan Event, func()) {
	return c.feed.Subscribe(kinds, buffer)
}

// Feed returns the feed the store publishes on.
func (c *core) Feed() *Feed {
	return c.feed
}

// Close detaches the store from language changes.
func (c *core) Close() {
	c.errs.Close()
}
