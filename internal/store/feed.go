package store

import (
	"sync"
	"time"
)

// Kind classifies change events. Kinds are bit flags so subscribers can
// filter on several at once.
type Kind uint8

// Event kinds.
const (
	BudgetsChanged Kind = 1 << iota
	ChartChanged
	ExpensesChanged
	ErrorChanged

	AllKinds = BudgetsChanged | ChartChanged | ExpensesChanged | ErrorChanged
)

func (k Kind) String() string {
	switch k {
	case BudgetsChanged:
		return "budgets"
	case ChartChanged:
		return "chart"
	case ExpensesChanged:
		return "expenses"
	case ErrorChanged:
		return "error"
	default:
		return "mixed"
	}
}

// Op names the store operation that produced an event.
type Op string

// Store operations.
const (
	OpList   Op = "list"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	OpChart  Op = "chart"
	OpFail   Op = "fail"
	OpClear  Op = "clear"
)

// Event is published after a store changes. Seq is the publishing store's
// change counter at that moment.
type Event struct {
	Kind Kind
	Op   Op
	Seq  uint64
	At   time.Time
}

const defaultFeedBuffer = 16

type subscriber struct {
	ch    chan Event
	kinds Kind
}

// Feed fans events out to subscribers. A subscriber that falls behind loses
// its oldest pending event, never the newest.
type Feed struct {
	mu     sync.Mutex
	subs   map[int]*subscriber
	nextID int
	closed bool
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{subs: make(map[int]*subscriber)}
}

// Subscribe returns a channel receiving events whose kind is in kinds, and a
// function that unsubscribes and closes the channel. buffer < 1 selects a
// default size.
func (f *Feed) Subscribe(kinds Kind, buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = defaultFeedBuffer
	}
	ch := make(chan Event, buffer)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		close(ch)
		return ch, func() {}
	}
	f.nextID++
	id := f.nextID
	f.subs[id] = &subscriber{ch: ch, kinds: kinds}

	var once sync.Once
	return ch, func() {
		once.Do(func() { f.remove(id) })
	}
}

func (f *Feed) remove(id int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if sub, ok := f.subs[id]; ok {
		delete(f.subs, id)
		close(sub.ch)
	}
}

// Publish delivers ev to every interested subscriber without blocking.
func (f *Feed) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sub := range f.subs {
		if sub.kinds&ev.Kind == 0 {
			continue
		}
		select {
		case sub.ch <- ev:
			continue
		default:
		}
		// Full: drop the oldest pending event to make room.
		select {
		case <-sub.ch:
		default:
		}
		select {
		case sub.ch <- ev:
		default:
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// Close closes every subscriber channel. Later publishes are dropped.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	for id, sub := range f.subs {
		delete(f.subs, id)
		close(sub.ch)
	}
}
