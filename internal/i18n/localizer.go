package i18n

import (
	"fmt"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Localizer renders keys in the active language and announces language changes.
type Localizer struct {
	mu      sync.RWMutex
	cat     catalog.Catalog
	matcher language.Matcher
	tag     language.Tag
	printer *message.Printer

	subMu  sync.Mutex
	subs   map[int]func(language.Tag)
	nextID int
}

// NewLocalizer creates a localizer starting in lang, which is matched against
// Supported. An empty or unknown lang selects English.
func NewLocalizer(lang string) (*Localizer, error) {
	cat, err := NewCatalog()
	if err != nil {
		return nil, fmt.Errorf("i18n: building catalog: %w", err)
	}

	l := &Localizer{
		cat:     cat,
		matcher: language.NewMatcher(Supported),
		subs:    make(map[int]func(language.Tag)),
	}
	l.tag = l.match(lang)
	l.printer = message.NewPrinter(l.tag, message.Catalog(cat))
	return l, nil
}

func (l *Localizer) match(lang string) language.Tag {
	if lang == "" {
		return Supported[0]
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return Supported[0]
	}
	_, idx, _ := l.matcher.Match(tag)
	return Supported[idx]
}

// Language returns the active language.
func (l *Localizer) Language() language.Tag {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tag
}

// SetLanguage switches the active language and synchronously notifies every
// subscriber. It returns the tag actually selected.
func (l *Localizer) SetLanguage(lang string) language.Tag {
	tag := l.match(lang)

	l.mu.Lock()
	changed := tag != l.tag
	l.tag = tag
	l.printer = message.NewPrinter(tag, message.Catalog(l.cat))
	l.mu.Unlock()

	if changed {
		l.notify(tag)
	}
	return tag
}

// Text renders key with params in the active language.
func (l *Localizer) Text(key Key, params Params) string {
	l.mu.RLock()
	p := l.printer
	l.mu.RUnlock()
	return p.Sprintf(string(key), params.args(key)...)
}

// OnChange registers fn to run after every language change. The returned
// function removes the registration.
func (l *Localizer) OnChange(fn func(language.Tag)) (cancel func()) {
	l.subMu.Lock()
	id := l.nextID
	l.nextID++
	l.subs[id] = fn
	l.subMu.Unlock()

	return func() {
		l.subMu.Lock()
		delete(l.subs, id)
		l.subMu.Unlock()
	}
}

func (l *Localizer) notify(tag language.Tag) {
	l.subMu.Lock()
	fns := make([]func(language.Tag), 0, len(l.subs))
	for _, fn := range l.subs {
		fns = append(fns, fn)
	}
	l.subMu.Unlock()

	for _, fn := range fns {
		fn(tag)
	}
}
