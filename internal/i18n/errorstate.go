package i18n

import (
	"sync"

	"golang.org/x/text/language"
)

// ErrorSnapshot is a point-in-time copy of an ErrorState.
type ErrorSnapshot struct {
	Pending bool
	Raw     string
	Key     Key
	Params  Params
	Text    string
}

// ErrorState holds the single current error of a store. It is idle until Fail
// and pending until Clear or Reset. While pending, a language change re-renders
// Text from the same key and parameters.
type ErrorState struct {
	mu      sync.RWMutex
	loc     *Localizer
	notify  func()
	pending bool
	raw     string
	key     Key
	params  Params
	text    string
	cancel  func()
}

// NewErrorState creates an idle error state rendered through loc. notify, if
// non-nil, runs after every change to the rendered text.
func NewErrorState(loc *Localizer, notify func()) *ErrorState {
	s := &ErrorState{loc: loc, notify: notify}
	if loc != nil {
		s.cancel = loc.OnChange(s.languageChanged)
	}
	return s
}

// Close stops following language changes.
func (s *ErrorState) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Fail records an error and renders it.
func (s *ErrorState) Fail(raw string, key Key, params Params) {
	s.mu.Lock()
	s.pending = true
	s.raw = raw
	s.key = key
	s.params = params.Clone()
	s.text = s.render()
	s.mu.Unlock()
	s.changed()
}

// Clear returns to idle after a successful operation.
func (s *ErrorState) Clear() {
	s.mu.Lock()
	wasPending := s.pending
	s.pending = false
	s.raw, s.key, s.params, s.text = "", "", nil, ""
	s.mu.Unlock()
	if wasPending {
		s.changed()
	}
}

// Reset dismisses the current error on request.
func (s *ErrorState) Reset() {
	s.Clear()
}

// Pending reports whether an error is recorded.
func (s *ErrorState) Pending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending
}

// Message returns the rendered error text, or "" when idle.
func (s *ErrorState) Message() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.text
}

// Snapshot returns a copy of the current state.
func (s *ErrorState) Snapshot() ErrorSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ErrorSnapshot{
		Pending: s.pending,
		Raw:     s.raw,
		Key:     s.key,
		Params:  s.params.Clone(),
		Text:    s.text,
	}
}

func (s *ErrorState) languageChanged(language.Tag) {
	s.mu.Lock()
	if !s.pending {
		s.mu.Unlock()
		return
	}
	s.text = s.render()
	s.mu.Unlock()
	s.changed()
}

// render must be called with mu held.
func (s *ErrorState) render() string {
	if s.key == "" {
		return s.raw
	}
	if s.loc == nil {
		return s.raw
	}
	return s.loc.Text(s.key, s.params)
}

func (s *ErrorState) changed() {
	if s.notify != nil {
		s.notify()
	}
}
