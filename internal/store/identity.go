package store

import "sync"

// Identity supplies the id of the signed-in user. ok is false when nobody is
// signed in.
type Identity interface {
	UserID() (id int64, ok bool)
}

// Session is an Identity whose user can be changed at runtime.
type Session struct {
	mu sync.RWMutex
	id int64
}

// NewSession returns a session signed in as id. Zero means signed out.
func NewSession(id int64) *Session {
	return &Session{id: id}
}

// UserID implements Identity.
func (s *Session) UserID() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id, s.id > 0
}

// SignIn switches the session to id.
func (s *Session) SignIn(id int64) {
	s.mu.Lock()
	s.id = id
	s.mu.Unlock()
}

// SignOut clears the session.
func (s *Session) SignOut() {
	s.SignIn(0)
}
