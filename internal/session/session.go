// Package session holds the credential of the signed-in user.
package session

import "sync"

// Session is the process-wide login state. The zero value is logged out.
type Session struct {
	mu      sync.RWMutex
	token   string
	ownerID string
}

// New returns a session that is already logged in when token is non-empty.
func New(token, ownerID string) *Session {
	s := &Session{}
	s.Login(token, ownerID)
	return s
}

// Login stores the bearer credential and the owner the catalog is scoped to.
func (s *Session) Login(token, ownerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.ownerID = ownerID
}

// Logout forgets the credential.
func (s *Session) Logout() {
	s.Login("", "")
}

// Token returns the bearer credential or an empty string.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// OwnerID returns the owner scope; empty means the whole catalog.
func (s *Session) OwnerID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ownerID
}

// LoggedIn reports whether a credential is present.
func (s *Session) LoggedIn() bool {
	return s.Token() != ""
}
