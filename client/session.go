package client

import "sync"

// TokenStore is the persistence port for the session token. The credentials
// package provides the production implementation; tests substitute an
// in-memory one.
type TokenStore interface {
	// SetToken persists the token for future sessions.
	SetToken(token string) error

	// ClearToken removes the persisted token.
	ClearToken() error
}

// Session holds the bearer token for API requests. Token mutations are
// mirrored to the TokenStore so a login in one command survives to the next
// invocation.
type Session struct {
	mu    sync.RWMutex
	token string
	store TokenStore
}

// NewSession creates a Session backed by the given store. The store may be
// nil, in which case the token lives only in memory. An initial token (from
// the credential store or QUANTUM_TOKEN) may be passed as initialToken.
func NewSession(store TokenStore, initialToken string) *Session {
	return &Session{
		token: initialToken,
		store: store,
	}
}

// SetToken updates the in-memory token and mirrors it to the store.
func (s *Session) SetToken(token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if s.store != nil {
		return s.store.SetToken(token)
	}
	return nil
}

// ClearToken drops the in-memory token and clears the store.
func (s *Session) ClearToken() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	if s.store != nil {
		return s.store.ClearToken()
	}
	return nil
}

// Token returns the current bearer token, or "" if unauthenticated.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated returns true if a token is present.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}
