package authenticator

import (
	"fmt"
	"net/http"
	"sync"

	"gitea.com/go-chi/session"
)

// SessionStateKey is the session key holding the anti-forgery state
const SessionStateKey = "state"

// SessionStore is the per-user session capability supplied by the host
type SessionStore interface {
	Put(key, value string) error
	Get(key string) (string, bool)
}

// SessionDeleter is implemented by session stores that can drop a key.
// The callback handler uses it to consume the state after reading it.
type SessionDeleter interface {
	Delete(key string) error
}

// RawSession is the subset of gitea.com/go-chi/session's Store used by
// ChiSession. session.Store satisfies it.
type RawSession interface {
	Set(key, value interface{}) error
	Get(key interface{}) interface{}
	Delete(key interface{}) error
}

// ChiSession adapts a gitea.com/go-chi/session store
type ChiSession struct {
	store RawSession
}

// NewChiSession wraps an existing go-chi session store
func NewChiSession(store RawSession) *ChiSession {
	return &ChiSession{store: store}
}

// SessionFromRequest returns the session attached by session.Sessioner
func SessionFromRequest(r *http.Request) SessionStore {
	return NewChiSession(session.GetSession(r))
}

func (s *ChiSession) Put(key, value string) error {
	if err := s.store.Set(key, value); err != nil {
		return fmt.Errorf("failed to store session value: %w", err)
	}
	return nil
}

func (s *ChiSession) Get(key string) (string, bool) {
	v, ok := s.store.Get(key).(string)
	return v, ok
}

func (s *ChiSession) Delete(key string) error {
	return s.store.Delete(key)
}

// MemorySession is a map backed session store. The zero value is ready to use.
type MemorySession struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemorySession creates an empty in-memory session
func NewMemorySession() *MemorySession {
	return &MemorySession{values: make(map[string]string)}
}

func (s *MemorySession) Put(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[key] = value
	return nil
}

func (s *MemorySession) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemorySession) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
