package customer

import (
	"fmt"
	"sync"
)

// Registry holds one Session per session id. Sessions are created lazily on
// first use and live for the process lifetime; each customer's cart and
// checkout sequence stays isolated per session.
type Registry struct {
	deps Deps

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry builds an empty registry sharing one dependency set.
func NewRegistry(deps Deps) (*Registry, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	return &Registry{
		deps:     deps,
		sessions: make(map[string]*Session),
	}, nil
}

// Get returns the session for the given id, creating it when absent.
func (r *Registry) Get(id string) (*Session, error) {
	if id == "" {
		return nil, fmt.Errorf("session id required")
	}

	r.mu.RLock()
	session, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		return session, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if session, ok := r.sessions[id]; ok {
		return session, nil
	}
	session, err := NewSession(id, r.deps)
	if err != nil {
		return nil, err
	}
	r.sessions[id] = session
	return session, nil
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
