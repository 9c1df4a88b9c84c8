// Package session tracks each explorer session's facet state. Facet
// changes are explicit state transitions: every change bumps a version
// token, and results computed for an older token are discarded so that
// the last facet change always wins.
package session

import (
	"sync"
	"time"

	"github.com/memorise/testimony-explorer/internal/domain/entities"
)

// Session owns one client's facet state.
type Session struct {
	mu       sync.Mutex
	state    entities.FacetState
	version  uint64
	lastSeen time.Time
}

// Apply mutates the facet state and returns the new state with its
// version token.
func (s *Session) Apply(mutate func(*entities.FacetState)) (entities.FacetState, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mutate(&s.state)
	s.version++
	s.lastSeen = time.Now()
	return s.state, s.version
}

// Reset clears every facet and returns the new version token.
func (s *Session) Reset() uint64 {
	_, version := s.Apply(func(state *entities.FacetState) {
		*state = entities.FacetState{}
	})
	return version
}

// State returns the current facet state and its version token.
func (s *Session) State() (entities.FacetState, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	return s.state, s.version
}

// Current reports whether a result computed under the given token is
// still valid. A stale token means the facets changed mid-resolution
// and the result must be dropped.
func (s *Session) Current(version uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version == version
}

// Manager hands out sessions by ID, creating them on first use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a new session manager
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Get returns the session for the ID, creating it when absent.
func (m *Manager) Get(id string) *Session {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s
	}
	s = &Session{lastSeen: time.Now()}
	m.sessions[id] = s
	return s
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops sessions idle for longer than maxIdle and returns how
// many were removed.
func (m *Manager) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		s.mu.Lock()
		idle := s.lastSeen.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}
