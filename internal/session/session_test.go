package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/memorise/testimony-explorer/internal/domain/entities"
)

func TestSession_ApplyBumpsVersion(t *testing.T) {
	s := NewManager().Get("a")

	state, v1 := s.Apply(func(state *entities.FacetState) {
		state.Gender = "Female"
	})
	assert.Equal(t, "Female", state.Gender)

	_, v2 := s.Apply(func(state *entities.FacetState) {
		state.Countries = []string{"Poland"}
	})
	assert.Greater(t, v2, v1)
}

func TestSession_StaleTokenRejected(t *testing.T) {
	s := NewManager().Get("a")

	_, token := s.Apply(func(state *entities.FacetState) {
		state.Gender = "Male"
	})
	assert.True(t, s.Current(token))

	// Facets change while a resolution for the old token is in flight.
	s.Apply(func(state *entities.FacetState) {
		state.Gender = "Female"
	})
	assert.False(t, s.Current(token))
}

func TestSession_Reset(t *testing.T) {
	s := NewManager().Get("a")
	s.Apply(func(state *entities.FacetState) {
		state.Gender = "Male"
		state.KeywordIDs = []string{"9001"}
	})

	s.Reset()
	state, _ := s.State()
	assert.True(t, state.IsEmpty())
}

func TestManager_GetIsStable(t *testing.T) {
	m := NewManager()
	assert.Same(t, m.Get("a"), m.Get("a"))
	assert.NotSame(t, m.Get("a"), m.Get("b"))
	assert.Equal(t, 2, m.Len())
}

func TestManager_SweepDropsIdleSessions(t *testing.T) {
	m := NewManager()
	idle := m.Get("idle")
	idle.mu.Lock()
	idle.lastSeen = time.Now().Add(-time.Hour)
	idle.mu.Unlock()
	m.Get("fresh")

	removed := m.Sweep(30 * time.Minute)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, m.Len())
}
