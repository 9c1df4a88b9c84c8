package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/memorise/testimony-explorer/internal/cohort"
	"github.com/memorise/testimony-explorer/internal/domain/entities"
	"github.com/memorise/testimony-explorer/internal/session"
	"github.com/memorise/testimony-explorer/internal/views"
)

// SessionHandler handles facet-state HTTP requests. Every facet change
// replaces the session's whole state and answers with the refreshed
// cohort counter, so the client always renders counts that match the
// facets it last sent.
type SessionHandler struct {
	sessions *session.Manager
	resolver *cohort.Resolver
	counter  *views.CounterView
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *session.Manager, resolver *cohort.Resolver, counter *views.CounterView) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		resolver: resolver,
		counter:  counter,
	}
}

type facetStateResponse struct {
	Version uint64              `json:"version"`
	State   entities.FacetState `json:"state"`
	Counter views.CohortCounter `json:"counter"`
}

// ApplyFacets handles PUT /api/sessions/{id}/facets
func (h *SessionHandler) ApplyFacets(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		respondWithError(w, http.StatusBadRequest, "session ID is required")
		return
	}

	var state entities.FacetState
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid facet state payload")
		return
	}

	s := h.sessions.Get(sessionID)
	applied, version := s.Apply(func(current *entities.FacetState) {
		*current = state
	})

	c, err := h.resolver.Resolve(r.Context(), applied)
	if err != nil {
		handleError(w, err)
		return
	}
	// Another facet change landed while this one resolved; its own
	// request will carry the authoritative counter.
	if !s.Current(version) {
		respondWithError(w, http.StatusConflict, "facet state changed during resolution")
		return
	}

	counter, err := h.counter.Count(r.Context(), c)
	if err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, facetStateResponse{
		Version: version,
		State:   applied,
		Counter: counter,
	})
}

// GetFacets handles GET /api/sessions/{id}/facets
func (h *SessionHandler) GetFacets(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		respondWithError(w, http.StatusBadRequest, "session ID is required")
		return
	}

	s := h.sessions.Get(sessionID)
	state, version := s.State()

	c, err := h.resolver.Resolve(r.Context(), state)
	if err != nil {
		handleError(w, err)
		return
	}
	counter, err := h.counter.Count(r.Context(), c)
	if err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, facetStateResponse{
		Version: version,
		State:   state,
		Counter: counter,
	})
}

// ResetFacets handles DELETE /api/sessions/{id}/facets
func (h *SessionHandler) ResetFacets(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		respondWithError(w, http.StatusBadRequest, "session ID is required")
		return
	}

	s := h.sessions.Get(sessionID)
	version := s.Reset()

	counter, err := h.counter.Count(r.Context(), entities.Everyone())
	if err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, facetStateResponse{
		Version: version,
		State:   entities.FacetState{},
		Counter: counter,
	})
}
