package handlers

import (
	"net/http"

	"github.com/memorise/testimony-explorer/internal/views"
)

// SuggestHandler handles typeahead suggestion requests
type SuggestHandler struct {
	suggest *views.SuggestView
}

// NewSuggestHandler creates a new suggest handler
func NewSuggestHandler(suggest *views.SuggestView) *SuggestHandler {
	return &SuggestHandler{suggest: suggest}
}

// SuggestKeywords handles GET /api/suggest/keywords
func (h *SuggestHandler) SuggestKeywords(w http.ResponseWriter, r *http.Request) {
	keywords, err := h.suggest.Keywords(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		handleError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"keywords": keywords,
	})
}

// SuggestPlaces handles GET /api/suggest/places
func (h *SuggestHandler) SuggestPlaces(w http.ResponseWriter, r *http.Request) {
	places, err := h.suggest.Places(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		handleError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"places": places,
	})
}

// SuggestAnswers handles GET /api/suggest/answers
func (h *SuggestHandler) SuggestAnswers(w http.ResponseWriter, r *http.Request) {
	answers, err := h.suggest.Answers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		handleError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"answers": answers,
	})
}
