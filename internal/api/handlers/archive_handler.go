package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/memorise/testimony-explorer/internal/domain/repositories"
	"github.com/memorise/testimony-explorer/internal/views"
)

// ArchiveHandler serves the archive-wide reference lists and searches
// that do not depend on any session's facet state.
type ArchiveHandler struct {
	persons repositories.PersonRepository
	people  *views.PeopleView
	places  *views.PlacesView
}

// NewArchiveHandler creates a new archive handler
func NewArchiveHandler(persons repositories.PersonRepository, people *views.PeopleView, places *views.PlacesView) *ArchiveHandler {
	return &ArchiveHandler{
		persons: persons,
		people:  people,
		places:  places,
	}
}

// GetCountries handles GET /api/countries
func (h *ArchiveHandler) GetCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.persons.Countries(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"countries": countries,
	})
}

// GetExperienceGroups handles GET /api/experience-groups
func (h *ArchiveHandler) GetExperienceGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.persons.ExperienceGroups(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"groups": groups,
	})
}

// SearchPeople handles GET /api/search/people
func (h *ArchiveHandler) SearchPeople(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "page must be an integer")
			return
		}
		page = parsed
	}

	result, err := h.people.SearchByName(r.Context(), query, page)
	if err != nil {
		handleError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// GetPlaceSummary handles GET /api/places/summary
func (h *ArchiveHandler) GetPlaceSummary(w http.ResponseWriter, r *http.Request) {
	label := strings.TrimSpace(r.URL.Query().Get("label"))

	summary, err := h.places.Summary(r.Context(), label)
	if err != nil {
		handleError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}
