package handlers

import (
	"net/http"
	"strconv"

	"github.com/memorise/testimony-explorer/internal/cohort"
	"github.com/memorise/testimony-explorer/internal/domain/entities"
	"github.com/memorise/testimony-explorer/internal/domain/repositories"
	"github.com/memorise/testimony-explorer/internal/session"
	"github.com/memorise/testimony-explorer/internal/views"
)

// ViewsHandler serves every cohort-scoped view. Each request resolves
// the session's current facet state and rejects results whose state
// changed mid-resolution, so a view never mixes two facet selections.
type ViewsHandler struct {
	sessions   *session.Manager
	resolver   *cohort.Resolver
	people     *views.PeopleView
	aggregates *views.AggregatesView
	keywords   *views.KeywordsView
	geo        *views.GeoView
	suggest    *views.SuggestView
	counter    *views.CounterView
	questions  repositories.QuestionRepository
}

// NewViewsHandler creates a new views handler
func NewViewsHandler(
	sessions *session.Manager,
	resolver *cohort.Resolver,
	people *views.PeopleView,
	aggregates *views.AggregatesView,
	keywords *views.KeywordsView,
	geo *views.GeoView,
	suggest *views.SuggestView,
	counter *views.CounterView,
	questions repositories.QuestionRepository,
) *ViewsHandler {
	return &ViewsHandler{
		sessions:   sessions,
		resolver:   resolver,
		people:     people,
		aggregates: aggregates,
		keywords:   keywords,
		geo:        geo,
		suggest:    suggest,
		counter:    counter,
		questions:  questions,
	}
}

// resolveCohort resolves the session's current cohort. It writes the
// error response itself and reports false when the caller must stop.
func (h *ViewsHandler) resolveCohort(w http.ResponseWriter, r *http.Request) (entities.Cohort, bool) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		respondWithError(w, http.StatusBadRequest, "session ID is required")
		return entities.Cohort{}, false
	}

	s := h.sessions.Get(sessionID)
	state, version := s.State()

	c, err := h.resolver.Resolve(r.Context(), state)
	if err != nil {
		handleError(w, err)
		return entities.Cohort{}, false
	}
	if !s.Current(version) {
		respondWithError(w, http.StatusConflict, "facet state changed during resolution")
		return entities.Cohort{}, false
	}
	return c, true
}

// GetPeople handles GET /api/sessions/{id}/people
func (h *ViewsHandler) GetPeople(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "page must be an integer")
			return
		}
		page = parsed
	}

	c, ok := h.resolveCohort(w, r)
	if !ok {
		return
	}

	result, err := h.people.Page(r.Context(), c, page)
	if err != nil {
		handleError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// GetAggregate handles GET /api/sessions/{id}/aggregate
func (h *ViewsHandler) GetAggregate(w http.ResponseWriter, r *http.Request) {
	dim := dimensionParam(r.URL.Query().Get("dimension"))
	if dim == "" {
		respondWithError(w, http.StatusBadRequest, "dimension is required")
		return
	}

	c, ok := h.resolveCohort(w, r)
	if !ok {
		return
	}

	slices, err := h.aggregates.Breakdown(r.Context(), c, dim)
	if err != nil {
		handleError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"dimension": dim,
		"slices":    slices,
	})
}

// GetBirthYears handles GET /api/sessions/{id}/birth-years
func (h *ViewsHandler) GetBirthYears(w http.ResponseWriter, r *http.Request) {
	c, ok := h.resolveCohort(w, r)
	if !ok {
		return
	}

	buckets, err := h.aggregates.BirthYearHistogram(r.Context(), c)
	if err != nil {
		handleError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"buckets": buckets,
	})
}

// GetKeywordCloud handles GET /api/sessions/{id}/keywords
func (h *ViewsHandler) GetKeywordCloud(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondWithError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	c, ok := h.resolveCohort(w, r)
	if !ok {
		return
	}

	terms, err := h.keywords.CohortCloud(r.Context(), c, limit)
	if err != nil {
		handleError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"terms": terms,
	})
}

// GetMapTrace handles GET /api/sessions/{id}/map/{category}
func (h *ViewsHandler) GetMapTrace(w http.ResponseWriter, r *http.Request) {
	category := repositories.PlaceCategory(r.PathValue("category"))
	if category == "" {
		respondWithError(w, http.StatusBadRequest, "place category is required")
		return
	}

	c, ok := h.resolveCohort(w, r)
	if !ok {
		return
	}

	places, err := h.geo.Trace(r.Context(), c, category)
	if err != nil {
		handleError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"category": category,
		"places":   places,
	})
}

// GetQuestions handles GET /api/sessions/{id}/questions
func (h *ViewsHandler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	c, ok := h.resolveCohort(w, r)
	if !ok {
		return
	}

	questions, err := h.suggest.Questions(r.Context(), c)
	if err != nil {
		handleError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"questions": questions,
	})
}

// GetQuestionBreakdown handles GET /api/sessions/{id}/questions/breakdown
func (h *ViewsHandler) GetQuestionBreakdown(w http.ResponseWriter, r *http.Request) {
	question := r.URL.Query().Get("question")
	if question == "" {
		respondWithError(w, http.StatusBadRequest, "question is required")
		return
	}
	dim := dimensionParam(r.URL.Query().Get("dimension"))

	c, ok := h.resolveCohort(w, r)
	if !ok {
		return
	}

	buckets, err := h.questions.Breakdown(r.Context(), c, question, dim)
	if err != nil {
		handleError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"question": question,
		"buckets":  buckets,
	})
}

// GetCounter handles GET /api/sessions/{id}/counter
func (h *ViewsHandler) GetCounter(w http.ResponseWriter, r *http.Request) {
	c, ok := h.resolveCohort(w, r)
	if !ok {
		return
	}

	counter, err := h.counter.Count(r.Context(), c)
	if err != nil {
		handleError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, counter)
}

// dimensionParam maps the public dimension names onto archive columns.
// Unrecognized values pass through so the store can reject them.
func dimensionParam(value string) repositories.Dimension {
	switch value {
	case "gender":
		return repositories.DimensionGender
	case "country":
		return repositories.DimensionCountry
	case "language":
		return repositories.DimensionLanguage
	case "experience":
		return repositories.DimensionExperience
	case "birth-date":
		return repositories.DimensionBirthDate
	default:
		return repositories.Dimension(value)
	}
}
