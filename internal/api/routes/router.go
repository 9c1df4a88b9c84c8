package routes

import (
	"net/http"

	"github.com/memorise/testimony-explorer/internal/api/handlers"
	"github.com/memorise/testimony-explorer/internal/api/middleware"
	"github.com/memorise/testimony-explorer/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	sessionHandler *handlers.SessionHandler
	viewsHandler   *handlers.ViewsHandler
	personHandler  *handlers.PersonHandler
	archiveHandler *handlers.ArchiveHandler
	suggestHandler *handlers.SuggestHandler
	cohortHandler  *handlers.CohortHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
	corsOrigins     []string
}

// NewRouter creates a new router
func NewRouter(
	sessionHandler *handlers.SessionHandler,
	viewsHandler *handlers.ViewsHandler,
	personHandler *handlers.PersonHandler,
	archiveHandler *handlers.ArchiveHandler,
	suggestHandler *handlers.SuggestHandler,
	cohortHandler *handlers.CohortHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
	corsOrigins []string,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		sessionHandler: sessionHandler,
		viewsHandler:   viewsHandler,
		personHandler:  personHandler,
		archiveHandler: archiveHandler,
		suggestHandler: suggestHandler,
		cohortHandler:  cohortHandler,

		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
		corsOrigins:     corsOrigins,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Facet state endpoints
	r.mux.HandleFunc("PUT /api/sessions/{id}/facets", r.sessionHandler.ApplyFacets)
	r.mux.HandleFunc("GET /api/sessions/{id}/facets", r.sessionHandler.GetFacets)
	r.mux.HandleFunc("DELETE /api/sessions/{id}/facets", r.sessionHandler.ResetFacets)

	// Cohort view endpoints
	r.mux.HandleFunc("GET /api/sessions/{id}/people", r.viewsHandler.GetPeople)
	r.mux.HandleFunc("GET /api/sessions/{id}/aggregate", r.viewsHandler.GetAggregate)
	r.mux.HandleFunc("GET /api/sessions/{id}/birth-years", r.viewsHandler.GetBirthYears)
	r.mux.HandleFunc("GET /api/sessions/{id}/keywords", r.viewsHandler.GetKeywordCloud)
	r.mux.HandleFunc("GET /api/sessions/{id}/map/{category}", r.viewsHandler.GetMapTrace)
	r.mux.HandleFunc("GET /api/sessions/{id}/questions", r.viewsHandler.GetQuestions)
	r.mux.HandleFunc("GET /api/sessions/{id}/questions/breakdown", r.viewsHandler.GetQuestionBreakdown)
	r.mux.HandleFunc("GET /api/sessions/{id}/counter", r.viewsHandler.GetCounter)

	// Person endpoints
	r.mux.HandleFunc("GET /api/persons/{intcode}", r.personHandler.GetPerson)
	r.mux.HandleFunc("GET /api/persons/{intcode}/tapes", r.personHandler.GetTapes)
	r.mux.HandleFunc("GET /api/persons/{intcode}/testimony/{tape}", r.personHandler.GetTestimonySegment)
	r.mux.HandleFunc("GET /api/persons/{intcode}/wordcloud", r.personHandler.GetWordCloud)

	// Archive-wide endpoints
	r.mux.HandleFunc("GET /api/countries", r.archiveHandler.GetCountries)
	r.mux.HandleFunc("GET /api/experience-groups", r.archiveHandler.GetExperienceGroups)
	r.mux.HandleFunc("GET /api/search/people", r.archiveHandler.SearchPeople)
	r.mux.HandleFunc("GET /api/places/summary", r.archiveHandler.GetPlaceSummary)

	// Suggestion endpoints
	r.mux.HandleFunc("GET /api/suggest/keywords", r.suggestHandler.SuggestKeywords)
	r.mux.HandleFunc("GET /api/suggest/places", r.suggestHandler.SuggestPlaces)
	r.mux.HandleFunc("GET /api/suggest/answers", r.suggestHandler.SuggestAnswers)

	// Cohort token endpoint
	r.mux.HandleFunc("POST /api/cohort/resolve", r.cohortHandler.ResolveCohort)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	// Apply cache middleware if available
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	if r.metrics != nil {
		handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	}

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(r.corsOrigins)(handler)

	return handler
}
