package handlers

import (
	"net/http"
	"strconv"

	"github.com/memorise/testimony-explorer/internal/domain/repositories"
	"github.com/memorise/testimony-explorer/internal/views"
)

// PersonHandler handles per-person HTTP requests. Everything here is
// keyed by interview code and independent of any session's facets.
type PersonHandler struct {
	detail      *views.DetailView
	keywords    *views.KeywordsView
	testimonies repositories.TestimonyRepository
}

// NewPersonHandler creates a new person handler
func NewPersonHandler(detail *views.DetailView, keywords *views.KeywordsView, testimonies repositories.TestimonyRepository) *PersonHandler {
	return &PersonHandler{
		detail:      detail,
		keywords:    keywords,
		testimonies: testimonies,
	}
}

func interviewCodeParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	code, err := strconv.ParseInt(r.PathValue("intcode"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "interview code must be an integer")
		return 0, false
	}
	return code, true
}

// GetPerson handles GET /api/persons/{intcode}
func (h *PersonHandler) GetPerson(w http.ResponseWriter, r *http.Request) {
	code, ok := interviewCodeParam(w, r)
	if !ok {
		return
	}

	detail, err := h.detail.ByInterviewCode(r.Context(), code)
	if err != nil {
		handleError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, detail)
}

// GetTapes handles GET /api/persons/{intcode}/tapes
func (h *PersonHandler) GetTapes(w http.ResponseWriter, r *http.Request) {
	code, ok := interviewCodeParam(w, r)
	if !ok {
		return
	}

	tapes, err := h.testimonies.Tapes(r.Context(), code)
	if err != nil {
		handleError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"interviewCode": code,
		"tapes":         tapes,
	})
}

// GetTestimonySegment handles GET /api/persons/{intcode}/testimony/{tape}
func (h *PersonHandler) GetTestimonySegment(w http.ResponseWriter, r *http.Request) {
	code, ok := interviewCodeParam(w, r)
	if !ok {
		return
	}
	tape, err := strconv.Atoi(r.PathValue("tape"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "tape number must be an integer")
		return
	}

	segment, err := h.testimonies.Segment(r.Context(), code, tape)
	if err != nil {
		handleError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, segment)
}

// GetWordCloud handles GET /api/persons/{intcode}/wordcloud
func (h *PersonHandler) GetWordCloud(w http.ResponseWriter, r *http.Request) {
	code, ok := interviewCodeParam(w, r)
	if !ok {
		return
	}

	terms, err := h.keywords.PersonCloud(r.Context(), code)
	if err != nil {
		handleError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"interviewCode": code,
		"terms":         terms,
	})
}
