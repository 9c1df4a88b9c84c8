package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/memorise/testimony-explorer/internal/cohort"
	"github.com/memorise/testimony-explorer/internal/domain/entities"
)

// CohortHandler resolves facet states into portable cohort tokens so
// other archive services can reuse a selection without re-running the
// facet queries.
type CohortHandler struct {
	resolver *cohort.Resolver
}

// NewCohortHandler creates a new cohort handler
func NewCohortHandler(resolver *cohort.Resolver) *CohortHandler {
	return &CohortHandler{resolver: resolver}
}

type cohortTokenResponse struct {
	Token    string `json:"token"`
	Size     int    `json:"size,omitempty"`
	Everyone bool   `json:"everyone"`
}

// ResolveCohort handles POST /api/cohort/resolve
func (h *CohortHandler) ResolveCohort(w http.ResponseWriter, r *http.Request) {
	var state entities.FacetState
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid facet state payload")
		return
	}

	c, err := h.resolver.Resolve(r.Context(), state)
	if err != nil {
		handleError(w, err)
		return
	}

	encoded, err := cohort.Encode(c)
	if err != nil {
		handleError(w, err)
		return
	}

	resp := cohortTokenResponse{
		Token:    base64.StdEncoding.EncodeToString(encoded),
		Everyone: c.MatchesAll(),
	}
	if !c.MatchesAll() {
		resp.Size = c.Size()
	}
	respondWithJSON(w, http.StatusOK, resp)
}
