package repositories

import (
	"context"

	"github.com/memorise/testimony-explorer/internal/domain/entities"
)

// CohortRepository executes a compiled facet combination against the
// archive and returns the matching person identifiers.
type CohortRepository interface {
	// Resolve returns the cohort matching the facet state. An empty
	// facet state resolves to the unconstrained cohort without touching
	// the archive. Identical facet states always resolve to identical
	// cohorts.
	Resolve(ctx context.Context, state entities.FacetState) (entities.Cohort, error)
}
