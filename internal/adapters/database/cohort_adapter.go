package database

import (
	"context"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/memorise/testimony-explorer/internal/domain/entities"
	"github.com/memorise/testimony-explorer/internal/domain/repositories"
	"github.com/memorise/testimony-explorer/internal/facets"
	"github.com/memorise/testimony-explorer/internal/infrastructure/clients/sqlite"
	apperrors "github.com/memorise/testimony-explorer/pkg/errors"
	"github.com/memorise/testimony-explorer/pkg/retry"
)

// CohortAdapter implements the CohortRepository interface by compiling
// facet states and executing the resulting INTERSECT query against the
// archive.
type CohortAdapter struct {
	client   *sqlite.Client
	compiler *facets.Compiler
}

// NewCohortAdapter creates a new cohort adapter
func NewCohortAdapter(client *sqlite.Client) repositories.CohortRepository {
	return &CohortAdapter{
		client:   client,
		compiler: facets.NewCompiler(),
	}
}

// Resolve executes the compiled facet state and collects the matching
// person IDs. A state whose every facet compiled away resolves to the
// unconstrained cohort, identically to an empty state.
func (a *CohortAdapter) Resolve(ctx context.Context, state entities.FacetState) (entities.Cohort, error) {
	if state.IsEmpty() {
		return entities.Everyone(), nil
	}

	predicates := a.compiler.Compile(state)
	if predicates.IsUnconstrained() {
		return entities.Everyone(), nil
	}

	query, args, err := predicates.Dataset(a.compiler.Dialect()).Prepared(true).ToSQL()
	if err != nil {
		return entities.Cohort{}, apperrors.NewInternalError("failed to build cohort query", err)
	}

	var ids *roaring.Bitmap
	err = retry.Do(ctx, retry.QueryConfig(), func() error {
		ids = roaring.New()

		rows, qErr := a.client.DB().QueryContext(ctx, query, args...)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()

		for rows.Next() {
			var id uint32
			if sErr := rows.Scan(&id); sErr != nil {
				return sErr
			}
			ids.Add(id)
		}
		return rows.Err()
	})
	if err != nil {
		return entities.Cohort{}, apperrors.NewStoreError("failed to resolve cohort", err)
	}

	return entities.CohortFromBitmap(ids), nil
}
