package repositories

import (
	"context"

	"github.com/memorise/testimony-explorer/internal/domain/entities"
)

// KeywordRepository defines read access to the keyword tag table
type KeywordRepository interface {
	// Frequencies counts thematic (non-geographic) keywords over the
	// cohort, most frequent first. A limit of zero means no limit.
	Frequencies(ctx context.Context, cohort entities.Cohort, limit int) ([]entities.KeywordCount, error)

	// SearchLabels retrieves keyword id/label suggestions whose label
	// contains the query, case-insensitively
	SearchLabels(ctx context.Context, query string, limit int) ([]entities.Keyword, error)

	// SearchPlaces retrieves geocoded keyword labels containing the query
	SearchPlaces(ctx context.Context, query string, limit int) ([]string, error)

	// IDForLabel resolves a keyword label to one of its tag identifiers
	IDForLabel(ctx context.Context, label string) (string, error)
}
