package views

import (
	"context"

	"github.com/memorise/testimony-explorer/internal/domain/entities"
	"github.com/memorise/testimony-explorer/internal/domain/repositories"
)

// Mention-count bounds and the marker size class each maps to: the
// first bound at or above the count selects the size at the same
// index, capping at the largest class.
var (
	markerBounds = []int{0, 20, 100, 200, 300, 400, 500, 600, 1000}
	markerSizes  = []int{20, 50, 100, 200, 300, 400, 500, 600, 1000}
)

// MarkerSize buckets a mention count into its marker size class.
func MarkerSize(count int) int {
	for i, bound := range markerBounds {
		if count <= bound {
			return markerSizes[i]
		}
	}
	return markerSizes[len(markerSizes)-1]
}

// GeoView produces the per-category geographic trace layers.
type GeoView struct {
	places repositories.PlaceRepository
}

// NewGeoView creates a new geo view
func NewGeoView(places repositories.PlaceRepository) *GeoView {
	return &GeoView{places: places}
}

// Trace returns one category's places with marker sizes assigned.
func (v *GeoView) Trace(ctx context.Context, cohort entities.Cohort, category repositories.PlaceCategory) ([]entities.PlaceCount, error) {
	places, err := v.places.Trace(ctx, cohort, category)
	if err != nil {
		return nil, err
	}
	for i := range places {
		places[i].MarkerSize = MarkerSize(places[i].Count)
	}
	return places, nil
}

// Journey returns the geocoded places one session mentions, birthplace
// first.
func (v *GeoView) Journey(ctx context.Context, interviewCode int64) ([]repositories.PlaceVisit, error) {
	return v.places.VisitedBy(ctx, interviewCode)
}
