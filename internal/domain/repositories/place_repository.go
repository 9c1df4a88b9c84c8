package repositories

import (
	"context"

	"github.com/memorise/testimony-explorer/internal/domain/entities"
)

// PlaceCategory names one geographic trace layer. The camp categories
// are carved out of the Camp(s) question by label pattern; the others
// map to a bio column or a questionnaire question.
type PlaceCategory string

const (
	PlaceBirth         PlaceCategory = "birthplaces"
	PlaceGhetto        PlaceCategory = "ghettos"
	PlaceConcentration PlaceCategory = "concentration-camps"
	PlaceDeathCamp     PlaceCategory = "death-camps"
	PlaceInternment    PlaceCategory = "internment-camps"
	PlacePOW           PlaceCategory = "pow-camps"
	PlaceLiberation    PlaceCategory = "liberation"
	PlaceHiding        PlaceCategory = "hiding"
)

// PlaceVisit is one geocoded place a person mentioned, used for the
// per-person journey map. Birthplace, when geocoded, comes first.
type PlaceVisit struct {
	Label     string
	Latitude  float64
	Longitude float64
	Category  PlaceCategory
}

// PlaceRepository defines read access to geocoded place mentions
type PlaceRepository interface {
	// Trace aggregates per-place mention counts for one category,
	// restricted to the cohort, largest count first
	Trace(ctx context.Context, cohort entities.Cohort, category PlaceCategory) ([]entities.PlaceCount, error)

	// VisitedBy returns the geocoded places one session mentions,
	// birthplace first when available
	VisitedBy(ctx context.Context, interviewCode int64) ([]PlaceVisit, error)
}
