package repositories

import (
	"context"

	"github.com/memorise/testimony-explorer/internal/domain/entities"
)

// Dimension selects the biographical attribute an aggregate breakdown
// groups by. Values are restricted to the known archive columns; the
// adapter rejects anything else.
type Dimension string

const (
	DimensionGender     Dimension = "Gender"
	DimensionCountry    Dimension = "CountryOfBirth"
	DimensionLanguage   Dimension = "LanguageLabel"
	DimensionExperience Dimension = "ExperienceGroup"
	DimensionBirthDate  Dimension = "DateOfBirth"
)

// CategoryCount is one bucket of an aggregate breakdown.
type CategoryCount struct {
	Category string
	Count    int
}

// BirthDate pairs a person with their free-text date-of-birth field.
type BirthDate struct {
	PersonID entities.PersonID
	Text     string
}

// PersonRepository defines read access to the biographical table
type PersonRepository interface {
	// GetByID retrieves a person by person identifier
	GetByID(ctx context.Context, id entities.PersonID) (*entities.Person, error)

	// GetByInterviewCode retrieves a person by interview session code
	GetByInterviewCode(ctx context.Context, code int64) (*entities.Person, error)

	// ListByIDs retrieves the persons for a page of cohort members,
	// preserving the requested order
	ListByIDs(ctx context.Context, ids []entities.PersonID) ([]*entities.Person, error)

	// SearchByName retrieves persons whose full name contains the query,
	// across the whole archive regardless of cohort
	SearchByName(ctx context.Context, query string) ([]*entities.Person, error)

	// AllIDs returns every distinct person identifier in ascending
	// order, for paging the unconstrained cohort
	AllIDs(ctx context.Context) ([]entities.PersonID, error)

	// CountAll returns the number of distinct persons in the archive
	CountAll(ctx context.Context) (int, error)

	// CountBornIn returns how many persons name the place as city of birth
	CountBornIn(ctx context.Context, place string) (int, error)

	// Aggregate counts cohort members grouped by a biographical
	// dimension, most populous category first
	Aggregate(ctx context.Context, cohort entities.Cohort, dim Dimension) ([]CategoryCount, error)

	// BirthDates returns the raw date-of-birth text for cohort members
	BirthDates(ctx context.Context, cohort entities.Cohort) ([]BirthDate, error)

	// ExperienceGroups counts distinct persons per experience group over
	// the whole archive
	ExperienceGroups(ctx context.Context) ([]CategoryCount, error)

	// Countries returns the distinct countries of birth
	Countries(ctx context.Context) ([]string, error)

	// Relations returns the named relations recorded for a session
	Relations(ctx context.Context, interviewCode int64) ([]entities.Relation, error)
}
