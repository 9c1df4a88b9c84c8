// Package views projects resolved cohorts into the shapes the explorer
// UI renders: person card pages, aggregate charts, keyword clouds and
// geographic traces. Views never mutate the cohort they are given.
package views

import (
	"context"

	"github.com/memorise/testimony-explorer/internal/domain/entities"
	"github.com/memorise/testimony-explorer/internal/domain/repositories"
	apperrors "github.com/memorise/testimony-explorer/pkg/errors"
)

// PageSize is the number of person cards per listing page.
const PageSize = 14

// PortraitPlaceholder is served when the archive has no portrait for a
// person.
const PortraitPlaceholder = "/assets/portrait_placeholder.png"

// PersonCard is one tile of the person listing.
type PersonCard struct {
	ID              entities.PersonID `json:"id"`
	InterviewCode   int64             `json:"interviewCode"`
	FullName        string            `json:"fullName"`
	ExperienceGroup string            `json:"experienceGroup"`
	DateOfBirth     string            `json:"dateOfBirth"`
	CountryOfBirth  string            `json:"countryOfBirth"`
	PortraitURL     string            `json:"portraitUrl"`
	AvailableOnline bool              `json:"availableOnline"`
}

// PeoplePage is one page of the person listing.
type PeoplePage struct {
	Cards      []PersonCard `json:"cards"`
	Page       int          `json:"page"`
	TotalPages int          `json:"totalPages"`
	Total      int          `json:"total"`
}

// PeopleView pages cohort members as person cards.
type PeopleView struct {
	persons repositories.PersonRepository
}

// NewPeopleView creates a new people view
func NewPeopleView(persons repositories.PersonRepository) *PeopleView {
	return &PeopleView{persons: persons}
}

// Page returns the requested page of cohort members. Pages are
// 1-based; out-of-range requests clamp to the nearest valid page. An
// empty cohort yields an empty first page, not an error.
func (v *PeopleView) Page(ctx context.Context, cohort entities.Cohort, page int) (PeoplePage, error) {
	ids, err := v.memberIDs(ctx, cohort)
	if err != nil {
		return PeoplePage{}, err
	}

	total := len(ids)
	totalPages := (total + PageSize - 1) / PageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	persons, err := v.persons.ListByIDs(ctx, ids[start:end])
	if err != nil {
		return PeoplePage{}, err
	}

	return PeoplePage{
		Cards:      cards(persons),
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	}, nil
}

// SearchByName returns a page of persons matching a name query,
// searched across the whole archive.
func (v *PeopleView) SearchByName(ctx context.Context, query string, page int) (PeoplePage, error) {
	if query == "" {
		return PeoplePage{}, apperrors.NewValidationError("name query must not be empty")
	}

	persons, err := v.persons.SearchByName(ctx, query)
	if err != nil {
		return PeoplePage{}, err
	}

	total := len(persons)
	totalPages := (total + PageSize - 1) / PageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return PeoplePage{
		Cards:      cards(persons[start:end]),
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	}, nil
}

func (v *PeopleView) memberIDs(ctx context.Context, cohort entities.Cohort) ([]entities.PersonID, error) {
	if cohort.MatchesAll() {
		return v.persons.AllIDs(ctx)
	}
	return cohort.Members(), nil
}

func cards(persons []*entities.Person) []PersonCard {
	out := make([]PersonCard, 0, len(persons))
	for _, p := range persons {
		portrait := p.PortraitURL
		if portrait == "" || portrait == "None" {
			portrait = PortraitPlaceholder
		}
		out = append(out, PersonCard{
			ID:              p.ID,
			InterviewCode:   p.InterviewCode,
			FullName:        p.FullName,
			ExperienceGroup: p.ExperienceGroup,
			DateOfBirth:     p.DateOfBirth,
			CountryOfBirth:  p.CountryOfBirth,
			PortraitURL:     portrait,
			AvailableOnline: p.AvailableOnline,
		})
	}
	return out
}
