package views

import (
	"context"

	"github.com/memorise/testimony-explorer/internal/domain/entities"
	"github.com/memorise/testimony-explorer/internal/domain/repositories"
	apperrors "github.com/memorise/testimony-explorer/pkg/errors"
)

// PlaceSummary describes how one place label appears across the
// archive: as a birthplace and per questionnaire question.
type PlaceSummary struct {
	Label       string                   `json:"label"`
	BornHere    int                      `json:"bornHere"`
	PerQuestion []entities.QuestionCount `json:"perQuestion"`
}

// PlacesView summarises clicked place labels.
type PlacesView struct {
	persons   repositories.PersonRepository
	questions repositories.QuestionRepository
}

// NewPlacesView creates a new places view
func NewPlacesView(persons repositories.PersonRepository, questions repositories.QuestionRepository) *PlacesView {
	return &PlacesView{persons: persons, questions: questions}
}

// Summary reports how many persons were born at the place and how many
// name it in each questionnaire question.
func (v *PlacesView) Summary(ctx context.Context, label string) (PlaceSummary, error) {
	if label == "" {
		return PlaceSummary{}, apperrors.NewValidationError("place label must not be empty")
	}

	born, err := v.persons.CountBornIn(ctx, label)
	if err != nil {
		return PlaceSummary{}, err
	}
	perQuestion, err := v.questions.CountsForAnswer(ctx, label)
	if err != nil {
		return PlaceSummary{}, err
	}

	return PlaceSummary{
		Label:       label,
		BornHere:    born,
		PerQuestion: perQuestion,
	}, nil
}
