package views

import (
	"context"
	"strings"

	"github.com/memorise/testimony-explorer/internal/domain/entities"
	"github.com/memorise/testimony-explorer/internal/domain/repositories"
)

// SuggestLimit caps every suggester's result list.
const SuggestLimit = 10

// SuggestView backs the filter panel's typeahead dropdowns.
type SuggestView struct {
	keywords  repositories.KeywordRepository
	questions repositories.QuestionRepository
}

// NewSuggestView creates a new suggest view
func NewSuggestView(keywords repositories.KeywordRepository, questions repositories.QuestionRepository) *SuggestView {
	return &SuggestView{keywords: keywords, questions: questions}
}

// Keywords suggests keyword facet values for a partial label.
func (v *SuggestView) Keywords(ctx context.Context, query string) ([]entities.Keyword, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	return v.keywords.SearchLabels(ctx, query, SuggestLimit)
}

// Places suggests geocoded place labels for the map place facet.
func (v *SuggestView) Places(ctx context.Context, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	return v.keywords.SearchPlaces(ctx, query, SuggestLimit)
}

// Answers suggests question/answer facet pairs matching either side.
func (v *SuggestView) Answers(ctx context.Context, query string) ([]entities.QuestionAnswer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	return v.questions.SearchPairs(ctx, query, SuggestLimit)
}

// Questions lists the question texts available within the cohort.
func (v *SuggestView) Questions(ctx context.Context, cohort entities.Cohort) ([]string, error) {
	return v.questions.QuestionsFor(ctx, cohort)
}
