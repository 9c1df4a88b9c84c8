package repositories

import (
	"context"

	"github.com/memorise/testimony-explorer/internal/domain/entities"
)

// AnswerBucket is one stacked bar of the questionnaire breakdown: the
// number of cohort members that gave Answer, split by a biographical
// category when a dimension is selected.
type AnswerBucket struct {
	Answer   string
	Category string
	Count    int
}

// QuestionRepository defines read access to the questionnaire table
type QuestionRepository interface {
	// QuestionsFor returns the distinct question texts answered by
	// anyone in the cohort
	QuestionsFor(ctx context.Context, cohort entities.Cohort) ([]string, error)

	// Breakdown counts cohort answers to one question, optionally split
	// by a biographical dimension (DimensionBirthDate degrades to an
	// unsplit count, matching the aggregate chart's behaviour)
	Breakdown(ctx context.Context, cohort entities.Cohort, question string, dim Dimension) ([]AnswerBucket, error)

	// AnswersForPerson returns every question/answer pair for a person
	AnswersForPerson(ctx context.Context, id entities.PersonID) ([]entities.Answer, error)

	// SearchPairs retrieves question/answer suggestions where either
	// side contains the query, case-insensitively
	SearchPairs(ctx context.Context, query string, limit int) ([]entities.QuestionAnswer, error)

	// CountsForAnswer counts, per question, the distinct persons whose
	// answer equals the given text; used for place summaries
	CountsForAnswer(ctx context.Context, answer string) ([]entities.QuestionCount, error)
}
