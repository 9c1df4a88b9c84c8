package views

import (
	"context"
	"sort"
	"strings"

	"github.com/memorise/testimony-explorer/internal/domain/entities"
	"github.com/memorise/testimony-explorer/internal/domain/repositories"
)

// GroupedAnswers collects every answer a person gave to one question.
type GroupedAnswers struct {
	Question string   `json:"question"`
	Answers  []string `json:"answers"`
}

// GroupedRelations collects the named relations of one relationship.
type GroupedRelations struct {
	Relationship string   `json:"relationship"`
	Names        []string `json:"names"`
}

// PersonDetail is the full biography panel for one interview session.
type PersonDetail struct {
	Person    *entities.Person          `json:"person"`
	Answers   []GroupedAnswers          `json:"answers"`
	Relations []GroupedRelations        `json:"relations"`
	Journey   []repositories.PlaceVisit `json:"journey"`
	Tapes     []int                     `json:"tapes"`
}

// DetailView assembles the per-person biography panel.
type DetailView struct {
	persons     repositories.PersonRepository
	questions   repositories.QuestionRepository
	places      repositories.PlaceRepository
	testimonies repositories.TestimonyRepository
}

// NewDetailView creates a new detail view
func NewDetailView(
	persons repositories.PersonRepository,
	questions repositories.QuestionRepository,
	places repositories.PlaceRepository,
	testimonies repositories.TestimonyRepository,
) *DetailView {
	return &DetailView{
		persons:     persons,
		questions:   questions,
		places:      places,
		testimonies: testimonies,
	}
}

// ByInterviewCode returns the biography, grouped questionnaire answers,
// named relations, visited places and tape inventory for one session.
func (v *DetailView) ByInterviewCode(ctx context.Context, interviewCode int64) (PersonDetail, error) {
	person, err := v.persons.GetByInterviewCode(ctx, interviewCode)
	if err != nil {
		return PersonDetail{}, err
	}

	answers, err := v.questions.AnswersForPerson(ctx, person.ID)
	if err != nil {
		return PersonDetail{}, err
	}
	relations, err := v.persons.Relations(ctx, interviewCode)
	if err != nil {
		return PersonDetail{}, err
	}
	journey, err := v.places.VisitedBy(ctx, interviewCode)
	if err != nil {
		return PersonDetail{}, err
	}
	tapes, err := v.testimonies.Tapes(ctx, interviewCode)
	if err != nil {
		return PersonDetail{}, err
	}

	return PersonDetail{
		Person:    person,
		Answers:   groupAnswers(answers),
		Relations: groupRelations(relations),
		Journey:   journey,
		Tapes:     tapes,
	}, nil
}

func groupAnswers(answers []entities.Answer) []GroupedAnswers {
	perQuestion := map[string][]string{}
	for _, a := range answers {
		perQuestion[a.Question] = append(perQuestion[a.Question], a.Text)
	}

	questions := make([]string, 0, len(perQuestion))
	for q := range perQuestion {
		questions = append(questions, q)
	}
	sort.Strings(questions)

	out := make([]GroupedAnswers, 0, len(questions))
	for _, q := range questions {
		out = append(out, GroupedAnswers{Question: q, Answers: perQuestion[q]})
	}
	return out
}

func groupRelations(relations []entities.Relation) []GroupedRelations {
	perRelationship := map[string][]string{}
	for _, r := range relations {
		key := strings.ToLower(r.Relationship)
		perRelationship[key] = append(perRelationship[key], r.Name)
	}

	relationships := make([]string, 0, len(perRelationship))
	for r := range perRelationship {
		relationships = append(relationships, r)
	}
	sort.Strings(relationships)

	out := make([]GroupedRelations, 0, len(relationships))
	for _, r := range relationships {
		out = append(out, GroupedRelations{Relationship: r, Names: perRelationship[r]})
	}
	return out
}
