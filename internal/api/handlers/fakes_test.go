package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/memorise/testimony-explorer/internal/adapters/cache"
	"github.com/memorise/testimony-explorer/internal/cohort"
	"github.com/memorise/testimony-explorer/internal/domain/entities"
	"github.com/memorise/testimony-explorer/internal/domain/repositories"
	apperrors "github.com/memorise/testimony-explorer/pkg/errors"
)

// fakeCohortStore resolves every non-empty facet state to a fixed
// member set.
type fakeCohortStore struct {
	members  []entities.PersonID
	resolves int
}

func (s *fakeCohortStore) Resolve(_ context.Context, state entities.FacetState) (entities.Cohort, error) {
	s.resolves++
	if state.IsEmpty() {
		return entities.Everyone(), nil
	}
	return entities.NewCohort(s.members...), nil
}

func newTestResolver(store repositories.CohortRepository) *cohort.Resolver {
	return cohort.NewResolver(store, cache.NewMemoryAdapter(16, time.Minute), time.Minute)
}

// fakePersons serves a fixed roster. Only the methods the handlers
// under test reach are meaningful; the rest return empty results.
type fakePersons struct {
	persons []*entities.Person
}

func newFakePersons(n int) *fakePersons {
	f := &fakePersons{}
	for i := 1; i <= n; i++ {
		f.persons = append(f.persons, &entities.Person{
			ID:            entities.PersonID(i),
			InterviewCode: int64(100 + i),
			FullName:      fmt.Sprintf("Person %d", i),
		})
	}
	return f
}

func (f *fakePersons) GetByID(_ context.Context, id entities.PersonID) (*entities.Person, error) {
	for _, p := range f.persons {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, apperrors.NewNotFoundError("person not found")
}

func (f *fakePersons) GetByInterviewCode(_ context.Context, code int64) (*entities.Person, error) {
	for _, p := range f.persons {
		if p.InterviewCode == code {
			return p, nil
		}
	}
	return nil, apperrors.NewNotFoundError("person not found")
}

func (f *fakePersons) ListByIDs(_ context.Context, ids []entities.PersonID) ([]*entities.Person, error) {
	var out []*entities.Person
	for _, id := range ids {
		for _, p := range f.persons {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (f *fakePersons) SearchByName(_ context.Context, query string) ([]*entities.Person, error) {
	return nil, nil
}

func (f *fakePersons) AllIDs(_ context.Context) ([]entities.PersonID, error) {
	ids := make([]entities.PersonID, 0, len(f.persons))
	for _, p := range f.persons {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func (f *fakePersons) CountAll(_ context.Context) (int, error) {
	return len(f.persons), nil
}

func (f *fakePersons) CountBornIn(_ context.Context, place string) (int, error) {
	return 0, nil
}

func (f *fakePersons) Aggregate(_ context.Context, _ entities.Cohort, _ repositories.Dimension) ([]repositories.CategoryCount, error) {
	return nil, nil
}

func (f *fakePersons) BirthDates(_ context.Context, _ entities.Cohort) ([]repositories.BirthDate, error) {
	return nil, nil
}

func (f *fakePersons) ExperienceGroups(_ context.Context) ([]repositories.CategoryCount, error) {
	return []repositories.CategoryCount{{Category: "Jewish Survivor", Count: len(f.persons)}}, nil
}

func (f *fakePersons) Countries(_ context.Context) ([]string, error) {
	return []string{"Hungary", "Poland"}, nil
}

func (f *fakePersons) Relations(_ context.Context, _ int64) ([]entities.Relation, error) {
	return nil, nil
}
