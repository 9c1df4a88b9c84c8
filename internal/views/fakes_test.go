package views

import (
	"context"
	"strings"

	"github.com/memorise/testimony-explorer/internal/domain/entities"
	"github.com/memorise/testimony-explorer/internal/domain/repositories"
	apperrors "github.com/memorise/testimony-explorer/pkg/errors"
)

// fakePersons serves a fixed person list ordered by ID.
type fakePersons struct {
	persons []*entities.Person
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

func (f *fakePersons) ListByIDs(ctx context.Context, ids []entities.PersonID) ([]*entities.Person, error) {
	out := make([]*entities.Person, 0, len(ids))
	for _, id := range ids {
		if p, err := f.GetByID(ctx, id); err == nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePersons) SearchByName(_ context.Context, q string) ([]*entities.Person, error) {
	var out []*entities.Person
	for _, p := range f.persons {
		if strings.Contains(p.FullName, q) {
			out = append(out, p)
		}
	}
	return out, nil
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
	count := 0
	for _, p := range f.persons {
		if p.CityOfBirth == place {
			count++
		}
	}
	return count, nil
}

func (f *fakePersons) Aggregate(_ context.Context, cohort entities.Cohort, dim repositories.Dimension) ([]repositories.CategoryCount, error) {
	perCategory := map[string]int{}
	for _, p := range f.persons {
		if !cohort.Contains(p.ID) {
			continue
		}
		switch dim {
		case repositories.DimensionGender:
			perCategory[p.Gender]++
		case repositories.DimensionCountry:
			perCategory[p.CountryOfBirth]++
		default:
			return nil, apperrors.NewValidationError("unsupported dimension")
		}
	}
	var out []repositories.CategoryCount
	for category, count := range perCategory {
		out = append(out, repositories.CategoryCount{Category: category, Count: count})
	}
	return out, nil
}

func (f *fakePersons) BirthDates(_ context.Context, cohort entities.Cohort) ([]repositories.BirthDate, error) {
	var out []repositories.BirthDate
	for _, p := range f.persons {
		if cohort.Contains(p.ID) {
			out = append(out, repositories.BirthDate{PersonID: p.ID, Text: p.DateOfBirth})
		}
	}
	return out, nil
}

func (f *fakePersons) ExperienceGroups(ctx context.Context) ([]repositories.CategoryCount, error) {
	return f.Aggregate(ctx, entities.Everyone(), repositories.DimensionExperience)
}

func (f *fakePersons) Countries(_ context.Context) ([]string, error) {
	return nil, nil
}

func (f *fakePersons) Relations(_ context.Context, _ int64) ([]entities.Relation, error) {
	return nil, nil
}

// fakeTestimonies serves one aggregated text per interview code.
type fakeTestimonies struct {
	texts map[int64]string
}

func (f *fakeTestimonies) Segment(_ context.Context, code int64, tape int) (*entities.TestimonySegment, error) {
	return nil, apperrors.NewNotFoundError("no testimony")
}

func (f *fakeTestimonies) Tapes(_ context.Context, _ int64) ([]int, error) {
	return nil, nil
}

func (f *fakeTestimonies) AggregatedText(_ context.Context, code int64) (string, error) {
	text, ok := f.texts[code]
	if !ok {
		return "", apperrors.NewNotFoundError("no testimony")
	}
	return text, nil
}

func testPersons(n int) []*entities.Person {
	persons := make([]*entities.Person, 0, n)
	for i := 1; i <= n; i++ {
		persons = append(persons, &entities.Person{
			ID:            entities.PersonID(i),
			InterviewCode: int64(100 + i),
			FullName:      "Person " + strings.Repeat("I", i),
		})
	}
	return persons
}
