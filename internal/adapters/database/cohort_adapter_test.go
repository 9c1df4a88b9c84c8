package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memorise/testimony-explorer/internal/domain/entities"
)

func TestCohortAdapter_EmptyStateMatchesAll(t *testing.T) {
	a := NewCohortAdapter(newTestArchive(t))

	cohort, err := a.Resolve(context.Background(), entities.FacetState{})
	require.NoError(t, err)
	assert.True(t, cohort.MatchesAll())
}

func TestCohortAdapter_GenderFacet(t *testing.T) {
	a := NewCohortAdapter(newTestArchive(t))

	cohort, err := a.Resolve(context.Background(), entities.FacetState{Gender: "Female"})
	require.NoError(t, err)
	assert.Equal(t, []entities.PersonID{1, 3}, cohort.Members())
}

func TestCohortAdapter_KeywordFacet(t *testing.T) {
	a := NewCohortAdapter(newTestArchive(t))

	cohort, err := a.Resolve(context.Background(), entities.FacetState{
		KeywordIDs: []string{"9001"},
	})
	require.NoError(t, err)
	assert.Equal(t, []entities.PersonID{1, 2}, cohort.Members())
}

func TestCohortAdapter_KeywordsIntersect(t *testing.T) {
	a := NewCohortAdapter(newTestArchive(t))

	cohort, err := a.Resolve(context.Background(), entities.FacetState{
		KeywordIDs: []string{"9001", "9002"},
	})
	require.NoError(t, err)
	assert.Equal(t, []entities.PersonID{2}, cohort.Members())
}

func TestCohortAdapter_CountrySetUnions(t *testing.T) {
	a := NewCohortAdapter(newTestArchive(t))

	cohort, err := a.Resolve(context.Background(), entities.FacetState{
		Countries: []string{"Hungary", "Poland"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, cohort.Size())
}

func TestCohortAdapter_FullTextSearch(t *testing.T) {
	a := NewCohortAdapter(newTestArchive(t))

	cohort, err := a.Resolve(context.Background(), entities.FacetState{
		SearchTerms: []string{"winter"},
	})
	require.NoError(t, err)
	assert.Equal(t, []entities.PersonID{1}, cohort.Members())
}

func TestCohortAdapter_PhraseSearch(t *testing.T) {
	a := NewCohortAdapter(newTestArchive(t))

	cohort, err := a.Resolve(context.Background(), entities.FacetState{
		SearchTerms: []string{"forced march"},
	})
	require.NoError(t, err)
	assert.Equal(t, []entities.PersonID{1}, cohort.Members())
}

func TestCohortAdapter_PlaceFacetSpansCategories(t *testing.T) {
	a := NewCohortAdapter(newTestArchive(t))

	cohort, err := a.Resolve(context.Background(), entities.FacetState{
		Place: "Warsaw ghetto (Poland)",
	})
	require.NoError(t, err)
	assert.Equal(t, []entities.PersonID{2}, cohort.Members())
}

func TestCohortAdapter_BirthYearRange(t *testing.T) {
	a := NewCohortAdapter(newTestArchive(t))

	cohort, err := a.Resolve(context.Background(), entities.FacetState{
		BirthYears: &entities.YearRange{From: 1919, To: 1921},
	})
	require.NoError(t, err)
	assert.Equal(t, []entities.PersonID{1}, cohort.Members())
}

func TestCohortAdapter_CombinedFacetsIntersect(t *testing.T) {
	a := NewCohortAdapter(newTestArchive(t))

	cohort, err := a.Resolve(context.Background(), entities.FacetState{
		Gender:     "Female",
		KeywordIDs: []string{"9001"},
	})
	require.NoError(t, err)
	assert.Equal(t, []entities.PersonID{1}, cohort.Members())
}

func TestCohortAdapter_NoMatchIsEmptyNotError(t *testing.T) {
	a := NewCohortAdapter(newTestArchive(t))

	cohort, err := a.Resolve(context.Background(), entities.FacetState{
		Gender:    "Male",
		Countries: []string{"Hungary"},
	})
	require.NoError(t, err)
	assert.True(t, cohort.IsEmpty())
	assert.False(t, cohort.MatchesAll())
}

func TestCohortAdapter_AnswerFacet(t *testing.T) {
	a := NewCohortAdapter(newTestArchive(t))

	cohort, err := a.Resolve(context.Background(), entities.FacetState{
		Answers: []entities.QuestionAnswer{{Question: "Religious Identity", Answer: "Orthodox"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []entities.PersonID{1, 3}, cohort.Members())
}

func TestCohortAdapter_OnlineOnly(t *testing.T) {
	a := NewCohortAdapter(newTestArchive(t))

	cohort, err := a.Resolve(context.Background(), entities.FacetState{OnlineOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []entities.PersonID{1, 3}, cohort.Members())
}

func TestCohortAdapter_NarrowingKeywordsYieldsSubset(t *testing.T) {
	a := NewCohortAdapter(newTestArchive(t))

	broad, err := a.Resolve(context.Background(), entities.FacetState{
		KeywordIDs: []string{"9001"},
	})
	require.NoError(t, err)
	narrow, err := a.Resolve(context.Background(), entities.FacetState{
		KeywordIDs: []string{"9001", "9002"},
	})
	require.NoError(t, err)

	assert.True(t, narrow.SubsetOf(broad))
	assert.False(t, broad.SubsetOf(narrow))
}

func TestCohortAdapter_WideningCountriesYieldsSuperset(t *testing.T) {
	a := NewCohortAdapter(newTestArchive(t))

	narrow, err := a.Resolve(context.Background(), entities.FacetState{
		Countries: []string{"Hungary"},
	})
	require.NoError(t, err)
	broad, err := a.Resolve(context.Background(), entities.FacetState{
		Countries: []string{"Hungary", "Poland"},
	})
	require.NoError(t, err)

	assert.True(t, narrow.SubsetOf(broad))
}
