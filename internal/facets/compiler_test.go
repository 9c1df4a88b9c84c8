package facets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memorise/testimony-explorer/internal/domain/entities"
)

func compileSQL(t *testing.T, state entities.FacetState) (string, []interface{}) {
	t.Helper()
	c := NewCompiler()
	ds := c.Compile(state).Dataset(c.Dialect())
	sql, args, err := ds.Prepared(true).ToSQL()
	require.NoError(t, err)
	return sql, args
}

func TestCompile_EmptyStateIsUnconstrained(t *testing.T) {
	c := NewCompiler()
	p := c.Compile(entities.FacetState{})
	assert.True(t, p.IsUnconstrained())

	sql, args := compileSQL(t, entities.FacetState{})
	assert.NotContains(t, sql, "WHERE")
	assert.Empty(t, args)
}

func TestCompile_Gender(t *testing.T) {
	sql, args := compileSQL(t, entities.FacetState{Gender: "Female"})
	assert.Contains(t, sql, `"Gender"`)
	assert.Equal(t, []interface{}{"Female"}, args)
}

func TestCompile_GenderAnyIsNoOp(t *testing.T) {
	c := NewCompiler()
	assert.True(t, c.Compile(entities.FacetState{Gender: "Any"}).IsUnconstrained())
}

func TestCompile_UnrecognisedGenderIsDropped(t *testing.T) {
	c := NewCompiler()
	p := c.Compile(entities.FacetState{Gender: "Robot"})
	assert.True(t, p.IsUnconstrained())
}

func TestCompile_CountriesUseInSet(t *testing.T) {
	sql, args := compileSQL(t, entities.FacetState{
		Countries: []string{"Poland", "Hungary"},
	})
	assert.Contains(t, sql, `"CountryOfBirth" IN`)
	assert.Equal(t, []interface{}{"Poland", "Hungary"}, args)
}

func TestCompile_SingleCountryStillUsesInSet(t *testing.T) {
	// A one-element selection must behave exactly like any other set.
	sql, args := compileSQL(t, entities.FacetState{Countries: []string{"Poland"}})
	assert.Contains(t, sql, `"CountryOfBirth" IN`)
	assert.Equal(t, []interface{}{"Poland"}, args)
}

func TestCompile_LanguagesUseInSet(t *testing.T) {
	sql, _ := compileSQL(t, entities.FacetState{Languages: []string{"Yiddish"}})
	assert.Contains(t, sql, `"LanguageLabel" IN`)
}

func TestCompile_OnlineOnly(t *testing.T) {
	sql, args := compileSQL(t, entities.FacetState{OnlineOnly: true})
	assert.Contains(t, sql, `"InVHAOnline"`)
	assert.Equal(t, []interface{}{"True"}, args)
}

func TestCompile_KeywordsIntersectPerID(t *testing.T) {
	sql, args := compileSQL(t, entities.FacetState{
		KeywordIDs: []string{"10045", "20981"},
	})
	assert.Equal(t, 2, strings.Count(sql, "INTERSECT"))
	assert.Equal(t, 2, strings.Count(sql, `"KeywordsTable"`))
	assert.Equal(t, []interface{}{"10045", "20981"}, args)
}

func TestCompile_AnswersIntersectPerPair(t *testing.T) {
	sql, args := compileSQL(t, entities.FacetState{
		Answers: []entities.QuestionAnswer{
			{Question: "Religious Identity", Answer: "Orthodox"},
			{Question: "Fate", Answer: "Survivor"},
		},
	})
	assert.Equal(t, 2, strings.Count(sql, `"QuestionsTable"`))
	assert.Len(t, args, 4)
}

func TestCompile_IncompleteAnswerPairIsDropped(t *testing.T) {
	c := NewCompiler()
	p := c.Compile(entities.FacetState{
		Answers: []entities.QuestionAnswer{{Question: "Fate"}},
	})
	assert.True(t, p.IsUnconstrained())
}

func TestCompile_SearchTermsQuotedAndConjoined(t *testing.T) {
	sql, args := compileSQL(t, entities.FacetState{
		SearchTerms: []string{"death march", "liberation"},
	})
	assert.Contains(t, sql, "TestimonyTable_fts MATCH ?")
	assert.Equal(t, []interface{}{`"death march" AND "liberation"`}, args)
}

func TestCompile_SearchTermEmbeddedQuotesEscaped(t *testing.T) {
	_, args := compileSQL(t, entities.FacetState{
		SearchTerms: []string{`the "final" days`},
	})
	assert.Equal(t, []interface{}{`"the ""final"" days"`}, args)
}

func TestCompile_BlankSearchTermsAreNoOp(t *testing.T) {
	c := NewCompiler()
	p := c.Compile(entities.FacetState{SearchTerms: []string{"  ", ""}})
	assert.True(t, p.IsUnconstrained())
}

func TestCompile_FullBirthRangeIsNoOp(t *testing.T) {
	c := NewCompiler()
	p := c.Compile(entities.FacetState{
		BirthYears: &entities.YearRange{From: entities.MinBirthYear, To: entities.MaxBirthYear},
	})
	assert.True(t, p.IsUnconstrained())
}

func TestCompile_BirthRangeExpandsPerYear(t *testing.T) {
	sql, args := compileSQL(t, entities.FacetState{
		BirthYears: &entities.YearRange{From: 1920, To: 1922},
	})
	assert.Contains(t, sql, `"DateOfBirth" LIKE`)
	assert.Equal(t, []interface{}{"%1920%", "%1921%", "%1922%"}, args)
}

func TestCompile_BirthRangeClampedToSupportedYears(t *testing.T) {
	_, args := compileSQL(t, entities.FacetState{
		BirthYears: &entities.YearRange{From: 1700, To: 1893},
	})
	assert.Equal(t, []interface{}{"%1892%", "%1893%"}, args)
}

func TestCompile_InvertedBirthRangeIsDropped(t *testing.T) {
	c := NewCompiler()
	p := c.Compile(entities.FacetState{
		BirthYears: &entities.YearRange{From: 1940, To: 1910},
	})
	assert.True(t, p.IsUnconstrained())
}

func TestCompile_PlaceUnionsFiveCategories(t *testing.T) {
	sql, args := compileSQL(t, entities.FacetState{Place: "Auschwitz II-Birkenau (Poland : Death Camp)"})
	assert.Equal(t, 4, strings.Count(sql, "UNION"))
	assert.Contains(t, sql, `"CityOfBirth"`)
	for _, q := range placeQuestions {
		assert.Contains(t, args, q)
	}
}

func TestCompile_CombinedFacetsIntersect(t *testing.T) {
	sql, _ := compileSQL(t, entities.FacetState{
		Gender:      "Male",
		KeywordIDs:  []string{"10045"},
		SearchTerms: []string{"resistance"},
	})
	// Biography conditions plus two sub-selects.
	assert.Equal(t, 2, strings.Count(sql, "INTERSECT"))
	assert.Contains(t, sql, `"Gender"`)
}
