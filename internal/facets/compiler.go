package facets

import (
	"strconv"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // archive dialect
	"github.com/rs/zerolog/log"

	"github.com/memorise/testimony-explorer/internal/domain/entities"
)

// Archive table and column names. The archive schema is produced by the
// ingestion pipeline and consumed as-is.
const (
	bioTable       = "BioTable"
	keywordsTable  = "KeywordsTable"
	questionsTable = "QuestionsTable"
	testimonyFTS   = "TestimonyTable_fts"

	colPersonID = "PIQPersonID"
)

// placeQuestions are the questionnaire questions whose answers name a
// physical place. A map-selected place matches a person through any of
// these or through their city of birth.
var placeQuestions = []string{
	"Camp(s)",
	"Ghetto(s)",
	"Location of Liberation",
	"Hiding or Living under False Identity (Location)",
}

// PredicateSet is a compiled facet state: a conjunction of person-ID
// sub-selects (one per multi-value facet, intersected) and a set of
// conditions on the biography row itself.
type PredicateSet struct {
	subqueries []*goqu.SelectDataset
	bio        []goqu.Expression
}

// IsUnconstrained reports whether no facet produced a constraint.
func (p *PredicateSet) IsUnconstrained() bool {
	return len(p.subqueries) == 0 && len(p.bio) == 0
}

// Dataset composes the predicate set into one INTERSECT query producing
// the distinct matching person IDs.
func (p *PredicateSet) Dataset(dialect goqu.DialectWrapper) *goqu.SelectDataset {
	bio := dialect.From(bioTable).Select(colPersonID).Distinct()
	if len(p.bio) > 0 {
		bio = bio.Where(p.bio...)
	}

	ds := bio
	for _, sub := range p.subqueries {
		ds = ds.Intersect(sub)
	}
	return ds
}

// Compiler translates each facet into either no constraint or a
// parameterized predicate fragment over person IDs.
type Compiler struct {
	dialect goqu.DialectWrapper
}

// NewCompiler creates a compiler for the archive's SQLite dialect.
func NewCompiler() *Compiler {
	return &Compiler{dialect: goqu.Dialect("sqlite3")}
}

// Dialect returns the compiler's SQL dialect.
func (c *Compiler) Dialect() goqu.DialectWrapper {
	return c.dialect
}

// Compile translates the facet state. Malformed facet values are
// dropped (logged) rather than failing the whole resolution; an absent
// or empty facet never produces a constraint.
func (c *Compiler) Compile(state entities.FacetState) *PredicateSet {
	p := &PredicateSet{}

	c.compileGender(p, state.Gender)
	c.compileBirthYears(p, state.BirthYears)
	c.compileSearchTerms(p, state.SearchTerms)
	c.compileKeywords(p, state.KeywordIDs)
	c.compileAnswers(p, state.Answers)
	c.compilePlace(p, state.Place)

	if state.Experience != "" {
		p.bio = append(p.bio, goqu.C("ExperienceGroup").Eq(state.Experience))
	}
	if vals := nonEmpty(state.Countries); len(vals) > 0 {
		p.bio = append(p.bio, goqu.C("CountryOfBirth").In(vals))
	}
	if vals := nonEmpty(state.Languages); len(vals) > 0 {
		p.bio = append(p.bio, goqu.C("LanguageLabel").In(vals))
	}
	if state.OnlineOnly {
		p.bio = append(p.bio, goqu.C("InVHAOnline").Eq("True"))
	}

	return p
}

func (c *Compiler) compileGender(p *PredicateSet, gender string) {
	switch gender {
	case "", "Any":
	case "Male", "Female":
		p.bio = append(p.bio, goqu.C("Gender").Eq(gender))
	default:
		log.Warn().Str("facet", "gender").Str("value", gender).
			Msg("dropping unrecognised facet value")
	}
}

// compileBirthYears compiles a narrowed birth-year range into a per-year
// disjunction against the free-text date field. The full supported
// range carries no information and compiles to nothing.
func (c *Compiler) compileBirthYears(p *PredicateSet, r *entities.YearRange) {
	if r == nil || r.IsFull() {
		return
	}
	from, to := r.From, r.To
	if from < entities.MinBirthYear {
		from = entities.MinBirthYear
	}
	if to > entities.MaxBirthYear {
		to = entities.MaxBirthYear
	}
	if from > to {
		log.Warn().Str("facet", "birthYears").Int("from", r.From).Int("to", r.To).
			Msg("dropping inverted birth-year range")
		return
	}

	years := make([]goqu.Expression, 0, to-from+1)
	for y := from; y <= to; y++ {
		years = append(years, goqu.C("DateOfBirth").Like("%"+strconv.Itoa(y)+"%"))
	}
	p.subqueries = append(p.subqueries,
		c.dialect.From(bioTable).Select(colPersonID).Where(goqu.Or(years...)))
}

// compileSearchTerms compiles free-text terms into one conjunctive
// full-text MATCH. Each term is individually quoted, so multi-word
// terms behave as phrases while distinct terms need not be adjacent.
func (c *Compiler) compileSearchTerms(p *PredicateSet, terms []string) {
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		quoted = append(quoted, `"`+strings.ReplaceAll(t, `"`, `""`)+`"`)
	}
	if len(quoted) == 0 {
		return
	}
	match := strings.Join(quoted, " AND ")
	p.subqueries = append(p.subqueries,
		c.dialect.From(testimonyFTS).Select(colPersonID).
			Where(goqu.L(testimonyFTS+" MATCH ?", match)))
}

// compileKeywords intersects one sub-select per selected keyword: a
// person matches only when tagged with every selected keyword.
func (c *Compiler) compileKeywords(p *PredicateSet, ids []string) {
	for _, id := range ids {
		if id == "" {
			log.Warn().Str("facet", "keywords").Msg("dropping empty keyword id")
			continue
		}
		p.subqueries = append(p.subqueries,
			c.dialect.From(keywordsTable).Select(colPersonID).
				Where(goqu.C("KeywordID").Eq(id)))
	}
}

// compileAnswers intersects one sub-select per selected question/answer
// pair.
func (c *Compiler) compileAnswers(p *PredicateSet, answers []entities.QuestionAnswer) {
	for _, qa := range answers {
		if qa.Question == "" || qa.Answer == "" {
			log.Warn().Str("facet", "answers").Str("question", qa.Question).
				Msg("dropping incomplete question/answer pair")
			continue
		}
		p.subqueries = append(p.subqueries,
			c.dialect.From(questionsTable).Select(colPersonID).
				Where(goqu.C("QuestionText").Eq(qa.Question), goqu.C("Answer").Eq(qa.Answer)))
	}
}

// compilePlace expands a map-selected place into the union of the five
// place-bearing categories sharing that label, intersected with the
// rest of the facets.
func (c *Compiler) compilePlace(p *PredicateSet, place string) {
	if place == "" {
		return
	}
	union := c.dialect.From(bioTable).Select(colPersonID).
		Where(goqu.C("CityOfBirth").Eq(place))
	for _, q := range placeQuestions {
		union = union.Union(
			c.dialect.From(questionsTable).Select(colPersonID).
				Where(goqu.C("QuestionText").Eq(q), goqu.C("Answer").Eq(place)))
	}
	p.subqueries = append(p.subqueries, union)
}

func nonEmpty(values []string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
