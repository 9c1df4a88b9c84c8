package views

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/memorise/testimony-explorer/internal/domain/entities"
	"github.com/memorise/testimony-explorer/internal/domain/repositories"
)

// Display weight ranges for the two keyword clouds.
const (
	cohortCloudMin = 10
	cohortCloudMax = 60
	personCloudMin = 15
	personCloudMax = 80

	personCloudTerms = 100
)

var wordPattern = regexp.MustCompile(`[a-zA-Z]{3,}`)

// Function words excluded from the per-person term cloud.
var stopwords = map[string]bool{
	"the": true, "and": true, "was": true, "were": true, "that": true,
	"this": true, "with": true, "from": true, "they": true, "them": true,
	"there": true, "then": true, "have": true, "had": true, "has": true,
	"for": true, "not": true, "but": true, "you": true, "all": true,
	"his": true, "her": true, "our": true, "out": true,
	"which": true, "what": true, "when": true, "where": true, "who": true,
	"would": true, "could": true, "did": true, "into": true, "because": true,
	"very": true, "just": true, "know": true, "like": true, "said": true,
	"say": true, "went": true, "came": true, "got": true, "about": true,
	"don": true, "didn": true,
}

// CloudTerm is one term of a rendered cloud with its display weight.
type CloudTerm struct {
	Label  string `json:"label"`
	Count  int    `json:"count"`
	Weight int    `json:"weight"`
}

// KeywordsView produces keyword frequency tables and clouds.
type KeywordsView struct {
	keywords    repositories.KeywordRepository
	testimonies repositories.TestimonyRepository
}

// NewKeywordsView creates a new keywords view
func NewKeywordsView(keywords repositories.KeywordRepository, testimonies repositories.TestimonyRepository) *KeywordsView {
	return &KeywordsView{keywords: keywords, testimonies: testimonies}
}

// CohortCloud returns the cohort's most frequent thematic keywords with
// weights normalised for cloud rendering.
func (v *KeywordsView) CohortCloud(ctx context.Context, cohort entities.Cohort, limit int) ([]CloudTerm, error) {
	counts, err := v.keywords.Frequencies(ctx, cohort, limit)
	if err != nil {
		return nil, err
	}

	terms := make([]CloudTerm, 0, len(counts))
	for _, c := range counts {
		terms = append(terms, CloudTerm{Label: c.Label, Count: c.Count})
	}
	normaliseWeights(terms, cohortCloudMin, cohortCloudMax)
	return terms, nil
}

// Frequencies returns the raw keyword frequency table for the cohort.
func (v *KeywordsView) Frequencies(ctx context.Context, cohort entities.Cohort, limit int) ([]entities.KeywordCount, error) {
	return v.keywords.Frequencies(ctx, cohort, limit)
}

// PersonCloud builds a term cloud from one session's aggregated
// testimony text, by plain term frequency.
func (v *KeywordsView) PersonCloud(ctx context.Context, interviewCode int64) ([]CloudTerm, error) {
	text, err := v.testimonies.AggregatedText(ctx, interviewCode)
	if err != nil {
		return nil, err
	}

	perTerm := map[string]int{}
	for _, word := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if !stopwords[word] {
			perTerm[word]++
		}
	}

	terms := make([]CloudTerm, 0, len(perTerm))
	for word, count := range perTerm {
		terms = append(terms, CloudTerm{Label: word, Count: count})
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Count != terms[j].Count {
			return terms[i].Count > terms[j].Count
		}
		return terms[i].Label < terms[j].Label
	})
	if len(terms) > personCloudTerms {
		terms = terms[:personCloudTerms]
	}
	normaliseWeights(terms, personCloudMin, personCloudMax)
	return terms, nil
}

// normaliseWeights maps counts linearly onto [vmin, vmax]. A uniform
// distribution carries no spread and maps everything to vmin.
func normaliseWeights(terms []CloudTerm, vmin, vmax int) {
	if len(terms) == 0 {
		return
	}
	lo, hi := terms[0].Count, terms[0].Count
	for _, t := range terms {
		if t.Count < lo {
			lo = t.Count
		}
		if t.Count > hi {
			hi = t.Count
		}
	}
	spread := hi - lo
	if spread == 0 {
		spread = 1
	}
	for i := range terms {
		span := float64(terms[i].Count-lo) / float64(spread)
		terms[i].Weight = vmin + int(span*float64(vmax-vmin))
	}
}
