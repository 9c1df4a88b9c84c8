package views

import (
	"context"
	"regexp"
	"sort"
	"strconv"

	"github.com/memorise/testimony-explorer/internal/domain/entities"
	"github.com/memorise/testimony-explorer/internal/domain/repositories"
)

// The birth-date field is free text. Years outside this window are
// treated as data errors and discarded from the histogram.
const (
	histogramMinYear = 1892
	histogramMaxYear = 1950
)

var yearPattern = regexp.MustCompile(`\b(18|19)\d{2}\b`)

// Slice is one category of an aggregate chart.
type Slice struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Percent  float64 `json:"percent"`
}

// YearBucket is one bar of the birth-year histogram.
type YearBucket struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// AggregatesView produces demographic breakdowns of a cohort.
type AggregatesView struct {
	persons repositories.PersonRepository
}

// NewAggregatesView creates a new aggregates view
func NewAggregatesView(persons repositories.PersonRepository) *AggregatesView {
	return &AggregatesView{persons: persons}
}

// Breakdown counts cohort members per category of a biographical
// dimension, with each category's share of the cohort.
func (v *AggregatesView) Breakdown(ctx context.Context, cohort entities.Cohort, dim repositories.Dimension) ([]Slice, error) {
	counts, err := v.persons.Aggregate(ctx, cohort, dim)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, c := range counts {
		total += c.Count
	}

	out := make([]Slice, 0, len(counts))
	for _, c := range counts {
		s := Slice{Category: c.Category, Count: c.Count}
		if total > 0 {
			s.Percent = 100 * float64(c.Count) / float64(total)
		}
		out = append(out, s)
	}
	return out, nil
}

// BirthYearHistogram buckets cohort members by the first plausible
// year found in their free-text birth date. Unparseable dates are
// dropped rather than failing the chart.
func (v *AggregatesView) BirthYearHistogram(ctx context.Context, cohort entities.Cohort) ([]YearBucket, error) {
	dates, err := v.persons.BirthDates(ctx, cohort)
	if err != nil {
		return nil, err
	}

	perYear := map[int]int{}
	for _, d := range dates {
		if year, ok := extractYear(d.Text); ok {
			perYear[year]++
		}
	}

	years := make([]int, 0, len(perYear))
	for y := range perYear {
		years = append(years, y)
	}
	sort.Ints(years)

	out := make([]YearBucket, 0, len(years))
	for _, y := range years {
		out = append(out, YearBucket{Year: y, Count: perYear[y]})
	}
	return out, nil
}

func extractYear(text string) (int, bool) {
	match := yearPattern.FindString(text)
	if match == "" {
		return 0, false
	}
	year, err := strconv.Atoi(match)
	if err != nil || year < histogramMinYear || year > histogramMaxYear {
		return 0, false
	}
	return year, true
}
