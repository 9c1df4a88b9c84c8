package entities

import (
	"sort"
	"strconv"
	"strings"
)

// Supported bounds of the date-of-birth range facet. A range spanning
// the full bounds carries no information and compiles to no constraint.
const (
	MinBirthYear = 1892
	MaxBirthYear = 1945
)

// YearRange is an inclusive birth-year interval.
type YearRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// IsFull reports whether the range equals the full supported bounds.
func (r YearRange) IsFull() bool {
	return r.From <= MinBirthYear && r.To >= MaxBirthYear
}

// FacetState holds the current value of every independent filter facet.
// The zero value means "no filter applied"; each empty facet compiles to
// no constraint, never to a constraint that matches nothing.
type FacetState struct {
	Gender      string           `json:"gender,omitempty"`
	Languages   []string         `json:"languages,omitempty"`
	Countries   []string         `json:"countries,omitempty"`
	Experience  string           `json:"experience,omitempty"`
	BirthYears  *YearRange       `json:"birthYears,omitempty"`
	KeywordIDs  []string         `json:"keywordIds,omitempty"`
	Answers     []QuestionAnswer `json:"answers,omitempty"`
	Place       string           `json:"place,omitempty"`
	SearchTerms []string         `json:"searchTerms,omitempty"`
	OnlineOnly  bool             `json:"onlineOnly,omitempty"`
}

// IsEmpty reports whether no facet constrains the cohort.
func (f FacetState) IsEmpty() bool {
	return f.Gender == "" &&
		len(f.Languages) == 0 &&
		len(f.Countries) == 0 &&
		f.Experience == "" &&
		(f.BirthYears == nil || f.BirthYears.IsFull()) &&
		len(f.KeywordIDs) == 0 &&
		len(f.Answers) == 0 &&
		f.Place == "" &&
		len(f.SearchTerms) == 0 &&
		!f.OnlineOnly
}

// Key returns a canonical representation of the facet tuple. Multi-value
// facets are sorted so that selection order does not produce distinct
// keys. Two facet states with equal keys resolve to identical cohorts.
func (f FacetState) Key() string {
	var b strings.Builder

	writeSet := func(tag string, values []string) {
		b.WriteString(tag)
		b.WriteByte('=')
		if len(values) > 0 {
			sorted := make([]string, len(values))
			copy(sorted, values)
			sort.Strings(sorted)
			b.WriteString(strings.Join(sorted, "\x1f"))
		}
		b.WriteByte('\x1e')
	}

	b.WriteString("g=")
	b.WriteString(f.Gender)
	b.WriteByte('\x1e')
	writeSet("l", f.Languages)
	writeSet("c", f.Countries)
	b.WriteString("e=")
	b.WriteString(f.Experience)
	b.WriteByte('\x1e')
	b.WriteString("y=")
	if f.BirthYears != nil && !f.BirthYears.IsFull() {
		b.WriteString(strconv.Itoa(f.BirthYears.From))
		b.WriteByte('-')
		b.WriteString(strconv.Itoa(f.BirthYears.To))
	}
	b.WriteByte('\x1e')
	writeSet("k", f.KeywordIDs)
	pairs := make([]string, 0, len(f.Answers))
	for _, qa := range f.Answers {
		pairs = append(pairs, qa.Question+"\x1d"+qa.Answer)
	}
	writeSet("a", pairs)
	b.WriteString("p=")
	b.WriteString(f.Place)
	b.WriteByte('\x1e')
	writeSet("t", f.SearchTerms)
	b.WriteString("o=")
	if f.OnlineOnly {
		b.WriteByte('1')
	}
	b.WriteByte('\x1e')

	return b.String()
}
