package views

import (
	"context"

	"github.com/memorise/testimony-explorer/internal/domain/entities"
	"github.com/memorise/testimony-explorer/internal/domain/repositories"
)

// CohortCounter is the "N of M survivors (P%)" readout.
type CohortCounter struct {
	Selected int     `json:"selected"`
	Total    int     `json:"total"`
	Percent  float64 `json:"percent"`
}

// CounterView computes the cohort counter.
type CounterView struct {
	persons repositories.PersonRepository
}

// NewCounterView creates a new counter view
func NewCounterView(persons repositories.PersonRepository) *CounterView {
	return &CounterView{persons: persons}
}

// Count returns the cohort size against the archive total. An empty
// archive yields zero percent rather than dividing by zero.
func (v *CounterView) Count(ctx context.Context, cohort entities.Cohort) (CohortCounter, error) {
	total, err := v.persons.CountAll(ctx)
	if err != nil {
		return CohortCounter{}, err
	}

	selected := cohort.Size()
	if cohort.MatchesAll() {
		selected = total
	}

	c := CohortCounter{Selected: selected, Total: total}
	if total > 0 {
		c.Percent = 100 * float64(selected) / float64(total)
	}
	return c, nil
}
