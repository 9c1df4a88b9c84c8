package database

import (
	"encoding/json"

	"github.com/doug-martin/goqu/v9"

	"github.com/memorise/testimony-explorer/internal/domain/entities"
)

// cohortScope restricts a query to cohort members on the given person
// ID column. The member set is bound as one JSON parameter and unpacked
// with json_each, which keeps the statement parameterized without
// running into the bind-variable cap on large cohorts. Returns nil for
// the unconstrained cohort.
func cohortScope(column string, cohort entities.Cohort) goqu.Expression {
	if cohort.MatchesAll() {
		return nil
	}
	ids := cohort.Members()
	if ids == nil {
		ids = []entities.PersonID{}
	}
	encoded, _ := json.Marshal(ids)
	return goqu.L(column+" IN (SELECT value FROM json_each(?))", string(encoded))
}
