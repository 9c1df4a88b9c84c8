package entities

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Cohort is the set of person identifiers matching the active facet
// combination. The unconstrained cohort ("everyone", no facet applied)
// is represented distinctly from an explicit empty result.
type Cohort struct {
	everyone bool
	ids      *roaring.Bitmap
}

// Everyone returns the unconstrained cohort.
func Everyone() Cohort {
	return Cohort{everyone: true}
}

// NewCohort builds an explicit cohort from the given person IDs.
// Duplicates collapse, so the degenerate duplicated-singleton encoding
// normalises to a proper single-member set.
func NewCohort(ids ...PersonID) Cohort {
	rb := roaring.New()
	for _, id := range ids {
		rb.Add(uint32(id))
	}
	return Cohort{ids: rb}
}

// CohortFromBitmap wraps an existing bitmap. The cohort takes ownership.
func CohortFromBitmap(rb *roaring.Bitmap) Cohort {
	if rb == nil {
		rb = roaring.New()
	}
	return Cohort{ids: rb}
}

// MatchesAll reports whether the cohort is the unconstrained one.
func (c Cohort) MatchesAll() bool {
	return c.everyone
}

// IsEmpty reports whether the cohort is an explicit empty result.
func (c Cohort) IsEmpty() bool {
	return !c.everyone && (c.ids == nil || c.ids.IsEmpty())
}

// Size returns the number of explicit members. It is zero for the
// unconstrained cohort; callers must check MatchesAll first.
func (c Cohort) Size() int {
	if c.everyone || c.ids == nil {
		return 0
	}
	return int(c.ids.GetCardinality())
}

// Contains reports whether the person is in the cohort.
func (c Cohort) Contains(id PersonID) bool {
	if c.everyone {
		return true
	}
	return c.ids != nil && c.ids.Contains(uint32(id))
}

// Members returns the explicit members in ascending order.
func (c Cohort) Members() []PersonID {
	if c.everyone || c.ids == nil {
		return nil
	}
	out := make([]PersonID, 0, c.ids.GetCardinality())
	it := c.ids.Iterator()
	for it.HasNext() {
		out = append(out, PersonID(it.Next()))
	}
	return out
}

// Bitmap returns a copy of the underlying bitmap. Nil for the
// unconstrained cohort; the zero-value cohort yields an empty bitmap.
func (c Cohort) Bitmap() *roaring.Bitmap {
	if c.everyone {
		return nil
	}
	if c.ids == nil {
		return roaring.New()
	}
	return c.ids.Clone()
}

// SubsetOf reports whether every member of c is also in other.
func (c Cohort) SubsetOf(other Cohort) bool {
	if other.everyone {
		return true
	}
	if c.everyone {
		return false
	}
	inter := roaring.And(c.ids, other.ids)
	return inter.GetCardinality() == c.ids.GetCardinality()
}
