package entities

// Keyword is a tag applied to a segment of an interview. A keyword with
// coordinates denotes a place; one without denotes a theme. The same
// label may be applied to many people, and the same KeywordID marks the
// same tag instance.
type Keyword struct {
	ID          string
	PersonID    PersonID
	Label       string
	Latitude    *float64
	Longitude   *float64
	ParentLabel string
	RootLabel   string
}

// IsPlace reports whether the keyword carries coordinates.
func (k Keyword) IsPlace() bool {
	return k.Latitude != nil && k.Longitude != nil
}

// KeywordCount is one row of a keyword frequency table.
type KeywordCount struct {
	Label       string
	Count       int
	ParentLabel string
	RootLabel   string
	// Weight is the count normalised into a display range for clouds.
	Weight int
}

// PlaceCount aggregates how many cohort members mention a place.
type PlaceCount struct {
	Label     string
	Latitude  float64
	Longitude float64
	Count     int
	// MarkerSize is Count bucketed into a fixed marker-size class.
	MarkerSize int
}
