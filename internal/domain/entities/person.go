package entities

// PersonID identifies one biographical subject in the archive.
// The same person may own several interview sessions, which are keyed
// separately by InterviewCode.
type PersonID uint32

// Person represents one biographical subject. Rows are written once by
// the ingestion pipeline and never mutated by the explorer.
type Person struct {
	ID              PersonID
	InterviewCode   int64
	FullName        string
	Gender          string
	CityOfBirth     string
	CountryOfBirth  string
	DateOfBirth     string // free text, often only partially parseable
	ExperienceGroup string
	Language        string
	InterviewDate   string
	AvailableOnline bool
	PortraitURL     string
	Aliases         []string
}

// Relation is a named person the subject mentioned in the interview
// questionnaire (family members, rescuers, fellow prisoners).
type Relation struct {
	Relationship string
	Name         string
}
