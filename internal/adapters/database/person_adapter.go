package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"

	"github.com/memorise/testimony-explorer/internal/domain/entities"
	"github.com/memorise/testimony-explorer/internal/domain/repositories"
	"github.com/memorise/testimony-explorer/internal/infrastructure/clients/sqlite"
	apperrors "github.com/memorise/testimony-explorer/pkg/errors"
)

var personColumns = []interface{}{
	"PIQPersonID", "IntCode", "FullName", "Gender", "CityOfBirth",
	"CountryOfBirth", "DateOfBirth", "ExperienceGroup", "LanguageLabel",
	"InterviewDate", "InVHAOnline", "ImageURL", "Aliases",
}

var aggregateDimensions = map[repositories.Dimension]bool{
	repositories.DimensionGender:     true,
	repositories.DimensionCountry:    true,
	repositories.DimensionLanguage:   true,
	repositories.DimensionExperience: true,
}

// PersonAdapter implements the PersonRepository interface
type PersonAdapter struct {
	client *sqlite.Client
	db     *goqu.Database
}

// NewPersonAdapter creates a new person adapter
func NewPersonAdapter(client *sqlite.Client) repositories.PersonRepository {
	return &PersonAdapter{
		client: client,
		db:     goqu.New("sqlite3", client.DB()),
	}
}

// GetByID retrieves a person by person identifier
func (a *PersonAdapter) GetByID(ctx context.Context, id entities.PersonID) (*entities.Person, error) {
	return a.getByField(ctx, "PIQPersonID", int64(id))
}

// GetByInterviewCode retrieves a person by interview session code
func (a *PersonAdapter) GetByInterviewCode(ctx context.Context, code int64) (*entities.Person, error) {
	return a.getByField(ctx, "IntCode", code)
}

func (a *PersonAdapter) getByField(ctx context.Context, field string, value int64) (*entities.Person, error) {
	query, args, err := a.db.Select(personColumns...).
		From("BioTable").
		Where(goqu.Ex{field: value}).
		Limit(1).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build person query", err)
	}

	person, err := scanPerson(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("person with %s %d not found", field, value))
	}
	if err != nil {
		return nil, apperrors.NewStoreError("failed to get person", err)
	}
	return person, nil
}

// ListByIDs retrieves the persons for a page of cohort members,
// preserving the requested order
func (a *PersonAdapter) ListByIDs(ctx context.Context, ids []entities.PersonID) ([]*entities.Person, error) {
	if len(ids) == 0 {
		return []*entities.Person{}, nil
	}

	values := make([]int64, 0, len(ids))
	for _, id := range ids {
		values = append(values, int64(id))
	}

	query, args, err := a.db.Select(personColumns...).
		From("BioTable").
		Where(goqu.Ex{"PIQPersonID": values}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build person page query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("failed to list persons", err)
	}
	defer rows.Close()

	byID := make(map[entities.PersonID]*entities.Person, len(ids))
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, apperrors.NewStoreError("failed to scan person", err)
		}
		// A person may hold several session rows; keep the first.
		if _, seen := byID[person.ID]; !seen {
			byID[person.ID] = person
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("failed to list persons", err)
	}

	ordered := make([]*entities.Person, 0, len(ids))
	for _, id := range ids {
		if person, ok := byID[id]; ok {
			ordered = append(ordered, person)
		}
	}
	return ordered, nil
}

// SearchByName retrieves persons whose full name contains the query
func (a *PersonAdapter) SearchByName(ctx context.Context, q string) ([]*entities.Person, error) {
	query, args, err := a.db.Select(personColumns...).
		From("BioTable").
		Where(goqu.C("FullName").Like("%" + q + "%")).
		Order(goqu.C("FullName").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build name search query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("failed to search persons", err)
	}
	defer rows.Close()

	var persons []*entities.Person
	seen := map[entities.PersonID]bool{}
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, apperrors.NewStoreError("failed to scan person", err)
		}
		if !seen[person.ID] {
			seen[person.ID] = true
			persons = append(persons, person)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("failed to search persons", err)
	}
	return persons, nil
}

// AllIDs returns every distinct person identifier in ascending order
func (a *PersonAdapter) AllIDs(ctx context.Context) ([]entities.PersonID, error) {
	query, args, err := a.db.Select("PIQPersonID").
		From("BioTable").
		Distinct().
		Order(goqu.C("PIQPersonID").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build person id query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("failed to list person ids", err)
	}
	defer rows.Close()

	var out []entities.PersonID
	for rows.Next() {
		var id uint32
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewStoreError("failed to scan person id", err)
		}
		out = append(out, entities.PersonID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("failed to list person ids", err)
	}
	return out, nil
}

// CountAll returns the number of distinct persons in the archive
func (a *PersonAdapter) CountAll(ctx context.Context) (int, error) {
	return a.countWhere(ctx, nil)
}

// CountBornIn returns how many persons name the place as city of birth
func (a *PersonAdapter) CountBornIn(ctx context.Context, place string) (int, error) {
	return a.countWhere(ctx, goqu.C("CityOfBirth").Eq(place))
}

func (a *PersonAdapter) countWhere(ctx context.Context, cond goqu.Expression) (int, error) {
	ds := a.db.Select(goqu.L("COUNT(DISTINCT PIQPersonID)")).From("BioTable")
	if cond != nil {
		ds = ds.Where(cond)
	}
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build count query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.NewStoreError("failed to count persons", err)
	}
	return count, nil
}

// Aggregate counts cohort members grouped by a biographical dimension
func (a *PersonAdapter) Aggregate(ctx context.Context, cohort entities.Cohort, dim repositories.Dimension) ([]repositories.CategoryCount, error) {
	if !aggregateDimensions[dim] {
		return nil, apperrors.NewValidationError(fmt.Sprintf("cannot aggregate by %q", dim))
	}

	ds := a.db.Select(goqu.C(string(dim)), goqu.L("COUNT(DISTINCT PIQPersonID)").As("cnt")).
		From("BioTable").
		GroupBy(goqu.C(string(dim))).
		Order(goqu.C("cnt").Desc())
	if scope := cohortScope("PIQPersonID", cohort); scope != nil {
		ds = ds.Where(scope)
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build aggregate query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("failed to aggregate persons", err)
	}
	defer rows.Close()

	var out []repositories.CategoryCount
	for rows.Next() {
		var category sql.NullString
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, apperrors.NewStoreError("failed to scan aggregate row", err)
		}
		out = append(out, repositories.CategoryCount{Category: category.String, Count: count})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("failed to aggregate persons", err)
	}
	return out, nil
}

// BirthDates returns the raw date-of-birth text for cohort members
func (a *PersonAdapter) BirthDates(ctx context.Context, cohort entities.Cohort) ([]repositories.BirthDate, error) {
	ds := a.db.Select("PIQPersonID", "DateOfBirth").From("BioTable").Distinct()
	if scope := cohortScope("PIQPersonID", cohort); scope != nil {
		ds = ds.Where(scope)
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build birth-date query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("failed to fetch birth dates", err)
	}
	defer rows.Close()

	var out []repositories.BirthDate
	for rows.Next() {
		var id uint32
		var text sql.NullString
		if err := rows.Scan(&id, &text); err != nil {
			return nil, apperrors.NewStoreError("failed to scan birth date", err)
		}
		out = append(out, repositories.BirthDate{PersonID: entities.PersonID(id), Text: text.String})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("failed to fetch birth dates", err)
	}
	return out, nil
}

// ExperienceGroups counts distinct persons per experience group over
// the whole archive
func (a *PersonAdapter) ExperienceGroups(ctx context.Context) ([]repositories.CategoryCount, error) {
	return a.Aggregate(ctx, entities.Everyone(), repositories.DimensionExperience)
}

// Countries returns the distinct countries of birth
func (a *PersonAdapter) Countries(ctx context.Context) ([]string, error) {
	query, args, err := a.db.Select("CountryOfBirth").
		From("BioTable").
		Distinct().
		Where(goqu.C("CountryOfBirth").IsNotNull(), goqu.C("CountryOfBirth").Neq("")).
		Order(goqu.C("CountryOfBirth").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build country query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("failed to list countries", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var country string
		if err := rows.Scan(&country); err != nil {
			return nil, apperrors.NewStoreError("failed to scan country", err)
		}
		out = append(out, country)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("failed to list countries", err)
	}
	return out, nil
}

// Relations returns the named relations recorded for a session
func (a *PersonAdapter) Relations(ctx context.Context, interviewCode int64) ([]entities.Relation, error) {
	query, args, err := a.db.Select("Relationship", "RelationName").
		From("PeopleTable").
		Where(goqu.Ex{"IntCode": interviewCode}).
		Order(goqu.C("Relationship").Asc(), goqu.C("RelationName").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build relations query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("failed to fetch relations", err)
	}
	defer rows.Close()

	var out []entities.Relation
	for rows.Next() {
		var relationship, name sql.NullString
		if err := rows.Scan(&relationship, &name); err != nil {
			return nil, apperrors.NewStoreError("failed to scan relation", err)
		}
		if name.String == "" {
			continue
		}
		out = append(out, entities.Relation{Relationship: relationship.String, Name: name.String})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("failed to fetch relations", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPerson(row rowScanner) (*entities.Person, error) {
	var (
		id            int64
		intCode       sql.NullInt64
		fullName      sql.NullString
		gender        sql.NullString
		city          sql.NullString
		country       sql.NullString
		dob           sql.NullString
		experience    sql.NullString
		language      sql.NullString
		interviewDate sql.NullString
		online        sql.NullString
		imageURL      sql.NullString
		aliases       sql.NullString
	)

	err := row.Scan(&id, &intCode, &fullName, &gender, &city, &country, &dob,
		&experience, &language, &interviewDate, &online, &imageURL, &aliases)
	if err != nil {
		return nil, err
	}

	return &entities.Person{
		ID:              entities.PersonID(id),
		InterviewCode:   intCode.Int64,
		FullName:        fullName.String,
		Gender:          gender.String,
		CityOfBirth:     city.String,
		CountryOfBirth:  country.String,
		DateOfBirth:     dob.String,
		ExperienceGroup: experience.String,
		Language:        language.String,
		InterviewDate:   interviewDate.String,
		AvailableOnline: online.String == "True",
		PortraitURL:     imageURL.String,
		Aliases:         parseAliases(aliases.String),
	}, nil
}

// parseAliases unpacks the ingestion pipeline's stringified alias list,
// e.g. `['Miriam W', 'Mira Wolf']`. Anything unparseable is ignored.
func parseAliases(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "None" || raw == "[]" {
		return nil
	}
	raw = strings.Trim(raw, "[]")

	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.Trim(strings.TrimSpace(part), `'"`)
		if part != "" && part != "None" {
			out = append(out, part)
		}
	}
	return out
}
