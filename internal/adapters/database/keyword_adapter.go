package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/memorise/testimony-explorer/internal/domain/entities"
	"github.com/memorise/testimony-explorer/internal/domain/repositories"
	"github.com/memorise/testimony-explorer/internal/infrastructure/clients/sqlite"
	apperrors "github.com/memorise/testimony-explorer/pkg/errors"
)

// KeywordAdapter implements the KeywordRepository interface
type KeywordAdapter struct {
	client *sqlite.Client
	db     *goqu.Database
}

// NewKeywordAdapter creates a new keyword adapter
func NewKeywordAdapter(client *sqlite.Client) repositories.KeywordRepository {
	return &KeywordAdapter{
		client: client,
		db:     goqu.New("sqlite3", client.DB()),
	}
}

// Frequencies counts thematic keywords over the cohort. Geocoded
// keywords belong to the map layers and still-photograph tags are
// cataloguing noise; both are excluded here.
func (a *KeywordAdapter) Frequencies(ctx context.Context, cohort entities.Cohort, limit int) ([]entities.KeywordCount, error) {
	ds := a.db.Select(
		goqu.C("KeywordLabel"),
		goqu.L("COUNT(DISTINCT PIQPersonID)").As("cnt"),
		goqu.MIN("ParentLabel"),
		goqu.MIN("RootLabel"),
	).
		From("KeywordsTable").
		Where(
			goqu.C("Latitude").IsNull(),
			goqu.C("KeywordLabel").NotLike("%(stills)"),
		).
		GroupBy(goqu.C("KeywordLabel")).
		Order(goqu.C("cnt").Desc())
	if scope := cohortScope("PIQPersonID", cohort); scope != nil {
		ds = ds.Where(scope)
	}
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build keyword frequency query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("failed to count keywords", err)
	}
	defer rows.Close()

	var out []entities.KeywordCount
	for rows.Next() {
		var label string
		var count int
		var parent, root sql.NullString
		if err := rows.Scan(&label, &count, &parent, &root); err != nil {
			return nil, apperrors.NewStoreError("failed to scan keyword count", err)
		}
		out = append(out, entities.KeywordCount{
			Label:       label,
			Count:       count,
			ParentLabel: parent.String,
			RootLabel:   root.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("failed to count keywords", err)
	}
	return out, nil
}

// SearchLabels retrieves keyword suggestions whose label contains the query
func (a *KeywordAdapter) SearchLabels(ctx context.Context, q string, limit int) ([]entities.Keyword, error) {
	ds := a.db.Select("KeywordID", "KeywordLabel").
		From("KeywordsTable").
		Distinct().
		Where(goqu.C("KeywordLabel").Like("%" + q + "%")).
		Order(goqu.C("KeywordLabel").Asc())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build keyword search query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("failed to search keywords", err)
	}
	defer rows.Close()

	var out []entities.Keyword
	for rows.Next() {
		var kw entities.Keyword
		if err := rows.Scan(&kw.ID, &kw.Label); err != nil {
			return nil, apperrors.NewStoreError("failed to scan keyword", err)
		}
		out = append(out, kw)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("failed to search keywords", err)
	}
	return out, nil
}

// SearchPlaces retrieves geocoded keyword labels containing the query
func (a *KeywordAdapter) SearchPlaces(ctx context.Context, q string, limit int) ([]string, error) {
	ds := a.db.Select("KeywordLabel").
		From("KeywordsTable").
		Distinct().
		Where(
			goqu.C("Latitude").IsNotNull(),
			goqu.C("KeywordLabel").Like("%"+q+"%"),
		).
		Order(goqu.C("KeywordLabel").Asc())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build place search query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("failed to search places", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, apperrors.NewStoreError("failed to scan place label", err)
		}
		out = append(out, label)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("failed to search places", err)
	}
	return out, nil
}

// IDForLabel resolves a keyword label to one of its tag identifiers
func (a *KeywordAdapter) IDForLabel(ctx context.Context, label string) (string, error) {
	query, args, err := a.db.Select("KeywordID").
		From("KeywordsTable").
		Where(goqu.Ex{"KeywordLabel": label}).
		Limit(1).
		Prepared(true).
		ToSQL()
	if err != nil {
		return "", apperrors.NewInternalError("failed to build keyword lookup query", err)
	}

	var id string
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&id)
	if err == sql.ErrNoRows {
		return "", apperrors.NewNotFoundError(fmt.Sprintf("keyword %q not found", label))
	}
	if err != nil {
		return "", apperrors.NewStoreError("failed to look up keyword", err)
	}
	return id, nil
}
