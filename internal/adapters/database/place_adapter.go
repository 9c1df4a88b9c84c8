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

// Questionnaire questions backing each place category.
const (
	questionCamps      = "Camp(s)"
	questionGhettos    = "Ghetto(s)"
	questionLiberation = "Location of Liberation"
	questionHiding     = "Hiding or Living under False Identity (Location)"
)

// PlaceAdapter implements the PlaceRepository interface. Places are
// keyword labels carrying coordinates; the category determines which
// bio column or questionnaire question the label is joined through.
type PlaceAdapter struct {
	client *sqlite.Client
	db     *goqu.Database
}

// NewPlaceAdapter creates a new place adapter
func NewPlaceAdapter(client *sqlite.Client) repositories.PlaceRepository {
	return &PlaceAdapter{
		client: client,
		db:     goqu.New("sqlite3", client.DB()),
	}
}

// Trace aggregates per-place mention counts for one category
func (a *PlaceAdapter) Trace(ctx context.Context, cohort entities.Cohort, category repositories.PlaceCategory) ([]entities.PlaceCount, error) {
	var ds *goqu.SelectDataset
	switch category {
	case repositories.PlaceBirth:
		ds = a.db.Select(
			goqu.I("k.KeywordLabel"),
			goqu.L("MIN(k.Latitude)"),
			goqu.L("MIN(k.Longitude)"),
			goqu.L("COUNT(DISTINCT b.PIQPersonID)").As("cnt"),
		).
			From(goqu.T("BioTable").As("b")).
			Join(goqu.T("KeywordsTable").As("k"),
				goqu.On(goqu.I("b.CityOfBirth").Eq(goqu.I("k.KeywordLabel")))).
			Where(goqu.I("k.Latitude").IsNotNull()).
			GroupBy(goqu.I("k.KeywordLabel"))
		if scope := cohortScope("b.PIQPersonID", cohort); scope != nil {
			ds = ds.Where(scope)
		}

	case repositories.PlaceGhetto:
		ds = a.questionTrace(cohort, questionGhettos, nil)
	case repositories.PlaceLiberation:
		ds = a.questionTrace(cohort, questionLiberation, nil)
	case repositories.PlaceHiding:
		ds = a.questionTrace(cohort, questionHiding, nil)
	case repositories.PlaceDeathCamp:
		ds = a.questionTrace(cohort, questionCamps,
			goqu.I("k.KeywordLabel").Like("%Death Camp%"))
	case repositories.PlaceConcentration:
		// The archive spells the category both ways.
		ds = a.questionTrace(cohort, questionCamps, goqu.Or(
			goqu.I("k.KeywordLabel").Like("%Concentration Camp%"),
			goqu.I("k.KeywordLabel").Like("%Concentation Camp%"),
		))
	case repositories.PlaceInternment:
		ds = a.questionTrace(cohort, questionCamps,
			goqu.I("k.KeywordLabel").Like("%Internment Camp%"))
	case repositories.PlacePOW:
		ds = a.questionTrace(cohort, questionCamps,
			goqu.I("k.KeywordLabel").Like("%POW%"))
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown place category %q", category))
	}

	query, args, err := ds.Order(goqu.C("cnt").Desc()).Prepared(true).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build place trace query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("failed to trace places", err)
	}
	defer rows.Close()

	var out []entities.PlaceCount
	for rows.Next() {
		var pc entities.PlaceCount
		if err := rows.Scan(&pc.Label, &pc.Latitude, &pc.Longitude, &pc.Count); err != nil {
			return nil, apperrors.NewStoreError("failed to scan place count", err)
		}
		out = append(out, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("failed to trace places", err)
	}
	return out, nil
}

func (a *PlaceAdapter) questionTrace(cohort entities.Cohort, question string, labelCond goqu.Expression) *goqu.SelectDataset {
	ds := a.db.Select(
		goqu.I("k.KeywordLabel"),
		goqu.L("MIN(k.Latitude)"),
		goqu.L("MIN(k.Longitude)"),
		goqu.L("COUNT(DISTINCT q.PIQPersonID)").As("cnt"),
	).
		From(goqu.T("QuestionsTable").As("q")).
		Join(goqu.T("KeywordsTable").As("k"),
			goqu.On(goqu.I("q.Answer").Eq(goqu.I("k.KeywordLabel")))).
		Where(
			goqu.I("q.QuestionText").Eq(question),
			goqu.I("k.Latitude").IsNotNull(),
		).
		GroupBy(goqu.I("k.KeywordLabel"))
	if labelCond != nil {
		ds = ds.Where(labelCond)
	}
	if scope := cohortScope("q.PIQPersonID", cohort); scope != nil {
		ds = ds.Where(scope)
	}
	return ds
}

// VisitedBy returns the geocoded places one session mentions,
// birthplace first when available
func (a *PlaceAdapter) VisitedBy(ctx context.Context, interviewCode int64) ([]repositories.PlaceVisit, error) {
	query, args, err := a.db.Select(
		goqu.I("q.QuestionText"),
		goqu.I("q.Answer"),
		goqu.I("k.Latitude"),
		goqu.I("k.Longitude"),
	).
		Distinct().
		From(goqu.T("QuestionsTable").As("q")).
		Join(goqu.T("KeywordsTable").As("k"),
			goqu.On(goqu.I("q.Answer").Eq(goqu.I("k.KeywordLabel")))).
		Where(
			goqu.I("q.IntCode").Eq(interviewCode),
			goqu.I("k.Latitude").IsNotNull(),
		).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build visited-places query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("failed to fetch visited places", err)
	}
	defer rows.Close()

	var visits []repositories.PlaceVisit
	for rows.Next() {
		var question, label string
		var lat, lon float64
		if err := rows.Scan(&question, &label, &lat, &lon); err != nil {
			return nil, apperrors.NewStoreError("failed to scan visited place", err)
		}
		visits = append(visits, repositories.PlaceVisit{
			Label:     label,
			Latitude:  lat,
			Longitude: lon,
			Category:  visitCategory(question, label),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("failed to fetch visited places", err)
	}

	birthplace, err := a.birthplaceOf(ctx, interviewCode)
	if err != nil {
		return nil, err
	}
	if birthplace != nil {
		visits = append([]repositories.PlaceVisit{*birthplace}, visits...)
	}
	return visits, nil
}

func (a *PlaceAdapter) birthplaceOf(ctx context.Context, interviewCode int64) (*repositories.PlaceVisit, error) {
	query, args, err := a.db.Select(
		goqu.I("b.CityOfBirth"),
		goqu.I("k.Latitude"),
		goqu.I("k.Longitude"),
	).
		From(goqu.T("BioTable").As("b")).
		Join(goqu.T("KeywordsTable").As("k"),
			goqu.On(goqu.I("b.CityOfBirth").Eq(goqu.I("k.KeywordLabel")))).
		Where(
			goqu.I("b.IntCode").Eq(interviewCode),
			goqu.I("k.Latitude").IsNotNull(),
		).
		Limit(1).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build birthplace query", err)
	}

	var label string
	var lat, lon float64
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&label, &lat, &lon)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewStoreError("failed to fetch birthplace", err)
	}
	return &repositories.PlaceVisit{
		Label:     label,
		Latitude:  lat,
		Longitude: lon,
		Category:  repositories.PlaceBirth,
	}, nil
}

func visitCategory(question, label string) repositories.PlaceCategory {
	switch question {
	case questionGhettos:
		return repositories.PlaceGhetto
	case questionLiberation:
		return repositories.PlaceLiberation
	case questionHiding:
		return repositories.PlaceHiding
	case questionCamps:
		switch {
		case strings.Contains(label, "Death Camp"):
			return repositories.PlaceDeathCamp
		case strings.Contains(label, "Internment Camp"):
			return repositories.PlaceInternment
		case strings.Contains(label, "POW"):
			return repositories.PlacePOW
		default:
			return repositories.PlaceConcentration
		}
	}
	// Geocoded answers to other questions render as plain markers.
	return ""
}
