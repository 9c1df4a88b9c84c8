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

// QuestionAdapter implements the QuestionRepository interface
type QuestionAdapter struct {
	client *sqlite.Client
	db     *goqu.Database
}

// NewQuestionAdapter creates a new question adapter
func NewQuestionAdapter(client *sqlite.Client) repositories.QuestionRepository {
	return &QuestionAdapter{
		client: client,
		db:     goqu.New("sqlite3", client.DB()),
	}
}

// QuestionsFor returns the distinct question texts answered by anyone
// in the cohort
func (a *QuestionAdapter) QuestionsFor(ctx context.Context, cohort entities.Cohort) ([]string, error) {
	ds := a.db.Select("QuestionText").
		From("QuestionsTable").
		Distinct().
		Order(goqu.C("QuestionText").Asc())
	if scope := cohortScope("PIQPersonID", cohort); scope != nil {
		ds = ds.Where(scope)
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build question list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("failed to list questions", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, apperrors.NewStoreError("failed to scan question", err)
		}
		out = append(out, text)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("failed to list questions", err)
	}
	return out, nil
}

// Breakdown counts cohort answers to one question, optionally split by
// a biographical dimension. The free-text birth-date column cannot be
// grouped meaningfully, so that dimension degrades to an unsplit count.
func (a *QuestionAdapter) Breakdown(ctx context.Context, cohort entities.Cohort, question string, dim repositories.Dimension) ([]repositories.AnswerBucket, error) {
	split := dim != "" && dim != repositories.DimensionBirthDate
	if split && !aggregateDimensions[dim] {
		return nil, apperrors.NewValidationError(fmt.Sprintf("cannot split answers by %q", dim))
	}

	var ds *goqu.SelectDataset
	if split {
		ds = a.db.Select(
			goqu.I("q.Answer"),
			goqu.I("b."+string(dim)),
			goqu.L("COUNT(DISTINCT q.PIQPersonID)").As("cnt"),
		).
			From(goqu.T("QuestionsTable").As("q")).
			Join(goqu.T("BioTable").As("b"),
				goqu.On(goqu.I("q.PIQPersonID").Eq(goqu.I("b.PIQPersonID")))).
			Where(goqu.I("q.QuestionText").Eq(question)).
			GroupBy(goqu.I("q.Answer"), goqu.I("b."+string(dim)))
	} else {
		ds = a.db.Select(
			goqu.I("q.Answer"),
			goqu.L("''"),
			goqu.L("COUNT(DISTINCT q.PIQPersonID)").As("cnt"),
		).
			From(goqu.T("QuestionsTable").As("q")).
			Where(goqu.I("q.QuestionText").Eq(question)).
			GroupBy(goqu.I("q.Answer"))
	}
	ds = ds.Order(goqu.C("cnt").Desc())
	if scope := cohortScope("q.PIQPersonID", cohort); scope != nil {
		ds = ds.Where(scope)
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build answer breakdown query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("failed to break down answers", err)
	}
	defer rows.Close()

	var out []repositories.AnswerBucket
	for rows.Next() {
		var answer, category sql.NullString
		var count int
		if err := rows.Scan(&answer, &category, &count); err != nil {
			return nil, apperrors.NewStoreError("failed to scan answer bucket", err)
		}
		out = append(out, repositories.AnswerBucket{
			Answer:   answer.String,
			Category: category.String,
			Count:    count,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("failed to break down answers", err)
	}
	return out, nil
}

// AnswersForPerson returns every question/answer pair for a person
func (a *QuestionAdapter) AnswersForPerson(ctx context.Context, id entities.PersonID) ([]entities.Answer, error) {
	query, args, err := a.db.Select("PIQPersonID", "IntCode", "QuestionText", "Answer").
		From("QuestionsTable").
		Where(goqu.Ex{"PIQPersonID": int64(id)}).
		Order(goqu.C("QuestionText").Asc(), goqu.C("Answer").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build person answers query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("failed to fetch answers", err)
	}
	defer rows.Close()

	var out []entities.Answer
	for rows.Next() {
		var personID int64
		var intCode sql.NullInt64
		var question, text sql.NullString
		if err := rows.Scan(&personID, &intCode, &question, &text); err != nil {
			return nil, apperrors.NewStoreError("failed to scan answer", err)
		}
		out = append(out, entities.Answer{
			PersonID:      entities.PersonID(personID),
			InterviewCode: intCode.Int64,
			Question:      question.String,
			Text:          text.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("failed to fetch answers", err)
	}
	return out, nil
}

// SearchPairs retrieves question/answer suggestions where either side
// contains the query
func (a *QuestionAdapter) SearchPairs(ctx context.Context, q string, limit int) ([]entities.QuestionAnswer, error) {
	pattern := "%" + q + "%"
	ds := a.db.Select("QuestionText", "Answer").
		From("QuestionsTable").
		Distinct().
		Where(goqu.Or(
			goqu.C("QuestionText").Like(pattern),
			goqu.C("Answer").Like(pattern),
		)).
		Order(goqu.C("QuestionText").Asc(), goqu.C("Answer").Asc())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build answer search query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("failed to search answers", err)
	}
	defer rows.Close()

	var out []entities.QuestionAnswer
	for rows.Next() {
		var qa entities.QuestionAnswer
		if err := rows.Scan(&qa.Question, &qa.Answer); err != nil {
			return nil, apperrors.NewStoreError("failed to scan answer pair", err)
		}
		out = append(out, qa)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("failed to search answers", err)
	}
	return out, nil
}

// CountsForAnswer counts, per question, the distinct persons whose
// answer equals the given text
func (a *QuestionAdapter) CountsForAnswer(ctx context.Context, answer string) ([]entities.QuestionCount, error) {
	query, args, err := a.db.Select(
		goqu.C("QuestionText"),
		goqu.L("COUNT(DISTINCT PIQPersonID)").As("cnt"),
	).
		From("QuestionsTable").
		Where(goqu.Ex{"Answer": answer}).
		GroupBy(goqu.C("QuestionText")).
		Order(goqu.C("cnt").Desc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build answer count query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("failed to count answers", err)
	}
	defer rows.Close()

	var out []entities.QuestionCount
	for rows.Next() {
		var qc entities.QuestionCount
		if err := rows.Scan(&qc.Question, &qc.Count); err != nil {
			return nil, apperrors.NewStoreError("failed to scan answer count", err)
		}
		out = append(out, qc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("failed to count answers", err)
	}
	return out, nil
}
