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

// TestimonyAdapter implements the TestimonyRepository interface
type TestimonyAdapter struct {
	client *sqlite.Client
	db     *goqu.Database
}

// NewTestimonyAdapter creates a new testimony adapter
func NewTestimonyAdapter(client *sqlite.Client) repositories.TestimonyRepository {
	return &TestimonyAdapter{
		client: client,
		db:     goqu.New("sqlite3", client.DB()),
	}
}

// Segment retrieves the transcript of one tape of a session
func (a *TestimonyAdapter) Segment(ctx context.Context, interviewCode int64, tapeNumber int) (*entities.TestimonySegment, error) {
	query, args, err := a.db.Select("TapeTestimony").
		From("TestimonyTable").
		Where(goqu.Ex{"IntCode": interviewCode, "TapeNumber": tapeNumber}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build testimony query", err)
	}

	var text sql.NullString
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&text)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(
			fmt.Sprintf("no testimony for session %d tape %d", interviewCode, tapeNumber))
	}
	if err != nil {
		return nil, apperrors.NewStoreError("failed to fetch testimony", err)
	}

	return &entities.TestimonySegment{
		InterviewCode: interviewCode,
		TapeNumber:    tapeNumber,
		Text:          text.String,
	}, nil
}

// Tapes lists the tape numbers recorded for a session
func (a *TestimonyAdapter) Tapes(ctx context.Context, interviewCode int64) ([]int, error) {
	query, args, err := a.db.Select("TapeNumber").
		From("TestimonyTable").
		Where(goqu.Ex{"IntCode": interviewCode}).
		Order(goqu.C("TapeNumber").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build tape list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("failed to list tapes", err)
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var tape int
		if err := rows.Scan(&tape); err != nil {
			return nil, apperrors.NewStoreError("failed to scan tape number", err)
		}
		out = append(out, tape)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("failed to list tapes", err)
	}
	return out, nil
}

// AggregatedText returns the full-text projection of a session's
// testimony. The ingestion pipeline concatenates each session's tapes
// into one full-text row, so this is a single lookup.
func (a *TestimonyAdapter) AggregatedText(ctx context.Context, interviewCode int64) (string, error) {
	query, args, err := a.db.Select("TapeTestimony").
		From("TestimonyTable_fts").
		Where(goqu.Ex{"IntCode": interviewCode}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return "", apperrors.NewInternalError("failed to build aggregated testimony query", err)
	}

	var text sql.NullString
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&text)
	if err == sql.ErrNoRows {
		return "", apperrors.NewNotFoundError(
			fmt.Sprintf("no testimony for session %d", interviewCode))
	}
	if err != nil {
		return "", apperrors.NewStoreError("failed to fetch aggregated testimony", err)
	}
	return text.String, nil
}
