package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memorise/testimony-explorer/internal/domain/entities"
	"github.com/memorise/testimony-explorer/internal/domain/repositories"
	apperrors "github.com/memorise/testimony-explorer/pkg/errors"
)

func TestPlaceAdapter_TraceBirthplaces(t *testing.T) {
	a := NewPlaceAdapter(newTestArchive(t))

	places, err := a.Trace(context.Background(), entities.Everyone(), repositories.PlaceBirth)
	require.NoError(t, err)
	require.Len(t, places, 3)
	for _, p := range places {
		assert.Equal(t, 1, p.Count)
		assert.NotZero(t, p.Latitude)
	}
}

func TestPlaceAdapter_TraceDeathCamps(t *testing.T) {
	a := NewPlaceAdapter(newTestArchive(t))

	places, err := a.Trace(context.Background(), entities.Everyone(), repositories.PlaceDeathCamp)
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "Auschwitz II-Birkenau (Poland : Death Camp)", places[0].Label)
}

func TestPlaceAdapter_TraceConcentrationCamps(t *testing.T) {
	a := NewPlaceAdapter(newTestArchive(t))

	places, err := a.Trace(context.Background(), entities.Everyone(), repositories.PlaceConcentration)
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "Dachau (Germany : Concentration Camp)", places[0].Label)
}

func TestPlaceAdapter_TraceScopedToCohort(t *testing.T) {
	a := NewPlaceAdapter(newTestArchive(t))

	places, err := a.Trace(context.Background(), entities.NewCohort(1), repositories.PlaceGhetto)
	require.NoError(t, err)
	assert.Empty(t, places)
}

func TestPlaceAdapter_TraceRejectsUnknownCategory(t *testing.T) {
	a := NewPlaceAdapter(newTestArchive(t))

	_, err := a.Trace(context.Background(), entities.Everyone(), "volcanoes")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestPlaceAdapter_VisitedByBirthplaceFirst(t *testing.T) {
	a := NewPlaceAdapter(newTestArchive(t))

	visits, err := a.VisitedBy(context.Background(), 102)
	require.NoError(t, err)
	require.NotEmpty(t, visits)
	assert.Equal(t, repositories.PlaceBirth, visits[0].Category)
	assert.Equal(t, "Warsaw (Poland)", visits[0].Label)

	labels := make([]string, 0, len(visits))
	for _, v := range visits {
		labels = append(labels, v.Label)
	}
	assert.Contains(t, labels, "Warsaw ghetto (Poland)")
	assert.Contains(t, labels, "Dachau (Germany : Concentration Camp)")
}

func TestPlaceAdapter_VisitedByUnknownSession(t *testing.T) {
	a := NewPlaceAdapter(newTestArchive(t))

	visits, err := a.VisitedBy(context.Background(), 999)
	require.NoError(t, err)
	assert.Empty(t, visits)
}
