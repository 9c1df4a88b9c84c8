package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memorise/testimony-explorer/internal/domain/entities"
	apperrors "github.com/memorise/testimony-explorer/pkg/errors"
)

func TestKeywordAdapter_FrequenciesExcludePlacesAndStills(t *testing.T) {
	a := NewKeywordAdapter(newTestArchive(t))

	counts, err := a.Frequencies(context.Background(), entities.Everyone(), 0)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, "forced marches", counts[0].Label)
	assert.Equal(t, 2, counts[0].Count)
	assert.Equal(t, "camp life", counts[0].ParentLabel)
	assert.Equal(t, "ghetto life", counts[1].Label)
	assert.Equal(t, 1, counts[1].Count)
}

func TestKeywordAdapter_FrequenciesScopedToCohort(t *testing.T) {
	a := NewKeywordAdapter(newTestArchive(t))

	counts, err := a.Frequencies(context.Background(), entities.NewCohort(1), 0)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, "forced marches", counts[0].Label)
	assert.Equal(t, 1, counts[0].Count)
}

func TestKeywordAdapter_FrequenciesHonourLimit(t *testing.T) {
	a := NewKeywordAdapter(newTestArchive(t))

	counts, err := a.Frequencies(context.Background(), entities.Everyone(), 1)
	require.NoError(t, err)
	assert.Len(t, counts, 1)
}

func TestKeywordAdapter_SearchLabels(t *testing.T) {
	a := NewKeywordAdapter(newTestArchive(t))

	keywords, err := a.SearchLabels(context.Background(), "march", 10)
	require.NoError(t, err)
	require.Len(t, keywords, 1)
	assert.Equal(t, "9001", keywords[0].ID)
	assert.Equal(t, "forced marches", keywords[0].Label)
}

func TestKeywordAdapter_SearchPlacesOnlyGeocoded(t *testing.T) {
	a := NewKeywordAdapter(newTestArchive(t))

	places, err := a.SearchPlaces(context.Background(), "Poland", 10)
	require.NoError(t, err)
	assert.Contains(t, places, "Warsaw (Poland)")
	assert.NotContains(t, places, "ghetto life")
}

func TestKeywordAdapter_IDForLabel(t *testing.T) {
	a := NewKeywordAdapter(newTestArchive(t))

	id, err := a.IDForLabel(context.Background(), "ghetto life")
	require.NoError(t, err)
	assert.Equal(t, "9002", id)

	_, err = a.IDForLabel(context.Background(), "no such keyword")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}
