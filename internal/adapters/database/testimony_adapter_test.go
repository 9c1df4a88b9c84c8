package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/memorise/testimony-explorer/pkg/errors"
)

func TestTestimonyAdapter_Segment(t *testing.T) {
	a := NewTestimonyAdapter(newTestArchive(t))

	segment, err := a.Segment(context.Background(), 101, 2)
	require.NoError(t, err)
	assert.Equal(t, "after liberation we walked home", segment.Text)
	assert.Equal(t, 2, segment.TapeNumber)
}

func TestTestimonyAdapter_SegmentNotFound(t *testing.T) {
	a := NewTestimonyAdapter(newTestArchive(t))

	_, err := a.Segment(context.Background(), 101, 9)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestTestimonyAdapter_Tapes(t *testing.T) {
	a := NewTestimonyAdapter(newTestArchive(t))

	tapes, err := a.Tapes(context.Background(), 101)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, tapes)
}

func TestTestimonyAdapter_AggregatedText(t *testing.T) {
	a := NewTestimonyAdapter(newTestArchive(t))

	text, err := a.AggregatedText(context.Background(), 101)
	require.NoError(t, err)
	assert.Contains(t, text, "forced march")
	assert.Contains(t, text, "liberation")
}
