package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memorise/testimony-explorer/internal/domain/providers"
)

func TestMemoryAdapter_RoundTrip(t *testing.T) {
	a := NewMemoryAdapter(8, time.Minute)
	ctx := context.Background()

	require.NoError(t, a.Set(ctx, "k", []byte("v"), 60))

	got, err := a.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	ok, err := a.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryAdapter_MissReturnsSentinel(t *testing.T) {
	a := NewMemoryAdapter(8, time.Minute)

	_, err := a.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}

func TestMemoryAdapter_Delete(t *testing.T) {
	a := NewMemoryAdapter(8, time.Minute)
	ctx := context.Background()

	require.NoError(t, a.Set(ctx, "k", []byte("v"), 60))
	require.NoError(t, a.Delete(ctx, "k"))

	_, err := a.Get(ctx, "k")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}

func TestMemoryAdapter_EvictsBeyondCapacity(t *testing.T) {
	a := NewMemoryAdapter(1, time.Minute)
	ctx := context.Background()

	require.NoError(t, a.Set(ctx, "first", []byte("1"), 60))
	require.NoError(t, a.Set(ctx, "second", []byte("2"), 60))

	_, err := a.Get(ctx, "first")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}
