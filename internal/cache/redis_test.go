package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"track_swiftly/internal/config"
	"track_swiftly/internal/models"
)

func TestDisabledCache(t *testing.T) {
	store, err := NewRedisCache(config.RedisConfig{Enabled: false})
	require.NoError(t, err)
	assert.False(t, store.Enabled())

	ctx := context.Background()
	var v string
	assert.ErrorIs(t, store.Get(ctx, "k", &v), ErrMiss)
	assert.NoError(t, store.Set(ctx, "k", "v"))
	written, err := store.SetIfAbsent(ctx, "k", "v")
	assert.NoError(t, err)
	assert.False(t, written)
	assert.NoError(t, store.Delete(ctx, "k"))
	assert.NoError(t, store.Close())
}

func TestTrackingCacheDisabledAlwaysMisses(t *testing.T) {
	tc := NewTrackingCache(Disabled())
	ctx := context.Background()

	tc.Store(ctx, &models.Package{TrackingNumber: "TS1"})
	tc.Fill(ctx, &models.Package{TrackingNumber: "TS1"})
	_, ok := tc.Package(ctx, "TS1")
	assert.False(t, ok)
	tc.Forget(ctx, "TS1")
}

func TestTrackingKey(t *testing.T) {
	assert.Equal(t, "tracking:TS000111222", TrackingKey("TS000111222"))
}
