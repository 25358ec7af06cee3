package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))

	val, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", val)

	_, ok, err = c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCacheWithClock(func() time.Time { return now })

	require.NoError(t, c.Set(ctx, "fx:USD:EUR", "0.92", 24*time.Hour))

	_, ok, err := c.Get(ctx, "fx:USD:EUR")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(24*time.Hour + time.Second)
	_, ok, err = c.Get(ctx, "fx:USD:EUR")
	require.NoError(t, err)
	assert.False(t, ok, "entry should expire after its TTL")
}

func TestMemoryCache_NoExpiryWhenTTLZero(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCacheWithClock(func() time.Time { return now })

	require.NoError(t, c.Set(ctx, "k", "v", 0))

	now = now.Add(1000 * time.Hour)
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}
