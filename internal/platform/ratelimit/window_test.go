package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryWindow_FixedWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	w := NewMemoryWindow(2, 10*time.Second)
	w.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := w.Take(ctx, "client")
		require.NoError(t, err)
		require.True(t, res.Allowed)
	}

	now = now.Add(4 * time.Second)
	res, err := w.Take(ctx, "client")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 6*time.Second, res.ResetIn)

	res, err = w.Take(ctx, "other")
	require.NoError(t, err)
	assert.True(t, res.Allowed, "keys are limited independently")

	now = now.Add(6 * time.Second)
	res, err = w.Take(ctx, "client")
	require.NoError(t, err)
	assert.True(t, res.Allowed, "a new window starts once the old one ends")
}

func TestMemoryWindow_SweepsExpiredCounters(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	w := NewMemoryWindow(1, time.Second)
	w.now = func() time.Time { return now }

	for _, key := range []string{"a", "b", "c"} {
		_, err := w.Take(context.Background(), key)
		require.NoError(t, err)
	}
	now = now.Add(2 * time.Second)
	_, err := w.Take(context.Background(), "d")
	require.NoError(t, err)
	require.Len(t, w.counters, 1)
}
