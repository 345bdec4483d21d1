package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "io.winapps.jotly/internal/models/journal"
)

func TestLocalCache(t *testing.T) {
	c := NewLocalCache(time.Hour, time.Hour)
	ctx := context.Background()
	e := models.Entry{ID: "a", Mood: models.MoodHappy, Note: "n", Tags: []string{"x"}}

	require.NoError(t, c.FillEntry(ctx, e, 0))
	got, found, err := c.GetEntry(ctx, "a")
	require.NoError(t, err)
	require.True(t, found)
	got.Tags[0] = "mutated"

	again, _, _ := c.GetEntry(ctx, "a")
	assert.Equal(t, []string{"x"}, again.Tags)

	require.NoError(t, c.EvictEntry(ctx, "a"))
	_, found, _ = c.GetEntry(ctx, "a")
	assert.False(t, found)

	require.NoError(t, c.FillEntry(ctx, e, 0))
	_, found, _ = c.GetEntry(ctx, "a")
	assert.False(t, found, "fill with a version taken before the eviction")
	version, _ := c.EntryVersion(ctx, "a")
	require.NoError(t, c.FillEntry(ctx, e, version))
	_, found, _ = c.GetEntry(ctx, "a")
	assert.True(t, found)

	stats := []models.MoodCount{{Mood: models.MoodSad, Count: 4}}
	require.NoError(t, c.FillMoodStats(ctx, stats, 0))
	cached, found, _ := c.GetMoodStats(ctx)
	require.True(t, found)
	assert.Equal(t, stats, cached)

	require.NoError(t, c.InvalidateMoodStats(ctx))
	_, found, _ = c.GetMoodStats(ctx)
	assert.False(t, found)

	require.NoError(t, c.FillMoodStats(ctx, stats, 0))
	_, found, _ = c.GetMoodStats(ctx)
	assert.False(t, found)
}

func TestLocalCache_Expiry(t *testing.T) {
	c := NewLocalCache(10*time.Millisecond, 10*time.Millisecond)
	require.NoError(t, c.FillMoodStats(context.Background(), []models.MoodCount{}, 0))

	assert.Eventually(t, func() bool {
		_, found, _ := c.GetMoodStats(context.Background())
		return !found
	}, time.Second, 5*time.Millisecond)
}
