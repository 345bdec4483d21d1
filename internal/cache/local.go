package cache

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	models "io.winapps.jotly/internal/models/journal"
)

// LocalCache keeps cached values in process memory. It serves single-node
// deployments that run without Redis. Version counters live next to the
// values under <key>:gen; mu makes check-and-set fills atomic.
type LocalCache struct {
	mu       sync.Mutex
	items    *gocache.Cache
	entryTTL time.Duration
	statsTTL time.Duration
}

var _ EntryCache = (*LocalCache)(nil)

// NewLocalCache creates an in-process cache with the given TTLs.
func NewLocalCache(entryTTL, statsTTL time.Duration) *LocalCache {
	return &LocalCache{
		items:    gocache.New(entryTTL, 10*time.Minute),
		entryTTL: entryTTL,
		statsTTL: statsTTL,
	}
}

func (c *LocalCache) GetEntry(_ context.Context, id string) (*models.Entry, bool, error) {
	v, ok := c.items.Get(entryKey(id))
	if !ok {
		return nil, false, nil
	}
	e := v.(models.Entry).Clone()
	return &e, true, nil
}

func (c *LocalCache) EntryVersion(_ context.Context, id string) (int64, error) {
	return c.version(entryKey(id)), nil
}

func (c *LocalCache) FillEntry(_ context.Context, e models.Entry, version int64) error {
	c.fill(entryKey(e.ID), e.Clone(), c.entryTTL, version)
	return nil
}

func (c *LocalCache) EvictEntry(_ context.Context, id string) error {
	c.evict(entryKey(id), 2*c.entryTTL)
	return nil
}

func (c *LocalCache) GetMoodStats(context.Context) ([]models.MoodCount, bool, error) {
	v, ok := c.items.Get(moodStatsKey)
	if !ok {
		return nil, false, nil
	}
	return append([]models.MoodCount{}, v.([]models.MoodCount)...), true, nil
}

func (c *LocalCache) MoodStatsVersion(context.Context) (int64, error) {
	return c.version(moodStatsKey), nil
}

func (c *LocalCache) FillMoodStats(_ context.Context, stats []models.MoodCount, version int64) error {
	c.fill(moodStatsKey, append([]models.MoodCount{}, stats...), c.statsTTL, version)
	return nil
}

func (c *LocalCache) InvalidateMoodStats(context.Context) error {
	c.evict(moodStatsKey, gocache.NoExpiration)
	return nil
}

func (c *LocalCache) version(key string) int64 {
	v, ok := c.items.Get(key + versionSuffix)
	if !ok {
		return 0
	}
	return v.(int64)
}

func (c *LocalCache) fill(key string, v any, ttl time.Duration, version int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.version(key) != version {
		return
	}
	c.items.Set(key, v, ttl)
}

func (c *LocalCache) evict(key string, versionTTL time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items.Set(key+versionSuffix, c.version(key)+1, versionTTL)
	c.items.Delete(key)
}
