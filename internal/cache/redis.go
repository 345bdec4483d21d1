package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	models "io.winapps.jotly/internal/models/journal"
)

const (
	entryKeyPrefix = "entry:"
	moodStatsKey   = "stats:mood"
	versionSuffix  = ":gen"
)

// fillScript sets KEYS[2] only while the counter in KEYS[1] still holds
// ARGV[1]. A missing counter reads as 0.
var fillScript = redis.NewScript(`
local current = tonumber(redis.call("GET", KEYS[1]) or "0")
if current ~= tonumber(ARGV[1]) then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
else
	redis.call("SET", KEYS[2], ARGV[2])
end
return 1
`)

// RedisCache stores JSON documents under entry:<id> and stats:mood, each
// with a version counter under <key>:gen.
type RedisCache struct {
	client   redis.Cmdable
	entryTTL time.Duration
	statsTTL time.Duration
}

var _ EntryCache = (*RedisCache)(nil)

// NewRedisCache creates a cache with the given TTLs.
func NewRedisCache(client redis.Cmdable, entryTTL, statsTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, entryTTL: entryTTL, statsTTL: statsTTL}
}

func entryKey(id string) string { return entryKeyPrefix + id }

func (c *RedisCache) GetEntry(ctx context.Context, id string) (*models.Entry, bool, error) {
	var e models.Entry
	found, err := c.getJSON(ctx, entryKey(id), &e)
	if err != nil || !found {
		return nil, false, err
	}
	return &e, true, nil
}

func (c *RedisCache) EntryVersion(ctx context.Context, id string) (int64, error) {
	return c.version(ctx, entryKey(id))
}

func (c *RedisCache) FillEntry(ctx context.Context, e models.Entry, version int64) error {
	return c.fill(ctx, entryKey(e.ID), e, c.entryTTL, version)
}

// EvictEntry drops the entry and bumps its version. The counter outlives the
// entry TTL so a fill that started before the eviction is still refused.
func (c *RedisCache) EvictEntry(ctx context.Context, id string) error {
	return c.evict(ctx, entryKey(id), c.entryTTL)
}

func (c *RedisCache) GetMoodStats(ctx context.Context) ([]models.MoodCount, bool, error) {
	var stats []models.MoodCount
	found, err := c.getJSON(ctx, moodStatsKey, &stats)
	if err != nil || !found {
		return nil, false, err
	}
	return stats, true, nil
}

func (c *RedisCache) MoodStatsVersion(ctx context.Context) (int64, error) {
	return c.version(ctx, moodStatsKey)
}

func (c *RedisCache) FillMoodStats(ctx context.Context, stats []models.MoodCount, version int64) error {
	return c.fill(ctx, moodStatsKey, stats, c.statsTTL, version)
}

func (c *RedisCache) InvalidateMoodStats(ctx context.Context) error {
	return c.evict(ctx, moodStatsKey, 0)
}

func (c *RedisCache) version(ctx context.Context, key string) (int64, error) {
	v, err := c.client.Get(ctx, key+versionSuffix).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get %s%s: %w", key, versionSuffix, err)
	}
	return v, nil
}

func (c *RedisCache) evict(ctx context.Context, key string, ttl time.Duration) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key+versionSuffix)
		if ttl > 0 {
			pipe.PExpire(ctx, key+versionSuffix, 2*ttl)
		}
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis evict %s: %w", key, err)
	}
	return nil
}

func (c *RedisCache) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		// A corrupt value is dropped and treated as a miss.
		_ = c.client.Del(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

func (c *RedisCache) fill(ctx context.Context, key string, v any, ttl time.Duration, version int64) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	keys := []string{key + versionSuffix, key}
	if err := fillScript.Run(ctx, c.client, keys, version, data, ttl.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("redis fill %s: %w", key, err)
	}
	return nil
}
