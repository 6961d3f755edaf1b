// Package cache provides a Redis-backed cache for resolved episode
// lists. The cache is best-effort: a nil *RedisCache is a safe no-op.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/otakuflix/episode-resolver/internal/episodes"
)

type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(url string, ttl time.Duration) (*RedisCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &RedisCache{Client: redis.NewClient(opt), TTL: ttl}, nil
}

func key(animeID string) string { return fmt.Sprintf("episodes:%s", animeID) }

// GetEpisodes returns the cached list for animeID, reporting whether a
// cached value was present.
func (c *RedisCache) GetEpisodes(ctx context.Context, animeID string) ([]episodes.Episode, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	val, err := c.Client.Get(ctx, key(animeID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}
	var eps []episodes.Episode
	if err := json.Unmarshal([]byte(val), &eps); err != nil {
		return nil, false, err
	}
	return eps, true, nil
}

// SetEpisodes stores the resolved list for animeID with the configured TTL.
func (c *RedisCache) SetEpisodes(ctx context.Context, animeID string, eps []episodes.Episode) error {
	if c == nil {
		return nil
	}
	b, err := json.Marshal(eps)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, key(animeID), b, c.TTL).Err()
}
