package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"explore/internal/config"
	"explore/internal/model"

	"github.com/redis/go-redis/v9"
)

// SectionCache caches caller-independent section item lists in Redis
// for a short TTL. A nil *SectionCache is a valid, disabled cache; all
// failures degrade to a miss.
type SectionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis, or returns nil when no address is configured
func New(cfg config.RedisConfig) (*SectionCache, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &SectionCache{
		client: client,
		ttl:    time.Duration(cfg.TTLSeconds) * time.Second,
	}, nil
}

// Close releases the underlying connection
func (c *SectionCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

// GetItems returns the cached items for a key, or a miss
func (c *SectionCache) GetItems(ctx context.Context, key string) ([]model.RecommendationItem, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var items []model.RecommendationItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

// SetItems stores the items for a key. Best effort.
func (c *SectionCache) SetItems(ctx context.Context, key string, items []model.RecommendationItem) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, key, raw, c.ttl).Err()
}

// Key builds a namespaced cache key from its parts
func Key(parts ...string) string {
	return "explore:" + strings.Join(parts, ":")
}
