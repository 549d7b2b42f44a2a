package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// CacheKeyPrefix is the Redis key prefix for cached data
	CacheKeyPrefix  = "cache:"
	DefaultCacheTTL = 5 * time.Minute
)

// CacheService is a JSON cache over Redis. With a nil client every lookup
// misses and every write is dropped.
type CacheService struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheService(client *redis.Client, logger *zap.Logger) *CacheService {
	return &CacheService{client: client, logger: logger}
}

// Get reports whether key was found and decoded into dest.
func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}

	val, err := c.client.Get(ctx, CacheKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal(val, dest); err != nil {
		c.logger.Warn("cache entry undecodable", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if c == nil || c.client == nil {
		return
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache value not encodable", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, CacheKeyPrefix+key, data, ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *CacheService) Delete(ctx context.Context, key string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, CacheKeyPrefix+key).Err(); err != nil {
		c.logger.Warn("cache delete failed", zap.String("key", key), zap.Error(err))
	}
}

// CacheKey generates a cache key for a specific resource
func CacheKey(resource string, identifier string) string {
	return fmt.Sprintf("%s:%s", resource, identifier)
}
