package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores JSON-encoded values and publishes notifications.
// A nil Cache disables caching.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
	GetInt(ctx context.Context, key string) (int64, error)
	Publish(ctx context.Context, channel string, message interface{}) error
}

// RedisCache is a Cache backed by redis
type RedisCache struct {
	redis *redis.Client
}

// NewRedisCache creates a new RedisCache
func NewRedisCache(redisClient *redis.Client) *RedisCache {
	return &RedisCache{redis: redisClient}
}

// GetJSON decodes the value at key into dest. A missing key is not an error.
func (c *RedisCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores value at key as JSON
func (c *RedisCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, key, data, ttl).Err()
}

// Incr atomically increments the counter at key
func (c *RedisCache) Incr(ctx context.Context, key string) (int64, error) {
	return c.redis.Incr(ctx, key).Result()
}

// GetInt reads a counter, treating a missing key as 0
func (c *RedisCache) GetInt(ctx context.Context, key string) (int64, error) {
	v, err := c.redis.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// Publish sends message, JSON-encoded unless it is already a string
func (c *RedisCache) Publish(ctx context.Context, channel string, message interface{}) error {
	payload, ok := message.(string)
	if !ok {
		data, err := json.Marshal(message)
		if err != nil {
			return err
		}
		payload = string(data)
	}
	return c.redis.Publish(ctx, channel, payload).Err()
}
