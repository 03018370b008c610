package store

import (
	"context"
	"fmt"

	"github.com/gofiber/storage/redis/v3"
)

// redisKeyPrefix namespaces cache entries so the service can share a Redis
// instance with other applications.
const redisKeyPrefix = "menupix:image:"

// RedisStore is the cache backend for deployments that keep shared state in
// Redis. Entries are written without expiration; the cache has no TTL.
type RedisStore struct {
	storage *redis.Storage
}

// NewRedis connects to Redis using a redis:// URL and verifies the
// connection.
func NewRedis(ctx context.Context, url string) (*RedisStore, error) {
	storage := redis.New(redis.Config{URL: url})

	s := &RedisStore{storage: storage}
	if err := s.Ping(ctx); err != nil {
		storage.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return s, nil
}

// Get returns the cached image URL for a keyword, or ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, keyword string) (string, error) {
	raw, err := s.storage.GetWithContext(ctx, redisKeyPrefix+keyword)
	if err != nil {
		return "", fmt.Errorf("failed to read cache entry: %w", err)
	}
	if len(raw) == 0 {
		return "", ErrNotFound
	}
	return string(raw), nil
}

// Put upserts the image URL for a keyword. A zero expiration keeps the
// entry until it is overwritten.
func (s *RedisStore) Put(ctx context.Context, keyword, imageURL string) error {
	if err := s.storage.SetWithContext(ctx, redisKeyPrefix+keyword, []byte(imageURL), 0); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Ping verifies the Redis connection by reading a key that never exists.
// A miss is a healthy response; only transport errors surface.
func (s *RedisStore) Ping(ctx context.Context) error {
	if _, err := s.storage.GetWithContext(ctx, redisKeyPrefix+"ping"); err != nil {
		return fmt.Errorf("redis unavailable: %w", err)
	}
	return nil
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.storage.Close()
}
