package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/watthuis/spotplan/core/model"
)

// RedisStore keeps the spot prices state in a Redis key, so multiple
// services can share the same forecast.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a store backed by the configured Redis instance.
func NewRedisStore(cfg Config) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return &RedisStore{client: client, key: cfg.RedisKey}
}

// ReadState returns the stored state, or nil when the key is absent.
func (s *RedisStore) ReadState(ctx context.Context) (*model.SpotPricesState, error) {
	b, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state from redis: %w", err)
	}
	var st model.SpotPricesState
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return &st, nil
}

// StoreState writes the state without expiry; the next fetch overwrites it.
func (s *RedisStore) StoreState(ctx context.Context, st model.SpotPricesState) error {
	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal spot prices state: %w", err)
	}
	if err := s.client.Set(ctx, s.key, b, 0).Err(); err != nil {
		return fmt.Errorf("store state in redis: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
