package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/bonafide-backend/internal/config"
)

// RedisStore keeps session slots in Redis with the token expiry as TTL.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a RedisStore.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Save overwrites the user's slot.
func (s *RedisStore) Save(ctx context.Context, slot Slot, ttl time.Duration) error {
	data, err := json.Marshal(slot)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.rdb.Set(ctx, config.CacheKey.SessionKey(slot.User.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Load reads the user's slot.
func (s *RedisStore) Load(ctx context.Context, userID string) (*Slot, error) {
	data, err := s.rdb.Get(ctx, config.CacheKey.SessionKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("check session: %w", err)
	}

	var slot Slot
	if err := json.Unmarshal(data, &slot); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &slot, nil
}

// Delete removes the user's slot.
func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, config.CacheKey.SessionKey(userID)).Err()
}
