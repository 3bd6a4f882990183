package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"room-occupancy-backend/internal/model"
)

// ErrMiss is returned by a KV when the key is absent.
var ErrMiss = errors.New("cache miss")

// KV is a minimal string key-value store.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// RedisKV is a KV backed by a Redis client.
type RedisKV struct {
	c *redis.Client
}

// NewRedisKV wraps c.
func NewRedisKV(c *redis.Client) *RedisKV { return &RedisKV{c: c} }

// Get returns the value at key, or ErrMiss when it is absent.
func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := r.c.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrMiss
		}
		return "", err
	}
	return val, nil
}

// Set stores value at key. A zero ttl keeps it forever.
func (r *RedisKV) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.c.Set(ctx, key, value, ttl).Err()
}

// KVStore keeps the whole collection as one JSON array under a single key.
// It offers no locking: concurrent writers race and the last write wins.
type KVStore struct {
	kv     KV
	key    string
	unit   string
	logger *zap.Logger
}

// NewKVStore creates a Store backed by one slot of kv.
func NewKVStore(kv KV, key, unit string, logger *zap.Logger) *KVStore {
	return &KVStore{kv: kv, key: key, unit: unit, logger: logger}
}

// LoadAll reads the slot. A missing slot is initialised with an empty
// collection; an unreadable one is reported as empty.
func (s *KVStore) LoadAll(ctx context.Context) ([]model.Occupation, error) {
	raw, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, ErrMiss) {
		if err := s.write(ctx, []model.Occupation{}); err != nil {
			return nil, err
		}
		return []model.Occupation{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.key, err)
	}

	var occs []model.Occupation
	if err := json.Unmarshal([]byte(raw), &occs); err != nil {
		s.logger.Warn("stored collection is not valid JSON; treating it as empty",
			zap.String("key", s.key), zap.Error(err))
		return []model.Occupation{}, nil
	}
	return FilterUnit(occs, s.unit), nil
}

// AppendOne writes o in front of the current collection.
func (s *KVStore) AppendOne(ctx context.Context, o model.Occupation) ([]model.Occupation, error) {
	current, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	updated := append([]model.Occupation{o}, current...)
	if err := s.write(ctx, updated); err != nil {
		return nil, err
	}
	return FilterUnit(updated, s.unit), nil
}

// ReplaceAll overwrites the slot with the records of the active unit.
func (s *KVStore) ReplaceAll(ctx context.Context, occs []model.Occupation) ([]model.Occupation, error) {
	filtered := FilterUnit(occs, s.unit)
	if err := s.write(ctx, filtered); err != nil {
		return nil, err
	}
	return filtered, nil
}

func (s *KVStore) write(ctx context.Context, occs []model.Occupation) error {
	body, err := json.Marshal(occs)
	if err != nil {
		return fmt.Errorf("failed to encode collection: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(body), 0); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.key, err)
	}
	return nil
}
