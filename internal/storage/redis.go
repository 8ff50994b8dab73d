package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cs-practicals/algosim/internal/config"
	"github.com/cs-practicals/algosim/internal/models"
)

// RedisStore implements ResultRepository using Redis.
// Results are stored as JSON with an optional TTL; each practical keeps
// a sorted set of result ids scored by completion time.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration // 0 = no expiration
}

// NewRedisStore connects to Redis and checks the connection.
func NewRedisStore(cfg config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStoreWithClient(client, cfg.TTL), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// SaveResult stores a result and indexes it under its practical.
func (s *RedisStore) SaveResult(ctx context.Context, result *models.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	created, err := s.client.SetNX(ctx, resultKey(result.ID), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to store result: %w", err)
	}
	if !created {
		return ErrResultExists
	}

	member := redis.Z{Score: float64(result.CompletedAt.UnixMilli()), Member: result.ID}
	if err := s.client.ZAdd(ctx, practicalKey(result.PracticalID), member).Err(); err != nil {
		return fmt.Errorf("failed to index result: %w", err)
	}
	return nil
}

// GetResult retrieves a result from Redis.
func (s *RedisStore) GetResult(ctx context.Context, id string) (*models.Result, error) {
	data, err := s.client.Get(ctx, resultKey(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	var result models.Result
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &result, nil
}

// ListResults reads the newest ids from the practical's index. Ids whose
// result has expired are dropped from the index on the way.
func (s *RedisStore) ListResults(ctx context.Context, practicalID string, limit int) ([]*models.Result, error) {
	key := practicalKey(practicalID)
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	ids, err := s.client.ZRevRange(ctx, key, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	results := make([]*models.Result, 0, len(ids))
	for _, id := range ids {
		result, err := s.GetResult(ctx, id)
		if err == ErrResultNotFound {
			s.client.ZRem(ctx, key, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func resultKey(id string) string {
	return fmt.Sprintf("result:%s", id)
}

func practicalKey(practicalID string) string {
	return fmt.Sprintf("practical:%s:results", practicalID)
}
