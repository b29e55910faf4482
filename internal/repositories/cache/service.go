package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Service wraps a Redis client with JSON marshalling and the key scheme
// used by the monitoring services.
type Service struct {
	client *redis.Client
	ttl    time.Duration
}

func NewService(client *redis.Client, defaultTTL time.Duration) *Service {
	return &Service{
		client: client,
		ttl:    defaultTTL,
	}
}

// Set stores value under key with the default TTL.
func (s *Service) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

// SetWithTTL stores value under key with an explicit TTL.
func (s *Service) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// Get loads key into dest, reporting whether the key existed.
func (s *Service) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

// Delete removes the given keys.
func (s *Service) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Key scheme. Transactions and alerts are cached individually; per-user
// statistics and the alert statistics aggregate get short-lived entries.

func TransactionKey(transactionID string) string {
	return "transaction:" + transactionID
}

func AlertKey(alertID string) string {
	return "alert:" + alertID
}

func UserStatsKey(userID string) string {
	return "user_stats:" + userID
}

// AlertStatsKey is the single key holding the global alert statistics.
const AlertStatsKey = "alert_stats"

// HealthCheck pings Redis.
func (s *Service) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

// PoolStats exposes connection pool statistics for the health endpoint.
func (s *Service) PoolStats() *redis.PoolStats {
	return s.client.PoolStats()
}

// FlushAll flushes all keys from the cache.
func (s *Service) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

// Close closes the Redis client connection.
func (s *Service) Close() error {
	return s.client.Close()
}
