package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aircompany/bookingflow/config"
	"github.com/aircompany/bookingflow/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client       *redis.Client
	locationsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, locationsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:       redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		locationsTTL: locationsTTL,
	}
}

func (c *RedisCache) GetLocations(ctx context.Context) ([]domain.Location, error) {
	data, err := c.client.Get(ctx, locationsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var locations []domain.Location
	if err := json.Unmarshal(data, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

func (c *RedisCache) SetLocations(ctx context.Context, locations []domain.Location) error {
	payload, err := json.Marshal(locations)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, locationsKey(), payload, c.locationsTTL).Err()
}

// AcquireSubmissionLock guards a booking session against concurrent payment
// submissions. It returns false when an attempt is already in flight.
func (c *RedisCache) AcquireSubmissionLock(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, submissionLockKey(sessionID), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseSubmissionLock(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, submissionLockKey(sessionID)).Err()
}

func locationsKey() string {
	return "cache:locations"
}

func submissionLockKey(sessionID string) string {
	return "lock:session:" + sessionID + ":submission"
}
