package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// Redis key prefix for resolved feature maps
	RedisFeatureKeyPrefix = "features:"

	// Timeout for individual Redis operations
	redisCacheTimeout = 2 * time.Second
)

// FeatureCache stores resolved feature maps per user
type FeatureCache interface {
	// Get returns ok=false on a miss.
	Get(ctx context.Context, userID uuid.UUID) (features map[string]bool, ok bool, err error)
	Set(ctx context.Context, userID uuid.UUID, features map[string]bool) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

type redisFeatureCache struct {
	client *redis.Client
	log    *logrus.Logger
	ttl    time.Duration
}

func NewRedisFeatureCache(client *redis.Client, log *logrus.Logger, ttl time.Duration) FeatureCache {
	return &redisFeatureCache{
		client: client,
		log:    log,
		ttl:    ttl,
	}
}

func featureKey(userID uuid.UUID) string {
	return fmt.Sprintf("%s%s", RedisFeatureKeyPrefix, userID.String())
}

func (c *redisFeatureCache) Get(ctx context.Context, userID uuid.UUID) (map[string]bool, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, redisCacheTimeout)
	defer cancel()

	raw, err := c.client.Get(ctx, featureKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	features := map[string]bool{}
	if err := json.Unmarshal(raw, &features); err != nil {
		c.log.Warnf("Dropping corrupt feature cache entry for %s: %+v", userID, err)
		return nil, false, nil
	}
	return features, true, nil
}

func (c *redisFeatureCache) Set(ctx context.Context, userID uuid.UUID, features map[string]bool) error {
	ctx, cancel := context.WithTimeout(ctx, redisCacheTimeout)
	defer cancel()

	raw, err := json.Marshal(features)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, featureKey(userID), raw, c.ttl).Err()
}

func (c *redisFeatureCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, redisCacheTimeout)
	defer cancel()

	return c.client.Del(ctx, featureKey(userID)).Err()
}

// noopFeatureCache always misses; used when Redis is not configured.
type noopFeatureCache struct{}

func NewNoopFeatureCache() FeatureCache {
	return noopFeatureCache{}
}

func (noopFeatureCache) Get(ctx context.Context, userID uuid.UUID) (map[string]bool, bool, error) {
	return nil, false, nil
}

func (noopFeatureCache) Set(ctx context.Context, userID uuid.UUID, features map[string]bool) error {
	return nil
}

func (noopFeatureCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	return nil
}
