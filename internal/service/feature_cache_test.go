package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })
	return server, client
}

func TestRedisFeatureCache_Miss(t *testing.T) {
	_, client := newTestRedis(t)
	cache := NewRedisFeatureCache(client, quietLogger(), time.Minute)

	features, ok, err := cache.Get(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, features)
}

func TestRedisFeatureCache_RoundTripWithTTL(t *testing.T) {
	server, client := newTestRedis(t)
	cache := NewRedisFeatureCache(client, quietLogger(), 5*time.Minute)
	userID := uuid.New()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, userID, map[string]bool{"export_rendezvous": true, "sms_reminders": false}))
	assert.Equal(t, 5*time.Minute, server.TTL(RedisFeatureKeyPrefix+userID.String()))

	features, ok, err := cache.Get(ctx, userID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, map[string]bool{"export_rendezvous": true, "sms_reminders": false}, features)

	require.NoError(t, cache.Invalidate(ctx, userID))
	_, ok, err = cache.Get(ctx, userID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisFeatureCache_ExpiresAfterTTL(t *testing.T) {
	server, client := newTestRedis(t)
	cache := NewRedisFeatureCache(client, quietLogger(), time.Minute)
	userID := uuid.New()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, userID, map[string]bool{"export_rendezvous": true}))
	server.FastForward(time.Minute + time.Second)

	_, ok, err := cache.Get(ctx, userID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisFeatureCache_CorruptEntryIsAMiss(t *testing.T) {
	server, client := newTestRedis(t)
	cache := NewRedisFeatureCache(client, quietLogger(), time.Minute)
	userID := uuid.New()
	require.NoError(t, server.Set(RedisFeatureKeyPrefix+userID.String(), "{not json"))

	features, ok, err := cache.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, features)
}

func TestRedisFeatureCache_ServerDownReturnsError(t *testing.T) {
	server, client := newTestRedis(t)
	cache := NewRedisFeatureCache(client, quietLogger(), time.Minute)
	server.Close()

	_, ok, err := cache.Get(context.Background(), uuid.New())
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, cache.Set(context.Background(), uuid.New(), map[string]bool{}))
}
