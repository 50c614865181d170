package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingResolver struct {
	ids   map[string]string
	calls int
}

func (r *countingResolver) HobbyID(_ context.Context, slug string) (string, bool, error) {
	r.calls++
	id, ok := r.ids[slug]
	return id, ok, nil
}

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis test instance unavailable: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCachedHobbyResolver(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()
	require.NoError(t, client.Del(ctx, hobbyKeyPrefix+"pottery", hobbyKeyPrefix+"unknown").Err())

	next := &countingResolver{ids: map[string]string{"pottery": "11111111-1111-1111-1111-111111111111"}}
	cached := NewCachedHobbyResolver(next, client, time.Minute)

	for range 3 {
		id, ok, err := cached.HobbyID(ctx, "pottery")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "11111111-1111-1111-1111-111111111111", id)
	}
	assert.Equal(t, 1, next.calls)

	for range 2 {
		_, ok, err := cached.HobbyID(ctx, "unknown")
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, 3, next.calls, "misses are not cached")
}

func TestCachedHobbyResolverFallsBackWhenRedisIsDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 50 * time.Millisecond})
	defer client.Close()

	next := &countingResolver{ids: map[string]string{"chess": "id-1"}}
	cached := NewCachedHobbyResolver(next, client, time.Minute)

	id, ok, err := cached.HobbyID(context.Background(), "chess")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "id-1", id)
	assert.Equal(t, 1, next.calls)
}
