package infra

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"place-bot/painter/domain"
)

func TestMemoryStatsStore_CountsByKindAndAccount(t *testing.T) {
	s := NewMemoryStatsStore(WithTrackAccounts(true))
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, domain.PlacementEvent{Account: "a", Kind: domain.EventPainted}))
	require.NoError(t, s.Record(ctx, domain.PlacementEvent{Account: "a", Kind: domain.EventPainted}))
	require.NoError(t, s.Record(ctx, domain.PlacementEvent{Account: "b", Kind: domain.EventRateLimited}))

	total := s.Total()
	assert.Equal(t, int64(2), total[domain.EventPainted])
	assert.Equal(t, int64(1), total[domain.EventRateLimited])

	by := s.ByAccount()
	assert.Equal(t, int64(2), by["a"][domain.EventPainted])
	assert.Equal(t, int64(1), by["b"][domain.EventRateLimited])

	// cópia: mexer no retorno não altera o store
	total[domain.EventPainted] = 100
	assert.Equal(t, int64(2), s.Total()[domain.EventPainted])
}

func TestMemoryStatsStore_WithoutAccountTracking(t *testing.T) {
	s := NewMemoryStatsStore()
	require.NoError(t, s.Record(context.Background(), domain.PlacementEvent{Account: "a", Kind: domain.EventMatched}))
	assert.Empty(t, s.ByAccount())
	assert.Equal(t, int64(1), s.Total()[domain.EventMatched])
}

func TestRedisStatsStore_NilClientIsNoop(t *testing.T) {
	var s *RedisStatsStore
	assert.NoError(t, s.Record(context.Background(), domain.PlacementEvent{Kind: domain.EventPainted}))
	assert.NoError(t, NewRedisStatsStore(nil).Record(context.Background(), domain.PlacementEvent{Kind: domain.EventPainted}))
}

func TestRedisStatsStore_Options(t *testing.T) {
	s := NewRedisStatsStore(nil,
		WithStatsPrefix(":custom:"),
		WithStatsTTL(time.Hour),
		WithStatsBucket(" NONE "),
		WithStatsTrackAccounts(true),
	)
	assert.Equal(t, "custom:total", s.TotalKey())
	assert.Equal(t, time.Hour, s.ttl)
	assert.Equal(t, "none", s.bucket)
	assert.True(t, s.trackAccounts)
}

// Roda só quando há um Redis disponível (ex.: PLACEBOT_TEST_REDIS_ADDR=localhost:6379).
func TestRedisStatsStore_RecordAgainstRedis(t *testing.T) {
	addr := os.Getenv("PLACEBOT_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("PLACEBOT_TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	prefix := "placebot:test:" + time.Now().Format("150405.000000")
	s := NewRedisStatsStore(rdb, WithStatsPrefix(prefix), WithStatsTrackAccounts(true), WithStatsTTL(time.Minute))
	t.Cleanup(func() {
		keys, _ := rdb.Keys(ctx, prefix+":*").Result()
		if len(keys) > 0 {
			_ = rdb.Del(ctx, keys...).Err()
		}
	})

	require.NoError(t, s.Record(ctx, domain.PlacementEvent{Account: "a", Kind: domain.EventPainted, Delay: 5 * time.Second}))
	require.NoError(t, s.Record(ctx, domain.PlacementEvent{Account: "a", Kind: domain.EventPainted}))

	got, err := rdb.HGet(ctx, s.TotalKey(), string(domain.EventPainted)).Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(2), got)

	acc, err := rdb.HGet(ctx, prefix+":account:a", string(domain.EventPainted)).Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(2), acc)
}

func TestChanPool_LimitsAndReleases(t *testing.T) {
	assert.Nil(t, NewChanPool(0))

	p := NewChanPool(1)
	release, ok := p.Acquire(context.Background())
	require.True(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, ok = p.Acquire(ctx)
	assert.False(t, ok, "second acquire should time out while slot is held")

	release()
	release2, ok := p.Acquire(context.Background())
	require.True(t, ok)
	release2()
}
