package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"place-bot/painter/domain"
)

// RedisStatsStore grava contadores de colocação em hashes do Redis:
//
//	<prefix>:total                 kind -> contagem (cumulativo, não expira)
//	<prefix>:minute:<yyyymmddhhmm> kind -> contagem (expira em ttl)
//	<prefix>:account:<username>    kind -> contagem (expira em ttl, opcional)
type RedisStatsStore struct {
	rdb *redis.Client

	prefix string
	// ttl aplica apenas em chaves de série temporal / por conta.
	ttl time.Duration

	bucket string // "minute" (padrão) ou "none"

	trackAccounts bool
}

type RedisStatsOption func(*RedisStatsStore)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStatsStore) {
		if p := strings.Trim(prefix, ":"); p != "" {
			s.prefix = p
		}
	}
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStatsStore) { s.ttl = d }
}

func WithStatsBucket(bucket string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

func WithStatsTrackAccounts(track bool) RedisStatsOption {
	return func(s *RedisStatsStore) { s.trackAccounts = track }
}

func NewRedisStatsStore(rdb *redis.Client, opts ...RedisStatsOption) *RedisStatsStore {
	s := &RedisStatsStore{
		rdb:    rdb,
		prefix: "placebot:stats",
		ttl:    24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStatsStore) Record(ctx context.Context, ev domain.PlacementEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	field := string(ev.Kind)

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, s.TotalKey(), field, 1)
	if ev.Delay > 0 {
		pipe.HIncrByFloat(ctx, s.TotalKey(), field+":wait_seconds", ev.Delay.Seconds())
	}

	if s.bucket == "minute" {
		bucketKey := fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504"))
		pipe.HIncrBy(ctx, bucketKey, field, 1)
		if s.ttl > 0 {
			pipe.Expire(ctx, bucketKey, s.ttl)
		}
	}

	if s.trackAccounts {
		if acc := strings.TrimSpace(ev.Account); acc != "" {
			accKey := s.prefix + ":account:" + acc
			pipe.HIncrBy(ctx, accKey, field, 1)
			if s.ttl > 0 {
				pipe.Expire(ctx, accKey, s.ttl)
			}
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStatsStore) TotalKey() string { return s.prefix + ":total" }
