package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Redis is the production Store backed by a Redis instance. Reconnection
// with bounded exponential backoff is handled by the go-redis client.
type Redis struct {
	client redis.UniversalClient
	log    zerolog.Logger
}

// OpenRedis constructs a Redis-backed store. The handle is injected into
// every consumer and closed once by the owner.
func OpenRedis(addr, password string, log zerolog.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:            addr,
		Password:        password,
		DB:              0,
		MinRetryBackoff: 50 * time.Millisecond,
		MaxRetryBackoff: 2 * time.Second,
	})
	return &Redis{client: client, log: log.With().Str("component", "store").Logger()}
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("store set failed")
		return false
	}
	return true
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("store get failed")
		return nil, false
	}
	return val, true
}

func (r *Redis) Increment(ctx context.Context, key string) (int64, error) {
	return r.client.Incr(ctx, key).Result()
}

func (r *Redis) Expire(ctx context.Context, key string, ttl time.Duration) bool {
	ok, err := r.client.Expire(ctx, key, ttl).Result()
	if err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("store expire failed")
		return false
	}
	return ok
}

func (r *Redis) Delete(ctx context.Context, keys ...string) bool {
	if len(keys) == 0 {
		return true
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.log.Warn().Err(err).Msg("store delete failed")
		return false
	}
	return true
}

func (r *Redis) DeletePattern(ctx context.Context, pattern string) bool {
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		r.log.Warn().Err(err).Str("pattern", pattern).Msg("store scan failed")
		return false
	}
	return r.Delete(ctx, keys...)
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
