// Package ratelimit provides a Redis backed sliding window limiter.
package ratelimit

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Limiter decides whether one more attempt for key is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration)
}

// RedisLimiter allows at most limit attempts per key in any rolling window.
// Entries live in a sorted set scored by their timestamp in microseconds.
// Redis failures let the request through.
type RedisLimiter struct {
	client    *redis.Client
	limit     int
	window    time.Duration
	namespace string
	now       func() time.Time
}

// NewRedisLimiter parses a redis:// URL and builds a limiter.
func NewRedisLimiter(redisURL string, limit int, window time.Duration) (*RedisLimiter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewRedisLimiterWithClient(redis.NewClient(opts), limit, window), nil
}

// NewRedisLimiterWithClient builds a limiter on an existing client.
func NewRedisLimiterWithClient(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:    client,
		limit:     limit,
		window:    window,
		namespace: "cafe:ratelimit",
		now:       time.Now,
	}
}

// Ping checks the Redis connection.
func (r *RedisLimiter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (r *RedisLimiter) Close() error {
	return r.client.Close()
}

// Allow records an attempt for key if there is room in the window.
func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration) {
	now := r.now()
	windowStart := now.Add(-r.window)
	redisKey := r.namespace + ":" + key
	minScore := strconv.FormatInt(windowStart.UnixMicro(), 10)

	pipe := r.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", "("+minScore)
	count := pipe.ZCard(ctx, redisKey)
	oldest := pipe.ZRangeWithScores(ctx, redisKey, 0, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("Rate limiter unavailable, allowing %s: %v", key, err)
		return true, 0
	}

	if count.Val() >= int64(r.limit) {
		retryAfter := r.window
		if zs := oldest.Val(); len(zs) > 0 {
			expires := time.UnixMicro(int64(zs[0].Score)).Add(r.window)
			retryAfter = expires.Sub(now)
		}
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		return false, retryAfter
	}

	pipe = r.client.TxPipeline()
	pipe.ZAdd(ctx, redisKey, &redis.Z{Score: float64(now.UnixMicro()), Member: uuid.New().String()})
	pipe.Expire(ctx, redisKey, 2*r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("Rate limiter failed to record attempt for %s: %v", key, err)
	}
	return true, 0
}
