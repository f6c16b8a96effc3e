package helpers

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to the Redis that holds carts, credentials, the
// product cache and rate limit windows.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolTimeout:  3 * time.Second,
	})
}

// WaitForRedis pings until Redis answers, giving up after attempts tries or
// when ctx ends.
func WaitForRedis(ctx context.Context, rdb redis.Cmdable, attempts int, delay time.Duration) error {
	var err error
	for i := 0; i < max(1, attempts); i++ {
		if err = rdb.Ping(ctx).Err(); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("redis not reachable after %d attempts: %w", attempts, err)
}
