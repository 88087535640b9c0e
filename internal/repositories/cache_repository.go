package repositories

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss - ключа нет или он истёк. Реализации приводят к нему свои
// "not found" (например, redis.Nil).
var ErrCacheMiss = errors.New("cache miss")

type CacheRepositoryInterface interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key ...string) error
	// SetNX записывает значение, только если ключа ещё нет.
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	RPush(ctx context.Context, key string, values ...string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	Ping(ctx context.Context) error
}
