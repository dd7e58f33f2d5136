package api

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// authRedis 是认证流程用到的 Redis 命令子集。
type authRedis interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

const (
	refreshTokenBlacklistKeyPrefix = "auth:refresh:blacklist:"
	loginRateKeyPrefix             = "rate:login:"
	loginLockKeyPrefix             = "lock:login:"
	loginFailKeyPrefix             = "lock:login:fail:"
)

func incrWithTTL(ctx context.Context, client authRedis, key string, ttl time.Duration) (int64, error) {
	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		_ = client.Expire(ctx, key, ttl).Err()
	}
	return count, nil
}
