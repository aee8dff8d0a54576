package cache

import (
	"context"
	"time"

	"WellCheck/storage/redis"
)

// 基于 SetNX 的分布式锁，多实例部署时保证同一周期只有一个调度器在跑

const (
	lockPrefix = "lock"
)

func TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	client, err := rdb()
	if err != nil {
		return false, err
	}

	fullkey := redis.Key(lockPrefix, key)

	result, err := client.SetNX(ctx, fullkey, 1, ttl).Result()
	if err != nil {
		return false, err
	}

	return result, nil
}

func Unlock(ctx context.Context, key string) error {
	client, err := rdb()
	if err != nil {
		return err
	}

	fullkey := redis.Key(lockPrefix, key)

	return client.Del(ctx, fullkey).Err()
}
