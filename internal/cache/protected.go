package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	ri "github.com/redis/go-redis/v9"

	"WellCheck/storage/redis"
)

const (
	// 空值缓存标识
	emptyValueFlag = "__EMPTY__"
	// 空值缓存TTL，较短时间避免长期占用
	emptyValueTTL = 5 * time.Minute
)

// ProtectedCache 带空值保护的缓存包装器，防止未知号码反复穿透到数据库
type ProtectedCache struct {
	keyPrefix string
	ttl       time.Duration
	emptyTTL  time.Duration
}

func NewProtectedCache(keyPrefix string, ttl time.Duration) *ProtectedCache {
	return &ProtectedCache{
		keyPrefix: keyPrefix,
		ttl:       ttl,
		emptyTTL:  emptyValueTTL,
	}
}

// Set 设置缓存，value 为 nil 时写入空值标识
func (pc *ProtectedCache) Set(ctx context.Context, key string, value interface{}) error {
	client, err := rdb()
	if err != nil {
		return err
	}

	cacheKey := redis.Key(pc.keyPrefix, key)

	var data string
	var ttl time.Duration

	if value == nil {
		data = emptyValueFlag
		ttl = pc.emptyTTL
	} else {
		dataBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal cache value: %w", err)
		}
		data = string(dataBytes)
		ttl = pc.ttl
	}

	return client.Set(ctx, cacheKey, data, ttl).Err()
}

// Get 获取缓存，返回 (hit, isEmpty, error)
// hit 为 true 且 isEmpty 为 true 表示命中了空值标识
func (pc *ProtectedCache) Get(ctx context.Context, key string, dest interface{}) (bool, bool, error) {
	client, err := rdb()
	if err != nil {
		return false, false, err
	}

	cacheKey := redis.Key(pc.keyPrefix, key)

	data, err := client.Get(ctx, cacheKey).Result()
	if err != nil {
		if err == ri.Nil {
			return false, false, nil // 缓存未命中
		}
		return false, false, fmt.Errorf("failed to get cache: %w", err)
	}

	if data == emptyValueFlag {
		return true, true, nil
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return false, false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}

	return true, false, nil
}

// Delete 删除缓存
func (pc *ProtectedCache) Delete(ctx context.Context, key string) error {
	client, err := rdb()
	if err != nil {
		return err
	}

	cacheKey := redis.Key(pc.keyPrefix, key)
	return client.Del(ctx, cacheKey).Err()
}

// BatchDelete 批量删除缓存
func (pc *ProtectedCache) BatchDelete(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	client, err := rdb()
	if err != nil {
		return err
	}

	pipe := client.Pipeline()
	for _, key := range keys {
		cacheKey := redis.Key(pc.keyPrefix, key)
		pipe.Del(ctx, cacheKey)
	}

	_, err = pipe.Exec(ctx)
	return err
}

// 预定义的缓存实例
var (
	RecipientPhoneProtectedCache = NewProtectedCache("recipient:phone", 24*time.Hour)
)
