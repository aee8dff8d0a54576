package cache

import (
	redislib "github.com/redis/go-redis/v9"

	"WellCheck/storage/redis"
)

// rdb 统一的客户端入口。Redis 未初始化时返回错误，
// 调用方把缓存失败当软失败处理（降级到数据库或跳过标记）
func rdb() (*redislib.Client, error) {
	if !redis.Ready() {
		return nil, redis.ErrNotInitialized
	}
	return redis.Client(), nil
}
