package cache

import (
	"context"
	"fmt"
	"time"

	"WellCheck/storage/redis"
)

const (
	// 用于标记当天的问安短信已投递，调度周期重叠或重启时跳过
	dispatchSentPrefix     = "dispatch:sent"
	summaryScheduledPrefix = "summary:scheduled"
	messageProcessedPrefix = "message:processed"

	sentTTL      = 48 * time.Hour
	processedTTL = 48 * time.Hour
)

// IsDispatchSent 检查指定日期是否已向该接收人投递过问安短信
func IsDispatchSent(ctx context.Context, date string, recipientID int64) (bool, error) {
	client, err := rdb()
	if err != nil {
		return false, err
	}

	key := redis.Key(dispatchSentPrefix, date, fmt.Sprintf("%d", recipientID))
	result, err := client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check dispatch sent status: %w", err)
	}
	return result > 0, nil
}

// MarkDispatchSent 标记指定日期的问安短信已投递
func MarkDispatchSent(ctx context.Context, date string, recipientID int64) error {
	client, err := rdb()
	if err != nil {
		return err
	}

	key := redis.Key(dispatchSentPrefix, date, fmt.Sprintf("%d", recipientID))
	return client.Set(ctx, key, "1", sentTTL).Err()
}

// UnmarkDispatchSent 清除投递标记（发送失败需要重试时调用）
func UnmarkDispatchSent(ctx context.Context, date string, recipientID int64) error {
	client, err := rdb()
	if err != nil {
		return err
	}

	key := redis.Key(dispatchSentPrefix, date, fmt.Sprintf("%d", recipientID))
	return client.Del(ctx, key).Err()
}

// IsSummaryScheduled 检查指定日期的账户日报是否已投放到队列
func IsSummaryScheduled(ctx context.Context, date string, accountID int64) (bool, error) {
	client, err := rdb()
	if err != nil {
		return false, err
	}

	key := redis.Key(summaryScheduledPrefix, date, fmt.Sprintf("%d", accountID))
	result, err := client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check summary scheduled status: %w", err)
	}
	return result > 0, nil
}

// MarkSummaryScheduled 标记指定日期的账户日报已投放
func MarkSummaryScheduled(ctx context.Context, date string, accountID int64) error {
	client, err := rdb()
	if err != nil {
		return err
	}

	key := redis.Key(summaryScheduledPrefix, date, fmt.Sprintf("%d", accountID))
	return client.Set(ctx, key, "1", sentTTL).Err()
}

// TryMarkMessageProcessing 尝试原子性地标记消息正在处理（使用 SETNX）
// 返回 true 表示成功标记（首次处理），false 表示已被标记（重复消息或正在处理）
func TryMarkMessageProcessing(ctx context.Context, messageID string, ttl time.Duration) (bool, error) {
	client, err := rdb()
	if err != nil {
		return false, err
	}

	key := redis.Key(messageProcessedPrefix, messageID)
	if ttl <= 0 {
		ttl = processedTTL
	}

	result, err := client.SetNX(ctx, key, "processing", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark message as processing: %w", err)
	}
	return result, nil
}

// UnmarkMessageProcessing 取消消息处理标记（处理失败时调用，允许重试）
func UnmarkMessageProcessing(ctx context.Context, messageID string) error {
	client, err := rdb()
	if err != nil {
		return err
	}

	key := redis.Key(messageProcessedPrefix, messageID)
	return client.Del(ctx, key).Err()
}

// MarkMessageProcessed 标记消息已处理（处理成功时调用，延长 TTL）
func MarkMessageProcessed(ctx context.Context, messageID string, ttl time.Duration) error {
	client, err := rdb()
	if err != nil {
		return err
	}

	key := redis.Key(messageProcessedPrefix, messageID)
	if ttl <= 0 {
		ttl = processedTTL
	}
	return client.Set(ctx, key, "completed", ttl).Err()
}
