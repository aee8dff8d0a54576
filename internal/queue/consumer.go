package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"WellCheck/internal/cache"
	"WellCheck/internal/model"
	"WellCheck/pkg/logger"
	"WellCheck/storage/mq"
)

// worker 端消费者，处理器由启动方注入，避免 queue 包反向依赖 service

// AlertSender 告警短信的实际发送方
type AlertSender interface {
	SendAdminAlert(ctx context.Context, adminPhone, recipientName, repliedAt string) error
}

// SummarySender 日报邮件的实际发送方
type SummarySender interface {
	SendSummary(ctx context.Context, accountID int64, summaryDate string) error
}

var (
	alertSender   AlertSender
	summarySender SummarySender
)

// SetAlertSender 设置告警处理器（在 worker 启动时调用）
func SetAlertSender(s AlertSender) {
	alertSender = s
}

// SetSummarySender 设置日报处理器（在 worker 启动时调用）
func SetSummarySender(s SummarySender) {
	summarySender = s
}

// StartAdminAlertConsumer 启动管理员告警消费者，阻塞直到 channel 关闭
func StartAdminAlertConsumer(ctx context.Context) error {
	if alertSender == nil {
		return fmt.Errorf("alert sender not set")
	}

	handler := func(body []byte) error {
		var msg model.AdminAlertMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			// 消息体坏了重试也没用，直接吞掉
			logger.Logger.Error("Failed to unmarshal admin alert message, dropping",
				zap.Error(err),
			)
			return nil
		}

		// SETNX 幂等标记，挡住 nack 重投和重复发布
		fresh, err := cache.TryMarkMessageProcessing(ctx, msg.MessageID, 24*time.Hour)
		if err != nil {
			logger.Logger.Warn("Failed to check message processed status",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
			// 检查失败时继续处理，可能重复但不丢告警
		} else if !fresh {
			logger.Logger.Info("Message already processed or being processed, skipping",
				zap.String("message_id", msg.MessageID),
			)
			return nil
		}

		if err := alertSender.SendAdminAlert(ctx, msg.AdminPhone, msg.RecipientName, msg.RepliedAt); err != nil {
			// 失败解除标记，nack 后重试
			if unmarkErr := cache.UnmarkMessageProcessing(ctx, msg.MessageID); unmarkErr != nil {
				logger.Logger.Warn("Failed to unmark message processing",
					zap.String("message_id", msg.MessageID),
					zap.Error(unmarkErr),
				)
			}
			return fmt.Errorf("failed to send admin alert: %w", err)
		}

		if err := cache.MarkMessageProcessed(ctx, msg.MessageID, 48*time.Hour); err != nil {
			logger.Logger.Warn("Failed to mark message as processed",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		}

		return nil
	}

	return mq.Consume(mq.ConsumeOptions{
		Queue:         mq.AdminAlertQueue,
		ConsumerTag:   "admin_alert_consumer",
		PrefetchCount: 10,
		Handler:       handler,
	})
}

// StartDailySummaryConsumer 启动日报邮件消费者，阻塞直到 channel 关闭
func StartDailySummaryConsumer(ctx context.Context) error {
	if summarySender == nil {
		return fmt.Errorf("summary sender not set")
	}

	handler := func(body []byte) error {
		var msg model.DailySummaryMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			logger.Logger.Error("Failed to unmarshal daily summary message, dropping",
				zap.Error(err),
			)
			return nil
		}

		fresh, err := cache.TryMarkMessageProcessing(ctx, msg.MessageID, 24*time.Hour)
		if err != nil {
			logger.Logger.Warn("Failed to check message processed status",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		} else if !fresh {
			logger.Logger.Info("Message already processed or being processed, skipping",
				zap.String("message_id", msg.MessageID),
			)
			return nil
		}

		if err := summarySender.SendSummary(ctx, msg.AccountID, msg.SummaryDate); err != nil {
			if unmarkErr := cache.UnmarkMessageProcessing(ctx, msg.MessageID); unmarkErr != nil {
				logger.Logger.Warn("Failed to unmark message processing",
					zap.String("message_id", msg.MessageID),
					zap.Error(unmarkErr),
				)
			}
			return fmt.Errorf("failed to send daily summary: %w", err)
		}

		if err := cache.MarkMessageProcessed(ctx, msg.MessageID, 48*time.Hour); err != nil {
			logger.Logger.Warn("Failed to mark message as processed",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		}

		return nil
	}

	return mq.Consume(mq.ConsumeOptions{
		Queue:         mq.DailySummaryQueue,
		ConsumerTag:   "daily_summary_consumer",
		PrefetchCount: 5,
		Handler:       handler,
	})
}

// StartAllConsumers 启动全部消费者，每个消费者一个 goroutine
func StartAllConsumers(ctx context.Context) {
	go func() {
		if err := StartAdminAlertConsumer(ctx); err != nil {
			logger.Logger.Error("Admin alert consumer exited", zap.Error(err))
		}
	}()

	go func() {
		if err := StartDailySummaryConsumer(ctx); err != nil {
			logger.Logger.Error("Daily summary consumer exited", zap.Error(err))
		}
	}()
}
