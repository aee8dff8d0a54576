package queue

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"WellCheck/internal/model"
	"WellCheck/pkg/logger"
	"WellCheck/pkg/snowflake"
	"WellCheck/storage/mq"
	"WellCheck/utils"
)

// PublishAdminAlert 发布管理员告警短信任务
func PublishAdminAlert(msg model.AdminAlertMessage) error {
	if msg.MessageID == "" {
		id, err := snowflake.NextID()
		if err != nil {
			logger.Logger.Error("Failed to generate message ID",
				zap.Int64("recipient_id", msg.RecipientID),
				zap.Error(err),
			)
			return fmt.Errorf("failed to generate message ID: %w", err)
		}
		msg.MessageID = fmt.Sprintf("admin_alert_%d", id)
	}

	err := mq.PublishMessage(
		mq.NotifyExchange,
		mq.AdminAlertQueue,
		msg,
	)

	if err != nil {
		logger.Logger.Error("Failed to publish admin alert message",
			zap.String("message_id", msg.MessageID),
			zap.Int64("account_id", msg.AccountID),
			zap.Int64("admin_user_id", msg.AdminUserID),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Info("Published admin alert message",
		zap.String("message_id", msg.MessageID),
		zap.Int64("account_id", msg.AccountID),
		zap.Int64("recipient_id", msg.RecipientID),
		zap.String("admin_phone", utils.MaskPhone(msg.AdminPhone)),
	)

	return nil
}

// PublishDailySummary 发布账户日报邮件任务
func PublishDailySummary(msg model.DailySummaryMessage) error {
	if msg.MessageID == "" {
		id, err := snowflake.NextID()
		if err != nil {
			logger.Logger.Error("Failed to generate message ID",
				zap.Int64("account_id", msg.AccountID),
				zap.Error(err),
			)
			return fmt.Errorf("failed to generate message ID: %w", err)
		}
		msg.MessageID = fmt.Sprintf("daily_summary_%d", id)
	}
	if msg.ScheduledAt == "" {
		msg.ScheduledAt = time.Now().UTC().Format(time.RFC3339)
	}

	err := mq.PublishMessage(
		mq.NotifyExchange,
		mq.DailySummaryQueue,
		msg,
	)

	if err != nil {
		logger.Logger.Error("Failed to publish daily summary message",
			zap.String("message_id", msg.MessageID),
			zap.Int64("account_id", msg.AccountID),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Info("Published daily summary message",
		zap.String("message_id", msg.MessageID),
		zap.Int64("account_id", msg.AccountID),
		zap.String("summary_date", msg.SummaryDate),
	)

	return nil
}

// Producer 以接口形式提供给 service 层注入
type Producer struct{}

func NewProducer() *Producer {
	return &Producer{}
}

func (p *Producer) PublishAdminAlert(msg model.AdminAlertMessage) error {
	return PublishAdminAlert(msg)
}

func (p *Producer) PublishDailySummary(msg model.DailySummaryMessage) error {
	return PublishDailySummary(msg)
}
