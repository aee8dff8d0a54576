package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"WellCheck/internal/cache"
	"WellCheck/internal/model"
	"WellCheck/pkg/logger"
	"WellCheck/pkg/metrics"
	"WellCheck/pkg/sms"
	"WellCheck/utils"
)

// "no" 回复的后续：找出账户管理员，把告警短信任务丢给 worker
// 发布失败只记日志，回复链路不因此出错

// RecipientGetter 按内部 ID 查接收人
type RecipientGetter interface {
	GetByID(ctx context.Context, id int64) (*model.Recipient, error)
}

// AdminDirectory 查账户管理员
type AdminDirectory interface {
	FindAdmins(ctx context.Context, accountID int64) ([]*model.User, error)
}

// AlertPublisher 投递告警任务
type AlertPublisher interface {
	PublishAdminAlert(msg model.AdminAlertMessage) error
}

type NotifyService struct {
	recipients    RecipientGetter
	users         AdminDirectory
	publisher     AlertPublisher
	sender        sms.Client
	countryPrefix string
}

func NewNotifyService(
	recipients RecipientGetter,
	users AdminDirectory,
	publisher AlertPublisher,
	sender sms.Client,
	countryPrefix string,
) *NotifyService {
	return &NotifyService{
		recipients:    recipients,
		users:         users,
		publisher:     publisher,
		sender:        sender,
		countryPrefix: countryPrefix,
	}
}

// AlertAdmins 给账户下所有有手机号的管理员各投递一条告警任务
func (s *NotifyService) AlertAdmins(ctx context.Context, accountID, recipientID int64, repliedAt time.Time) error {
	recipient, err := s.recipients.GetByID(ctx, recipientID)
	if err != nil {
		return err
	}

	admins, err := s.users.FindAdmins(ctx, accountID)
	if err != nil {
		return err
	}

	if len(admins) == 0 {
		logger.Logger.Warn("No admins to alert for failed wellness check",
			zap.Int64("account_id", accountID),
			zap.Int64("recipient_id", recipientID),
		)
		return nil
	}

	for _, admin := range admins {
		if admin.PhoneNumber == "" {
			logger.Logger.Warn("Admin has no phone number, skipping alert",
				zap.Int64("admin_user_id", admin.ID),
				zap.Int64("account_id", accountID),
			)
			continue
		}

		msg := model.AdminAlertMessage{
			AccountID:     accountID,
			RecipientID:   recipientID,
			RecipientName: recipient.FullName(),
			AdminUserID:   admin.ID,
			AdminPhone:    admin.PhoneNumber,
			RepliedAt:     repliedAt.Format(time.RFC3339),
		}

		if err := s.publisher.PublishAdminAlert(msg); err != nil {
			logger.Logger.Error("Failed to publish admin alert",
				zap.Int64("admin_user_id", admin.ID),
				zap.String("admin_phone", utils.MaskPhone(admin.PhoneNumber)),
				zap.Error(err),
			)
			metrics.RecordAdminAlert("publish_failed")
			continue
		}

		metrics.RecordAdminAlert("published")
	}

	return nil
}

// SendAdminAlert worker 侧的实际发送，消费 admin_alert 队列时调用
func (s *NotifyService) SendAdminAlert(ctx context.Context, adminPhone, recipientName, repliedAt string) error {
	if s.sender == nil {
		logger.Logger.Warn("SMS transport disabled, dropping admin alert",
			zap.String("admin_phone", utils.MaskPhone(adminPhone)),
		)
		return nil
	}

	phone := utils.WithCountryPrefix(adminPhone, s.countryPrefix)
	body := AdminAlertBody(recipientName, repliedAt)

	sendStart := time.Now()
	err := cache.SMSBreaker.Call(ctx, func() error {
		_, sendErr := s.sender.Send(ctx, phone, body)
		return sendErr
	})

	if err != nil {
		metrics.RecordSMSSent("alert", "failed", time.Since(sendStart).Seconds())
		metrics.RecordAdminAlert("send_failed")
		return err
	}

	metrics.RecordSMSSent("alert", "success", time.Since(sendStart).Seconds())
	metrics.RecordAdminAlert("sent")
	return nil
}
