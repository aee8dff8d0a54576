package email

import (
	"context"
	"fmt"
	"sync"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"WellCheck/config"
	"WellCheck/pkg/logger"
)

// Client 邮件发送接口，目前只用于账户日报
type Client interface {
	Send(ctx context.Context, toName, toEmail, subject, plainBody string) error
}

// SendGridClient 基于 SendGrid 的实现
type SendGridClient struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewSendGridClient() (*SendGridClient, error) {
	cfg := config.Cfg
	if cfg.SendGridAPIKey == "" {
		return nil, fmt.Errorf("SendGrid API key is required")
	}

	return &SendGridClient{
		client:    sendgrid.NewSendClient(cfg.SendGridAPIKey),
		fromEmail: cfg.SummaryEmailFrom,
		fromName:  "WellCheck",
	}, nil
}

func (s *SendGridClient) Send(ctx context.Context, toName, toEmail, subject, plainBody string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(toName, toEmail)

	message := mail.NewSingleEmail(from, subject, to, plainBody, "")
	resp, err := s.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

var (
	emailClient Client
	emailOnce   sync.Once
	emailErr    error
)

// Init 初始化进程级邮件客户端
func Init() error {
	emailOnce.Do(func() {
		emailClient, emailErr = NewSendGridClient()
		if emailErr != nil {
			logger.Logger.Error("Failed to initialize email client", zap.Error(emailErr))
			return
		}

		logger.Logger.Info("Email client initialized successfully")
	})

	return emailErr
}

func GetClient() Client {
	if emailClient == nil {
		panic("email client not initialized, call email.Init() first")
	}
	return emailClient
}
