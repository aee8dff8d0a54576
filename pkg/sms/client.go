package sms

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"WellCheck/config"
	"WellCheck/pkg/logger"
)

// SendResponse 短信发送响应
type SendResponse struct {
	MessageID  string // 网关返回的消息 ID（阿里云为 BizId）
	StatusCode string // 网关状态码（如 "OK", "isv.BUSINESS_LIMIT_CONTROL"）
	Code       string // 业务状态码（与 StatusCode 相同）
	Message    string // 错误消息（如果有）
	RequestID  string // 请求ID
	Provider   string // 服务提供商
}

// Client 短信发送接口，问安短信和管理员告警都走这里
// phone 为带国家前缀的完整号码
type Client interface {
	Send(ctx context.Context, phone, body string) (*SendResponse, error)
}

var (
	smsClient Client
	smsOnce   sync.Once
	smsErr    error
)

// Init 初始化进程级短信客户端，服务按接口注入
func Init() error {
	smsOnce.Do(func() {
		cfg := config.Cfg

		switch cfg.SMSProvider {
		case "aliyun":
			smsClient, smsErr = NewAliyunClient()
		case "mock":
			smsClient = NewMockClient()
		default:
			smsErr = fmt.Errorf("unsupported SMS provider: %s", cfg.SMSProvider)
		}

		if smsErr != nil {
			logger.Logger.Error("Failed to initialize SMS client", zap.Error(smsErr))
			return
		}

		logger.Logger.Info("SMS client initialized successfully",
			zap.String("provider", cfg.SMSProvider),
		)
	})

	return smsErr
}

func GetClient() Client {
	if smsClient == nil {
		panic("SMS client not initialized, call sms.Init() first")
	}
	return smsClient
}
