package service

import (
	"sync"

	"WellCheck/config"
	"WellCheck/internal/queue"
	"WellCheck/internal/store"
	"WellCheck/pkg/email"
	"WellCheck/pkg/sms"
	"WellCheck/storage/database"
)

// 进程级单例装配。核心服务都走构造函数注入，这里只是生产环境的默认接线，
// 测试直接 NewXxxService 塞假实现

var (
	dispatchService *DispatchService
	dispatchOnce    sync.Once

	replyService *ReplyService
	replyOnce    sync.Once

	notifyService *NotifyService
	notifyOnce    sync.Once

	summaryService *SummaryService
	summaryOnce    sync.Once
)

// Dispatch 调度侧单例，transport 关闭时不持有短信客户端
func Dispatch() *DispatchService {
	dispatchOnce.Do(func() {
		db := database.DB()

		var sender sms.Client
		if config.Cfg.SMSTransportEnabled {
			sender = sms.GetClient()
		}

		dispatchService = NewDispatchService(
			store.NewAccountStore(db),
			store.NewRecipientStore(db),
			store.NewAttestationStore(db),
			sender,
			DispatchConfig{
				TransportEnabled: config.Cfg.SMSTransportEnabled,
				CountryPrefix:    config.Cfg.SMSCountryPrefix,
			},
		)
	})
	return dispatchService
}

// Reply 服务端单例，处理入站短信回调
func Reply() *ReplyService {
	replyOnce.Do(func() {
		db := database.DB()

		replyService = NewReplyService(
			store.NewAttestationStore(db),
			store.NewRecipientStore(db),
			Notify(),
			config.Cfg.SMSCountryPrefix,
		)
	})
	return replyService
}

// Notify 发布侧单例，只投递告警任务不发短信
// worker 端需要实际发送时用 NewNotifyService 自行装配
func Notify() *NotifyService {
	notifyOnce.Do(func() {
		db := database.DB()

		notifyService = NewNotifyService(
			store.NewRecipientStore(db),
			store.NewUserStore(db),
			queue.NewProducer(),
			nil,
			config.Cfg.SMSCountryPrefix,
		)
	})
	return notifyService
}

// Summary worker 侧单例，要求 email.Init() 先行
func Summary() *SummaryService {
	summaryOnce.Do(func() {
		db := database.DB()

		summaryService = NewSummaryService(
			store.NewAccountStore(db),
			store.NewAttestationStore(db),
			store.NewRecipientStore(db),
			store.NewUserStore(db),
			email.GetClient(),
		)
	})
	return summaryService
}
