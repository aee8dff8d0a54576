package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"WellCheck/config"
	"WellCheck/internal/queue"
	"WellCheck/internal/service"
	"WellCheck/internal/store"
	"WellCheck/pkg/email"
	"WellCheck/pkg/logger"
	"WellCheck/pkg/metrics"
	"WellCheck/pkg/otel"
	"WellCheck/pkg/sms"
	"WellCheck/pkg/snowflake"
	"WellCheck/storage"
	"WellCheck/storage/database"
)

func main() {

	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer storage.Close()

	// 考虑与 scheduler 和 server 作区分
	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake", zap.Error(err))
	}

	if config.Cfg.OTLPEndpoint != "" {
		shutdown, err := otel.InitOpenTelemetry(ctx, otel.Config{
			ServiceName:    config.Cfg.ServiceName + "-worker",
			ServiceVersion: config.Cfg.ServiceVersion,
			Environment:    config.Cfg.Environment,
			OTLPEndpoint:   config.Cfg.OTLPEndpoint,
			SampleRatio:    config.Cfg.OTelSampleRatio,
		})
		if err != nil {
			logger.Logger.Warn("Failed to initialize OpenTelemetry, telemetry disabled", zap.Error(err))
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(shutdownCtx); err != nil {
					logger.Logger.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
				}
			}()
		}
	}

	if err := metrics.InitMetrics(); err != nil {
		logger.Logger.Warn("Failed to initialize application metrics", zap.Error(err))
	}

	// 告警短信的发送端。transport 关闭时告警会被丢弃（只记日志）
	var alertSender sms.Client
	if config.Cfg.SMSTransportEnabled {
		if err := sms.Init(); err != nil {
			logger.Logger.Fatal("Failed to initialize SMS client", zap.Error(err))
		}
		alertSender = sms.GetClient()
	} else {
		logger.Logger.Info("SMS transport disabled, admin alerts will be logged and dropped")
	}

	if err := email.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize email client", zap.Error(err))
	}

	// worker 自行装配发送侧服务，消费者通过注入解耦
	db := database.DB()
	notify := service.NewNotifyService(
		store.NewRecipientStore(db),
		store.NewUserStore(db),
		queue.NewProducer(),
		alertSender,
		config.Cfg.SMSCountryPrefix,
	)
	queue.SetAlertSender(notify)
	queue.SetSummarySender(service.Summary())

	logger.Logger.Info("Worker service starting",
		zap.String("service", "wellcheck-worker"),
		zap.String("environment", config.Cfg.Environment),
	)

	queue.StartAllConsumers(ctx)

	<-ctx.Done()

	logger.Logger.Info("Worker service shutting down gracefully")
}
