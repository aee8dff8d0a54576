package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"WellCheck/config"
	"WellCheck/internal/schedule"
	"WellCheck/pkg/logger"
	"WellCheck/pkg/metrics"
	"WellCheck/pkg/otel"
	"WellCheck/pkg/sms"
	"WellCheck/pkg/snowflake"
	"WellCheck/storage"
)

func main() {

	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Logger.Info("Scheduler received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage for scheduler", zap.Error(err))
	}
	defer storage.Close()

	// 考虑与 worker 和 server 作区分
	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake for scheduler", zap.Error(err))
	}

	if config.Cfg.OTLPEndpoint != "" {
		shutdown, err := otel.InitOpenTelemetry(ctx, otel.Config{
			ServiceName:    config.Cfg.ServiceName + "-scheduler",
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

	// transport 关闭时只落库不发短信，不需要短信客户端
	if config.Cfg.SMSTransportEnabled {
		if err := sms.Init(); err != nil {
			logger.Logger.Fatal("Failed to initialize SMS client for scheduler", zap.Error(err))
		}
	}

	logger.Logger.Info("Scheduler service starting",
		zap.String("service", "wellcheck-scheduler"),
		zap.String("environment", config.Cfg.Environment),
		zap.Bool("sms_transport_enabled", config.Cfg.SMSTransportEnabled),
	)

	go runDispatchLoop(ctx)
	go runSummaryLoop(ctx)

	<-ctx.Done()

	logger.Logger.Info("Scheduler service shutting down gracefully")
}

// runDispatchLoop 周期性跑发送轮。选账户按 UTC 整点 + 水位线判重，
// 所以间隔比一小时短也不会重发，只是多几次空扫
func runDispatchLoop(ctx context.Context) {
	s := schedule.GetDispatchScheduler()

	interval := time.Duration(config.Cfg.DispatchIntervalSeconds) * time.Second

	logger.Logger.Info("Dispatch loop starting",
		zap.Duration("interval", interval),
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runCtx, cancel := context.WithTimeout(ctx, time.Duration(config.Cfg.DispatchCycleTimeoutSec)*time.Second)
			if err := s.RunDueCycle(runCtx); err != nil {
				logger.Logger.Error("Dispatch cycle run failed", zap.Error(err))
			}
			cancel()
		}
	}
}

// runSummaryLoop 周期性扫描日报到期账户
func runSummaryLoop(ctx context.Context) {
	s := schedule.GetSummaryScheduler()

	interval := 5 * time.Minute
	if config.Cfg.Environment == "development" {
		interval = 1 * time.Minute
		logger.Logger.Info("Summary loop running in development mode with 1m interval")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
			if err := s.ScheduleDueSummaries(runCtx); err != nil {
				logger.Logger.Error("Summary scheduling run failed", zap.Error(err))
			}
			cancel()
		}
	}
}
