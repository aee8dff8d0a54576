package schedule

// 发送调度器：每个整点扫描到期账户，跑一轮问候发送

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"WellCheck/internal/cache"
	"WellCheck/internal/service"
	"WellCheck/pkg/logger"
)

const dispatchLockKey = "dispatch:cycle"

var (
	dispatchSchedulerOnce sync.Once
	dispatchSchedulerInst *DispatchScheduler
)

// CycleRunner 一轮发送的执行器
type CycleRunner interface {
	RunCycle(ctx context.Context, cycleID string, now time.Time) (*service.CycleResult, error)
}

type DispatchScheduler struct {
	logger        *zap.Logger
	runner        CycleRunner
	cycleRunning  bool
	cycleMu       sync.Mutex
	lastCycleTime time.Time
}

func NewDispatchScheduler(runner CycleRunner) *DispatchScheduler {
	return &DispatchScheduler{
		logger: logger.Logger,
		runner: runner,
	}
}

func GetDispatchScheduler() *DispatchScheduler {
	dispatchSchedulerOnce.Do(func() {
		dispatchSchedulerInst = NewDispatchScheduler(service.Dispatch())
	})
	return dispatchSchedulerInst
}

// RunDueCycle 跑一轮发送。进程内互斥防止两轮重叠，
// Redis 锁防止多实例同时扫描同一批账户
func (s *DispatchScheduler) RunDueCycle(ctx context.Context) error {
	s.cycleMu.Lock()
	if s.cycleRunning {
		s.cycleMu.Unlock()
		s.logger.Info("Dispatch cycle already running, skipping")
		return nil
	}
	s.cycleRunning = true
	s.cycleMu.Unlock()

	defer func() {
		s.cycleMu.Lock()
		s.cycleRunning = false
		s.cycleMu.Unlock()
	}()

	startTime := time.Now()
	s.lastCycleTime = startTime

	acquired, err := cache.TryLock(ctx, dispatchLockKey, 5*time.Minute)
	if err != nil {
		// Redis 不可用时退化为仅进程内互斥，照常跑
		s.logger.Warn("Failed to acquire dispatch lock, proceeding without it", zap.Error(err))
	} else if !acquired {
		s.logger.Info("Dispatch lock held by another instance, skipping cycle")
		return nil
	} else {
		defer func() {
			if err := cache.Unlock(context.Background(), dispatchLockKey); err != nil {
				s.logger.Warn("Failed to release dispatch lock", zap.Error(err))
			}
		}()
	}

	cycleID := uuid.New().String()

	s.logger.Info("Starting dispatch cycle",
		zap.String("cycle_id", cycleID),
		zap.Time("start_time", startTime),
	)

	result, err := s.runner.RunCycle(ctx, cycleID, startTime)
	if err != nil {
		s.logger.Error("Dispatch cycle failed",
			zap.String("cycle_id", cycleID),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("Dispatch cycle completed",
		zap.String("cycle_id", cycleID),
		zap.Int("accounts_due", result.AccountsDue),
		zap.Int("recipients_processed", result.RecipientsProcessed),
		zap.Int("attestations_written", result.AttestationsWritten),
		zap.Int("messages_sent", result.MessagesSent),
		zap.Int("send_failures", result.SendFailures),
		zap.Duration("duration", time.Since(startTime)),
	)

	return nil
}
