package schedule

// 日报调度器：扫描到了汇总时点的账户，投递日报任务给 worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"WellCheck/internal/cache"
	"WellCheck/internal/model"
	"WellCheck/internal/queue"
	"WellCheck/internal/store"
	"WellCheck/pkg/logger"
	"WellCheck/storage/database"
	"WellCheck/utils"
)

var (
	summarySchedulerOnce sync.Once
	summarySchedulerInst *SummaryScheduler
)

type SummaryScheduler struct {
	logger     *zap.Logger
	accounts   *store.AccountStore
	jobRunning bool
	jobMu      sync.Mutex
}

func GetSummaryScheduler() *SummaryScheduler {
	summarySchedulerOnce.Do(func() {
		summarySchedulerInst = &SummaryScheduler{
			logger:   logger.Logger,
			accounts: store.NewAccountStore(database.DB()),
		}
	})
	return summarySchedulerInst
}

// ScheduleDueSummaries 给到期账户各投递一条日报任务。
// Redis 标记 + 水位线双重防重，任务真正发出后 worker 才动水位线
func (s *SummaryScheduler) ScheduleDueSummaries(ctx context.Context) error {
	s.jobMu.Lock()
	if s.jobRunning {
		s.jobMu.Unlock()
		s.logger.Info("Summary scheduling job already running, skipping")
		return nil
	}
	s.jobRunning = true
	s.jobMu.Unlock()

	defer func() {
		s.jobMu.Lock()
		s.jobRunning = false
		s.jobMu.Unlock()
	}()

	now := time.Now().UTC()
	dayStart := utils.StartOfDay(now)
	dayKey := utils.DayKey(now)

	accounts, err := s.accounts.FindSummaryDue(ctx, now.Hour(), dayStart)
	if err != nil {
		s.logger.Error("Failed to query summary-due accounts", zap.Error(err))
		return fmt.Errorf("failed to query summary-due accounts: %w", err)
	}

	if len(accounts) == 0 {
		return nil
	}

	s.logger.Info("Found accounts due for daily summary",
		zap.Int("account_count", len(accounts)),
		zap.Int("utc_hour", now.Hour()),
	)

	var published, skipped, failed int
	for _, account := range accounts {
		scheduled, err := cache.IsSummaryScheduled(ctx, dayKey, account.ID)
		if err != nil {
			s.logger.Warn("Failed to check summary scheduled mark, proceeding",
				zap.Int64("account_id", account.ID),
				zap.Error(err),
			)
		} else if scheduled {
			skipped++
			continue
		}

		msg := model.DailySummaryMessage{
			AccountID:   account.ID,
			SummaryDate: dayKey,
			ScheduledAt: now.Format(time.RFC3339),
		}

		if err := queue.PublishDailySummary(msg); err != nil {
			s.logger.Error("Failed to publish daily summary task",
				zap.Int64("account_id", account.ID),
				zap.String("summary_date", dayKey),
				zap.Error(err),
			)
			failed++
			continue
		}

		if err := cache.MarkSummaryScheduled(ctx, dayKey, account.ID); err != nil {
			s.logger.Warn("Failed to mark summary scheduled after publishing",
				zap.Int64("account_id", account.ID),
				zap.Error(err),
			)
		}
		published++
	}

	s.logger.Info("Summary scheduling completed",
		zap.String("summary_date", dayKey),
		zap.Int("published", published),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
	)

	if failed > 0 {
		return fmt.Errorf("summary scheduling completed with %d failures", failed)
	}
	return nil
}
