package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"WellCheck/internal/cache"
	"WellCheck/internal/model"
	"WellCheck/pkg/logger"
	"WellCheck/pkg/metrics"
	"WellCheck/pkg/sms"
	"WellCheck/pkg/snowflake"
	"WellCheck/utils"
)

// 每日问安的主流程：选出到期账户 -> 展开接收人 -> 落 attestation -> 发短信 -> 打水位线
// 每一步都按 UTC 日历日幂等，周期重叠或中途重启不会造成重发

// AccountDirectory 调度用到的账户读写
type AccountDirectory interface {
	FindDue(ctx context.Context, hour int, dayStart time.Time) ([]*model.Account, error)
	SetLastSent(ctx context.Context, accountIDs []int64, sentAt time.Time) error
}

// RecipientDirectory 调度用到的接收人查询
type RecipientDirectory interface {
	FindActiveByAccounts(ctx context.Context, accountIDs []int64) ([]*model.Recipient, error)
}

// AttestationLog 调度用到的签到记录写入
type AttestationLog interface {
	Upsert(ctx context.Context, attestation *model.Attestation, dayStart time.Time) (*model.Attestation, error)
}

// DispatchConfig 调度行为开关
type DispatchConfig struct {
	// TransportEnabled 为 false 时只落库不发短信（开发和演练环境）
	TransportEnabled bool
	// CountryPrefix 发送时补在裸号码前面，如 "+1"
	CountryPrefix string
}

// CycleResult 一次调度周期的统计
type CycleResult struct {
	CycleID             string
	AccountsDue         int
	RecipientsProcessed int
	AttestationsWritten int
	MessagesSent        int
	SendFailures        int
}

type DispatchService struct {
	accounts     AccountDirectory
	recipients   RecipientDirectory
	attestations AttestationLog
	sender       sms.Client
	cfg          DispatchConfig
}

func NewDispatchService(
	accounts AccountDirectory,
	recipients RecipientDirectory,
	attestations AttestationLog,
	sender sms.Client,
	cfg DispatchConfig,
) *DispatchService {
	return &DispatchService{
		accounts:     accounts,
		recipients:   recipients,
		attestations: attestations,
		sender:       sender,
		cfg:          cfg,
	}
}

// RunCycle 跑一个完整的调度周期
// now 决定"当前整点"和"当天"，测试时注入固定时刻
func (s *DispatchService) RunCycle(ctx context.Context, cycleID string, now time.Time) (*CycleResult, error) {
	startTime := time.Now()
	nowUTC := now.UTC()
	dayStart := utils.StartOfDay(nowUTC)
	dayKey := utils.DayKey(nowUTC)

	result := &CycleResult{CycleID: cycleID}

	dueAccounts, err := s.accounts.FindDue(ctx, nowUTC.Hour(), dayStart)
	if err != nil {
		metrics.RecordDispatchCycle("error", time.Since(startTime).Seconds(), 0)
		return nil, err
	}
	result.AccountsDue = len(dueAccounts)

	if len(dueAccounts) == 0 {
		metrics.RecordDispatchCycle("empty", time.Since(startTime).Seconds(), 0)
		return result, nil
	}

	logger.Logger.Info("Dispatch cycle selected due accounts",
		zap.String("cycle_id", cycleID),
		zap.Int("account_count", len(dueAccounts)),
		zap.Int("hour", nowUTC.Hour()),
	)

	accountIDs := make([]int64, 0, len(dueAccounts))
	for _, account := range dueAccounts {
		accountIDs = append(accountIDs, account.ID)
	}

	recipients, err := s.recipients.FindActiveByAccounts(ctx, accountIDs)
	if err != nil {
		metrics.RecordDispatchCycle("error", time.Since(startTime).Seconds(), int64(len(dueAccounts)))
		return nil, err
	}

	byAccount := make(map[int64][]*model.Recipient)
	for _, recipient := range recipients {
		byAccount[recipient.AccountID] = append(byAccount[recipient.AccountID], recipient)
	}

	// 按账户并发处理，单个账户内顺序发送
	var wg sync.WaitGroup
	var statsMu sync.Mutex
	processedAccounts := make([]int64, 0, len(byAccount))

	for accountID, group := range byAccount {
		wg.Add(1)
		go func(accountID int64, group []*model.Recipient) {
			defer wg.Done()

			written, sent, failed := s.processAccount(ctx, cycleID, dayKey, dayStart, nowUTC, group)

			statsMu.Lock()
			result.RecipientsProcessed += len(group)
			result.AttestationsWritten += written
			result.MessagesSent += sent
			result.SendFailures += failed
			processedAccounts = append(processedAccounts, accountID)
			statsMu.Unlock()
		}(accountID, group)
	}
	wg.Wait()

	// 水位线只打在真正处理过接收人的账户上，空账户下个周期重算也无妨
	if len(processedAccounts) > 0 {
		if err := s.accounts.SetLastSent(ctx, processedAccounts, nowUTC); err != nil {
			logger.Logger.Error("Failed to stamp last_sent_at watermark",
				zap.String("cycle_id", cycleID),
				zap.Int64s("account_ids", processedAccounts),
				zap.Error(err),
			)
			metrics.RecordDispatchCycle("error", time.Since(startTime).Seconds(), int64(len(dueAccounts)))
			return result, err
		}
	}

	logger.Logger.Info("Dispatch cycle completed",
		zap.String("cycle_id", cycleID),
		zap.Int("accounts_due", result.AccountsDue),
		zap.Int("recipients_processed", result.RecipientsProcessed),
		zap.Int("attestations_written", result.AttestationsWritten),
		zap.Int("messages_sent", result.MessagesSent),
		zap.Int("send_failures", result.SendFailures),
		zap.Duration("elapsed", time.Since(startTime)),
	)

	metrics.RecordDispatchCycle("ok", time.Since(startTime).Seconds(), int64(len(dueAccounts)))
	return result, nil
}

// processAccount 处理一个账户下的全部接收人，返回 (落库数, 发送数, 失败数)
// 短信失败不回滚 attestation，回复链路通过号码快照仍能对上记录
func (s *DispatchService) processAccount(
	ctx context.Context,
	cycleID, dayKey string,
	dayStart, now time.Time,
	group []*model.Recipient,
) (written, sent, failed int) {
	for _, recipient := range group {
		attestation, err := s.upsertAttestation(ctx, recipient, dayStart, now)
		if err != nil {
			logger.Logger.Error("Failed to upsert attestation",
				zap.String("cycle_id", cycleID),
				zap.Int64("recipient_id", recipient.ID),
				zap.Error(err),
			)
			failed++
			continue
		}
		written++

		if !s.cfg.TransportEnabled {
			logger.Logger.Debug("SMS transport disabled, skipping send",
				zap.String("cycle_id", cycleID),
				zap.Int64("recipient_id", recipient.ID),
			)
			continue
		}

		// redis 标记兜住周期重叠时的窗口，查失败时宁可信数据库
		alreadySent, err := cache.IsDispatchSent(ctx, dayKey, recipient.ID)
		if err != nil {
			logger.Logger.Warn("Failed to check dispatch sent mark",
				zap.Int64("recipient_id", recipient.ID),
				zap.Error(err),
			)
		}
		if alreadySent {
			continue
		}

		if err := s.sendWellnessCheck(ctx, recipient, attestation); err != nil {
			logger.Logger.Error("Failed to send wellness check SMS",
				zap.String("cycle_id", cycleID),
				zap.Int64("recipient_id", recipient.ID),
				zap.String("phone", utils.MaskPhone(recipient.PrimaryPhone)),
				zap.Error(err),
			)
			failed++
			continue
		}
		sent++

		if err := cache.MarkDispatchSent(ctx, dayKey, recipient.ID); err != nil {
			logger.Logger.Warn("Failed to mark dispatch sent",
				zap.Int64("recipient_id", recipient.ID),
				zap.Error(err),
			)
		}
	}

	return written, sent, failed
}

// upsertAttestation 保证当天至多一条记录，重复周期只刷新发送时间
func (s *DispatchService) upsertAttestation(
	ctx context.Context,
	recipient *model.Recipient,
	dayStart, now time.Time,
) (*model.Attestation, error) {
	publicID, err := snowflake.NextID()
	if err != nil {
		return nil, err
	}

	attestation := &model.Attestation{
		PublicID:    publicID,
		AccountID:   recipient.AccountID,
		RecipientID: recipient.ID,
		PhoneNumber: recipient.PrimaryPhone,
		MessageSent: now,
	}

	stored, err := s.attestations.Upsert(ctx, attestation, dayStart)
	if err != nil {
		return nil, err
	}

	metrics.RecordAttestationUpserted(stored.PublicID == publicID)
	return stored, nil
}

func (s *DispatchService) sendWellnessCheck(
	ctx context.Context,
	recipient *model.Recipient,
	attestation *model.Attestation,
) error {
	phone := utils.WithCountryPrefix(recipient.PrimaryPhone, s.cfg.CountryPrefix)
	body := WellnessCheckBody(recipient.FirstName)

	sendStart := time.Now()
	err := cache.SMSBreaker.Call(ctx, func() error {
		_, sendErr := s.sender.Send(ctx, phone, body)
		return sendErr
	})

	if err != nil {
		metrics.RecordSMSSent("primary", "failed", time.Since(sendStart).Seconds())
		return err
	}

	metrics.RecordSMSSent("primary", "success", time.Since(sendStart).Seconds())
	return nil
}
