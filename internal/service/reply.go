package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"WellCheck/internal/cache"
	"WellCheck/internal/model"
	"WellCheck/pkg/logger"
	"WellCheck/pkg/metrics"
	"WellCheck/utils"
)

// 入站回复链路：号码归一 -> 找当天记录 -> 判定 yes/no -> 落结果，"no" 触发管理员告警

// 回复判定结果
const (
	ReplyYes     = "yes"
	ReplyNo      = "no"
	ReplyUnknown = "unknown"
)

// ReplyAttestationLog 回复链路用到的签到记录读写
type ReplyAttestationLog interface {
	FindForPhoneOnDay(ctx context.Context, phone string, dayStart time.Time) (*model.Attestation, error)
	Resolve(ctx context.Context, id int64, respondedAt time.Time, passCheck bool) error
}

// RecipientFinder 按号码反查接收人
type RecipientFinder interface {
	FindByPhone(ctx context.Context, phone string) (*model.Recipient, error)
}

// AdminNotifier "no" 回复之后给管理员投递告警
type AdminNotifier interface {
	AlertAdmins(ctx context.Context, accountID, recipientID int64, repliedAt time.Time) error
}

type ReplyService struct {
	attestations  ReplyAttestationLog
	recipients    RecipientFinder
	notifier      AdminNotifier
	countryPrefix string
}

func NewReplyService(
	attestations ReplyAttestationLog,
	recipients RecipientFinder,
	notifier AdminNotifier,
	countryPrefix string,
) *ReplyService {
	return &ReplyService{
		attestations:  attestations,
		recipients:    recipients,
		notifier:      notifier,
		countryPrefix: countryPrefix,
	}
}

// ClassifyReply 判定回复内容，只认剥空白小写后的完全匹配
func ClassifyReply(body string) string {
	switch strings.ToLower(strings.TrimSpace(body)) {
	case "yes":
		return ReplyYes
	case "no":
		return ReplyNo
	default:
		return ReplyUnknown
	}
}

// HandleInbound 处理一条入站短信，返回要回给发送者的文案
// 先判定内容再查库：认不出的回复直接请对方重发，不关心有没有当天记录
// 同一天的第二条回复会覆盖前一条的结果（last-writer-wins）
func (s *ReplyService) HandleInbound(ctx context.Context, fromPhone, body string, now time.Time) (string, error) {
	nowUTC := now.UTC()
	dayStart := utils.StartOfDay(nowUTC)
	phone := utils.NormalizePhone(fromPhone, s.countryPrefix)

	classification := ClassifyReply(body)
	if classification == ReplyUnknown {
		logger.Logger.Info("Unrecognized reply body",
			zap.String("phone", utils.MaskPhone(phone)),
		)
		metrics.RecordReplyProcessed(classification)
		return ReplyToUnknown, nil
	}

	// 空值缓存挡掉陌生号码的反复穿透，缓存故障时直接走数据库
	snapshot, hit := s.cachedRecipient(ctx, phone)
	if hit && snapshot == nil {
		metrics.RecordReplyProcessed("unmatched")
		return ReplyNoAttestation, nil
	}

	attestation, err := s.attestations.FindForPhoneOnDay(ctx, phone, dayStart)
	if err != nil {
		return "", err
	}

	if attestation == nil {
		if !hit {
			s.cachePhoneLookup(ctx, phone)
		}
		logger.Logger.Info("Inbound reply with no pending wellness check",
			zap.String("phone", utils.MaskPhone(phone)),
		)
		metrics.RecordReplyProcessed("unmatched")
		return ReplyNoAttestation, nil
	}

	metrics.RecordReplyProcessed(classification)

	if classification == ReplyYes {
		if err := s.attestations.Resolve(ctx, attestation.ID, nowUTC, true); err != nil {
			return "", err
		}
		return ReplyToYes, nil
	}

	if err := s.attestations.Resolve(ctx, attestation.ID, nowUTC, false); err != nil {
		return "", err
	}

	// 告警失败不影响给发送者的回执
	if err := s.notifier.AlertAdmins(ctx, attestation.AccountID, attestation.RecipientID, nowUTC); err != nil {
		logger.Logger.Error("Failed to alert admins for failed wellness check",
			zap.Int64("account_id", attestation.AccountID),
			zap.Int64("recipient_id", attestation.RecipientID),
			zap.Error(err),
		)
	}
	return ReplyToNo, nil
}

// cachedRecipient 读缓存快照，返回 (snapshot, hit)
func (s *ReplyService) cachedRecipient(ctx context.Context, phone string) (*cache.RecipientPhoneCache, bool) {
	var snapshot *cache.RecipientPhoneCache
	var hit bool

	err := cache.RedisBreaker.Call(ctx, func() error {
		var cacheErr error
		snapshot, hit, cacheErr = cache.GetRecipientByPhone(ctx, phone)
		return cacheErr
	})
	if err != nil {
		return nil, false
	}

	return snapshot, hit
}

// cachePhoneLookup 号码没有当天记录时回填缓存：
// 属于接收人的写快照，陌生号码写空值标记，之后的消息都不再穿透到数据库
func (s *ReplyService) cachePhoneLookup(ctx context.Context, phone string) {
	recipient, err := s.recipients.FindByPhone(ctx, phone)
	if err == nil {
		snapshot := &cache.RecipientPhoneCache{
			RecipientID: recipient.ID,
			AccountID:   recipient.AccountID,
			FirstName:   recipient.FirstName,
			LastName:    recipient.LastName,
			Active:      recipient.Active,
			UpdatedAt:   time.Now().Unix(),
		}
		if err := cache.SetRecipientByPhone(ctx, phone, snapshot); err != nil {
			logger.Logger.Warn("Failed to cache recipient phone snapshot",
				zap.String("phone", utils.MaskPhone(phone)),
				zap.Error(err),
			)
		}
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return
	}

	if err := cache.SetRecipientByPhone(ctx, phone, nil); err != nil {
		logger.Logger.Warn("Failed to cache unknown phone mark",
			zap.String("phone", utils.MaskPhone(phone)),
			zap.Error(err),
		)
	}
}
