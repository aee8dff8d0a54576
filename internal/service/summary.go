package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"WellCheck/internal/model"
	"WellCheck/pkg/email"
	"WellCheck/pkg/logger"
	"WellCheck/utils"
)

// 账户日报：把当天的签到记录按结果分组，发给账户管理员
// worker 消费 daily_summary 队列时调用

// SummaryAccountStore 日报用到的账户读写
type SummaryAccountStore interface {
	GetByID(ctx context.Context, id int64) (*model.Account, error)
	SetSummaryLastSent(ctx context.Context, accountID int64, sentAt time.Time) error
}

// SummaryAttestationLog 日报用到的签到记录查询
type SummaryAttestationLog interface {
	ListForAccountOnDay(ctx context.Context, accountID int64, dayStart time.Time) ([]*model.Attestation, error)
}

// RecipientBatchGetter 批量反查接收人姓名
type RecipientBatchGetter interface {
	FindByIDs(ctx context.Context, ids []int64) ([]*model.Recipient, error)
}

type SummaryService struct {
	accounts     SummaryAccountStore
	attestations SummaryAttestationLog
	recipients   RecipientBatchGetter
	users        AdminDirectory
	mailer       email.Client
}

func NewSummaryService(
	accounts SummaryAccountStore,
	attestations SummaryAttestationLog,
	recipients RecipientBatchGetter,
	users AdminDirectory,
	mailer email.Client,
) *SummaryService {
	return &SummaryService{
		accounts:     accounts,
		attestations: attestations,
		recipients:   recipients,
		users:        users,
		mailer:       mailer,
	}
}

// summaryGroups 当天记录按结果分组
type summaryGroups struct {
	passed       []*model.Attestation
	flagged      []*model.Attestation
	notResponded []*model.Attestation
}

// SendSummary 给一个账户的全部管理员发当天的汇总邮件
func (s *SummaryService) SendSummary(ctx context.Context, accountID int64, summaryDate string) error {
	dayStart, err := time.ParseInLocation("2006-01-02", summaryDate, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid summary date %q: %w", summaryDate, err)
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	admins, err := s.users.FindAdmins(ctx, accountID)
	if err != nil {
		return err
	}
	if len(admins) == 0 {
		logger.Logger.Warn("No admins to receive daily summary",
			zap.Int64("account_id", accountID),
		)
		return nil
	}

	attestations, err := s.attestations.ListForAccountOnDay(ctx, accountID, dayStart)
	if err != nil {
		return err
	}

	groups := groupAttestations(attestations)
	names, err := s.recipientNames(ctx, attestations)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("WellCheck Daily Summary - %s", account.Name)
	body := buildSummaryBody(groups, names, time.Now().UTC())

	var sendErrs int
	for _, admin := range admins {
		if err := s.mailer.Send(ctx, admin.Name, admin.Email, subject, body); err != nil {
			logger.Logger.Error("Failed to send summary email",
				zap.Int64("account_id", accountID),
				zap.String("admin_email", admin.Email),
				zap.Error(err),
			)
			sendErrs++
		}
	}
	if sendErrs == len(admins) {
		return fmt.Errorf("failed to deliver summary to any of %d admins", len(admins))
	}

	if err := s.accounts.SetSummaryLastSent(ctx, accountID, time.Now().UTC()); err != nil {
		logger.Logger.Error("Failed to stamp summary watermark",
			zap.Int64("account_id", accountID),
			zap.Error(err),
		)
	}

	logger.Logger.Info("Daily summary sent",
		zap.Int64("account_id", accountID),
		zap.String("summary_date", summaryDate),
		zap.Int("total_checks", len(attestations)),
		zap.Int("admin_count", len(admins)),
	)

	return nil
}

func groupAttestations(attestations []*model.Attestation) summaryGroups {
	var groups summaryGroups
	for _, a := range attestations {
		switch {
		case a.PassCheck == nil:
			groups.notResponded = append(groups.notResponded, a)
		case *a.PassCheck:
			groups.passed = append(groups.passed, a)
		default:
			groups.flagged = append(groups.flagged, a)
		}
	}
	return groups
}

func (s *SummaryService) recipientNames(ctx context.Context, attestations []*model.Attestation) (map[int64]string, error) {
	ids := make([]int64, 0, len(attestations))
	seen := make(map[int64]bool)
	for _, a := range attestations {
		if !seen[a.RecipientID] {
			seen[a.RecipientID] = true
			ids = append(ids, a.RecipientID)
		}
	}

	recipients, err := s.recipients.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	names := make(map[int64]string, len(recipients))
	for _, r := range recipients {
		names[r.ID] = r.FullName()
	}
	return names, nil
}

// buildSummaryBody 纯文本邮件正文
func buildSummaryBody(groups summaryGroups, names map[int64]string, now time.Time) string {
	total := len(groups.passed) + len(groups.flagged) + len(groups.notResponded)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Hello, today we sent %d wellness checks to your recipients. As of %s UTC:\n",
		total, now.Format("15:04"))
	fmt.Fprintf(&sb, " * %d reported feeling well.\n", len(groups.passed))
	fmt.Fprintf(&sb, " * %d reported not feeling well.\n", len(groups.flagged))
	if len(groups.notResponded) == 1 {
		sb.WriteString(" * 1 has not responded to their check-in message.\n")
	} else {
		fmt.Fprintf(&sb, " * %d have not responded to their check-in messages.\n", len(groups.notResponded))
	}

	sb.WriteString("\nPeople reporting not feeling well: ")
	sb.WriteString(formatGroup(groups.flagged, names))
	sb.WriteString("\nPeople that have not responded: ")
	sb.WriteString(formatGroup(groups.notResponded, names))
	sb.WriteString("\n")

	return sb.String()
}

func formatGroup(attestations []*model.Attestation, names map[int64]string) string {
	if len(attestations) == 0 {
		return "none"
	}

	var sb strings.Builder
	for _, a := range attestations {
		name := names[a.RecipientID]
		if name == "" {
			name = "(unknown)"
		}
		fmt.Fprintf(&sb, "\n * %s - %s", name, utils.MaskPhone(a.PhoneNumber))
	}
	return sb.String()
}
