package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"WellCheck/internal/model"
)

// AttestationStore 签到记录读写，所有按天的查询都以 UTC 零点为界
type AttestationStore struct {
	db *gorm.DB
}

func NewAttestationStore(db *gorm.DB) *AttestationStore {
	return &AttestationStore{db: db}
}

// FindForRecipientOnDay 查询接收人当天的签到记录，没有时返回 nil
func (s *AttestationStore) FindForRecipientOnDay(ctx context.Context, recipientID int64, dayStart time.Time) (*model.Attestation, error) {
	var attestation model.Attestation
	err := s.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Where("message_sent >= ?", dayStart).
		First(&attestation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &attestation, nil
}

// FindForPhoneOnDay 按号码快照查询当天的签到记录，没有时返回 nil
func (s *AttestationStore) FindForPhoneOnDay(ctx context.Context, phone string, dayStart time.Time) (*model.Attestation, error) {
	var attestation model.Attestation
	err := s.db.WithContext(ctx).
		Where("phone_number = ?", phone).
		Where("message_sent >= ?", dayStart).
		First(&attestation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &attestation, nil
}

// Upsert 保证每个接收人每天只有一条记录
// 已存在时刷新发送时间和号码快照，不存在时新建
func (s *AttestationStore) Upsert(ctx context.Context, attestation *model.Attestation, dayStart time.Time) (*model.Attestation, error) {
	existing, err := s.FindForRecipientOnDay(ctx, attestation.RecipientID, dayStart)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		if err := s.db.WithContext(ctx).Create(attestation).Error; err != nil {
			return nil, err
		}
		return attestation, nil
	}

	updates := map[string]interface{}{
		"message_sent": attestation.MessageSent,
		"phone_number": attestation.PhoneNumber,
	}
	if err := s.db.WithContext(ctx).Model(existing).Updates(updates).Error; err != nil {
		return nil, err
	}
	existing.MessageSent = attestation.MessageSent
	existing.PhoneNumber = attestation.PhoneNumber
	return existing, nil
}

// Resolve 记录回复结果，后写覆盖先写
func (s *AttestationStore) Resolve(ctx context.Context, id int64, respondedAt time.Time, passCheck bool) error {
	return s.db.WithContext(ctx).
		Model(&model.Attestation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"response_received": respondedAt,
			"pass_check":        passCheck,
		}).Error
}

// ListForAccountOnDay 查询账户当天的全部签到记录
func (s *AttestationStore) ListForAccountOnDay(ctx context.Context, accountID int64, dayStart time.Time) ([]*model.Attestation, error) {
	var attestations []*model.Attestation
	err := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Where("message_sent >= ?", dayStart).
		Find(&attestations).Error
	if err != nil {
		return nil, err
	}
	return attestations, nil
}

// ListForAccount 分页列出账户的签到记录，responded 为 nil 时不过滤
func (s *AttestationStore) ListForAccount(ctx context.Context, accountID int64, responded *bool, offset, limit int) ([]*model.Attestation, int64, error) {
	base := s.db.WithContext(ctx).Model(&model.Attestation{}).Where("account_id = ?", accountID)
	if responded != nil {
		if *responded {
			base = base.Where("response_received IS NOT NULL")
		} else {
			base = base.Where("response_received IS NULL")
		}
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var attestations []*model.Attestation
	err := base.
		Order("message_sent DESC").
		Offset(offset).
		Limit(limit).
		Find(&attestations).Error
	if err != nil {
		return nil, 0, err
	}
	return attestations, total, nil
}

// GetByPublicID 限定账户下按对外 ID 查询
func (s *AttestationStore) GetByPublicID(ctx context.Context, accountID, publicID int64) (*model.Attestation, error) {
	var attestation model.Attestation
	err := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Where("public_id = ?", publicID).
		First(&attestation).Error
	if err != nil {
		return nil, err
	}
	return &attestation, nil
}
