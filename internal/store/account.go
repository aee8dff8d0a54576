package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"WellCheck/internal/model"
)

// AccountStore 账户读写，到期筛选和水位线更新都在这里
type AccountStore struct {
	db *gorm.DB
}

func NewAccountStore(db *gorm.DB) *AccountStore {
	return &AccountStore{db: db}
}

// FindDue 查询当前整点到期且今天还没发过的启用账户
// lastSentAt 为空或早于当天零点的视为未发送。
// 这里刻意用严格小于：水位线恰好落在零点时该账户属于当天已发送
func (s *AccountStore) FindDue(ctx context.Context, hour int, dayStart time.Time) ([]*model.Account, error) {
	var accounts []*model.Account
	err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Where("daily_send_hour = ?", hour).
		Where("last_sent_at IS NULL OR last_sent_at < ?", dayStart).
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// FindSummaryDue 查询当前整点到期且今天还没发过日报的账户
func (s *AccountStore) FindSummaryDue(ctx context.Context, hour int, dayStart time.Time) ([]*model.Account, error) {
	var accounts []*model.Account
	err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Where("summary_send_hour = ?", hour).
		Where("summary_last_sent_at IS NULL OR summary_last_sent_at < ?", dayStart).
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// SetLastSent 更新发送水位线
func (s *AccountStore) SetLastSent(ctx context.Context, accountIDs []int64, sentAt time.Time) error {
	if len(accountIDs) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id IN ?", accountIDs).
		Update("last_sent_at", sentAt).Error
}

// SetSummaryLastSent 更新日报水位线
func (s *AccountStore) SetSummaryLastSent(ctx context.Context, accountID int64, sentAt time.Time) error {
	return s.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ?", accountID).
		Update("summary_last_sent_at", sentAt).Error
}

// GetByID 按内部 ID 查询
func (s *AccountStore) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	var account model.Account
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByPublicID 按对外 ID 查询
func (s *AccountStore) GetByPublicID(ctx context.Context, publicID int64) (*model.Account, error) {
	var account model.Account
	if err := s.db.WithContext(ctx).Where("public_id = ?", publicID).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// Create 创建账户
func (s *AccountStore) Create(ctx context.Context, account *model.Account) error {
	return s.db.WithContext(ctx).Create(account).Error
}

// Update 按字段更新账户
func (s *AccountStore) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	return s.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ?", id).
		Updates(updates).Error
}
