package store

import (
	"context"

	"gorm.io/gorm"

	"WellCheck/internal/model"
)

// RecipientStore 接收人读写
type RecipientStore struct {
	db *gorm.DB
}

func NewRecipientStore(db *gorm.DB) *RecipientStore {
	return &RecipientStore{db: db}
}

// FindActiveByAccounts 查询一批账户下所有启用的接收人
func (s *RecipientStore) FindActiveByAccounts(ctx context.Context, accountIDs []int64) ([]*model.Recipient, error) {
	if len(accountIDs) == 0 {
		return nil, nil
	}

	var recipients []*model.Recipient
	err := s.db.WithContext(ctx).
		Where("account_id IN ?", accountIDs).
		Where("active = ?", true).
		Find(&recipients).Error
	if err != nil {
		return nil, err
	}
	return recipients, nil
}

// FindActiveByAccount 查询单个账户下启用的接收人
func (s *RecipientStore) FindActiveByAccount(ctx context.Context, accountID int64) ([]*model.Recipient, error) {
	return s.FindActiveByAccounts(ctx, []int64{accountID})
}

// FindByIDs 按内部 ID 批量查询（包含已停用的）
func (s *RecipientStore) FindByIDs(ctx context.Context, ids []int64) ([]*model.Recipient, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var recipients []*model.Recipient
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&recipients).Error; err != nil {
		return nil, err
	}
	return recipients, nil
}

// FindByPhone 按手机号（不含国家前缀）查询接收人
func (s *RecipientStore) FindByPhone(ctx context.Context, phone string) (*model.Recipient, error) {
	var recipient model.Recipient
	if err := s.db.WithContext(ctx).Where("primary_phone = ?", phone).First(&recipient).Error; err != nil {
		return nil, err
	}
	return &recipient, nil
}

// GetByID 按内部 ID 查询
func (s *RecipientStore) GetByID(ctx context.Context, id int64) (*model.Recipient, error) {
	var recipient model.Recipient
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&recipient).Error; err != nil {
		return nil, err
	}
	return &recipient, nil
}

// GetByPublicID 限定账户下按对外 ID 查询
func (s *RecipientStore) GetByPublicID(ctx context.Context, accountID, publicID int64) (*model.Recipient, error) {
	var recipient model.Recipient
	err := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Where("public_id = ?", publicID).
		First(&recipient).Error
	if err != nil {
		return nil, err
	}
	return &recipient, nil
}

// ListByAccount 分页列出账户下的接收人
func (s *RecipientStore) ListByAccount(ctx context.Context, accountID int64, offset, limit int) ([]*model.Recipient, int64, error) {
	var total int64
	base := s.db.WithContext(ctx).Model(&model.Recipient{}).Where("account_id = ?", accountID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipients []*model.Recipient
	err := base.
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&recipients).Error
	if err != nil {
		return nil, 0, err
	}
	return recipients, total, nil
}

// Create 创建接收人
func (s *RecipientStore) Create(ctx context.Context, recipient *model.Recipient) error {
	return s.db.WithContext(ctx).Create(recipient).Error
}

// Update 按字段更新接收人
func (s *RecipientStore) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	return s.db.WithContext(ctx).
		Model(&model.Recipient{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Delete 软删除接收人
func (s *RecipientStore) Delete(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Recipient{}).Error
}
