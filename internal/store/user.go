package store

import (
	"context"

	"gorm.io/gorm"

	"WellCheck/internal/model"
)

// UserStore 管理端用户读写
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// FindByEmail 登录用，按邮箱查询
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByPublicID 按对外 ID 查询
func (s *UserStore) GetByPublicID(ctx context.Context, publicID int64) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("public_id = ?", publicID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindAdmins 查询账户下需要接收告警的管理员
func (s *UserStore) FindAdmins(ctx context.Context, accountID int64) ([]*model.User, error) {
	var users []*model.User
	err := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Where("is_admin = ?", true).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Create 创建用户
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}
