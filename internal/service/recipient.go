package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"WellCheck/config"
	"WellCheck/internal/cache"
	"WellCheck/internal/model"
	"WellCheck/internal/model/dto"
	"WellCheck/internal/store"
	pkgerrors "WellCheck/pkg/errors"
	"WellCheck/pkg/logger"
	"WellCheck/pkg/snowflake"
	"WellCheck/storage/database"
	"WellCheck/utils"
)

const defaultPageSize = 50

var (
	recipientService *RecipientService
	recipientOnce    sync.Once
)

func Recipients() *RecipientService {
	recipientOnce.Do(func() {
		recipientService = NewRecipientService(
			store.NewRecipientStore(database.DB()),
			config.Cfg.SMSCountryPrefix,
		)
	})
	return recipientService
}

type RecipientService struct {
	recipients    *store.RecipientStore
	countryPrefix string
}

func NewRecipientService(recipients *store.RecipientStore, countryPrefix string) *RecipientService {
	return &RecipientService{recipients: recipients, countryPrefix: countryPrefix}
}

// List 分页列出账户下的接收人
func (s *RecipientService) List(ctx context.Context, accountID int64, query dto.ListRecipientsQuery) ([]*dto.RecipientData, int64, error) {
	limit := query.Limit
	if limit <= 0 || limit > 200 {
		limit = defaultPageSize
	}
	offset := int(query.Cursor)
	if offset < 0 {
		offset = 0
	}

	recipients, total, err := s.recipients.ListByAccount(ctx, accountID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recipients: %w", err)
	}

	result := make([]*dto.RecipientData, 0, len(recipients))
	for _, r := range recipients {
		if query.Active == "true" && !r.Active {
			continue
		}
		if query.Active == "false" && r.Active {
			continue
		}
		result = append(result, toRecipientData(r))
	}
	return result, total, nil
}

// Get 按对外 ID 查询
func (s *RecipientService) Get(ctx context.Context, accountID int64, recipientID string) (*dto.RecipientData, error) {
	recipient, err := s.getByPublicID(ctx, accountID, recipientID)
	if err != nil {
		return nil, err
	}
	return toRecipientData(recipient), nil
}

// Create 创建接收人，号码全库唯一（入站匹配只有号码可用）
func (s *RecipientService) Create(ctx context.Context, accountID int64, req dto.CreateRecipientRequest) (*dto.RecipientData, error) {
	phone := utils.NormalizePhone(req.PrimaryPhone, s.countryPrefix)
	if !utils.ValidatePhone(phone) {
		return nil, pkgerrors.InvalidPhone
	}

	if _, err := s.recipients.FindByPhone(ctx, phone); err == nil {
		return nil, pkgerrors.RecipientPhoneConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check phone uniqueness: %w", err)
	}

	publicID, err := snowflake.NextID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate recipient ID: %w", err)
	}

	recipient := &model.Recipient{
		PublicID:     publicID,
		AccountID:    accountID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		OtherID:      req.OtherID,
		Active:       true,
		PrimaryPhone: phone,
	}

	if err := s.recipients.Create(ctx, recipient); err != nil {
		return nil, fmt.Errorf("failed to create recipient: %w", err)
	}

	// 新号码可能之前被空值缓存挡过
	s.invalidatePhones(ctx, phone)

	logger.Logger.Info("Recipient created",
		zap.Int64("recipient_id", publicID),
		zap.String("phone", utils.MaskPhone(phone)),
	)

	return toRecipientData(recipient), nil
}

// Update 更新接收人，nil 字段保持不变
func (s *RecipientService) Update(ctx context.Context, accountID int64, recipientID string, req dto.UpdateRecipientRequest) (*dto.RecipientData, error) {
	recipient, err := s.getByPublicID(ctx, accountID, recipientID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	staleOnes := []string{recipient.PrimaryPhone}

	if req.FirstName != nil && *req.FirstName != "" {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil && *req.LastName != "" {
		updates["last_name"] = *req.LastName
	}
	if req.OtherID != nil {
		updates["other_id"] = *req.OtherID
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if req.PrimaryPhone != nil {
		phone := utils.NormalizePhone(*req.PrimaryPhone, s.countryPrefix)
		if !utils.ValidatePhone(phone) {
			return nil, pkgerrors.InvalidPhone
		}
		if phone != recipient.PrimaryPhone {
			if existing, err := s.recipients.FindByPhone(ctx, phone); err == nil && existing.ID != recipient.ID {
				return nil, pkgerrors.RecipientPhoneConflict
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to check phone uniqueness: %w", err)
			}
			updates["primary_phone"] = phone
			staleOnes = append(staleOnes, phone)
		}
	}

	if len(updates) > 0 {
		if err := s.recipients.Update(ctx, recipient.ID, updates); err != nil {
			return nil, fmt.Errorf("failed to update recipient: %w", err)
		}
		s.invalidatePhones(ctx, staleOnes...)
	}

	recipient, err = s.getByPublicID(ctx, accountID, recipientID)
	if err != nil {
		return nil, err
	}
	return toRecipientData(recipient), nil
}

// Delete 软删除接收人
func (s *RecipientService) Delete(ctx context.Context, accountID int64, recipientID string) error {
	recipient, err := s.getByPublicID(ctx, accountID, recipientID)
	if err != nil {
		return err
	}

	if err := s.recipients.Delete(ctx, recipient.ID); err != nil {
		return fmt.Errorf("failed to delete recipient: %w", err)
	}

	s.invalidatePhones(ctx, recipient.PrimaryPhone)

	logger.Logger.Info("Recipient deleted",
		zap.Int64("recipient_id", recipient.PublicID),
	)
	return nil
}

func (s *RecipientService) getByPublicID(ctx context.Context, accountID int64, recipientID string) (*model.Recipient, error) {
	var publicID int64
	if _, err := fmt.Sscanf(recipientID, "%d", &publicID); err != nil {
		return nil, pkgerrors.RecipientNotFound
	}

	recipient, err := s.recipients.GetByPublicID(ctx, accountID, publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.RecipientNotFound
		}
		return nil, fmt.Errorf("failed to query recipient: %w", err)
	}
	return recipient, nil
}

func (s *RecipientService) invalidatePhones(ctx context.Context, phones ...string) {
	if err := cache.InvalidateRecipientPhone(ctx, phones...); err != nil {
		logger.Logger.Warn("Failed to invalidate recipient phone cache",
			zap.Error(err),
		)
	}
}

func toRecipientData(r *model.Recipient) *dto.RecipientData {
	return &dto.RecipientData{
		ID:           fmt.Sprintf("%d", r.PublicID),
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		OtherID:      r.OtherID,
		Active:       r.Active,
		PrimaryPhone: r.PrimaryPhone,
		CreatedAt:    r.CreatedAt,
	}
}
