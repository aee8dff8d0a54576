package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"WellCheck/internal/model"
	"WellCheck/internal/model/dto"
	"WellCheck/internal/store"
	pkgerrors "WellCheck/pkg/errors"
	"WellCheck/pkg/logger"
	"WellCheck/storage/database"
	"WellCheck/utils"
)

var (
	accountService *AccountService
	accountOnce    sync.Once
)

func Accounts() *AccountService {
	accountOnce.Do(func() {
		accountService = NewAccountService(store.NewAccountStore(database.DB()))
	})
	return accountService
}

type AccountService struct {
	accounts *store.AccountStore
}

func NewAccountService(accounts *store.AccountStore) *AccountService {
	return &AccountService{accounts: accounts}
}

// GetAccount 查询当前用户所属账户
func (s *AccountService) GetAccount(ctx context.Context, accountID int64) (*dto.AccountData, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.AccountNotFound
		}
		return nil, fmt.Errorf("failed to query account: %w", err)
	}

	return toAccountData(account), nil
}

// UpdateAccount 更新账户设置，nil 字段保持不变
func (s *AccountService) UpdateAccount(ctx context.Context, accountID int64, req dto.UpdateAccountRequest) (*dto.AccountData, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.AccountNotFound
		}
		return nil, fmt.Errorf("failed to query account: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != nil && *req.Name != "" {
		updates["name"] = *req.Name
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if req.DailySendHour != nil {
		if !utils.ValidateSendHour(*req.DailySendHour) {
			return nil, pkgerrors.InvalidSendHour
		}
		updates["daily_send_hour"] = *req.DailySendHour
	}
	if req.SummarySendHour != nil {
		if !utils.ValidateSendHour(*req.SummarySendHour) {
			return nil, pkgerrors.InvalidSendHour
		}
		updates["summary_send_hour"] = *req.SummarySendHour
	}

	if len(updates) == 0 {
		return toAccountData(account), nil
	}

	if err := s.accounts.Update(ctx, account.ID, updates); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	logger.Logger.Info("Account updated",
		zap.Int64("account_id", account.PublicID),
		zap.Int("field_count", len(updates)),
	)

	account, err = s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload account: %w", err)
	}
	return toAccountData(account), nil
}

func toAccountData(account *model.Account) *dto.AccountData {
	return &dto.AccountData{
		ID:                fmt.Sprintf("%d", account.PublicID),
		Name:              account.Name,
		Active:            account.Active,
		DailySendHour:     account.DailySendHour,
		LastSentAt:        account.LastSentAt,
		SummarySendHour:   account.SummarySendHour,
		SummaryLastSentAt: account.SummaryLastSentAt,
		CreatedAt:         account.CreatedAt,
	}
}
