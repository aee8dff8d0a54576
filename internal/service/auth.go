package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"WellCheck/internal/cache"
	"WellCheck/internal/model/dto"
	"WellCheck/internal/store"
	pkgerrors "WellCheck/pkg/errors"
	"WellCheck/pkg/logger"
	"WellCheck/pkg/token"
	"WellCheck/storage/database"
	"WellCheck/utils"
)

// api 中暴露的 user_id / account_id 都是 public_id

var (
	authService *AuthService
	authOnce    sync.Once
)

func Auth() *AuthService {
	authOnce.Do(func() {
		authService = NewAuthService(store.NewUserStore(database.DB()), store.NewAccountStore(database.DB()))
	})
	return authService
}

type AuthService struct {
	users    *store.UserStore
	accounts *store.AccountStore
}

func NewAuthService(users *store.UserStore, accounts *store.AccountStore) *AuthService {
	return &AuthService{users: users, accounts: accounts}
}

// Login 邮箱密码登录，发 token 对
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.InvalidCredentials
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !utils.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, pkgerrors.InvalidCredentials
	}

	account, err := s.accounts.GetByID(ctx, user.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}

	userIDStr := fmt.Sprintf("%d", user.PublicID)
	accessToken, refreshToken, expiresIn, err := token.GenerateTokenPair(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	// refresh token 落 Redis，失败不影响本次登录
	if err := cache.SetRefreshToken(ctx, userIDStr, refreshToken); err != nil {
		logger.Logger.Warn("Failed to store refresh token in Redis",
			zap.String("user_id", userIDStr),
			zap.Error(err),
		)
	}

	logger.Logger.Info("User logged in",
		zap.String("user_id", userIDStr),
		zap.Int64("account_id", account.PublicID),
	)

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
		User: dto.AuthUserSnapshot{
			ID:        userIDStr,
			Name:      user.Name,
			Email:     user.Email,
			AccountID: fmt.Sprintf("%d", account.PublicID),
			IsAdmin:   user.IsAdmin,
		},
	}, nil
}

// Refresh 用 refresh token 换新的 access token
func (s *AuthService) Refresh(ctx context.Context, req dto.RefreshTokenRequest) (*dto.RefreshTokenResponse, error) {
	userID, err := token.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, pkgerrors.Unauthorized
	}

	if !cache.ValidateRefreshTokenExists(ctx, userID, req.RefreshToken) {
		return nil, pkgerrors.Unauthorized
	}

	accessToken, _, expiresIn, err := token.GenerateTokenPair(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &dto.RefreshTokenResponse{
		AccessToken: accessToken,
		ExpiresIn:   expiresIn,
	}, nil
}

// ResolveUser 根据 token 里的 public_id 拿用户，middleware 之后的通用入口
func (s *AuthService) ResolveUser(ctx context.Context, userID string) (*dto.AuthUserSnapshot, int64, error) {
	var publicID int64
	if _, err := fmt.Sscanf(userID, "%d", &publicID); err != nil {
		return nil, 0, pkgerrors.InvalidUserID
	}

	user, err := s.users.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, pkgerrors.ErrUserNotFound
		}
		return nil, 0, fmt.Errorf("failed to query user: %w", err)
	}

	snapshot := &dto.AuthUserSnapshot{
		ID:      userID,
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	}
	return snapshot, user.AccountID, nil
}
