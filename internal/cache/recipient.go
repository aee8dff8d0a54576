package cache

import (
	"context"
)

// 回复 webhook 的热路径按手机号查接收人，缓存一份快照，
// 空值保护防止陌生号码反复穿透到数据库

// RecipientPhoneCache 按手机号缓存的接收人快照
type RecipientPhoneCache struct {
	RecipientID int64  `json:"recipient_id"`
	AccountID   int64  `json:"account_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Active      bool   `json:"active"`
	UpdatedAt   int64  `json:"updated_at"`
}

// SetRecipientByPhone 写入接收人快照，snapshot 为 nil 时缓存空值
func SetRecipientByPhone(ctx context.Context, phone string, snapshot *RecipientPhoneCache) error {
	if snapshot == nil {
		return RecipientPhoneProtectedCache.Set(ctx, phone, nil)
	}
	return RecipientPhoneProtectedCache.Set(ctx, phone, snapshot)
}

// GetRecipientByPhone 按手机号读取快照
// 返回 (snapshot, hit, error)：hit 为 true 且 snapshot 为 nil 表示空值命中
func GetRecipientByPhone(ctx context.Context, phone string) (*RecipientPhoneCache, bool, error) {
	var snapshot RecipientPhoneCache

	hit, isEmpty, err := RecipientPhoneProtectedCache.Get(ctx, phone, &snapshot)
	if err != nil {
		return nil, false, err
	}
	if !hit {
		return nil, false, nil
	}
	if isEmpty {
		return nil, true, nil
	}

	return &snapshot, true, nil
}

// InvalidateRecipientPhone 接收人号码变更或停用时清缓存
func InvalidateRecipientPhone(ctx context.Context, phones ...string) error {
	return RecipientPhoneProtectedCache.BatchDelete(ctx, phones)
}
