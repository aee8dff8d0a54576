package dto

import "time"

// ========== Recipient 相关 DTO ==========

// RecipientData 接收人数据
type RecipientData struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	OtherID      string    `json:"other_id,omitempty"`
	Active       bool      `json:"active"`
	PrimaryPhone string    `json:"primary_phone"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateRecipientRequest 创建接收人请求
type CreateRecipientRequest struct {
	FirstName    string `json:"first_name" binding:"required"`
	LastName     string `json:"last_name" binding:"required"`
	OtherID      string `json:"other_id"`
	PrimaryPhone string `json:"primary_phone" binding:"required"`
}

// UpdateRecipientRequest 更新接收人请求，nil 字段不更新
type UpdateRecipientRequest struct {
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	OtherID      *string `json:"other_id"`
	Active       *bool   `json:"active"`
	PrimaryPhone *string `json:"primary_phone"`
}

// ListRecipientsQuery 接收人列表查询参数
type ListRecipientsQuery struct {
	Active string `query:"active"` // "true" / "false" / 空 = 全部
	Cursor int64  `query:"cursor"`
	Limit  int    `query:"limit"`
}
