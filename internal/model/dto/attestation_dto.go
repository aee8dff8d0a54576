package dto

import "time"

// ========== Attestation 相关 DTO ==========

// AttestationData 健康确认记录数据
type AttestationData struct {
	ID               string     `json:"id"`
	RecipientID      string     `json:"recipient_id"`
	PhoneNumber      string     `json:"phone_number"`
	MessageSent      time.Time  `json:"message_sent"`
	ResponseReceived *time.Time `json:"response_received,omitempty"`
	PassCheck        *bool      `json:"pass_check,omitempty"`
	Status           string     `json:"status"` // pending / resolved-healthy / resolved-flagged
}

// ListAttestationsQuery 记录列表查询参数
// status: "responded" 只看已回复，"pending" 只看未回复，空 = 全部
type ListAttestationsQuery struct {
	Status string `query:"status"`
	Cursor int64  `query:"cursor"`
	Limit  int    `query:"limit"`
}

// UpsertAttestationRequest 手工补录/刷新某人当天的记录（走同一套 upsert 逻辑）
type UpsertAttestationRequest struct {
	RecipientID string     `json:"recipient_id" binding:"required"`
	MessageSent *time.Time `json:"message_sent"`
	PassCheck   *bool      `json:"pass_check"`
}

// InboundReplyRequest 入站短信回调载荷（兼容表单字段 From/Body）
type InboundReplyRequest struct {
	FromPhone string `json:"from_phone" form:"From"`
	BodyText  string `json:"body_text" form:"Body"`
}

// InboundReplyResponse 返回给发送者的回复文案
type InboundReplyResponse struct {
	Reply string `json:"reply"`
}
