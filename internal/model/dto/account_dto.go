package dto

import "time"

// ========== Account 相关 DTO ==========

// AccountData 账户数据
type AccountData struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Active            bool       `json:"active"`
	DailySendHour     int        `json:"daily_send_hour"`
	LastSentAt        *time.Time `json:"last_sent_at,omitempty"`
	SummarySendHour   *int       `json:"summary_send_hour,omitempty"`
	SummaryLastSentAt *time.Time `json:"summary_last_sent_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// UpdateAccountRequest 更新账户请求，nil 字段不更新
type UpdateAccountRequest struct {
	Name            *string `json:"name"`
	Active          *bool   `json:"active"`
	DailySendHour   *int    `json:"daily_send_hour"`
	SummarySendHour *int    `json:"summary_send_hour"`
}
