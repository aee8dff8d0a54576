package model

// MQ 消息载荷，worker 端按 MessageID 做幂等

// AdminAlertMessage 某位接收人回复 "no" 之后，给单个管理员的告警短信任务
type AdminAlertMessage struct {
	MessageID     string `json:"message_id"`
	AccountID     int64  `json:"account_id"`
	RecipientID   int64  `json:"recipient_id"`
	RecipientName string `json:"recipient_name"`
	AdminUserID   int64  `json:"admin_user_id"`
	AdminPhone    string `json:"admin_phone"`
	RepliedAt     string `json:"replied_at"` // RFC3339
}

// DailySummaryMessage 某账户的每日汇总邮件任务
type DailySummaryMessage struct {
	MessageID   string `json:"message_id"`
	AccountID   int64  `json:"account_id"`
	SummaryDate string `json:"summary_date"` // 2006-01-02（UTC 日历日）
	ScheduledAt string `json:"scheduled_at"` // RFC3339
}
