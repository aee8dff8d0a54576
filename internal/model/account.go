package model

import "time"

// Account 租户账户模型
// DailySendHour 是 UTC 小时，LastSentAt 是防止同日重发的水位线
// 核心流程只会改 LastSentAt / SummaryLastSentAt，其余字段走管理端 CRUD
type Account struct {
	BaseModel
	PublicID      int64      `gorm:"uniqueIndex;not null" json:"public_id"`
	Name          string     `gorm:"type:varchar(128);not null" json:"name"`
	Active        bool       `gorm:"not null;default:true;index:idx_accounts_active" json:"active"`
	DailySendHour int        `gorm:"type:smallint;not null;default:9" json:"daily_send_hour"`
	LastSentAt    *time.Time `gorm:"type:timestamptz" json:"last_sent_at,omitempty"`

	// 管理员每日汇总邮件，nil 表示该账户不发汇总
	SummarySendHour   *int       `gorm:"type:smallint" json:"summary_send_hour,omitempty"`
	SummaryLastSentAt *time.Time `gorm:"type:timestamptz" json:"summary_last_sent_at,omitempty"`
}

// TableName 指定表名
func (Account) TableName() string {
	return "accounts"
}
