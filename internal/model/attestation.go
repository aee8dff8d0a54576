package model

import "time"

// Attestation 一条"某人某天的健康确认"记录
// 不变量：同一个 recipient 在同一个 UTC 日历日至多一行，靠 upsert 保证
// PhoneNumber 是发送时刻的快照，之后改了联系人号码也不影响当天的匹配
//
// 状态机：pending（已发送未回复）→ resolved-healthy / resolved-flagged
// ResponseReceived 置位即进入 resolved，同日的第二条回复覆盖结果（last-writer-wins）
type Attestation struct {
	BaseModel
	PublicID         int64      `gorm:"uniqueIndex;not null" json:"public_id"`
	AccountID        int64      `gorm:"not null;index:idx_attestations_account_sent" json:"account_id"`
	RecipientID      int64      `gorm:"not null;index:idx_attestations_recipient_sent" json:"recipient_id"`
	PhoneNumber      string     `gorm:"type:varchar(20);not null;index:idx_attestations_phone_sent" json:"phone_number"`
	MessageSent      time.Time  `gorm:"type:timestamptz;not null;index:idx_attestations_recipient_sent;index:idx_attestations_phone_sent;index:idx_attestations_account_sent" json:"message_sent"`
	ResponseReceived *time.Time `gorm:"type:timestamptz" json:"response_received,omitempty"`
	PassCheck        *bool      `json:"pass_check,omitempty"` // true=健康, false=异常, nil=未回复
}

// TableName 指定表名
func (Attestation) TableName() string {
	return "attestations"
}

// Pending 是否仍在等待回复
func (a *Attestation) Pending() bool {
	return a.ResponseReceived == nil
}
