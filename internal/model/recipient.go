package model

// Recipient 接受每日健康确认的人，属于且仅属于一个账户
// PrimaryPhone 存裸号码（不带国家码），入站匹配靠它
type Recipient struct {
	BaseModel
	PublicID     int64  `gorm:"uniqueIndex;not null" json:"public_id"`
	AccountID    int64  `gorm:"not null;index:idx_recipients_account_active" json:"account_id"`
	FirstName    string `gorm:"type:varchar(64);not null" json:"first_name"`
	LastName     string `gorm:"type:varchar(64);not null" json:"last_name"`
	OtherID      string `gorm:"type:varchar(64)" json:"other_id,omitempty"` // 租户侧的员工编号之类
	Active       bool   `gorm:"not null;default:true;index:idx_recipients_account_active" json:"active"`
	PrimaryPhone string `gorm:"type:varchar(20);not null;index:idx_recipients_phone" json:"primary_phone"`
}

// TableName 指定表名
func (Recipient) TableName() string {
	return "recipients"
}

func (r *Recipient) FullName() string {
	return r.FirstName + " " + r.LastName
}
