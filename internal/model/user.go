package model

// User 管理端用户，IsAdmin 的用户会收到失败告警短信和每日汇总邮件
type User struct {
	BaseModel
	PublicID     int64  `gorm:"uniqueIndex;not null" json:"public_id"`
	AccountID    int64  `gorm:"not null;index:idx_users_account_admin" json:"account_id"`
	Name         string `gorm:"type:varchar(128);not null" json:"name"`
	Email        string `gorm:"type:varchar(128);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:char(64);not null" json:"-"`
	PhoneNumber  string `gorm:"type:varchar(20)" json:"phone_number,omitempty"`
	IsAdmin      bool   `gorm:"not null;default:false;index:idx_users_account_admin" json:"is_admin"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
