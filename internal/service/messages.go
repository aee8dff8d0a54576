package service

import "fmt"

// 短信文案集中在这里，方便统一口径

const (
	// wellnessCheckTemplate 每日问安短信，%s 为接收人的名字
	wellnessCheckTemplate = "Good morning %s. This is your daily WellCheck. Are you feeling well today? Please reply with 'yes' or 'no'."

	// ReplyToYes 收到 "yes"（一切正常）后的回执
	ReplyToYes = "Thanks for checking in. Have a great day!"

	// ReplyToNo 收到 "no"（状态异常）后的回执，管理员会被告警
	ReplyToNo = "Sorry to hear that. Your administrator has been notified and will follow up with you shortly."

	// ReplyToUnknown 无法识别的回复
	ReplyToUnknown = "Sorry, we didn't understand your reply. Please reply with 'yes' or 'no'."

	// ReplyNoAttestation 当天没有待回复记录的号码发来消息
	ReplyNoAttestation = "We don't have a wellness check waiting for this number today."

	// adminAlertTemplate 管理员告警短信，%s 依次为接收人姓名、回复时间
	adminAlertTemplate = "WellCheck alert: %s reported not feeling well at %s. Please follow up."
)

// WellnessCheckBody 渲染问安短信
func WellnessCheckBody(firstName string) string {
	return fmt.Sprintf(wellnessCheckTemplate, firstName)
}

// AdminAlertBody 渲染管理员告警短信
func AdminAlertBody(recipientName, repliedAt string) string {
	return fmt.Sprintf(adminAlertTemplate, recipientName, repliedAt)
}
