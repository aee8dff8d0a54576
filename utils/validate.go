package utils

import (
	"regexp"
)

var (
	phonePattern = regexp.MustCompile(`^\d{10}$`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ValidatePhone 校验裸号码（十位，不带国家码）
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateSendHour 每日发送小时，UTC 0-23
func ValidateSendHour(hour int) bool {
	return hour >= 0 && hour <= 23
}
