package utils

import (
	"strings"
)

// 库内统一存裸号码（不带国家码），出站发送时补前缀，入站回复时剥前缀
// 这样带不带 "+1" 的同一个号码都会命中同一条记录

// NormalizePhone 剥掉开头的国家码前缀（如果有），返回存储键形式的号码
func NormalizePhone(phone, countryPrefix string) string {
	phone = strings.TrimSpace(phone)
	if countryPrefix != "" && strings.HasPrefix(phone, countryPrefix) {
		return phone[len(countryPrefix):]
	}
	return phone
}

// WithCountryPrefix 补全国家码前缀，交给短信运营商的号码形式
func WithCountryPrefix(phone, countryPrefix string) string {
	phone = strings.TrimSpace(phone)
	if countryPrefix == "" || strings.HasPrefix(phone, countryPrefix) {
		return phone
	}
	return countryPrefix + phone
}

// MaskPhone 日志用号码脱敏，只保留末四位
func MaskPhone(phone string) string {
	if len(phone) <= 4 {
		return strings.Repeat("*", len(phone))
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
