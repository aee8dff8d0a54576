package utils

import (
	"time"
)

// 所有"今天"的判断都必须经过这里，Selector / Deduper / Reconciler 共用同一个日界
// 统一按 UTC 截断，账户不携带时区语义

// StartOfDay 返回 t 所在 UTC 日历日的零点
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayKey 返回 t 所在 UTC 日历日的字符串键，用于缓存标记和日志
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// SameDay 判断两个时间是否落在同一个 UTC 日历日
func SameDay(a, b time.Time) bool {
	return StartOfDay(a).Equal(StartOfDay(b))
}
