package metrics

import (
	"context"
)

// 包级便捷函数，未初始化时静默跳过

// RecordDispatchCycle 记录一次调度周期
func RecordDispatchCycle(status string, duration float64, accountsDue int64) {
	if m := GetMetrics(); m != nil {
		m.RecordDispatchCycle(context.Background(), status, duration, accountsDue)
	}
}

// RecordAttestationUpserted 记录签到记录写入
func RecordAttestationUpserted(created bool) {
	if m := GetMetrics(); m != nil {
		m.RecordAttestationUpserted(context.Background(), created)
	}
}

// RecordSMSSent 记录短信发送结果
func RecordSMSSent(provider, status string, duration float64) {
	if m := GetMetrics(); m != nil {
		m.RecordSMSSent(context.Background(), provider, status, duration)
	}
}

// RecordReplyProcessed 记录一次入站回复处理
func RecordReplyProcessed(classification string) {
	if m := GetMetrics(); m != nil {
		m.RecordReplyProcessed(context.Background(), classification)
	}
}

// RecordAdminAlert 记录告警投递
func RecordAdminAlert(status string) {
	if m := GetMetrics(); m != nil {
		m.RecordAdminAlert(context.Background(), status)
	}
}
