package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics OpenTelemetry 指标集合
type OTelMetrics struct {
	// 调度相关指标
	DispatchCyclesTotal       metric.Int64Counter
	DispatchCycleDuration     metric.Float64Histogram
	DispatchAccountsDue       metric.Int64Counter
	AttestationsUpsertedTotal metric.Int64Counter

	// 短信相关指标
	SMSSentTotal    metric.Int64Counter
	SMSSendDuration metric.Float64Histogram

	// 回复与告警指标
	RepliesProcessedTotal metric.Int64Counter
	AdminAlertsTotal      metric.Int64Counter

	// HTTP 相关指标
	HTTPServerRequestTotal   metric.Int64Counter
	HTTPServerDuration       metric.Float64Histogram
	HTTPServerActiveRequests metric.Int64UpDownCounter
}

var (
	// 全局指标实例
	metrics *OTelMetrics
	meter   = otel.Meter("wellcheck")
)

// InitMetrics 初始化 OpenTelemetry 指标
func InitMetrics() error {
	var err error

	metrics = &OTelMetrics{}

	metrics.DispatchCyclesTotal, err = meter.Int64Counter(
		"dispatch_cycles_total",
		metric.WithDescription("Total number of dispatch cycles"),
		metric.WithUnit("{cycle}"),
	)
	if err != nil {
		return err
	}

	metrics.DispatchCycleDuration, err = meter.Float64Histogram(
		"dispatch_cycle_duration_seconds",
		metric.WithDescription("Time spent running a dispatch cycle in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	metrics.DispatchAccountsDue, err = meter.Int64Counter(
		"dispatch_accounts_due_total",
		metric.WithDescription("Total number of accounts selected as due"),
		metric.WithUnit("{account}"),
	)
	if err != nil {
		return err
	}

	metrics.AttestationsUpsertedTotal, err = meter.Int64Counter(
		"attestations_upserted_total",
		metric.WithDescription("Total number of attestation records created or refreshed"),
		metric.WithUnit("{attestation}"),
	)
	if err != nil {
		return err
	}

	metrics.SMSSentTotal, err = meter.Int64Counter(
		"sms_sent_total",
		metric.WithDescription("Total number of SMS sent"),
		metric.WithUnit("{sms}"),
	)
	if err != nil {
		return err
	}

	metrics.SMSSendDuration, err = meter.Float64Histogram(
		"sms_send_duration_seconds",
		metric.WithDescription("Time spent sending SMS in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	metrics.RepliesProcessedTotal, err = meter.Int64Counter(
		"replies_processed_total",
		metric.WithDescription("Total number of inbound replies processed"),
		metric.WithUnit("{reply}"),
	)
	if err != nil {
		return err
	}

	metrics.AdminAlertsTotal, err = meter.Int64Counter(
		"admin_alerts_total",
		metric.WithDescription("Total number of admin alerts published"),
		metric.WithUnit("{alert}"),
	)
	if err != nil {
		return err
	}

	metrics.HTTPServerRequestTotal, err = meter.Int64Counter(
		"http_server_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return err
	}

	metrics.HTTPServerDuration, err = meter.Float64Histogram(
		"http_server_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	metrics.HTTPServerActiveRequests, err = meter.Int64UpDownCounter(
		"http_server_active_requests",
		metric.WithDescription("Number of in-flight HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// GetMetrics 获取全局指标实例
func GetMetrics() *OTelMetrics {
	return metrics
}

// RecordDispatchCycle 记录一次调度周期
func (m *OTelMetrics) RecordDispatchCycle(ctx context.Context, status string, duration float64, accountsDue int64) {
	attrs := []attribute.KeyValue{
		attribute.String("status", status),
	}

	m.DispatchCyclesTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.DispatchCycleDuration.Record(ctx, duration, metric.WithAttributes(attrs...))
	if accountsDue > 0 {
		m.DispatchAccountsDue.Add(ctx, accountsDue)
	}
}

// RecordAttestationUpserted 记录签到记录写入
func (m *OTelMetrics) RecordAttestationUpserted(ctx context.Context, created bool) {
	op := "refreshed"
	if created {
		op = "created"
	}
	m.AttestationsUpsertedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
	))
}

// RecordSMSSent 记录短信发送结果
func (m *OTelMetrics) RecordSMSSent(ctx context.Context, provider, status string, duration float64) {
	attrs := []attribute.KeyValue{
		attribute.String("provider", provider),
		attribute.String("status", status),
	}

	m.SMSSentTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.SMSSendDuration.Record(ctx, duration, metric.WithAttributes(
		attribute.String("provider", provider),
	))
}

// RecordReplyProcessed 记录一次入站回复处理
func (m *OTelMetrics) RecordReplyProcessed(ctx context.Context, classification string) {
	m.RepliesProcessedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("classification", classification),
	))
}

// RecordAdminAlert 记录告警投递
func (m *OTelMetrics) RecordAdminAlert(ctx context.Context, status string) {
	m.AdminAlertsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status),
	))
}
