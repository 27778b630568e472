// Package metrics 基于Prometheus的指标收集
//
// 指标分三组：
//   - HTTP：请求数、耗时、处理中请求数（由中间件记录）
//   - 库存：交易数（按类型/结果）、重复扫码拦截数、扫码防重降级数、低库存告警数
//   - 基础组件：熔断器状态、Saga补偿次数、消息发布/消费
//
// 使用：
//
//	metrics.InitMetrics()
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
// 所有记录函数在InitMetrics之前调用都是空操作，单元测试无需初始化。
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	initOnce sync.Once

	// HTTPRequestsTotal HTTP请求总数，标签：method、path、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（秒），标签：method、path
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// InventoryTransactionsTotal 库存交易数，标签：type（CHECKOUT/RETURN/ADJUST）、result（committed/rejected/failed）
	InventoryTransactionsTotal *prometheus.CounterVec

	// InventoryTransactionDuration 库存交易处理耗时（秒）
	InventoryTransactionDuration prometheus.Histogram

	// DuplicateScansTotal 被拦截的重复扫码数，标签：reason（guard/post_return）
	DuplicateScansTotal *prometheus.CounterVec

	// SideEffectDegradedTotal 事后副作用降级次数，标签：effect（guard/low_stock/audit/post_return_block）
	SideEffectDegradedTotal *prometheus.CounterVec

	// LowStockAlertsTotal 触发的低库存告警数
	LowStockAlertsTotal prometheus.Counter

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN），标签：name
	CircuitBreakerState *prometheus.GaugeVec

	// SagaCompensationsTotal Saga补偿执行总数，标签：step
	SagaCompensationsTotal *prometheus.CounterVec

	// MessagesPublishedTotal 消息发布总数，标签：exchange、routing_key
	MessagesPublishedTotal *prometheus.CounterVec

	// MessagesConsumedTotal 消息消费总数，标签：queue、result
	MessagesConsumedTotal *prometheus.CounterVec
)

// InitMetrics 注册所有指标到默认Registry（重复调用无副作用）
func InitMetrics() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP请求总数",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP请求耗时（秒）",
		Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
	}, []string{"method", "path"})

	HTTPRequestsInProgress = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "http_requests_in_progress",
		Help: "正在处理的HTTP请求数",
	})

	InventoryTransactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_transactions_total",
		Help: "库存交易总数",
	}, []string{"type", "result"})

	InventoryTransactionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "inventory_transaction_duration_seconds",
		Help:    "库存交易处理耗时（秒）",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})

	DuplicateScansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_duplicate_scans_total",
		Help: "被拦截的重复扫码数",
	}, []string{"reason"})

	SideEffectDegradedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_side_effect_degraded_total",
		Help: "事后副作用降级次数",
	}, []string{"effect"})

	LowStockAlertsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_low_stock_alerts_total",
		Help: "触发的低库存告警数",
	})

	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "circuit_breaker_state",
		Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
	}, []string{"name"})

	SagaCompensationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "saga_compensations_total",
		Help: "Saga补偿执行总数",
	}, []string{"step"})

	MessagesPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "messages_published_total",
		Help: "消息发布总数",
	}, []string{"exchange", "routing_key"})

	MessagesConsumedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "messages_consumed_total",
		Help: "消息消费总数",
	}, []string{"queue", "result"})
}

// IncCounter 递增Counter
func IncCounter(counter prometheus.Counter) {
	if counter != nil {
		counter.Inc()
	}
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels ...string) {
	if counter != nil {
		counter.WithLabelValues(labels...).Inc()
	}
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	if gauge != nil {
		gauge.Inc()
	}
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	if gauge != nil {
		gauge.Dec()
	}
}

// SetGaugeVec 设置GaugeVec值
func SetGaugeVec(gauge *prometheus.GaugeVec, value float64, labels ...string) {
	if gauge != nil {
		gauge.WithLabelValues(labels...).Set(value)
	}
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	if histogram != nil {
		histogram.Observe(value)
	}
}

// ObserveHistogramVec 记录HistogramVec观测值
func ObserveHistogramVec(histogram *prometheus.HistogramVec, value float64, labels ...string) {
	if histogram != nil {
		histogram.WithLabelValues(labels...).Observe(value)
	}
}
