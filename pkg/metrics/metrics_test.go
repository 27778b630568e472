package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestHelpers_BeforeInit 未初始化时记录函数应为空操作
func TestHelpers_BeforeInit(t *testing.T) {
	if InventoryTransactionsTotal != nil {
		t.Skip("指标已被其他测试初始化")
	}

	IncCounter(LowStockAlertsTotal)
	IncCounterVec(InventoryTransactionsTotal, "CHECKOUT", "committed")
	IncGauge(HTTPRequestsInProgress)
	ObserveHistogram(InventoryTransactionDuration, 0.1)
}

// TestInitMetrics 测试指标初始化
func TestInitMetrics(t *testing.T) {
	InitMetrics()
	InitMetrics() // 重复调用不应panic（重复注册）

	if HTTPRequestsTotal == nil || InventoryTransactionsTotal == nil || DuplicateScansTotal == nil {
		t.Fatal("指标未初始化")
	}
}

// TestCounterVec 测试带标签的交易计数
func TestCounterVec(t *testing.T) {
	InitMetrics()

	before := testutil.ToFloat64(InventoryTransactionsTotal.WithLabelValues("RETURN", "committed"))

	IncCounterVec(InventoryTransactionsTotal, "RETURN", "committed")
	IncCounterVec(InventoryTransactionsTotal, "RETURN", "committed")
	IncCounterVec(InventoryTransactionsTotal, "CHECKOUT", "rejected")

	got := testutil.ToFloat64(InventoryTransactionsTotal.WithLabelValues("RETURN", "committed"))
	if got-before != 2 {
		t.Errorf("RETURN/committed计数错误: expected=+2, got=+%f", got-before)
	}
}

// TestGauge 测试处理中请求数
func TestGauge(t *testing.T) {
	InitMetrics()

	before := testutil.ToFloat64(HTTPRequestsInProgress)
	IncGauge(HTTPRequestsInProgress)
	IncGauge(HTTPRequestsInProgress)
	DecGauge(HTTPRequestsInProgress)

	if got := testutil.ToFloat64(HTTPRequestsInProgress); got-before != 1 {
		t.Errorf("Gauge值错误: expected=+1, got=+%f", got-before)
	}
}

// TestCircuitBreakerState 测试熔断器状态Gauge
func TestCircuitBreakerState(t *testing.T) {
	InitMetrics()

	SetGaugeVec(CircuitBreakerState, 1, "scan-guard")
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("scan-guard")); got != 1 {
		t.Errorf("熔断器状态错误: expected=1, got=%f", got)
	}
}
