package inventory

// OutcomeKind 主事务已提交后的结果分类
type OutcomeKind string

const (
	// CommittedFull 主事务提交且所有附带操作成功
	CommittedFull OutcomeKind = "COMMITTED_FULL"
	// CommittedDegraded 主事务已提交，但有附带操作失败或被跳过降级
	CommittedDegraded OutcomeKind = "COMMITTED_DEGRADED"
)

// EffectStatus 附带操作状态
type EffectStatus string

const (
	EffectOK       EffectStatus = "ok"
	EffectDegraded EffectStatus = "degraded"
	EffectSkipped  EffectStatus = "skipped"
)

// LowStockResult 低库存检查结果
type LowStockResult struct {
	ProductID      uint64 `json:"productId,string"`
	AvailableUnits int    `json:"availableUnits"`
	Threshold      int    `json:"threshold"`
	Triggered      bool   `json:"triggered"`
	Reason         string `json:"reason,omitempty"`
	AlertID        uint64 `json:"alertId,omitempty,string"`
}

// 低库存检查未触发的原因
const (
	ReasonAboveThreshold = "above_threshold"
	ReasonDebounced      = "debounced"
)

// SideEffects 各附带操作的执行情况
type SideEffects struct {
	Guard           EffectStatus    `json:"guard"`
	LowStock        EffectStatus    `json:"lowStock"`
	Audit           EffectStatus    `json:"audit"`
	PostReturnBlock EffectStatus    `json:"postReturnBlock"`
	LowStockResult  *LowStockResult `json:"lowStockResult,omitempty"`
	Errors          []string        `json:"errors,omitempty"`
}

// Degraded 是否有附带操作降级或出错
func (s SideEffects) Degraded() bool {
	if len(s.Errors) > 0 {
		return true
	}
	for _, st := range []EffectStatus{s.Guard, s.LowStock, s.Audit, s.PostReturnBlock} {
		if st == EffectDegraded {
			return true
		}
	}
	return false
}

// Outcome 库存事务处理结果
type Outcome struct {
	Kind           OutcomeKind
	Transaction    *Transaction
	EffectiveType  TransactionType
	Upgraded       bool // 扫码时借出被自动转为归还
	AvailableUnits int
	SideEffects    SideEffects
}
