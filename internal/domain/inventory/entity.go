package inventory

import (
	"strings"
	"time"
)

// TransactionType 库存事务类型
type TransactionType string

const (
	TypeCheckout TransactionType = "CHECKOUT" // 借出
	TypeReturn   TransactionType = "RETURN"   // 归还
	TypeAdjust   TransactionType = "ADJUST"   // 管理调整
)

// ParseTransactionType 解析事务类型（大小写不敏感）
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", ErrInvalidTransactionType
	}
	return t, nil
}

// IsValid 是否合法
func (t TransactionType) IsValid() bool {
	switch t {
	case TypeCheckout, TypeReturn, TypeAdjust:
		return true
	}
	return false
}

// RequiresBarcode 借出和归还必须指定条码
func (t TransactionType) RequiresBarcode() bool {
	return t == TypeCheckout || t == TypeReturn
}

// Transaction 库存事务流水（只追加，不修改不删除）
type Transaction struct {
	ID          uint64
	Type        TransactionType
	ProductID   uint64
	BarcodeID   *uint64 // ADJUST可以不关联条码
	EmployeeID  uint64
	CheckoutQty int
	ReturnedQty int // 归还入库数量 = boxQty - 实际用量
	UsedQty     int // 实际用量
	Remarks     string
	CreatedAt   time.Time
}

// Checkout 条码借出记录
// 同一条码同一时刻最多一条未归还记录，由数据库唯一索引约束
type Checkout struct {
	ID           uint64
	BarcodeID    uint64
	EmployeeID   uint64
	ProductID    uint64
	CheckedOutAt time.Time
	ReturnedAt   *time.Time
	IsReturned   bool
}

// Allocation 员工名下某商品的已分配数量
type Allocation struct {
	ID             uint64
	EmployeeID     uint64
	ProductID      uint64
	AllocatedUnits int
	UpdatedAt      time.Time
}

// LowStockAlert 低库存告警
type LowStockAlert struct {
	ID             uint64
	ProductID      uint64
	StockAtTrigger int
	Threshold      int
	CreatedAt      time.Time
}

// AuditEntry 审计日志（只追加）
type AuditEntry struct {
	ID            uint64
	TransactionID uint64
	Type          TransactionType
	ProductID     uint64
	BarcodeID     *uint64
	PerformedBy   uint64
	CheckoutQty   int
	ReturnedQty   int
	UsedQty       int
	PrevAvailable int
	NewAvailable  int
	Remarks       string
	CreatedAt     time.Time
}

// NewAuditEntry 根据事务流水生成审计记录
func NewAuditEntry(tx *Transaction, prevAvailable, newAvailable int) *AuditEntry {
	return &AuditEntry{
		TransactionID: tx.ID,
		Type:          tx.Type,
		ProductID:     tx.ProductID,
		BarcodeID:     tx.BarcodeID,
		PerformedBy:   tx.EmployeeID,
		CheckoutQty:   tx.CheckoutQty,
		ReturnedQty:   tx.ReturnedQty,
		UsedQty:       tx.UsedQty,
		PrevAvailable: prevAvailable,
		NewAvailable:  newAvailable,
		Remarks:       tx.Remarks,
		CreatedAt:     tx.CreatedAt,
	}
}
