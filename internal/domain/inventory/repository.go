package inventory

import (
	"context"
	"time"
)

// Repository 库存事务相关仓储
// 写操作都应在TxManager开启的事务内调用
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error

	// CreateCheckout 已有未归还记录时返回ErrOpenCheckoutExists
	CreateCheckout(ctx context.Context, c *Checkout) error

	// FindOpenCheckout 条码当前未归还的借出记录，没有时返回ErrCheckoutNotFound
	FindOpenCheckout(ctx context.Context, barcodeID uint64) (*Checkout, error)

	// CloseOpenCheckouts 关闭条码所有未归还记录，返回关闭条数
	CloseOpenCheckouts(ctx context.Context, barcodeID uint64, returnedAt time.Time) (int64, error)

	// AdjustAllocation 调整员工分配数量（delta可为负），结果<=0时删除该行
	AdjustAllocation(ctx context.Context, employeeID, productID uint64, delta int) error

	ListTransactions(ctx context.Context, filter TransactionFilter) ([]*Transaction, int64, error)
	ListAllocations(ctx context.Context, filter AllocationFilter) ([]*Allocation, error)
	ListCheckouts(ctx context.Context, employeeID uint64, includeReturned bool) ([]*Checkout, error)
}

// AlertRepository 低库存告警仓储
type AlertRepository interface {
	// Latest 商品最近一条告警，没有时返回ErrAlertNotFound
	Latest(ctx context.Context, productID uint64) (*LowStockAlert, error)
	Create(ctx context.Context, alert *LowStockAlert) error
	List(ctx context.Context, page, pageSize int) ([]*LowStockAlert, int64, error)
}

// AuditRepository 审计日志仓储
type AuditRepository interface {
	Append(ctx context.Context, entry *AuditEntry) error
	List(ctx context.Context, filter AuditFilter) ([]*AuditEntry, int64, error)
}

// TxManager 事务管理
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// TransactionFilter 流水查询条件
type TransactionFilter struct {
	Page       int
	PageSize   int
	EmployeeID uint64
	ProductID  uint64
	Type       TransactionType
	StartDate  *time.Time
	EndDate    *time.Time
}

// AllocationFilter 分配查询条件
type AllocationFilter struct {
	EmployeeID uint64
	ProductID  uint64
}

// AuditFilter 审计查询条件
type AuditFilter struct {
	Page        int
	PageSize    int
	ProductID   uint64
	PerformedBy uint64
	StartDate   *time.Time
	EndDate     *time.Time
}
