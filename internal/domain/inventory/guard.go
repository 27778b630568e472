package inventory

import (
	"context"
	"time"
)

// ScanGuard 扫码防重锁
// 实现需保证：
// 1. TryAcquire是原子的"不存在才设置"，返回false表示key已存在
// 2. Release只在当前值等于token时删除（compare-and-delete），避免误删TTL过期后别人新加的锁
// 3. Remaining在key不存在时返回0
type ScanGuard interface {
	TryAcquire(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key, token string) (bool, error)
	Remaining(ctx context.Context, key string) (time.Duration, error)
	Block(ctx context.Context, key string, ttl time.Duration) error
}

// ProductLocker 按商品加分布式锁，串行化低库存检查
type ProductLocker interface {
	// Lock 获取锁，返回释放函数；拿不到锁时返回ErrLockNotObtained
	Lock(ctx context.Context, productID uint64, ttl time.Duration) (unlock func(context.Context) error, err error)
}

// LowStockEvent 低库存事件（发布到消息队列）
type LowStockEvent struct {
	AlertID        uint64    `json:"alertId,string"`
	ProductID      uint64    `json:"productId,string"`
	SKU            string    `json:"sku"`
	ProductName    string    `json:"productName"`
	StockAtTrigger int       `json:"stockAtTrigger"`
	Threshold      int       `json:"threshold"`
	TriggeredAt    time.Time `json:"triggeredAt"`
}

// EventPublisher 事件发布
type EventPublisher interface {
	PublishLowStock(ctx context.Context, event LowStockEvent) error
}
