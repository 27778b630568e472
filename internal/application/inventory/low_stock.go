package inventory

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/stockroom/internal/domain/inventory"
	"github.com/xiebiao/stockroom/internal/domain/product"
	"github.com/xiebiao/stockroom/pkg/metrics"
	"github.com/xiebiao/stockroom/pkg/tracing"
)

// LowStockMonitor 低库存检查
// 规则：
// 1. available = max(0, currentUnits)，available <= reorderThreshold时需要告警
// 2. 同一商品最近一条告警在去抖窗口内则跳过（debounced）
// 3. "查最近告警 → 创建告警"用商品级分布式锁串行化，拿不到锁时照常检查
// 4. 告警创建后发布inventory.low_stock事件，发布失败只记日志
type LowStockMonitor struct {
	products  product.Repository
	alerts    inventory.AlertRepository
	locker    inventory.ProductLocker
	publisher inventory.EventPublisher
	debounce  time.Duration
	lockTTL   time.Duration
	log       *zap.Logger
	now       func() time.Time
}

// LowStockConfig 低库存检查参数
type LowStockConfig struct {
	Debounce time.Duration
	LockTTL  time.Duration
}

// NewLowStockMonitor 创建低库存检查；locker、publisher可以为nil
func NewLowStockMonitor(
	products product.Repository,
	alerts inventory.AlertRepository,
	locker inventory.ProductLocker,
	publisher inventory.EventPublisher,
	cfg LowStockConfig,
	log *zap.Logger,
) *LowStockMonitor {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 24 * time.Hour
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 5 * time.Second
	}
	return &LowStockMonitor{
		products:  products,
		alerts:    alerts,
		locker:    locker,
		publisher: publisher,
		debounce:  cfg.Debounce,
		lockTTL:   cfg.LockTTL,
		log:       log,
		now:       time.Now,
	}
}

// Check 检查商品是否需要低库存告警
func (m *LowStockMonitor) Check(ctx context.Context, productID uint64) (result *inventory.LowStockResult, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "LowStockMonitor.Check")
	defer func() { tracing.EndSpan(span, err) }()

	if m.locker != nil {
		unlock, lockErr := m.locker.Lock(ctx, productID, m.lockTTL)
		if lockErr != nil {
			if !errors.Is(lockErr, inventory.ErrLockNotObtained) {
				m.log.Warn("获取低库存检查锁失败，不加锁继续", zap.Uint64("product_id", productID), zap.Error(lockErr))
			} else {
				m.log.Warn("低库存检查锁被占用，不加锁继续", zap.Uint64("product_id", productID))
			}
		} else {
			defer func() {
				if err := unlock(context.WithoutCancel(ctx)); err != nil {
					m.log.Warn("释放低库存检查锁失败", zap.Uint64("product_id", productID), zap.Error(err))
				}
			}()
		}
	}

	p, err := m.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	result = &inventory.LowStockResult{
		ProductID:      p.ID,
		AvailableUnits: p.AvailableUnits(),
		Threshold:      p.ReorderThreshold,
	}
	if !p.IsLowStock() {
		result.Reason = inventory.ReasonAboveThreshold
		return result, nil
	}

	now := m.now()
	latest, err := m.alerts.Latest(ctx, p.ID)
	if err != nil && !errors.Is(err, inventory.ErrAlertNotFound) {
		return nil, err
	}
	if latest != nil && now.Sub(latest.CreatedAt) < m.debounce {
		result.Reason = inventory.ReasonDebounced
		return result, nil
	}

	alert := &inventory.LowStockAlert{
		ProductID:      p.ID,
		StockAtTrigger: result.AvailableUnits,
		Threshold:      p.ReorderThreshold,
		CreatedAt:      now,
	}
	if err := m.alerts.Create(ctx, alert); err != nil {
		return nil, err
	}
	metrics.IncCounter(metrics.LowStockAlertsTotal)

	result.Triggered = true
	result.AlertID = alert.ID

	m.log.Info("触发低库存告警",
		zap.Uint64("product_id", p.ID),
		zap.String("sku", p.SKU),
		zap.Int("available", result.AvailableUnits),
		zap.Int("threshold", p.ReorderThreshold),
	)
	m.publish(ctx, p, alert)

	return result, nil
}

func (m *LowStockMonitor) publish(ctx context.Context, p *product.Product, alert *inventory.LowStockAlert) {
	if m.publisher == nil {
		return
	}
	event := inventory.LowStockEvent{
		AlertID:        alert.ID,
		ProductID:      p.ID,
		SKU:            p.SKU,
		ProductName:    p.Name,
		StockAtTrigger: alert.StockAtTrigger,
		Threshold:      alert.Threshold,
		TriggeredAt:    alert.CreatedAt,
	}
	if err := m.publisher.PublishLowStock(ctx, event); err != nil {
		m.log.Warn("发布低库存事件失败", zap.Uint64("alert_id", alert.ID), zap.Error(err))
	}
}
