// Package messaging 库存事件的消息队列适配
package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/xiebiao/stockroom/internal/domain/inventory"
)

// Publisher 消息发布（*mq.Publisher）
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// LowStockPublisher 把低库存事件发布到消息队列
type LowStockPublisher struct {
	pub        Publisher
	routingKey string
}

// NewLowStockPublisher 创建低库存事件发布者
func NewLowStockPublisher(pub Publisher, routingKey string) *LowStockPublisher {
	return &LowStockPublisher{pub: pub, routingKey: routingKey}
}

// PublishLowStock 实现inventory.EventPublisher
func (p *LowStockPublisher) PublishLowStock(ctx context.Context, event inventory.LowStockEvent) error {
	return p.pub.Publish(ctx, p.routingKey, event)
}

// LowStockNotifier 消费低库存事件并通知管理员
// 通知目前只输出结构化日志，由日志采集转发到告警渠道
type LowStockNotifier struct {
	log *zap.Logger
}

// NewLowStockNotifier 创建通知处理器
func NewLowStockNotifier(log *zap.Logger) *LowStockNotifier {
	return &LowStockNotifier{log: log}
}

// Handle 处理一条消息，格式错误的消息返回错误（重新入队一次后丢弃）
func (n *LowStockNotifier) Handle(_ context.Context, routingKey string, body []byte) error {
	var event inventory.LowStockEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("解析低库存事件失败: %w", err)
	}
	if event.ProductID == 0 {
		return fmt.Errorf("低库存事件缺少productId")
	}

	n.log.Warn("低库存告警",
		zap.String("routing_key", routingKey),
		zap.Uint64("alert_id", event.AlertID),
		zap.Uint64("product_id", event.ProductID),
		zap.String("sku", event.SKU),
		zap.String("product_name", event.ProductName),
		zap.Int("stock_at_trigger", event.StockAtTrigger),
		zap.Int("threshold", event.Threshold),
		zap.Time("triggered_at", event.TriggeredAt),
	)
	return nil
}
