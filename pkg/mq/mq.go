// Package mq 基于RabbitMQ的事件发布/订阅
//
// 库存服务在低库存告警触发时发布 inventory.low_stock 事件，
// 通知进程（cmd/notifier）订阅该事件并通知管理员。
// Exchange使用topic类型，消息JSON序列化并持久化。
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xiebiao/stockroom/pkg/metrics"
)

// Publisher 消息发布者
// amqp.Channel不支持并发发布，Publish用互斥锁串行化
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	log      *zap.Logger
	mu       sync.Mutex
}

// NewPublisher 连接RabbitMQ并声明持久化Exchange
func NewPublisher(url, exchange, exchangeType string, log *zap.Logger) (*Publisher, error) {
	conn, channel, err := dial(url, exchange, exchangeType)
	if err != nil {
		return nil, err
	}

	log.Info("消息发布者已创建", zap.String("exchange", exchange), zap.String("type", exchangeType))

	return &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		log:      log,
	}, nil
}

// Publish 发布消息（JSON、持久化）
func (p *Publisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("消息序列化失败: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("发布消息失败: %w", err)
	}

	metrics.IncCounterVec(metrics.MessagesPublishedTotal, p.exchange, routingKey)
	p.log.Debug("消息已发布", zap.String("routing_key", routingKey), zap.ByteString("body", body))
	return nil
}

// Close 关闭发布者
func (p *Publisher) Close() error {
	return closeAll(p.channel, p.conn)
}

// Handler 消息处理函数，返回错误时消息重新入队
type Handler func(ctx context.Context, routingKey string, body []byte) error

// Consumer 消息消费者
type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	log     *zap.Logger
}

// NewConsumer 声明持久化队列并按routingKeys绑定到Exchange（支持 * 和 # 通配符）
func NewConsumer(url, exchange, exchangeType, queue string, routingKeys []string, log *zap.Logger) (*Consumer, error) {
	conn, channel, err := dial(url, exchange, exchangeType)
	if err != nil {
		return nil, err
	}

	q, err := channel.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		_ = closeAll(channel, conn)
		return nil, fmt.Errorf("声明Queue失败: %w", err)
	}

	for _, key := range routingKeys {
		if err := channel.QueueBind(q.Name, key, exchange, false, nil); err != nil {
			_ = closeAll(channel, conn)
			return nil, fmt.Errorf("绑定Queue失败: %w", err)
		}
	}

	log.Info("消息消费者已创建", zap.String("queue", q.Name), zap.Strings("routing_keys", routingKeys))

	return &Consumer{
		conn:    conn,
		channel: channel,
		queue:   q.Name,
		log:     log,
	}, nil
}

// Consume 阻塞消费直到ctx取消（手动Ack，PrefetchCount=1）
func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("设置Qos失败: %w", err)
	}

	msgs, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("开始消费失败: %w", err)
	}

	c.log.Info("开始消费消息", zap.String("queue", c.queue))

	for {
		select {
		case <-ctx.Done():
			c.log.Info("消费者退出", zap.String("queue", c.queue))
			return nil

		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("消息Channel已关闭")
			}
			c.dispatch(ctx, msg, handler)
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, msg amqp.Delivery, handler Handler) {
	if err := handler(ctx, msg.RoutingKey, msg.Body); err != nil {
		c.log.Warn("消息处理失败，重新入队",
			zap.String("routing_key", msg.RoutingKey),
			zap.Error(err),
		)
		metrics.IncCounterVec(metrics.MessagesConsumedTotal, c.queue, "failure")
		_ = msg.Nack(false, !msg.Redelivered)
		return
	}

	metrics.IncCounterVec(metrics.MessagesConsumedTotal, c.queue, "success")
	_ = msg.Ack(false)
}

// Close 关闭消费者
func (c *Consumer) Close() error {
	return closeAll(c.channel, c.conn)
}

func dial(url, exchange, exchangeType string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("创建Channel失败: %w", err)
	}

	if err := channel.ExchangeDeclare(exchange, exchangeType, true, false, false, false, nil); err != nil {
		_ = closeAll(channel, conn)
		return nil, nil, fmt.Errorf("声明Exchange失败: %w", err)
	}

	return conn, channel, nil
}

func closeAll(channel *amqp.Channel, conn *amqp.Connection) error {
	if channel != nil {
		_ = channel.Close()
	}
	if conn != nil {
		return conn.Close()
	}
	return nil
}
