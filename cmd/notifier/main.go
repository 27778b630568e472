// notifier 低库存通知Worker
// 订阅 mq.low_stock_routing_key，把告警事件转成结构化日志
package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/xiebiao/stockroom/internal/infrastructure/config"
	"github.com/xiebiao/stockroom/internal/infrastructure/messaging"
	"github.com/xiebiao/stockroom/pkg/logger"
	"github.com/xiebiao/stockroom/pkg/metrics"
	"github.com/xiebiao/stockroom/pkg/mq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	zlog, err := logger.New(logger.Config{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
		Development:  cfg.Server.Mode == "debug",
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if err := run(cfg, zlog.Named("notifier")); err != nil {
		zlog.Fatal("通知Worker异常退出", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	if !cfg.MQ.Enabled {
		return fmt.Errorf("mq.enabled=false，通知Worker无事可做")
	}

	metrics.InitMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer, err := mq.NewConsumer(
		cfg.MQ.URL,
		cfg.MQ.Exchange,
		cfg.MQ.ExchangeType,
		cfg.MQ.NotifierQueue,
		[]string{cfg.MQ.LowStockRoutingKey},
		zlog,
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			zlog.Warn("关闭消费者失败", zap.Error(err))
		}
	}()

	notifier := messaging.NewLowStockNotifier(zlog)
	return consumer.Consume(ctx, notifier.Handle)
}
