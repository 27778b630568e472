// @title           Stockroom 库存交易服务
// @version         1.0
// @description     扫码借出/归还、库存调整、低库存告警与审计查询
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/stockroom/internal/infrastructure/config"
	"github.com/xiebiao/stockroom/pkg/logger"
	"github.com/xiebiao/stockroom/pkg/metrics"
	"github.com/xiebiao/stockroom/pkg/tracing"
)

// main 库存交易服务入口
// 启动顺序：配置 → 日志 → 追踪/指标 → MySQL/Redis/MQ → 用例 → 路由 → HTTP服务
// 收到SIGINT/SIGTERM后停止接收新请求，等待处理中的请求最多10秒
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

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("服务异常退出", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	shutdownTracer, err := tracing.InitTracer(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		return fmt.Errorf("初始化链路追踪失败: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(ctx); err != nil {
			zlog.Warn("关闭链路追踪失败", zap.Error(err))
		}
	}()

	metrics.InitMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine, cleanup, err := newApp(ctx, cfg, zlog)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("HTTP服务已启动",
			zap.String("addr", srv.Addr),
			zap.String("mode", cfg.Server.Mode),
			zap.Duration("duplicate_window", cfg.Inventory.DuplicateWindow),
			zap.Duration("min_return_wait", cfg.Inventory.MinReturnWait),
			zap.Bool("mq_enabled", cfg.MQ.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP服务启动失败: %w", err)
		}
	case <-ctx.Done():
	}

	zlog.Info("正在关闭服务")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP服务关闭失败: %w", err)
	}
	zlog.Info("服务已关闭")
	return nil
}
