package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appemployee "github.com/xiebiao/stockroom/internal/application/employee"
	appinventory "github.com/xiebiao/stockroom/internal/application/inventory"
	appproduct "github.com/xiebiao/stockroom/internal/application/product"
	"github.com/xiebiao/stockroom/internal/domain/employee"
	"github.com/xiebiao/stockroom/internal/domain/inventory"
	"github.com/xiebiao/stockroom/internal/domain/product"
	"github.com/xiebiao/stockroom/internal/infrastructure/config"
	"github.com/xiebiao/stockroom/internal/infrastructure/messaging"
	"github.com/xiebiao/stockroom/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/stockroom/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/stockroom/internal/interface/http/handler"
	"github.com/xiebiao/stockroom/internal/interface/http/middleware"
	"github.com/xiebiao/stockroom/internal/interface/http/router"
	"github.com/xiebiao/stockroom/pkg/circuitbreaker"
	"github.com/xiebiao/stockroom/pkg/jwt"
	"github.com/xiebiao/stockroom/pkg/mq"
)

// newApp 手动组装依赖，返回的cleanup按创建的逆序关闭连接
// 依赖链：Repository ← Service ← UseCase ← Handler ← Router
// wire.go中的InitializeApp是同一套组装的Wire版本
func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*gin.Engine, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// 基础设施
	db, closeDB, err := provideDB(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, closeDB)

	redisClient, closeRedis, err := provideRedisClient(ctx, cfg, log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	closers = append(closers, closeRedis)

	publisher, closePublisher, err := provideEventPublisher(cfg, log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	closers = append(closers, closePublisher)

	// 仓储
	employeeRepo := mysql.NewEmployeeRepository(db)
	productRepo := mysql.NewProductRepository(db)
	barcodeRepo := mysql.NewBarcodeRepository(db)
	inventoryRepo := mysql.NewInventoryRepository(db)
	alertRepo := mysql.NewAlertRepository(db)
	auditRepo := mysql.NewAuditRepository(db)
	txManager := mysql.NewTxManager(db)

	sessionStore := redis.NewSessionStore(redisClient)
	guard := redis.NewScanGuard(redisClient, provideGuardBreaker(cfg))
	locker := redis.NewProductLocker(redisClient)
	jwtManager := provideJWTManager(cfg)

	// 领域服务
	employeeService := employee.NewService(employeeRepo)
	productService := product.NewService(productRepo)

	// 应用层
	monitor := appinventory.NewLowStockMonitor(productRepo, alertRepo, locker, publisher, provideLowStockConfig(cfg), log)
	auditLogger := appinventory.NewAuditLogger(auditRepo, log)
	processor := appinventory.NewProcessor(
		employeeRepo, productRepo, barcodeRepo, inventoryRepo, txManager,
		guard, monitor, auditLogger,
		provideProcessorConfig(cfg),
		log,
	)
	queries := appinventory.NewQueryService(inventoryRepo, alertRepo, productRepo, employeeRepo, monitor, auditLogger)

	// 接口层
	handlers := router.Handlers{
		Employee: handler.NewEmployeeHandler(
			appemployee.NewRegisterUseCase(employeeService, employeeRepo),
			appemployee.NewLoginUseCase(employeeService, jwtManager, sessionStore, log),
			appemployee.NewLogoutUseCase(sessionStore, jwtManager),
			appemployee.NewProfileUseCase(employeeRepo),
		),
		Product: handler.NewProductHandler(
			provideCreateProductUseCase(productService, cfg),
			appproduct.NewQueryUseCase(productService, barcodeRepo),
			appproduct.NewGenerateBarcodesUseCase(productRepo, barcodeRepo, log),
			appproduct.NewReceiveStockUseCase(productRepo, inventoryRepo, txManager, auditLogger, log),
		),
		Inventory: handler.NewInventoryHandler(processor, queries),
	}
	auth := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	engine, err := router.New(cfg, log, auth, handlers)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return engine, cleanup, nil
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire, cfg.JWT.RefreshTokenExpire)
}

// provideGuardBreaker 防重缓存熔断器：连续失败N次后在OPEN期间直接降级，不再等待Redis超时
func provideGuardBreaker(cfg *config.Config) *circuitbreaker.CircuitBreaker {
	threshold := cfg.Inventory.GuardFailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	return circuitbreaker.NewCircuitBreaker("scan-guard", circuitbreaker.Config{
		Timeout: cfg.Inventory.GuardOpenTimeout,
		ReadyToTrip: func(c circuitbreaker.Counts) bool {
			return c.ConsecutiveFailures >= threshold
		},
	})
}

func provideLowStockConfig(cfg *config.Config) appinventory.LowStockConfig {
	return appinventory.LowStockConfig{
		Debounce: cfg.Inventory.LowStockDebounce,
		LockTTL:  cfg.Inventory.LowStockLockTTL,
	}
}

func provideProcessorConfig(cfg *config.Config) appinventory.Config {
	return appinventory.Config{
		DuplicateWindow: cfg.Inventory.DuplicateWindow,
		MinReturnWait:   cfg.Inventory.MinReturnWait,
		PostReturnBlock: cfg.Inventory.PostReturnBlock,
	}
}

func provideCreateProductUseCase(service product.Service, cfg *config.Config) *appproduct.CreateProductUseCase {
	return appproduct.NewCreateProductUseCase(service, cfg.Inventory.DefaultReorderThreshold)
}

// provideEventPublisher MQ未启用时返回nil，低库存告警只落库不发消息
func provideEventPublisher(cfg *config.Config, log *zap.Logger) (inventory.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		log.Info("消息队列未启用，低库存事件不发布")
		return nil, func() {}, nil
	}

	pub, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, log)
	if err != nil {
		return nil, nil, fmt.Errorf("初始化消息发布者失败: %w", err)
	}
	return messaging.NewLowStockPublisher(pub, cfg.MQ.LowStockRoutingKey), func() { _ = pub.Close() }, nil
}

func provideDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, func(), error) {
	db, err := mysql.NewDB(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return db, func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}, nil
}

func provideRedisClient(ctx context.Context, cfg *config.Config, log *zap.Logger) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}
