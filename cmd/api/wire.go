//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 与app.go中的newApp组装结果一致，`wire gen ./cmd/api` 生成wire_gen.go后可替换newApp

package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appemployee "github.com/xiebiao/stockroom/internal/application/employee"
	appinventory "github.com/xiebiao/stockroom/internal/application/inventory"
	appproduct "github.com/xiebiao/stockroom/internal/application/product"
	"github.com/xiebiao/stockroom/internal/domain/employee"
	"github.com/xiebiao/stockroom/internal/domain/inventory"
	"github.com/xiebiao/stockroom/internal/domain/product"
	"github.com/xiebiao/stockroom/internal/infrastructure/config"
	"github.com/xiebiao/stockroom/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/stockroom/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/stockroom/internal/interface/http/handler"
	"github.com/xiebiao/stockroom/internal/interface/http/middleware"
	"github.com/xiebiao/stockroom/internal/interface/http/router"
)

// infrastructureSet MySQL、Redis、MQ
var infrastructureSet = wire.NewSet(
	provideDB,
	provideRedisClient,
	provideEventPublisher,
	wire.Bind(new(goredis.Cmdable), new(*goredis.Client)),
	wire.Bind(new(goredis.UniversalClient), new(*goredis.Client)),
)

// repositorySet 仓储、事务管理器及Redis实现
var repositorySet = wire.NewSet(
	mysql.NewEmployeeRepository,
	mysql.NewProductRepository,
	mysql.NewBarcodeRepository,
	mysql.NewInventoryRepository,
	mysql.NewAlertRepository,
	mysql.NewAuditRepository,
	mysql.NewTxManager,
	wire.Bind(new(inventory.TxManager), new(*mysql.TxManager)),

	redis.NewSessionStore,
	redis.NewProductLocker,
	redis.NewScanGuard,
	provideGuardBreaker,
	wire.Bind(new(inventory.ScanGuard), new(*redis.ScanGuard)),
	wire.Bind(new(inventory.ProductLocker), new(*redis.ProductLocker)),
)

var domainSet = wire.NewSet(
	employee.NewService,
	product.NewService,
)

// applicationSet 用例与库存处理组件
var applicationSet = wire.NewSet(
	appemployee.NewRegisterUseCase,
	appemployee.NewLoginUseCase,
	appemployee.NewLogoutUseCase,
	appemployee.NewProfileUseCase,
	wire.Bind(new(appemployee.SessionStore), new(*redis.SessionStore)),

	provideCreateProductUseCase,
	appproduct.NewQueryUseCase,
	appproduct.NewGenerateBarcodesUseCase,
	appproduct.NewReceiveStockUseCase,
	wire.Bind(new(appproduct.Auditor), new(*appinventory.AuditLogger)),

	provideLowStockConfig,
	provideProcessorConfig,
	appinventory.NewLowStockMonitor,
	appinventory.NewAuditLogger,
	appinventory.NewProcessor,
	appinventory.NewQueryService,
)

var middlewareSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
	wire.Bind(new(middleware.TokenBlacklist), new(*redis.SessionStore)),
)

var handlerSet = wire.NewSet(
	handler.NewEmployeeHandler,
	handler.NewProductHandler,
	handler.NewInventoryHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)

// InitializeApp 初始化整个应用，cleanup关闭MQ、Redis、MySQL连接
func InitializeApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*gin.Engine, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
	)
	return nil, nil, nil
}
