// Package router 组装gin路由
//
// 公共路由：/ping、/metrics、/swagger、员工注册与登录
// 需要登录：库存交易、查询、商品查看
// 需要管理员：商品/条码/收货写操作、审计日志
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/stockroom/internal/domain/employee"
	"github.com/xiebiao/stockroom/internal/infrastructure/config"
	"github.com/xiebiao/stockroom/internal/interface/http/handler"
	"github.com/xiebiao/stockroom/internal/interface/http/middleware"
)

// Handlers 路由依赖的处理器
type Handlers struct {
	Employee  *handler.EmployeeHandler
	Product   *handler.ProductHandler
	Inventory *handler.InventoryHandler
}

// New 创建gin引擎并注册全部路由
func New(cfg *config.Config, log *zap.Logger, auth *middleware.AuthMiddleware, h Handlers) (*gin.Engine, error) {
	gin.SetMode(cfg.Server.Mode)
	if err := middleware.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Tracing())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Metrics())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	admin := middleware.RequireRole(string(employee.RoleAdmin))
	v1 := r.Group("/api/v1")

	employees := v1.Group("/employees")
	{
		employees.POST("/register", auth.OptionalAuth(), h.Employee.Register)
		employees.POST("/login", h.Employee.Login)
		employees.POST("/logout", auth.RequireAuth(), h.Employee.Logout)
		employees.GET("/me", auth.RequireAuth(), h.Employee.Me)
	}

	products := v1.Group("/products", auth.RequireAuth())
	{
		products.POST("/transactions", h.Inventory.Scan)
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.Get)
		products.GET("/:id/barcodes", h.Product.ListBarcodes)
		products.POST("", admin, h.Product.Create)
		products.POST("/:id/barcodes", admin, h.Product.GenerateBarcodes)
		products.POST("/:id/receive", admin, h.Product.Receive)
	}

	inv := v1.Group("/inventory", auth.RequireAuth())
	{
		inv.POST("/transactions", h.Inventory.Record)
		inv.GET("/transactions", h.Inventory.ListTransactions)
		inv.GET("/available/:productId", h.Inventory.Available)
		inv.GET("/low-stock-alerts", h.Inventory.ListAlerts)
		inv.POST("/check-low-stock/:productId", h.Inventory.CheckLowStock)
		inv.GET("/allocations", h.Inventory.ListAllocations)
		inv.GET("/employee-checkouts/:employeeId", h.Inventory.EmployeeCheckouts)
		inv.GET("/audit", admin, h.Inventory.ListAudit)
	}

	return r, nil
}
