package mysql

import (
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/stockroom/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. database.auto_migrate=true时自动迁移表结构
// 5. 开启链路追踪时注册otelgorm插件，每条SQL生成一个span
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger:  logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time { return time.Now() },
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	if cfg.Tracing.Enabled {
		if err := db.Use(otelgorm.NewPlugin(otelgorm.WithDBName(cfg.Database.DBName))); err != nil {
			return nil, fmt.Errorf("注册GORM追踪插件失败: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Info("数据库连接成功",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName),
	)

	if cfg.Database.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	return db, nil
}

// AutoMigrate 自动迁移表结构
// 注意：AutoMigrate只会创建表、添加字段和索引，不会删除或修改现有字段
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&EmployeeModel{},
		&ProductModel{},
		&BarcodeModel{},
		&BarcodeCheckoutModel{},
		&InventoryTransactionModel{},
		&AllocationModel{},
		&LowStockAlertModel{},
		&AuditLogModel{},
	)
}

// EmployeeModel GORM员工模型
// domain/employee/entity.go是领域实体，不依赖GORM，Repository负责两者转换
type EmployeeModel struct {
	ID           uint64         `gorm:"primaryKey"`
	Code         string         `gorm:"uniqueIndex:uk_employees_code;size:20;not null;comment:员工编号"`
	Email        string         `gorm:"uniqueIndex:uk_employees_email;size:100;not null;comment:邮箱"`
	PasswordHash string         `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Name         string         `gorm:"size:50;not null;comment:姓名"`
	Role         string         `gorm:"size:10;not null;default:staff;comment:角色(admin/staff)"`
	Active       bool           `gorm:"not null;default:true;comment:是否在职"`
	CreatedAt    time.Time      `gorm:"comment:创建时间"`
	UpdatedAt    time.Time      `gorm:"comment:更新时间"`
	DeletedAt    gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

// TableName 指定表名
func (EmployeeModel) TableName() string {
	return "employees"
}

// ProductModel GORM商品模型
// 设计说明：
// 1. current_units是唯一的可用库存口径，归还时按用量扣减
// 2. total_units是累计入库数量
type ProductModel struct {
	ID               uint64    `gorm:"primaryKey"`
	SKU              string    `gorm:"uniqueIndex:uk_products_sku;size:32;not null;comment:SKU"`
	Name             string    `gorm:"index:idx_products_name;size:100;not null;comment:商品名称"`
	BoxQty           int       `gorm:"not null;default:1;comment:每箱数量"`
	TotalUnits       int       `gorm:"not null;default:0;comment:累计入库数量"`
	CurrentUnits     int       `gorm:"not null;default:0;comment:可用库存"`
	ReorderThreshold int       `gorm:"not null;default:0;comment:补货阈值"`
	Active           bool      `gorm:"not null;default:true;comment:是否启用"`
	CreatedAt        time.Time `gorm:"index;comment:创建时间"`
	UpdatedAt        time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (ProductModel) TableName() string {
	return "products"
}

// BarcodeModel GORM条码模型
// value和serial_number都有唯一索引，扫码时两者都可以用来查找
type BarcodeModel struct {
	ID           uint64    `gorm:"primaryKey"`
	ProductID    uint64    `gorm:"index;not null;comment:商品ID"`
	Value        string    `gorm:"uniqueIndex:uk_barcodes_value;size:64;not null;comment:条码内容"`
	SerialNumber string    `gorm:"uniqueIndex:uk_barcodes_serial;size:64;not null;comment:序列号"`
	BoxQty       int       `gorm:"not null;comment:条码代表的数量"`
	Status       string    `gorm:"index;size:16;not null;default:AVAILABLE;comment:状态(AVAILABLE/CHECKED_OUT)"`
	CreatedAt    time.Time `gorm:"comment:创建时间"`
	UpdatedAt    time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BarcodeModel) TableName() string {
	return "barcodes"
}

// BarcodeCheckoutModel GORM借出记录模型
// 设计说明：
// 1. open_barcode_id在未归还时等于barcode_id，归还后置为NULL
// 2. MySQL唯一索引允许多个NULL，因此"每个条码最多一条未归还记录"由唯一索引保证
type BarcodeCheckoutModel struct {
	ID            uint64     `gorm:"primaryKey"`
	BarcodeID     uint64     `gorm:"index;not null;comment:条码ID"`
	OpenBarcodeID *uint64    `gorm:"uniqueIndex:uk_checkouts_open;comment:未归还时等于条码ID"`
	EmployeeID    uint64     `gorm:"index:idx_checkouts_employee;not null;comment:员工ID"`
	ProductID     uint64     `gorm:"index;not null;comment:商品ID"`
	CheckedOutAt  time.Time  `gorm:"not null;comment:借出时间"`
	ReturnedAt    *time.Time `gorm:"comment:归还时间"`
	IsReturned    bool       `gorm:"index:idx_checkouts_employee;not null;default:false;comment:是否已归还"`
}

// TableName 指定表名
func (BarcodeCheckoutModel) TableName() string {
	return "barcode_checkouts"
}

// InventoryTransactionModel GORM库存流水模型（只追加）
type InventoryTransactionModel struct {
	ID          uint64    `gorm:"primaryKey"`
	Type        string    `gorm:"index;size:16;not null;comment:类型(CHECKOUT/RETURN/ADJUST)"`
	ProductID   uint64    `gorm:"index;not null;comment:商品ID"`
	BarcodeID   *uint64   `gorm:"index;comment:条码ID(ADJUST可为空)"`
	EmployeeID  uint64    `gorm:"index;not null;comment:员工ID"`
	CheckoutQty int       `gorm:"not null;default:0;comment:借出数量"`
	ReturnedQty int       `gorm:"not null;default:0;comment:归还入库数量"`
	UsedQty     int       `gorm:"not null;default:0;comment:实际用量"`
	Remarks     string    `gorm:"size:500;comment:备注"`
	CreatedAt   time.Time `gorm:"index;comment:创建时间"`
}

// TableName 指定表名
func (InventoryTransactionModel) TableName() string {
	return "inventory_transactions"
}

// AllocationModel GORM员工分配模型
type AllocationModel struct {
	ID             uint64    `gorm:"primaryKey"`
	EmployeeID     uint64    `gorm:"uniqueIndex:uk_allocations_employee_product;not null;comment:员工ID"`
	ProductID      uint64    `gorm:"uniqueIndex:uk_allocations_employee_product;index;not null;comment:商品ID"`
	AllocatedUnits int       `gorm:"not null;default:0;comment:已分配数量"`
	UpdatedAt      time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (AllocationModel) TableName() string {
	return "inventory_allocations"
}

// LowStockAlertModel GORM低库存告警模型
// (product_id, created_at)复合索引用于查询商品最近一条告警
type LowStockAlertModel struct {
	ID             uint64    `gorm:"primaryKey"`
	ProductID      uint64    `gorm:"index:idx_alerts_product_time,priority:1;not null;comment:商品ID"`
	StockAtTrigger int       `gorm:"not null;comment:触发时可用库存"`
	Threshold      int       `gorm:"not null;comment:触发时补货阈值"`
	CreatedAt      time.Time `gorm:"index:idx_alerts_product_time,priority:2;index;comment:创建时间"`
}

// TableName 指定表名
func (LowStockAlertModel) TableName() string {
	return "low_stock_alerts"
}

// AuditLogModel GORM审计日志模型（只追加）
type AuditLogModel struct {
	ID            uint64    `gorm:"primaryKey"`
	TransactionID uint64    `gorm:"index;not null;comment:库存流水ID"`
	Type          string    `gorm:"size:16;not null;comment:类型"`
	ProductID     uint64    `gorm:"index:idx_audit_product_time,priority:1;not null;comment:商品ID"`
	BarcodeID     *uint64   `gorm:"comment:条码ID"`
	PerformedBy   uint64    `gorm:"index:idx_audit_performer_time,priority:1;not null;comment:操作员工ID"`
	CheckoutQty   int       `gorm:"not null;default:0;comment:借出数量"`
	ReturnedQty   int       `gorm:"not null;default:0;comment:归还入库数量"`
	UsedQty       int       `gorm:"not null;default:0;comment:实际用量"`
	PrevAvailable int       `gorm:"not null;comment:变更前可用库存"`
	NewAvailable  int       `gorm:"not null;comment:变更后可用库存"`
	Remarks       string    `gorm:"size:500;comment:备注"`
	CreatedAt     time.Time `gorm:"index:idx_audit_product_time,priority:2;index:idx_audit_performer_time,priority:2;index;comment:创建时间"`
}

// TableName 指定表名
func (AuditLogModel) TableName() string {
	return "inventory_audit_logs"
}
