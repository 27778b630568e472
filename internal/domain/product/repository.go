package product

import (
	"context"
)

// Repository 商品仓储接口
type Repository interface {
	// Create SKU重复时返回ErrSKUDuplicate
	Create(ctx context.Context, p *Product) error

	// FindByID 不存在时返回ErrProductNotFound
	FindByID(ctx context.Context, id uint64) (*Product, error)

	// FindBySKU 不存在时返回ErrProductNotFound
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// List 分页查询
	List(ctx context.Context, params ListParams) ([]*Product, int64, error)

	// LockByID 悲观锁查询（SELECT FOR UPDATE），必须在事务内调用
	LockByID(ctx context.Context, id uint64) (*Product, error)

	// SaveUnits 保存TotalUnits/CurrentUnits（调用方先LockByID再修改实体）
	SaveUnits(ctx context.Context, p *Product) error
}

// ListParams 商品列表查询参数
type ListParams struct {
	Page     int
	PageSize int
	Keyword  string // 匹配SKU或名称
	LowStock bool   // 只看已到补货阈值的商品
}

// BarcodeRepository 条码仓储接口
type BarcodeRepository interface {
	// CreateBatch 批量创建，条码或序列号重复时返回ErrBarcodeDuplicate
	CreateBatch(ctx context.Context, barcodes []*Barcode) error

	// FindByID 不存在时返回ErrBarcodeNotFound
	FindByID(ctx context.Context, id uint64) (*Barcode, error)

	// FindByCode 按条码内容或序列号查找，不存在时返回ErrBarcodeNotFound
	FindByCode(ctx context.Context, code string) (*Barcode, error)

	// LockByID 悲观锁查询，必须在事务内调用
	LockByID(ctx context.Context, id uint64) (*Barcode, error)

	// UpdateStatus 更新状态
	UpdateStatus(ctx context.Context, id uint64, status BarcodeStatus) error

	// ListByProduct 查询商品下的条码
	ListByProduct(ctx context.Context, productID uint64, page, pageSize int) ([]*Barcode, int64, error)
}
