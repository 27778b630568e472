package product

import (
	"context"

	"github.com/xiebiao/stockroom/internal/domain/product"
)

// CreateProductUseCase 新建商品用例
// 未指定补货阈值时使用配置的默认值
type CreateProductUseCase struct {
	service          product.Service
	defaultThreshold int
}

// NewCreateProductUseCase 创建用例
func NewCreateProductUseCase(service product.Service, defaultThreshold int) *CreateProductUseCase {
	return &CreateProductUseCase{service: service, defaultThreshold: defaultThreshold}
}

// CreateProductRequest 新建商品请求
type CreateProductRequest struct {
	SKU              string
	Name             string
	BoxQty           int
	InitialUnits     int
	ReorderThreshold *int
}

// Execute 执行
func (uc *CreateProductUseCase) Execute(ctx context.Context, req CreateProductRequest) (*product.Product, error) {
	threshold := uc.defaultThreshold
	if req.ReorderThreshold != nil {
		threshold = *req.ReorderThreshold
	}
	return uc.service.CreateProduct(ctx, req.SKU, req.Name, req.BoxQty, req.InitialUnits, threshold)
}

// QueryUseCase 商品与条码查询
type QueryUseCase struct {
	service  product.Service
	barcodes product.BarcodeRepository
}

// NewQueryUseCase 创建查询用例
func NewQueryUseCase(service product.Service, barcodes product.BarcodeRepository) *QueryUseCase {
	return &QueryUseCase{service: service, barcodes: barcodes}
}

// Get 商品详情
func (uc *QueryUseCase) Get(ctx context.Context, id uint64) (*product.Product, error) {
	return uc.service.GetProduct(ctx, id)
}

// List 商品列表
func (uc *QueryUseCase) List(ctx context.Context, params product.ListParams) ([]*product.Product, int64, error) {
	return uc.service.ListProducts(ctx, params)
}

// Barcodes 商品下的条码
func (uc *QueryUseCase) Barcodes(ctx context.Context, productID uint64, page, pageSize int) ([]*product.Barcode, int64, error) {
	if _, err := uc.service.GetProduct(ctx, productID); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return uc.barcodes.ListByProduct(ctx, productID, page, pageSize)
}
