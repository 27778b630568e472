package product

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/stockroom/internal/domain/product"
)

// GenerateBarcodesUseCase 批量生成条码标签
type GenerateBarcodesUseCase struct {
	products product.Repository
	barcodes product.BarcodeRepository
	log      *zap.Logger
	now      func() time.Time
}

// NewGenerateBarcodesUseCase 创建用例
func NewGenerateBarcodesUseCase(products product.Repository, barcodes product.BarcodeRepository, log *zap.Logger) *GenerateBarcodesUseCase {
	return &GenerateBarcodesUseCase{
		products: products,
		barcodes: barcodes,
		log:      log,
		now:      time.Now,
	}
}

// Execute 为商品生成count个条码，boxQty<=0时沿用商品每箱数量
func (uc *GenerateBarcodesUseCase) Execute(ctx context.Context, productID uint64, count, boxQty int) ([]*product.Barcode, error) {
	p, err := uc.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	barcodes, err := product.NewBarcodes(p, count, boxQty, uc.now())
	if err != nil {
		return nil, err
	}
	if err := uc.barcodes.CreateBatch(ctx, barcodes); err != nil {
		return nil, err
	}

	uc.log.Info("条码已生成", zap.Uint64("product_id", p.ID), zap.String("sku", p.SKU), zap.Int("count", len(barcodes)))
	return barcodes, nil
}
