package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/stockroom/internal/domain/product"
	apperrors "github.com/xiebiao/stockroom/pkg/errors"
)

// barcodeRepository 条码仓储实现（MySQL）
type barcodeRepository struct {
	db *gorm.DB
}

// NewBarcodeRepository 创建条码仓储
func NewBarcodeRepository(db *gorm.DB) product.BarcodeRepository {
	return &barcodeRepository{db: db}
}

// CreateBatch 批量插入条码（一条INSERT多行，任一重复则整体失败）
func (r *barcodeRepository) CreateBatch(ctx context.Context, barcodes []*product.Barcode) error {
	if len(barcodes) == 0 {
		return nil
	}

	models := make([]BarcodeModel, len(barcodes))
	for i, b := range barcodes {
		models[i] = BarcodeModel{
			ProductID:    b.ProductID,
			Value:        b.Value,
			SerialNumber: b.SerialNumber,
			BoxQty:       b.BoxQty,
			Status:       string(b.Status),
		}
	}

	if err := dbFrom(ctx, r.db).CreateInBatches(models, 100).Error; err != nil {
		if isDuplicateError(err) {
			return product.ErrBarcodeDuplicate
		}
		return apperrors.Wrap(err, "批量创建条码失败")
	}

	for i := range models {
		barcodes[i].ID = models[i].ID
		barcodes[i].CreatedAt = models[i].CreatedAt
		barcodes[i].UpdatedAt = models[i].UpdatedAt
	}
	return nil
}

// FindByID 根据ID查找条码
func (r *barcodeRepository) FindByID(ctx context.Context, id uint64) (*product.Barcode, error) {
	var model BarcodeModel
	if err := dbFrom(ctx, r.db).First(&model, id).Error; err != nil {
		return nil, barcodeLookupError(err)
	}
	return toBarcodeEntity(&model), nil
}

// FindByCode 按条码内容或序列号查找
func (r *barcodeRepository) FindByCode(ctx context.Context, code string) (*product.Barcode, error) {
	var model BarcodeModel
	err := dbFrom(ctx, r.db).
		Where("value = ? OR serial_number = ?", code, code).
		First(&model).Error
	if err != nil {
		return nil, barcodeLookupError(err)
	}
	return toBarcodeEntity(&model), nil
}

// LockByID 悲观锁查询条码
// 并发的借出/归还在这里排队，拿到锁后重新检查状态
func (r *barcodeRepository) LockByID(ctx context.Context, id uint64) (*product.Barcode, error) {
	var model BarcodeModel
	err := dbFrom(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error
	if err != nil {
		return nil, barcodeLookupError(err)
	}
	return toBarcodeEntity(&model), nil
}

// UpdateStatus 更新条码状态
func (r *barcodeRepository) UpdateStatus(ctx context.Context, id uint64, status product.BarcodeStatus) error {
	result := dbFrom(ctx, r.db).Model(&BarcodeModel{}).Where("id = ?", id).Update("status", string(status))
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新条码状态失败")
	}
	if result.RowsAffected == 0 {
		return product.ErrBarcodeNotFound
	}
	return nil
}

// ListByProduct 查询商品下的条码
func (r *barcodeRepository) ListByProduct(ctx context.Context, productID uint64, page, pageSize int) ([]*product.Barcode, int64, error) {
	page, pageSize = normalizePage(page, pageSize)
	query := dbFrom(ctx, r.db).Model(&BarcodeModel{}).Where("product_id = ?", productID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询条码总数失败")
	}

	var models []BarcodeModel
	if err := query.Order("id ASC").Limit(pageSize).Offset(offsetOf(page, pageSize)).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询条码列表失败")
	}

	barcodes := make([]*product.Barcode, len(models))
	for i := range models {
		barcodes[i] = toBarcodeEntity(&models[i])
	}
	return barcodes, total, nil
}

func barcodeLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return product.ErrBarcodeNotFound
	}
	return apperrors.Wrap(err, "查询条码失败")
}

// toBarcodeEntity GORM模型 → 领域实体
func toBarcodeEntity(m *BarcodeModel) *product.Barcode {
	return &product.Barcode{
		ID:           m.ID,
		ProductID:    m.ProductID,
		Value:        m.Value,
		SerialNumber: m.SerialNumber,
		BoxQty:       m.BoxQty,
		Status:       product.BarcodeStatus(m.Status),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
