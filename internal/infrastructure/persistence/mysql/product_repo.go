package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/stockroom/internal/domain/product"
	apperrors "github.com/xiebiao/stockroom/pkg/errors"
)

// productRepository 商品仓储实现（MySQL）
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) product.Repository {
	return &productRepository{db: db}
}

// Create 创建商品
func (r *productRepository) Create(ctx context.Context, p *product.Product) error {
	model := &ProductModel{
		SKU:              p.SKU,
		Name:             p.Name,
		BoxQty:           p.BoxQty,
		TotalUnits:       p.TotalUnits,
		CurrentUnits:     p.CurrentUnits,
		ReorderThreshold: p.ReorderThreshold,
		Active:           p.Active,
	}

	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return product.ErrSKUDuplicate
		}
		return apperrors.Wrap(err, "创建商品失败")
	}

	p.ID = model.ID
	p.CreatedAt = model.CreatedAt
	p.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找商品
func (r *productRepository) FindByID(ctx context.Context, id uint64) (*product.Product, error) {
	var model ProductModel
	if err := dbFrom(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, apperrors.Wrap(err, "查询商品失败")
	}
	return toProductEntity(&model), nil
}

// FindBySKU 根据SKU查找商品
func (r *productRepository) FindBySKU(ctx context.Context, sku string) (*product.Product, error) {
	var model ProductModel
	if err := dbFrom(ctx, r.db).Where("sku = ?", sku).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, apperrors.Wrap(err, "查询商品失败")
	}
	return toProductEntity(&model), nil
}

// List 分页查询商品列表
func (r *productRepository) List(ctx context.Context, params product.ListParams) ([]*product.Product, int64, error) {
	page, pageSize := normalizePage(params.Page, params.PageSize)

	query := dbFrom(ctx, r.db).Model(&ProductModel{})
	if params.Keyword != "" {
		keyword := "%" + params.Keyword + "%"
		query = query.Where("sku LIKE ? OR name LIKE ?", keyword, keyword)
	}
	if params.LowStock {
		query = query.Where("GREATEST(current_units, 0) <= reorder_threshold")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询商品总数失败")
	}

	var models []ProductModel
	if err := query.Order("id DESC").Limit(pageSize).Offset(offsetOf(page, pageSize)).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询商品列表失败")
	}

	products := make([]*product.Product, len(models))
	for i := range models {
		products[i] = toProductEntity(&models[i])
	}
	return products, total, nil
}

// LockByID 悲观锁查询商品（SELECT ... FOR UPDATE）
// 必须在TxManager.Transaction内调用，否则锁在语句结束后立即释放
func (r *productRepository) LockByID(ctx context.Context, id uint64) (*product.Product, error) {
	var model ProductModel
	err := dbFrom(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, apperrors.Wrap(err, "锁定商品失败")
	}
	return toProductEntity(&model), nil
}

// SaveUnits 保存库存数量
func (r *productRepository) SaveUnits(ctx context.Context, p *product.Product) error {
	result := dbFrom(ctx, r.db).Model(&ProductModel{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"total_units":   p.TotalUnits,
			"current_units": p.CurrentUnits,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新库存失败")
	}
	if result.RowsAffected == 0 {
		// 值未变化时MySQL也返回0行，再查一次区分是否不存在
		if _, err := r.FindByID(ctx, p.ID); err != nil {
			return err
		}
	}
	return nil
}

// toProductEntity GORM模型 → 领域实体
func toProductEntity(m *ProductModel) *product.Product {
	return &product.Product{
		ID:               m.ID,
		SKU:              m.SKU,
		Name:             m.Name,
		BoxQty:           m.BoxQty,
		TotalUnits:       m.TotalUnits,
		CurrentUnits:     m.CurrentUnits,
		ReorderThreshold: m.ReorderThreshold,
		Active:           m.Active,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
