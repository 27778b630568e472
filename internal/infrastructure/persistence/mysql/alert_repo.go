package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/stockroom/internal/domain/inventory"
	apperrors "github.com/xiebiao/stockroom/pkg/errors"
)

// alertRepository 低库存告警仓储实现（MySQL）
type alertRepository struct {
	db *gorm.DB
}

// NewAlertRepository 创建告警仓储
func NewAlertRepository(db *gorm.DB) inventory.AlertRepository {
	return &alertRepository{db: db}
}

// Latest 商品最近一条告警，走(product_id, created_at)复合索引
func (r *alertRepository) Latest(ctx context.Context, productID uint64) (*inventory.LowStockAlert, error) {
	var model LowStockAlertModel
	err := dbFrom(ctx, r.db).
		Where("product_id = ?", productID).
		Order("created_at DESC, id DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventory.ErrAlertNotFound
		}
		return nil, apperrors.Wrap(err, "查询低库存告警失败")
	}
	return toAlertEntity(&model), nil
}

// Create 创建告警
func (r *alertRepository) Create(ctx context.Context, a *inventory.LowStockAlert) error {
	model := &LowStockAlertModel{
		ProductID:      a.ProductID,
		StockAtTrigger: a.StockAtTrigger,
		Threshold:      a.Threshold,
		CreatedAt:      a.CreatedAt,
	}
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建低库存告警失败")
	}
	a.ID = model.ID
	a.CreatedAt = model.CreatedAt
	return nil
}

// List 分页查询告警（最新在前）
func (r *alertRepository) List(ctx context.Context, page, pageSize int) ([]*inventory.LowStockAlert, int64, error) {
	page, pageSize = normalizePage(page, pageSize)
	query := dbFrom(ctx, r.db).Model(&LowStockAlertModel{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询低库存告警总数失败")
	}

	var models []LowStockAlertModel
	if err := query.Order("created_at DESC, id DESC").Limit(pageSize).Offset(offsetOf(page, pageSize)).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询低库存告警失败")
	}

	alerts := make([]*inventory.LowStockAlert, len(models))
	for i := range models {
		alerts[i] = toAlertEntity(&models[i])
	}
	return alerts, total, nil
}

func toAlertEntity(m *LowStockAlertModel) *inventory.LowStockAlert {
	return &inventory.LowStockAlert{
		ID:             m.ID,
		ProductID:      m.ProductID,
		StockAtTrigger: m.StockAtTrigger,
		Threshold:      m.Threshold,
		CreatedAt:      m.CreatedAt,
	}
}
