package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/stockroom/internal/domain/inventory"
	apperrors "github.com/xiebiao/stockroom/pkg/errors"
)

// auditRepository 审计日志仓储实现（MySQL，只追加）
type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository 创建审计日志仓储
func NewAuditRepository(db *gorm.DB) inventory.AuditRepository {
	return &auditRepository{db: db}
}

// Append 追加审计记录
func (r *auditRepository) Append(ctx context.Context, e *inventory.AuditEntry) error {
	model := &AuditLogModel{
		TransactionID: e.TransactionID,
		Type:          string(e.Type),
		ProductID:     e.ProductID,
		BarcodeID:     e.BarcodeID,
		PerformedBy:   e.PerformedBy,
		CheckoutQty:   e.CheckoutQty,
		ReturnedQty:   e.ReturnedQty,
		UsedQty:       e.UsedQty,
		PrevAvailable: e.PrevAvailable,
		NewAvailable:  e.NewAvailable,
		Remarks:       e.Remarks,
		CreatedAt:     e.CreatedAt,
	}
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "写入审计日志失败")
	}
	e.ID = model.ID
	e.CreatedAt = model.CreatedAt
	return nil
}

// List 按商品/操作人/时间范围分页查询，条件都落在索引列上
func (r *auditRepository) List(ctx context.Context, f inventory.AuditFilter) ([]*inventory.AuditEntry, int64, error) {
	page, pageSize := normalizePage(f.Page, f.PageSize)

	query := dbFrom(ctx, r.db).Model(&AuditLogModel{})
	if f.ProductID != 0 {
		query = query.Where("product_id = ?", f.ProductID)
	}
	if f.PerformedBy != 0 {
		query = query.Where("performed_by = ?", f.PerformedBy)
	}
	if f.StartDate != nil {
		query = query.Where("created_at >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		query = query.Where("created_at <= ?", *f.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询审计日志总数失败")
	}

	var models []AuditLogModel
	if err := query.Order("created_at DESC, id DESC").Limit(pageSize).Offset(offsetOf(page, pageSize)).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询审计日志失败")
	}

	entries := make([]*inventory.AuditEntry, len(models))
	for i := range models {
		entries[i] = toAuditEntity(&models[i])
	}
	return entries, total, nil
}

func toAuditEntity(m *AuditLogModel) *inventory.AuditEntry {
	return &inventory.AuditEntry{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		Type:          inventory.TransactionType(m.Type),
		ProductID:     m.ProductID,
		BarcodeID:     m.BarcodeID,
		PerformedBy:   m.PerformedBy,
		CheckoutQty:   m.CheckoutQty,
		ReturnedQty:   m.ReturnedQty,
		UsedQty:       m.UsedQty,
		PrevAvailable: m.PrevAvailable,
		NewAvailable:  m.NewAvailable,
		Remarks:       m.Remarks,
		CreatedAt:     m.CreatedAt,
	}
}
