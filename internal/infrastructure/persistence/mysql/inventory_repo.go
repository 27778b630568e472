package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/stockroom/internal/domain/inventory"
	apperrors "github.com/xiebiao/stockroom/pkg/errors"
)

// inventoryRepository 库存流水/借出记录/分配仓储实现（MySQL）
type inventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository 创建库存仓储
func NewInventoryRepository(db *gorm.DB) inventory.Repository {
	return &inventoryRepository{db: db}
}

// CreateTransaction 追加一条库存流水
func (r *inventoryRepository) CreateTransaction(ctx context.Context, tx *inventory.Transaction) error {
	model := &InventoryTransactionModel{
		Type:        string(tx.Type),
		ProductID:   tx.ProductID,
		BarcodeID:   tx.BarcodeID,
		EmployeeID:  tx.EmployeeID,
		CheckoutQty: tx.CheckoutQty,
		ReturnedQty: tx.ReturnedQty,
		UsedQty:     tx.UsedQty,
		Remarks:     tx.Remarks,
		CreatedAt:   tx.CreatedAt,
	}

	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建库存流水失败")
	}

	tx.ID = model.ID
	tx.CreatedAt = model.CreatedAt
	return nil
}

// CreateCheckout 创建借出记录
// open_barcode_id唯一索引冲突说明该条码已有未归还记录
func (r *inventoryRepository) CreateCheckout(ctx context.Context, c *inventory.Checkout) error {
	openID := c.BarcodeID
	model := &BarcodeCheckoutModel{
		BarcodeID:     c.BarcodeID,
		OpenBarcodeID: &openID,
		EmployeeID:    c.EmployeeID,
		ProductID:     c.ProductID,
		CheckedOutAt:  c.CheckedOutAt,
	}

	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return inventory.ErrOpenCheckoutExists
		}
		return apperrors.Wrap(err, "创建借出记录失败")
	}

	c.ID = model.ID
	return nil
}

// FindOpenCheckout 条码当前未归还的借出记录
func (r *inventoryRepository) FindOpenCheckout(ctx context.Context, barcodeID uint64) (*inventory.Checkout, error) {
	var model BarcodeCheckoutModel
	err := dbFrom(ctx, r.db).
		Where("barcode_id = ? AND is_returned = ?", barcodeID, false).
		Order("checked_out_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventory.ErrCheckoutNotFound
		}
		return nil, apperrors.Wrap(err, "查询借出记录失败")
	}
	return toCheckoutEntity(&model), nil
}

// CloseOpenCheckouts 关闭条码所有未归还的借出记录
func (r *inventoryRepository) CloseOpenCheckouts(ctx context.Context, barcodeID uint64, returnedAt time.Time) (int64, error) {
	result := dbFrom(ctx, r.db).Model(&BarcodeCheckoutModel{}).
		Where("barcode_id = ? AND is_returned = ?", barcodeID, false).
		Updates(map[string]interface{}{
			"is_returned":     true,
			"returned_at":     returnedAt,
			"open_barcode_id": gorm.Expr("NULL"),
		})
	if result.Error != nil {
		return 0, apperrors.Wrap(result.Error, "关闭借出记录失败")
	}
	return result.RowsAffected, nil
}

// AdjustAllocation 调整员工分配数量
// INSERT ... ON DUPLICATE KEY UPDATE allocated_units = allocated_units + delta，
// 结果<=0时删除该行
func (r *inventoryRepository) AdjustAllocation(ctx context.Context, employeeID, productID uint64, delta int) error {
	if delta == 0 {
		return nil
	}
	db := dbFrom(ctx, r.db)

	model := &AllocationModel{
		EmployeeID:     employeeID,
		ProductID:      productID,
		AllocatedUnits: delta,
	}
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "employee_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"allocated_units": gorm.Expr("allocated_units + ?", delta),
			"updated_at":      time.Now(),
		}),
	}).Create(model).Error
	if err != nil {
		return apperrors.Wrap(err, "更新分配数量失败")
	}

	if delta < 0 {
		err = db.Where("employee_id = ? AND product_id = ? AND allocated_units <= 0", employeeID, productID).
			Delete(&AllocationModel{}).Error
		if err != nil {
			return apperrors.Wrap(err, "清理分配记录失败")
		}
	}
	return nil
}

// ListTransactions 分页查询库存流水
func (r *inventoryRepository) ListTransactions(ctx context.Context, f inventory.TransactionFilter) ([]*inventory.Transaction, int64, error) {
	page, pageSize := normalizePage(f.Page, f.PageSize)

	query := dbFrom(ctx, r.db).Model(&InventoryTransactionModel{})
	if f.EmployeeID != 0 {
		query = query.Where("employee_id = ?", f.EmployeeID)
	}
	if f.ProductID != 0 {
		query = query.Where("product_id = ?", f.ProductID)
	}
	if f.Type != "" {
		query = query.Where("type = ?", string(f.Type))
	}
	if f.StartDate != nil {
		query = query.Where("created_at >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		query = query.Where("created_at <= ?", *f.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询库存流水总数失败")
	}

	var models []InventoryTransactionModel
	if err := query.Order("created_at DESC, id DESC").Limit(pageSize).Offset(offsetOf(page, pageSize)).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询库存流水失败")
	}

	txs := make([]*inventory.Transaction, len(models))
	for i := range models {
		txs[i] = toTransactionEntity(&models[i])
	}
	return txs, total, nil
}

// ListAllocations 查询分配记录
func (r *inventoryRepository) ListAllocations(ctx context.Context, f inventory.AllocationFilter) ([]*inventory.Allocation, error) {
	query := dbFrom(ctx, r.db).Model(&AllocationModel{})
	if f.EmployeeID != 0 {
		query = query.Where("employee_id = ?", f.EmployeeID)
	}
	if f.ProductID != 0 {
		query = query.Where("product_id = ?", f.ProductID)
	}

	var models []AllocationModel
	if err := query.Order("employee_id ASC, product_id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询分配记录失败")
	}

	allocations := make([]*inventory.Allocation, len(models))
	for i, m := range models {
		allocations[i] = &inventory.Allocation{
			ID:             m.ID,
			EmployeeID:     m.EmployeeID,
			ProductID:      m.ProductID,
			AllocatedUnits: m.AllocatedUnits,
			UpdatedAt:      m.UpdatedAt,
		}
	}
	return allocations, nil
}

// ListCheckouts 查询员工的借出记录，includeReturned=false时只返回未归还的
func (r *inventoryRepository) ListCheckouts(ctx context.Context, employeeID uint64, includeReturned bool) ([]*inventory.Checkout, error) {
	query := dbFrom(ctx, r.db).Where("employee_id = ?", employeeID)
	if !includeReturned {
		query = query.Where("is_returned = ?", false)
	}

	var models []BarcodeCheckoutModel
	if err := query.Order("checked_out_at DESC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询借出记录失败")
	}

	checkouts := make([]*inventory.Checkout, len(models))
	for i := range models {
		checkouts[i] = toCheckoutEntity(&models[i])
	}
	return checkouts, nil
}

func toTransactionEntity(m *InventoryTransactionModel) *inventory.Transaction {
	return &inventory.Transaction{
		ID:          m.ID,
		Type:        inventory.TransactionType(m.Type),
		ProductID:   m.ProductID,
		BarcodeID:   m.BarcodeID,
		EmployeeID:  m.EmployeeID,
		CheckoutQty: m.CheckoutQty,
		ReturnedQty: m.ReturnedQty,
		UsedQty:     m.UsedQty,
		Remarks:     m.Remarks,
		CreatedAt:   m.CreatedAt,
	}
}

func toCheckoutEntity(m *BarcodeCheckoutModel) *inventory.Checkout {
	return &inventory.Checkout{
		ID:           m.ID,
		BarcodeID:    m.BarcodeID,
		EmployeeID:   m.EmployeeID,
		ProductID:    m.ProductID,
		CheckedOutAt: m.CheckedOutAt,
		ReturnedAt:   m.ReturnedAt,
		IsReturned:   m.IsReturned,
	}
}
