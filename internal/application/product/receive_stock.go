package product

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/stockroom/internal/domain/inventory"
	"github.com/xiebiao/stockroom/internal/domain/product"
)

// Auditor 审计记录（*inventory.AuditLogger）
type Auditor interface {
	Record(ctx context.Context, entry *inventory.AuditEntry) error
}

// ReceiveStockUseCase 收货入库
// 同一个事务内：锁商品行 → 增加TotalUnits/CurrentUnits → 记一条ADJUST流水（ReturnedQty=入库数量）
// 审计在提交后记录，失败只记日志
type ReceiveStockUseCase struct {
	products  product.Repository
	repo      inventory.Repository
	txManager inventory.TxManager
	audit     Auditor
	log       *zap.Logger
	now       func() time.Time
}

// NewReceiveStockUseCase 创建用例
func NewReceiveStockUseCase(
	products product.Repository,
	repo inventory.Repository,
	txManager inventory.TxManager,
	audit Auditor,
	log *zap.Logger,
) *ReceiveStockUseCase {
	return &ReceiveStockUseCase{
		products:  products,
		repo:      repo,
		txManager: txManager,
		audit:     audit,
		log:       log,
		now:       time.Now,
	}
}

// ReceiveRequest 收货请求
type ReceiveRequest struct {
	ProductID  uint64
	EmployeeID uint64
	Units      int
	Remarks    string
}

// ReceiveResult 收货结果
type ReceiveResult struct {
	Product     *product.Product
	Transaction *inventory.Transaction
}

// Execute 执行收货
func (uc *ReceiveStockUseCase) Execute(ctx context.Context, req ReceiveRequest) (*ReceiveResult, error) {
	if req.Units <= 0 {
		return nil, product.ErrInvalidQuantity
	}

	var (
		p          *product.Product
		tx         *inventory.Transaction
		prev, next int
	)
	err := uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		var err error
		if p, err = uc.products.LockByID(ctx, req.ProductID); err != nil {
			return err
		}
		if prev, next, err = p.Receive(req.Units); err != nil {
			return err
		}
		if err := uc.products.SaveUnits(ctx, p); err != nil {
			return err
		}

		tx = &inventory.Transaction{
			Type:        inventory.TypeAdjust,
			ProductID:   p.ID,
			EmployeeID:  req.EmployeeID,
			ReturnedQty: req.Units,
			Remarks:     req.Remarks,
			CreatedAt:   uc.now(),
		}
		return uc.repo.CreateTransaction(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("收货入库",
		zap.Uint64("product_id", p.ID),
		zap.Int("units", req.Units),
		zap.Int("prev_available", prev),
		zap.Int("new_available", next),
	)

	if uc.audit != nil {
		if err := uc.audit.Record(context.WithoutCancel(ctx), inventory.NewAuditEntry(tx, prev, next)); err != nil {
			uc.log.Warn("收货审计记录失败", zap.Uint64("transaction_id", tx.ID), zap.Error(err))
		}
	}

	return &ReceiveResult{Product: p, Transaction: tx}, nil
}
