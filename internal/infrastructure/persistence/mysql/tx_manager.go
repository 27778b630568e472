package mysql

import (
	"context"

	"gorm.io/gorm"
)

// txKey 事务DB在context中的key
type txKey struct{}

// TxManager 事务管理器
// 1. 封装GORM的Transaction方法
// 2. 通过context传递事务DB，各Repository用dbFrom取出
// 3. 嵌套调用时GORM自动使用Savepoint
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务，fn返回error时ROLLBACK，返回nil时COMMIT
//
// 使用示例:
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    barcode, err := barcodeRepo.LockByID(ctx, barcodeID)
//	    if err != nil {
//	        return err
//	    }
//	    if err := inventoryRepo.CreateTransaction(ctx, tx); err != nil {
//	        return err // 自动回滚
//	    }
//	    return barcodeRepo.UpdateStatus(ctx, barcode.ID, product.BarcodeCheckedOut)
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return dbFrom(ctx, m.db).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFrom 从context获取事务DB，没有则使用默认DB
func dbFrom(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
