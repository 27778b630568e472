package product

import (
	"time"
)

// BarcodeStatus 条码状态
type BarcodeStatus string

const (
	BarcodeAvailable  BarcodeStatus = "AVAILABLE"
	BarcodeCheckedOut BarcodeStatus = "CHECKED_OUT"
)

// Barcode 条码实体（一个可单独追踪的实物箱/件，只属于一个商品）
// 状态流转：
//
//	AVAILABLE --借出--> CHECKED_OUT --归还--> AVAILABLE
type Barcode struct {
	ID           uint64
	ProductID    uint64
	Value        string // 条码内容（扫码枪读取到的值）
	SerialNumber string // 序列号（标签上印刷，可手工输入）
	BoxQty       int    // 该条码代表的数量
	Status       BarcodeStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsCheckedOut 是否已借出
func (b *Barcode) IsCheckedOut() bool {
	return b.Status == BarcodeCheckedOut
}

// MarkCheckedOut 借出
func (b *Barcode) MarkCheckedOut() error {
	if b.Status != BarcodeAvailable {
		return ErrBarcodeNotAvailable
	}
	b.Status = BarcodeCheckedOut
	b.UpdatedAt = time.Now()
	return nil
}

// MarkReturned 归还
func (b *Barcode) MarkReturned() error {
	if b.Status != BarcodeCheckedOut {
		return ErrBarcodeNotCheckedOut
	}
	b.Status = BarcodeAvailable
	b.UpdatedAt = time.Now()
	return nil
}
