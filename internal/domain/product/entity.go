package product

import (
	"time"
)

// Product 商品实体（聚合根）
// 库存口径说明：
// 1. CurrentUnits是唯一的"可用库存"，只在归还时按实际用量扣减，借出不影响
// 2. TotalUnits是累计入库数量，只在收货时增加
// 3. CurrentUnits永远不小于0（扣减时截断）
type Product struct {
	ID               uint64
	SKU              string
	Name             string
	BoxQty           int // 每箱数量
	TotalUnits       int
	CurrentUnits     int
	ReorderThreshold int // 补货阈值，可用库存<=此值时触发低库存告警
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewProduct 创建新商品（工厂方法）
func NewProduct(sku, name string, boxQty, initialUnits, reorderThreshold int) *Product {
	now := time.Now()
	return &Product{
		SKU:              sku,
		Name:             name,
		BoxQty:           boxQty,
		TotalUnits:       initialUnits,
		CurrentUnits:     initialUnits,
		ReorderThreshold: reorderThreshold,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// AvailableUnits 可用库存 = max(0, CurrentUnits)
func (p *Product) AvailableUnits() int {
	if p.CurrentUnits < 0 {
		return 0
	}
	return p.CurrentUnits
}

// IsLowStock 可用库存是否已到补货阈值
func (p *Product) IsLowStock() bool {
	return p.AvailableUnits() <= p.ReorderThreshold
}

// ConsumeUnits 按实际用量扣减可用库存（归还时调用）
// 返回扣减前后的可用库存
func (p *Product) ConsumeUnits(used int) (prev, next int) {
	prev = p.AvailableUnits()
	if used <= 0 {
		return prev, prev
	}
	p.CurrentUnits = prev - used
	if p.CurrentUnits < 0 {
		p.CurrentUnits = 0
	}
	p.UpdatedAt = time.Now()
	return prev, p.CurrentUnits
}

// Receive 收货入库
func (p *Product) Receive(units int) (prev, next int, err error) {
	if units <= 0 {
		return 0, 0, ErrInvalidQuantity
	}
	prev = p.AvailableUnits()
	p.TotalUnits += units
	p.CurrentUnits = prev + units
	p.UpdatedAt = time.Now()
	return prev, p.CurrentUnits, nil
}
