package dto

import (
	"time"

	"github.com/xiebiao/stockroom/internal/domain/product"
)

// CreateProductRequest 新建商品
// reorderThreshold不传时使用配置的默认阈值
type CreateProductRequest struct {
	SKU              string `json:"sku" binding:"required,max=32" example:"GLV-100"`
	Name             string `json:"name" binding:"required,max=100" example:"丁腈手套"`
	BoxQty           int    `json:"boxQty" binding:"required,min=1" example:"10"`
	InitialUnits     int    `json:"initialUnits" binding:"min=0" example:"50"`
	ReorderThreshold *int   `json:"reorderThreshold" binding:"omitempty,min=0" example:"45"`
}

// ProductListQuery 商品列表查询
type ProductListQuery struct {
	Page     int    `form:"page,default=1" binding:"min=1"`
	Limit    int    `form:"limit,default=20" binding:"min=1,max=100"`
	Keyword  string `form:"keyword" binding:"max=50"`
	LowStock bool   `form:"lowStock"`
}

// GenerateBarcodesRequest 批量生成条码
// boxQty不传时使用商品的每箱数量
type GenerateBarcodesRequest struct {
	Count  int `json:"count" binding:"required,min=1,max=500" example:"20"`
	BoxQty int `json:"boxQty" binding:"min=0" example:"10"`
}

// ReceiveStockRequest 收货入库
type ReceiveStockRequest struct {
	Units   int    `json:"units" binding:"required,min=1" example:"100"`
	Remarks string `json:"remarks" binding:"max=500" example:"供应商补货"`
}

// ProductResponse 商品信息
type ProductResponse struct {
	ID               uint64    `json:"id,string" example:"1"`
	SKU              string    `json:"sku" example:"GLV-100"`
	Name             string    `json:"name" example:"丁腈手套"`
	BoxQty           int       `json:"boxQty" example:"10"`
	TotalUnits       int       `json:"totalUnits" example:"50"`
	AvailableUnits   int       `json:"availableUnits" example:"47"`
	ReorderThreshold int       `json:"reorderThreshold" example:"45"`
	LowStock         bool      `json:"lowStock"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// BarcodeResponse 条码信息
type BarcodeResponse struct {
	ID           uint64    `json:"id,string" example:"1"`
	ProductID    uint64    `json:"productId,string" example:"1"`
	BarcodeValue string    `json:"barcodeValue" example:"GLV100-260302-0001"`
	SerialNumber string    `json:"serialNumber" example:"SN2603020001"`
	BoxQty       int       `json:"boxQty" example:"10"`
	Status       string    `json:"status" example:"AVAILABLE"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ReceiveStockResponse 收货结果
type ReceiveStockResponse struct {
	Product     *ProductResponse     `json:"product"`
	Transaction *TransactionResponse `json:"transaction"`
}

func ToProductResponse(p *product.Product) *ProductResponse {
	return &ProductResponse{
		ID:               p.ID,
		SKU:              p.SKU,
		Name:             p.Name,
		BoxQty:           p.BoxQty,
		TotalUnits:       p.TotalUnits,
		AvailableUnits:   p.AvailableUnits(),
		ReorderThreshold: p.ReorderThreshold,
		LowStock:         p.IsLowStock(),
		Active:           p.Active,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func ToProductList(products []*product.Product) []*ProductResponse {
	list := make([]*ProductResponse, 0, len(products))
	for _, p := range products {
		list = append(list, ToProductResponse(p))
	}
	return list
}

func ToBarcodeList(barcodes []*product.Barcode) []*BarcodeResponse {
	list := make([]*BarcodeResponse, 0, len(barcodes))
	for _, b := range barcodes {
		list = append(list, &BarcodeResponse{
			ID:           b.ID,
			ProductID:    b.ProductID,
			BarcodeValue: b.Value,
			SerialNumber: b.SerialNumber,
			BoxQty:       b.BoxQty,
			Status:       string(b.Status),
			CreatedAt:    b.CreatedAt,
		})
	}
	return list
}
