package dto

import (
	"time"

	appinventory "github.com/xiebiao/stockroom/internal/application/inventory"
	"github.com/xiebiao/stockroom/internal/domain/inventory"
	apperrors "github.com/xiebiao/stockroom/pkg/errors"
)

// RecordTransactionRequest 直接记录库存交易
// employeeId不传时记在当前登录员工名下；条码用barcodeId或barcodeValue（条码内容/序列号）指定
// txtype: 自定义校验，CHECKOUT/RETURN/ADJUST（不区分大小写）
type RecordTransactionRequest struct {
	ProductID       ID     `json:"productId" swaggertype:"string" example:"1"`
	EmployeeID      ID     `json:"employeeId" swaggertype:"string" example:"1"`
	TransactionType string `json:"transactionType" binding:"omitempty,txtype" example:"CHECKOUT"`
	BarcodeID       ID     `json:"barcodeId" swaggertype:"string" example:"1"`
	BarcodeValue    string `json:"barcodeValue" binding:"max=64" example:"GLV100-260302-0001"`
	CheckoutQty     *int   `json:"checkoutQty" example:"10"`
	ReturnedQty     *int   `json:"returnedQty" example:"7"`
	UsedQty         *int   `json:"usedQty" example:"3"`
	Remarks         string `json:"remarks" binding:"max=500"`
}

// ScanRequest 扫码枪提交
// 已借出的条码超过最短借用时间后再次扫码自动视为归还
type ScanRequest struct {
	BarcodeValue    string `json:"barcodeValue" binding:"max=64" example:"GLV100-260302-0001"`
	TransactionType string `json:"transactionType" binding:"omitempty,txtype" example:"CHECKOUT"`
	CheckoutQty     *int   `json:"checkoutQty" example:"10"`
	UsedQty         *int   `json:"usedQty" example:"3"`
	Remarks         string `json:"remarks" binding:"max=500"`
}

// TransactionQuery 流水查询
// 日期支持 2006-01-02 或 RFC3339，只有日期的endDate包含当天
type TransactionQuery struct {
	Page            int    `form:"page,default=1" binding:"min=1"`
	Limit           int    `form:"limit,default=20" binding:"min=1,max=100"`
	EmployeeID      uint64 `form:"employeeId"`
	ProductID       uint64 `form:"productId"`
	TransactionType string `form:"transactionType" binding:"omitempty,txtype"`
	StartDate       string `form:"startDate"`
	EndDate         string `form:"endDate"`
}

// Filter 转换为仓储查询条件
func (q *TransactionQuery) Filter() (inventory.TransactionFilter, error) {
	start, end, err := parseDateRange(q.StartDate, q.EndDate)
	if err != nil {
		return inventory.TransactionFilter{}, err
	}
	f := inventory.TransactionFilter{
		Page:       q.Page,
		PageSize:   q.Limit,
		EmployeeID: q.EmployeeID,
		ProductID:  q.ProductID,
		StartDate:  start,
		EndDate:    end,
	}
	if q.TransactionType != "" {
		f.Type, _ = inventory.ParseTransactionType(q.TransactionType)
	}
	return f, nil
}

// AuditQuery 审计日志查询
type AuditQuery struct {
	Page        int    `form:"page,default=1" binding:"min=1"`
	Limit       int    `form:"limit,default=20" binding:"min=1,max=100"`
	ProductID   uint64 `form:"productId"`
	PerformedBy uint64 `form:"performedBy"`
	StartDate   string `form:"startDate"`
	EndDate     string `form:"endDate"`
}

func (q *AuditQuery) Filter() (inventory.AuditFilter, error) {
	start, end, err := parseDateRange(q.StartDate, q.EndDate)
	if err != nil {
		return inventory.AuditFilter{}, err
	}
	return inventory.AuditFilter{
		Page:        q.Page,
		PageSize:    q.Limit,
		ProductID:   q.ProductID,
		PerformedBy: q.PerformedBy,
		StartDate:   start,
		EndDate:     end,
	}, nil
}

// AllocationQuery 分配查询
type AllocationQuery struct {
	EmployeeID uint64 `form:"employeeId"`
	ProductID  uint64 `form:"productId"`
}

// PageQuery 通用分页
type PageQuery struct {
	Page  int `form:"page,default=1" binding:"min=1"`
	Limit int `form:"limit,default=20" binding:"min=1,max=100"`
}

const dateLayout = "2006-01-02"

func parseDateRange(start, end string) (*time.Time, *time.Time, error) {
	from, err := parseDate(start, false)
	if err != nil {
		return nil, nil, apperrors.InvalidParams("startDate格式错误: %s", start)
	}
	to, err := parseDate(end, true)
	if err != nil {
		return nil, nil, apperrors.InvalidParams("endDate格式错误: %s", end)
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, apperrors.InvalidParams("endDate不能早于startDate")
	}
	return from, to, nil
}

func parseDate(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// TransactionResponse 库存流水
type TransactionResponse struct {
	ID              uint64    `json:"id,string" example:"1"`
	TransactionType string    `json:"transactionType" example:"RETURN"`
	ProductID       uint64    `json:"productId,string" example:"1"`
	BarcodeID       *uint64   `json:"barcodeId,omitempty,string" example:"1"`
	EmployeeID      uint64    `json:"employeeId,string" example:"1"`
	CheckoutQty     int       `json:"checkoutQty" example:"0"`
	ReturnedQty     int       `json:"returnedQty" example:"7"`
	UsedQty         int       `json:"usedQty" example:"3"`
	Remarks         string    `json:"remarks,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// TransactionResultResponse 交易处理结果
// outcome=COMMITTED_DEGRADED 表示交易已提交，但部分事后处理（告警、审计等）失败，详见sideEffects
type TransactionResultResponse struct {
	Outcome        string                `json:"outcome" example:"COMMITTED_FULL"`
	EffectiveType  string                `json:"effectiveType" example:"RETURN"`
	Upgraded       bool                  `json:"upgraded"`
	Transaction    *TransactionResponse  `json:"transaction"`
	AvailableUnits int                   `json:"availableUnits" example:"47"`
	SideEffects    inventory.SideEffects `json:"sideEffects"`
}

// AvailableResponse 可用库存
type AvailableResponse struct {
	ProductID      uint64 `json:"productId,string" example:"1"`
	AvailableUnits int    `json:"availableUnits" example:"47"`
}

// AlertResponse 低库存告警
type AlertResponse struct {
	ID             uint64    `json:"id,string"`
	ProductID      uint64    `json:"productId,string"`
	SKU            string    `json:"sku"`
	ProductName    string    `json:"productName"`
	StockAtTrigger int       `json:"stockAtTrigger"`
	Threshold      int       `json:"threshold"`
	AvailableUnits int       `json:"availableUnits"` // 查询时的实时可用库存
	CreatedAt      time.Time `json:"createdAt"`
}

// AllocationResponse 员工名下分配
type AllocationResponse struct {
	EmployeeID     uint64    `json:"employeeId,string"`
	ProductID      uint64    `json:"productId,string"`
	AllocatedUnits int       `json:"allocatedUnits"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// CheckoutResponse 借出记录
type CheckoutResponse struct {
	ID           uint64     `json:"id,string"`
	BarcodeID    uint64     `json:"barcodeId,string"`
	ProductID    uint64     `json:"productId,string"`
	EmployeeID   uint64     `json:"employeeId,string"`
	CheckedOutAt time.Time  `json:"checkedOutAt"`
	ReturnedAt   *time.Time `json:"returnedAt,omitempty"`
	IsReturned   bool       `json:"isReturned"`
}

// AuditResponse 审计日志
type AuditResponse struct {
	ID              uint64    `json:"id,string"`
	TransactionID   uint64    `json:"transactionId,string"`
	TransactionType string    `json:"transactionType"`
	ProductID       uint64    `json:"productId,string"`
	BarcodeID       *uint64   `json:"barcodeId,omitempty,string"`
	PerformedBy     uint64    `json:"performedBy,string"`
	CheckoutQty     int       `json:"checkoutQty"`
	ReturnedQty     int       `json:"returnedQty"`
	UsedQty         int       `json:"usedQty"`
	PrevAvailable   int       `json:"prevAvailable"`
	NewAvailable    int       `json:"newAvailable"`
	Remarks         string    `json:"remarks,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

func ToTransactionResponse(tx *inventory.Transaction) *TransactionResponse {
	if tx == nil {
		return nil
	}
	return &TransactionResponse{
		ID:              tx.ID,
		TransactionType: string(tx.Type),
		ProductID:       tx.ProductID,
		BarcodeID:       tx.BarcodeID,
		EmployeeID:      tx.EmployeeID,
		CheckoutQty:     tx.CheckoutQty,
		ReturnedQty:     tx.ReturnedQty,
		UsedQty:         tx.UsedQty,
		Remarks:         tx.Remarks,
		CreatedAt:       tx.CreatedAt,
	}
}

func ToTransactionList(txs []*inventory.Transaction) []*TransactionResponse {
	list := make([]*TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		list = append(list, ToTransactionResponse(tx))
	}
	return list
}

func ToTransactionResult(o *inventory.Outcome) *TransactionResultResponse {
	return &TransactionResultResponse{
		Outcome:        string(o.Kind),
		EffectiveType:  string(o.EffectiveType),
		Upgraded:       o.Upgraded,
		Transaction:    ToTransactionResponse(o.Transaction),
		AvailableUnits: o.AvailableUnits,
		SideEffects:    o.SideEffects,
	}
}

func ToAlertList(views []*appinventory.AlertView) []*AlertResponse {
	list := make([]*AlertResponse, 0, len(views))
	for _, v := range views {
		list = append(list, &AlertResponse{
			ID:             v.Alert.ID,
			ProductID:      v.Alert.ProductID,
			SKU:            v.SKU,
			ProductName:    v.ProductName,
			StockAtTrigger: v.Alert.StockAtTrigger,
			Threshold:      v.Alert.Threshold,
			AvailableUnits: v.AvailableUnits,
			CreatedAt:      v.Alert.CreatedAt,
		})
	}
	return list
}

func ToAllocationList(allocs []*inventory.Allocation) []*AllocationResponse {
	list := make([]*AllocationResponse, 0, len(allocs))
	for _, a := range allocs {
		list = append(list, &AllocationResponse{
			EmployeeID:     a.EmployeeID,
			ProductID:      a.ProductID,
			AllocatedUnits: a.AllocatedUnits,
			UpdatedAt:      a.UpdatedAt,
		})
	}
	return list
}

func ToCheckoutList(checkouts []*inventory.Checkout) []*CheckoutResponse {
	list := make([]*CheckoutResponse, 0, len(checkouts))
	for _, c := range checkouts {
		list = append(list, &CheckoutResponse{
			ID:           c.ID,
			BarcodeID:    c.BarcodeID,
			ProductID:    c.ProductID,
			EmployeeID:   c.EmployeeID,
			CheckedOutAt: c.CheckedOutAt,
			ReturnedAt:   c.ReturnedAt,
			IsReturned:   c.IsReturned,
		})
	}
	return list
}

func ToAuditList(entries []*inventory.AuditEntry) []*AuditResponse {
	list := make([]*AuditResponse, 0, len(entries))
	for _, e := range entries {
		list = append(list, &AuditResponse{
			ID:              e.ID,
			TransactionID:   e.TransactionID,
			TransactionType: string(e.Type),
			ProductID:       e.ProductID,
			BarcodeID:       e.BarcodeID,
			PerformedBy:     e.PerformedBy,
			CheckoutQty:     e.CheckoutQty,
			ReturnedQty:     e.ReturnedQty,
			UsedQty:         e.UsedQty,
			PrevAvailable:   e.PrevAvailable,
			NewAvailable:    e.NewAvailable,
			Remarks:         e.Remarks,
			CreatedAt:       e.CreatedAt,
		})
	}
	return list
}
