package handler

import (
	"github.com/gin-gonic/gin"

	appinventory "github.com/xiebiao/stockroom/internal/application/inventory"
	"github.com/xiebiao/stockroom/internal/domain/inventory"
	"github.com/xiebiao/stockroom/internal/interface/http/dto"
	"github.com/xiebiao/stockroom/internal/interface/http/middleware"
	"github.com/xiebiao/stockroom/pkg/response"
)

// InventoryHandler 库存交易与查询
type InventoryHandler struct {
	processor *appinventory.Processor
	queries   *appinventory.QueryService
}

// NewInventoryHandler 创建库存处理器
func NewInventoryHandler(processor *appinventory.Processor, queries *appinventory.QueryService) *InventoryHandler {
	return &InventoryHandler{
		processor: processor,
		queries:   queries,
	}
}

// Record 记录库存交易
// @Summary      记录库存交易
// @Description  CHECKOUT/RETURN需要条码（条码内容或序列号），ADJUST可不带条码。
// @Description  重复提交或未到最短借用时间返回409，data为空，remainingSeconds为需要等待的秒数。
// @Description  交易提交后低库存检查、审计等失败不会回滚，outcome为COMMITTED_DEGRADED。
// @Tags         库存
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.RecordTransactionRequest true "交易信息"
// @Success      201 {object} response.Response{data=dto.TransactionResultResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      404 {object} response.Response "商品、条码或员工不存在"
// @Failure      409 {object} response.Response "重复扫码或条码状态冲突"
// @Router       /api/v1/inventory/transactions [post]
func (h *InventoryHandler) Record(c *gin.Context) {
	var req dto.RecordTransactionRequest
	if !bindJSON(c, &req) {
		return
	}

	employeeID := req.EmployeeID.Uint64()
	if employeeID == 0 {
		employeeID = middleware.GetEmployeeID(c)
	}

	outcome, err := h.processor.RecordTransaction(c.Request.Context(), appinventory.RecordRequest{
		ProductID:   req.ProductID.Uint64(),
		EmployeeID:  employeeID,
		Type:        req.TransactionType,
		BarcodeID:   req.BarcodeID.Uint64(),
		Barcode:     req.BarcodeValue,
		CheckoutQty: req.CheckoutQty,
		ReturnedQty: req.ReturnedQty,
		UsedQty:     req.UsedQty,
		Remarks:     req.Remarks,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToTransactionResult(outcome))
}

// Scan 扫码枪提交
// @Summary      扫码
// @Description  交易记在当前登录员工名下。条码已借出且超过最短借用时间时自动按归还处理（upgraded=true）。
// @Tags         库存
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ScanRequest true "扫码内容"
// @Success      201 {object} response.Response{data=dto.TransactionResultResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      404 {object} response.Response "条码不存在"
// @Failure      409 {object} response.Response "重复扫码或未到最短借用时间"
// @Router       /api/v1/products/transactions [post]
func (h *InventoryHandler) Scan(c *gin.Context) {
	var req dto.ScanRequest
	if !bindJSON(c, &req) {
		return
	}

	outcome, err := h.processor.Scan(c.Request.Context(), appinventory.ScanRequest{
		Barcode:     req.BarcodeValue,
		EmployeeID:  middleware.GetEmployeeID(c),
		Type:        req.TransactionType,
		CheckoutQty: req.CheckoutQty,
		UsedQty:     req.UsedQty,
		Remarks:     req.Remarks,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToTransactionResult(outcome))
}

// ListTransactions 交易流水
// @Summary      交易流水
// @Tags         库存
// @Produce      json
// @Security     BearerAuth
// @Param        page            query int    false "页码" default(1)
// @Param        limit           query int    false "每页数量" default(20)
// @Param        employeeId      query string false "员工ID"
// @Param        productId       query string false "商品ID"
// @Param        transactionType query string false "CHECKOUT/RETURN/ADJUST"
// @Param        startDate       query string false "开始日期 2006-01-02"
// @Param        endDate         query string false "结束日期 2006-01-02（含当天）"
// @Success      200 {object} response.Response{data=response.PageData{list=[]dto.TransactionResponse}}
// @Router       /api/v1/inventory/transactions [get]
func (h *InventoryHandler) ListTransactions(c *gin.Context) {
	var q dto.TransactionQuery
	if !bindQuery(c, &q) {
		return
	}
	filter, err := q.Filter()
	if err != nil {
		response.Error(c, err)
		return
	}

	txs, total, err := h.queries.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, dto.ToTransactionList(txs), total, q.Page, q.Limit)
}

// Available 商品可用库存
// @Summary      可用库存
// @Tags         库存
// @Produce      json
// @Security     BearerAuth
// @Param        productId path string true "商品ID"
// @Success      200 {object} response.Response{data=dto.AvailableResponse}
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /api/v1/inventory/available/{productId} [get]
func (h *InventoryHandler) Available(c *gin.Context) {
	id, ok := pathID(c, "productId")
	if !ok {
		return
	}

	units, err := h.queries.Available(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.AvailableResponse{ProductID: id, AvailableUnits: units})
}

// ListAlerts 低库存告警
// @Summary      低库存告警
// @Description  availableUnits为查询时的实时可用库存
// @Tags         库存
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "页码" default(1)
// @Param        limit query int false "每页数量" default(20)
// @Success      200 {object} response.Response{data=response.PageData{list=[]dto.AlertResponse}}
// @Router       /api/v1/inventory/low-stock-alerts [get]
func (h *InventoryHandler) ListAlerts(c *gin.Context) {
	var q dto.PageQuery
	if !bindQuery(c, &q) {
		return
	}

	views, total, err := h.queries.ListAlerts(c.Request.Context(), q.Page, q.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, dto.ToAlertList(views), total, q.Page, q.Limit)
}

// CheckLowStock 手动触发低库存检查
// @Summary      低库存检查
// @Description  与交易后的自动检查相同，24小时内已告警的返回reason=debounced
// @Tags         库存
// @Produce      json
// @Security     BearerAuth
// @Param        productId path string true "商品ID"
// @Success      200 {object} response.Response{data=inventory.LowStockResult}
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /api/v1/inventory/check-low-stock/{productId} [post]
func (h *InventoryHandler) CheckLowStock(c *gin.Context) {
	id, ok := pathID(c, "productId")
	if !ok {
		return
	}

	result, err := h.queries.CheckLowStock(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListAllocations 员工名下分配
// @Summary      员工分配
// @Tags         库存
// @Produce      json
// @Security     BearerAuth
// @Param        employeeId query string false "员工ID"
// @Param        productId  query string false "商品ID"
// @Success      200 {object} response.Response{data=[]dto.AllocationResponse}
// @Router       /api/v1/inventory/allocations [get]
func (h *InventoryHandler) ListAllocations(c *gin.Context) {
	var q dto.AllocationQuery
	if !bindQuery(c, &q) {
		return
	}

	allocs, err := h.queries.ListAllocations(c.Request.Context(), inventory.AllocationFilter{
		EmployeeID: q.EmployeeID,
		ProductID:  q.ProductID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToAllocationList(allocs))
}

// ListAudit 审计日志
// @Summary      审计日志
// @Tags         库存
// @Produce      json
// @Security     BearerAuth
// @Param        page        query int    false "页码" default(1)
// @Param        limit       query int    false "每页数量" default(20)
// @Param        productId   query string false "商品ID"
// @Param        performedBy query string false "操作员工ID"
// @Param        startDate   query string false "开始日期"
// @Param        endDate     query string false "结束日期（含当天）"
// @Success      200 {object} response.Response{data=response.PageData{list=[]dto.AuditResponse}}
// @Failure      403 {object} response.Response "非管理员"
// @Router       /api/v1/inventory/audit [get]
func (h *InventoryHandler) ListAudit(c *gin.Context) {
	var q dto.AuditQuery
	if !bindQuery(c, &q) {
		return
	}
	filter, err := q.Filter()
	if err != nil {
		response.Error(c, err)
		return
	}

	entries, total, err := h.queries.ListAudit(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, dto.ToAuditList(entries), total, q.Page, q.Limit)
}

// EmployeeCheckouts 员工借出记录
// @Summary      员工借出记录
// @Description  默认只返回未归还的记录，all=true包含已归还
// @Tags         库存
// @Produce      json
// @Security     BearerAuth
// @Param        employeeId path  string true  "员工ID"
// @Param        all        query bool   false "包含已归还"
// @Success      200 {object} response.Response{data=[]dto.CheckoutResponse}
// @Failure      404 {object} response.Response "员工不存在"
// @Router       /api/v1/inventory/employee-checkouts/{employeeId} [get]
func (h *InventoryHandler) EmployeeCheckouts(c *gin.Context) {
	id, ok := pathID(c, "employeeId")
	if !ok {
		return
	}

	checkouts, err := h.queries.EmployeeCheckouts(c.Request.Context(), id, c.Query("all") == "true")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToCheckoutList(checkouts))
}
