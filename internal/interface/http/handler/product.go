package handler

import (
	"github.com/gin-gonic/gin"

	appproduct "github.com/xiebiao/stockroom/internal/application/product"
	"github.com/xiebiao/stockroom/internal/domain/product"
	"github.com/xiebiao/stockroom/internal/interface/http/dto"
	"github.com/xiebiao/stockroom/internal/interface/http/middleware"
	"github.com/xiebiao/stockroom/pkg/response"
)

// ProductHandler 商品目录、条码标签与收货
type ProductHandler struct {
	createUseCase  *appproduct.CreateProductUseCase
	queryUseCase   *appproduct.QueryUseCase
	barcodeUseCase *appproduct.GenerateBarcodesUseCase
	receiveUseCase *appproduct.ReceiveStockUseCase
}

// NewProductHandler 创建商品处理器
func NewProductHandler(
	createUseCase *appproduct.CreateProductUseCase,
	queryUseCase *appproduct.QueryUseCase,
	barcodeUseCase *appproduct.GenerateBarcodesUseCase,
	receiveUseCase *appproduct.ReceiveStockUseCase,
) *ProductHandler {
	return &ProductHandler{
		createUseCase:  createUseCase,
		queryUseCase:   queryUseCase,
		barcodeUseCase: barcodeUseCase,
		receiveUseCase: receiveUseCase,
	}
}

// Create 新建商品
// @Summary      新建商品
// @Tags         商品
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateProductRequest true "商品信息"
// @Success      201 {object} response.Response{data=dto.ProductResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      403 {object} response.Response "非管理员"
// @Failure      409 {object} response.Response "SKU已存在"
// @Router       /api/v1/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.createUseCase.Execute(c.Request.Context(), appproduct.CreateProductRequest{
		SKU:              req.SKU,
		Name:             req.Name,
		BoxQty:           req.BoxQty,
		InitialUnits:     req.InitialUnits,
		ReorderThreshold: req.ReorderThreshold,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToProductResponse(p))
}

// Get 商品详情
// @Summary      商品详情
// @Tags         商品
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "商品ID"
// @Success      200 {object} response.Response{data=dto.ProductResponse}
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /api/v1/products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	p, err := h.queryUseCase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToProductResponse(p))
}

// List 商品列表
// @Summary      商品列表
// @Tags         商品
// @Produce      json
// @Security     BearerAuth
// @Param        page     query int    false "页码" default(1)
// @Param        limit    query int    false "每页数量" default(20)
// @Param        keyword  query string false "SKU或名称"
// @Param        lowStock query bool   false "只看低库存"
// @Success      200 {object} response.Response{data=response.PageData{list=[]dto.ProductResponse}}
// @Router       /api/v1/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var q dto.ProductListQuery
	if !bindQuery(c, &q) {
		return
	}

	products, total, err := h.queryUseCase.List(c.Request.Context(), product.ListParams{
		Page:     q.Page,
		PageSize: q.Limit,
		Keyword:  q.Keyword,
		LowStock: q.LowStock,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, dto.ToProductList(products), total, q.Page, q.Limit)
}

// GenerateBarcodes 批量生成条码标签
// @Summary      批量生成条码
// @Description  为商品生成count个可用条码（条码内容+序列号），boxQty默认取商品每箱数量
// @Tags         商品
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string                      true "商品ID"
// @Param        request body dto.GenerateBarcodesRequest true "生成数量"
// @Success      201 {object} response.Response{data=[]dto.BarcodeResponse}
// @Failure      403 {object} response.Response "非管理员"
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /api/v1/products/{id}/barcodes [post]
func (h *ProductHandler) GenerateBarcodes(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.GenerateBarcodesRequest
	if !bindJSON(c, &req) {
		return
	}

	barcodes, err := h.barcodeUseCase.Execute(c.Request.Context(), id, req.Count, req.BoxQty)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToBarcodeList(barcodes))
}

// ListBarcodes 商品条码列表
// @Summary      商品条码列表
// @Tags         商品
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string true  "商品ID"
// @Param        page  query int    false "页码" default(1)
// @Param        limit query int    false "每页数量" default(20)
// @Success      200 {object} response.Response{data=response.PageData{list=[]dto.BarcodeResponse}}
// @Router       /api/v1/products/{id}/barcodes [get]
func (h *ProductHandler) ListBarcodes(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var q dto.PageQuery
	if !bindQuery(c, &q) {
		return
	}

	barcodes, total, err := h.queryUseCase.Barcodes(c.Request.Context(), id, q.Page, q.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, dto.ToBarcodeList(barcodes), total, q.Page, q.Limit)
}

// Receive 收货入库
// @Summary      收货入库
// @Description  增加商品累计入库和可用库存，并记录一条ADJUST流水
// @Tags         商品
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string                  true "商品ID"
// @Param        request body dto.ReceiveStockRequest true "收货数量"
// @Success      201 {object} response.Response{data=dto.ReceiveStockResponse}
// @Failure      403 {object} response.Response "非管理员"
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /api/v1/products/{id}/receive [post]
func (h *ProductHandler) Receive(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ReceiveStockRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.receiveUseCase.Execute(c.Request.Context(), appproduct.ReceiveRequest{
		ProductID:  id,
		EmployeeID: middleware.GetEmployeeID(c),
		Units:      req.Units,
		Remarks:    req.Remarks,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, &dto.ReceiveStockResponse{
		Product:     dto.ToProductResponse(result.Product),
		Transaction: dto.ToTransactionResponse(result.Transaction),
	})
}
