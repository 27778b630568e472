package response

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/stockroom/pkg/errors"
	"github.com/xiebiao/stockroom/pkg/logger"
)

// Response 统一响应结构
// 设计说明：
// 1. Success是机器可判定的成功标志，Code是业务错误码
// 2. HTTP状态码由AppError.HTTPStatus()推导（400/401/403/404/409/500）
// 3. 重复扫码、归还过早时附带remainingSeconds，同时写Retry-After头
type Response struct {
	Success          bool        `json:"success"`
	Code             int         `json:"code"`
	Message          string      `json:"message"`
	Data             interface{} `json:"data,omitempty"`
	RemainingSeconds *int64      `json:"remainingSeconds,omitempty"`
	Duplicate        bool        `json:"duplicate,omitempty"`
	Error            string      `json:"error,omitempty"` // 5xx时附带底层错误，便于排查
}

// Success 成功响应（Code=0表示成功）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 资源创建成功（201）
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Code:    0,
		Message: "created",
		Data:    data,
	})
}

// Error 错误响应（自动处理AppError）
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	status := appErr.HTTPStatus()

	if appErr.Err != nil || status >= http.StatusInternalServerError {
		logger.FromContext(c.Request.Context(), nil).Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("code", appErr.Code),
			zap.Error(err),
		)
	}

	resp := Response{
		Success:   false,
		Code:      appErr.Code,
		Message:   appErr.Message,
		Duplicate: appErr.IsDuplicate(),
	}
	if status >= http.StatusInternalServerError && appErr.Err != nil {
		resp.Error = appErr.Err.Error()
	}
	if secs := appErr.RemainingSeconds(); secs > 0 {
		resp.RemainingSeconds = &secs
		c.Header("Retry-After", strconv.FormatInt(secs, 10))
	}

	c.JSON(status, resp)
}

// ErrorWithCode 自定义错误码和消息
func ErrorWithCode(c *gin.Context, code int, message string) {
	Error(c, apperrors.New(code, message))
}

// =========================================
// 分页响应结构
// =========================================

// PageData 分页数据封装
type PageData struct {
	List       interface{} `json:"list"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// NewPageData 创建分页数据
func NewPageData(list interface{}, total int64, page, pageSize int) *PageData {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize != 0 {
			totalPages++
		}
	}

	return &PageData{
		List:       list,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	Success(c, NewPageData(list, total, page, pageSize))
}
