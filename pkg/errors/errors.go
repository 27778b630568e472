package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型，HTTP状态码由Code所属区间推导
// 2. Message是用户友好的提示信息
// 3. Err是内部错误，仅记录到日志
// 4. RetryAfter用于重复扫码、归还过早等需要倒计时的场景
type AppError struct {
	Code       int           `json:"code"`    // 业务错误码
	Message    string        `json:"message"` // 用户友好的错误提示
	Err        error         `json:"-"`       // 内部错误（不序列化）
	RetryAfter time.Duration `json:"-"`       // 客户端可重试前需等待的时间
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较，预定义错误经WithRetryAfter复制后仍可被errors.Is识别
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// WithRetryAfter 返回附带等待时间的副本（预定义错误是共享指针，不能原地修改）
func (e *AppError) WithRetryAfter(d time.Duration) *AppError {
	cp := *e
	cp.RetryAfter = d
	return &cp
}

// RemainingSeconds 剩余等待秒数（向上取整）
func (e *AppError) RemainingSeconds() int64 {
	if e.RetryAfter <= 0 {
		return 0
	}
	secs := int64(e.RetryAfter / time.Second)
	if e.RetryAfter%time.Second != 0 {
		secs++
	}
	return secs
}

// IsDuplicate 是否为重复扫码拦截
func (e *AppError) IsDuplicate() bool {
	return e.Code == ErrCodeDuplicateScan
}

// HTTPStatus 由错误码区间推导HTTP状态码
//
//	409xx 参数错误      → 400
//	401xx 认证失败      → 401（40104 → 403）
//	404xx 资源不存在    → 404
//	400xx 业务冲突      → 409（40005 密码强度 → 400）
//	其他               → 500
func (e *AppError) HTTPStatus() int {
	switch {
	case e.Code == ErrCodeForbidden:
		return http.StatusForbidden
	case e.Code >= 40100 && e.Code < 40200:
		return http.StatusUnauthorized
	case e.Code >= 40400 && e.Code < 40500:
		return http.StatusNotFound
	case e.Code >= 40900 && e.Code < 41000:
		return http.StatusBadRequest
	case e.Code == ErrCodeWeakPassword:
		return http.StatusBadRequest
	case e.Code >= 40000 && e.Code < 40100:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf 格式化创建AppError
func Newf(code int, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap 包装系统错误（如数据库错误、网络错误）
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 4xxxx: 客户端错误（参数错误、业务规则校验失败）
// - 5xxxx: 服务端错误（数据库异常、缓存异常）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeRedisError    = 50002 // Redis错误

	// 认证授权错误（40100-40199）
	ErrCodeUnauthorized    = 40100 // 未登录
	ErrCodeInvalidToken    = 40101 // Token无效
	ErrCodeTokenExpired    = 40102 // Token过期
	ErrCodeInvalidPassword = 40103 // 密码错误
	ErrCodeForbidden       = 40104 // 无权限

	// 资源错误（40400-40499）
	ErrCodeNotFound         = 40400 // 资源不存在(通用)
	ErrCodeEmployeeNotFound = 40401 // 员工不存在
	ErrCodeProductNotFound  = 40402 // 商品不存在
	ErrCodeBarcodeNotFound  = 40403 // 条码不存在

	// 业务规则错误（40000-40099），统一映射为409
	ErrCodeBusinessError     = 40000 // 业务错误(通用)
	ErrCodeDuplicateScan     = 40001 // 重复扫码
	ErrCodeReturnTooEarly    = 40002 // 未到最短借用时间
	ErrCodeEmailDuplicate    = 40003 // 邮箱已存在
	ErrCodeSKUDuplicate      = 40004 // SKU已存在
	ErrCodeWeakPassword      = 40005 // 密码强度不足
	ErrCodeBarcodeState      = 40006 // 条码状态不允许此操作
	ErrCodeEmployeeDuplicate = 40007 // 员工编号已存在
	ErrCodeDuplicateEntry    = 40009 // 重复记录(通用)

	// 参数错误（40900-40999）
	ErrCodeInvalidParams = 40900 // 参数错误
	ErrCodeBindError     = 40901 // 参数绑定失败
)

// =========================================
// 预定义错误
// =========================================

var (
	// 系统错误
	ErrInternal      = New(ErrCodeInternal, "系统内部错误")
	ErrDatabaseError = New(ErrCodeDatabaseError, "数据库错误")
	ErrRedisError    = New(ErrCodeRedisError, "缓存服务错误")

	// 认证授权
	ErrUnauthorized    = New(ErrCodeUnauthorized, "请先登录")
	ErrInvalidToken    = New(ErrCodeInvalidToken, "无效的Token")
	ErrTokenExpired    = New(ErrCodeTokenExpired, "Token已过期")
	ErrInvalidPassword = New(ErrCodeInvalidPassword, "邮箱或密码错误")
	ErrForbidden       = New(ErrCodeForbidden, "无权限访问")

	// 资源不存在
	ErrNotFound = New(ErrCodeNotFound, "资源不存在")

	// 业务规则
	ErrDuplicateScan  = New(ErrCodeDuplicateScan, "重复扫码，请稍后再试")
	ErrReturnTooEarly = New(ErrCodeReturnTooEarly, "未到最短借用时间，暂不能归还")
	ErrBarcodeState   = New(ErrCodeBarcodeState, "条码当前状态不允许此操作")
	ErrWeakPassword   = New(ErrCodeWeakPassword, "密码强度不足（需8-20位，包含字母和数字）")

	// 参数错误
	ErrInvalidParams = New(ErrCodeInvalidParams, "参数错误")
	ErrBindError     = New(ErrCodeBindError, "参数格式错误")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}

// InvalidParams 参数错误的便捷构造
func InvalidParams(format string, args ...interface{}) *AppError {
	return Newf(ErrCodeInvalidParams, format, args...)
}
