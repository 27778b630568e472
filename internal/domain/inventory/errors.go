package inventory

import (
	"errors"

	apperrors "github.com/xiebiao/stockroom/pkg/errors"
)

// 库存领域错误定义
var (
	// ErrInvalidTransactionType 事务类型不合法
	ErrInvalidTransactionType = apperrors.New(apperrors.ErrCodeInvalidParams, "transactionType只能是CHECKOUT、RETURN或ADJUST")

	// ErrBarcodeRequired 借出/归还必须指定条码
	ErrBarcodeRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "借出和归还必须指定条码")

	// ErrNegativeQuantity 数量不能为负数
	ErrNegativeQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "数量不能为负数")

	// ErrProductRequired 缺少商品
	ErrProductRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "productId不能为空")

	// ErrEmployeeRequired 缺少员工
	ErrEmployeeRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "employeeId不能为空")

	// ErrOpenCheckoutExists 条码已有未归还的借出记录（唯一索引冲突）
	ErrOpenCheckoutExists = apperrors.New(apperrors.ErrCodeBarcodeState, "条码已有未归还的借出记录")

	// ErrCheckoutNotFound 借出记录不存在
	ErrCheckoutNotFound = apperrors.New(apperrors.ErrCodeNotFound, "借出记录不存在")

	// ErrAlertNotFound 告警不存在
	ErrAlertNotFound = apperrors.New(apperrors.ErrCodeNotFound, "告警不存在")
)

// ErrLockNotObtained 分布式锁被占用
var ErrLockNotObtained = errors.New("lock not obtained")
