package product

import (
	apperrors "github.com/xiebiao/stockroom/pkg/errors"
)

// 商品/条码领域错误定义
var (
	// ErrProductNotFound 商品不存在
	ErrProductNotFound = apperrors.New(apperrors.ErrCodeProductNotFound, "商品不存在")

	// ErrBarcodeNotFound 条码不存在
	ErrBarcodeNotFound = apperrors.New(apperrors.ErrCodeBarcodeNotFound, "条码不存在")

	// ErrSKUDuplicate SKU已存在
	ErrSKUDuplicate = apperrors.New(apperrors.ErrCodeSKUDuplicate, "SKU已存在")

	// ErrBarcodeDuplicate 条码或序列号重复
	ErrBarcodeDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "条码或序列号已存在")

	// ErrBarcodeNotAvailable 条码已借出，不能再次借出
	ErrBarcodeNotAvailable = apperrors.New(apperrors.ErrCodeBarcodeState, "条码已借出，不能重复借出")

	// ErrBarcodeNotCheckedOut 条码未借出，不能归还
	ErrBarcodeNotCheckedOut = apperrors.New(apperrors.ErrCodeBarcodeState, "条码未借出，不能归还")

	// ErrBarcodeProductMismatch 条码不属于该商品
	ErrBarcodeProductMismatch = apperrors.New(apperrors.ErrCodeInvalidParams, "条码不属于该商品")

	// ErrInvalidQuantity 数量不合法
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "数量必须大于0")

	// ErrInvalidBoxQty 每箱数量不合法
	ErrInvalidBoxQty = apperrors.New(apperrors.ErrCodeInvalidParams, "每箱数量必须大于0")

	// ErrInvalidThreshold 补货阈值不合法
	ErrInvalidThreshold = apperrors.New(apperrors.ErrCodeInvalidParams, "补货阈值不能为负数")

	// ErrInvalidSKU SKU格式不正确
	ErrInvalidSKU = apperrors.New(apperrors.ErrCodeInvalidParams, "SKU格式不正确（大写字母、数字、-，2-32位）")

	// ErrInvalidBatchSize 条码批量数量不合法
	ErrInvalidBatchSize = apperrors.New(apperrors.ErrCodeInvalidParams, "单批条码数量应为1-500")
)
