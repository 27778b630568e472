package employee

import (
	apperrors "github.com/xiebiao/stockroom/pkg/errors"
)

// 员工领域错误定义
var (
	// ErrEmployeeNotFound 员工不存在
	ErrEmployeeNotFound = apperrors.New(apperrors.ErrCodeEmployeeNotFound, "员工不存在")

	// ErrEmailDuplicate 邮箱已被注册
	ErrEmailDuplicate = apperrors.New(apperrors.ErrCodeEmailDuplicate, "邮箱已被注册")

	// ErrCodeDuplicate 员工编号已存在
	ErrCodeDuplicate = apperrors.New(apperrors.ErrCodeEmployeeDuplicate, "员工编号已存在")

	// ErrInactive 员工已停用
	ErrInactive = apperrors.New(apperrors.ErrCodeForbidden, "员工已停用")

	// ErrInvalidRole 角色不合法
	ErrInvalidRole = apperrors.New(apperrors.ErrCodeInvalidParams, "角色只能是admin或staff")
)
