package employee

import (
	"context"

	"github.com/xiebiao/stockroom/internal/domain/employee"
	apperrors "github.com/xiebiao/stockroom/pkg/errors"
)

// RegisterUseCase 员工注册用例
// 规则：
// 1. 系统里还没有员工时允许匿名注册，且第一个员工固定为管理员
// 2. 之后只有管理员能注册新员工
type RegisterUseCase struct {
	service employee.Service
	repo    employee.Repository
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(service employee.Service, repo employee.Repository) *RegisterUseCase {
	return &RegisterUseCase{service: service, repo: repo}
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*EmployeeInfo, error) {
	count, err := uc.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	role := employee.Role(req.Role)
	if count == 0 {
		role = employee.RoleAdmin
	} else if err := uc.requireAdmin(ctx, req.ActorID); err != nil {
		return nil, err
	}

	e, err := uc.service.Register(ctx, req.Code, req.Email, req.Password, req.Name, role)
	if err != nil {
		return nil, err
	}
	return toInfo(e), nil
}

// requireAdmin 操作人角色以数据库为准，不信任Token里的角色
func (uc *RegisterUseCase) requireAdmin(ctx context.Context, actorID uint64) error {
	if actorID == 0 {
		return apperrors.ErrUnauthorized
	}
	actor, err := uc.repo.FindByID(ctx, actorID)
	if err != nil {
		return err
	}
	if !actor.Active || !actor.IsAdmin() {
		return apperrors.ErrForbidden
	}
	return nil
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	ActorID  uint64 // 当前登录的员工，未登录为0
	Code     string
	Email    string
	Password string
	Name     string
	Role     string
}

// EmployeeInfo 员工信息（不含密码）
type EmployeeInfo struct {
	ID     uint64
	Code   string
	Email  string
	Name   string
	Role   string
	Active bool
}

func toInfo(e *employee.Employee) *EmployeeInfo {
	return &EmployeeInfo{
		ID:     e.ID,
		Code:   e.Code,
		Email:  e.Email,
		Name:   e.Name,
		Role:   string(e.Role),
		Active: e.Active,
	}
}
