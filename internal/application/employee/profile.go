package employee

import (
	"context"

	"github.com/xiebiao/stockroom/internal/domain/employee"
)

// ProfileUseCase 查询员工信息
type ProfileUseCase struct {
	repo employee.Repository
}

func NewProfileUseCase(repo employee.Repository) *ProfileUseCase {
	return &ProfileUseCase{repo: repo}
}

// Execute 按ID查询，不存在返回ErrEmployeeNotFound
func (uc *ProfileUseCase) Execute(ctx context.Context, employeeID uint64) (*EmployeeInfo, error) {
	e, err := uc.repo.FindByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return toInfo(e), nil
}
