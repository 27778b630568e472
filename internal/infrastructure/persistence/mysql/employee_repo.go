package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/stockroom/internal/domain/employee"
	apperrors "github.com/xiebiao/stockroom/pkg/errors"
)

// employeeRepository 员工仓储实现（MySQL）
type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository 创建员工仓储
// 返回domain层的接口类型
func NewEmployeeRepository(db *gorm.DB) employee.Repository {
	return &employeeRepository{db: db}
}

// Create 创建员工
// 邮箱、编号唯一性由UNIQUE索引保证，冲突时按索引名区分返回的业务错误
func (r *employeeRepository) Create(ctx context.Context, e *employee.Employee) error {
	model := &EmployeeModel{
		Code:         e.Code,
		Email:        e.Email,
		PasswordHash: e.PasswordHash,
		Name:         e.Name,
		Role:         string(e.Role),
		Active:       e.Active,
	}

	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		switch {
		case isDuplicateOn(err, "uk_employees_code"):
			return employee.ErrCodeDuplicate
		case isDuplicateError(err):
			return employee.ErrEmailDuplicate
		}
		return apperrors.Wrap(err, "创建员工失败")
	}

	e.ID = model.ID
	e.CreatedAt = model.CreatedAt
	e.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *employeeRepository) FindByID(ctx context.Context, id uint64) (*employee.Employee, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *employeeRepository) FindByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *employeeRepository) FindByCode(ctx context.Context, code string) (*employee.Employee, error) {
	return r.first(ctx, "code = ?", code)
}

// Count 员工总数
func (r *employeeRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := dbFrom(ctx, r.db).Model(&EmployeeModel{}).Count(&total).Error; err != nil {
		return 0, apperrors.Wrap(err, "查询员工总数失败")
	}
	return total, nil
}

func (r *employeeRepository) first(ctx context.Context, query string, arg interface{}) (*employee.Employee, error) {
	var model EmployeeModel
	err := dbFrom(ctx, r.db).Where(query, arg).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, apperrors.Wrap(err, "查询员工失败")
	}
	return toEmployeeEntity(&model), nil
}

// toEmployeeEntity GORM模型 → 领域实体
func toEmployeeEntity(m *EmployeeModel) *employee.Employee {
	return &employee.Employee{
		ID:           m.ID,
		Code:         m.Code,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Name:         m.Name,
		Role:         employee.Role(m.Role),
		Active:       m.Active,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
