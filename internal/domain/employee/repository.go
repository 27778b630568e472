package employee

import (
	"context"
)

// Repository 员工仓储接口
// 实现在infrastructure/persistence/mysql，domain层不依赖GORM
type Repository interface {
	// Create 创建员工
	// 邮箱或编号重复时返回ErrEmailDuplicate / ErrCodeDuplicate
	Create(ctx context.Context, e *Employee) error

	// FindByID 不存在时返回ErrEmployeeNotFound
	FindByID(ctx context.Context, id uint64) (*Employee, error)

	// FindByEmail 不存在时返回ErrEmployeeNotFound
	FindByEmail(ctx context.Context, email string) (*Employee, error)

	// FindByCode 不存在时返回ErrEmployeeNotFound
	FindByCode(ctx context.Context, code string) (*Employee, error)

	// Count 员工总数（用于首个管理员的初始化判断）
	Count(ctx context.Context) (int64, error)
}
