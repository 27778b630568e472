package employee

import (
	"time"
)

// Role 员工角色
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// IsValid 角色是否合法
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleStaff
}

// Employee 员工实体（聚合根）
// DDD设计说明：
// 1. Code是业务编号（如E001），扫码枪、报表中都使用它；ID是数据库主键
// 2. 密码以bcrypt哈希存储，实体不提供明文访问
// 3. 领域实体不依赖GORM tag，映射在Repository实现中完成
type Employee struct {
	ID           uint64
	Code         string
	Email        string
	PasswordHash string
	Name         string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewEmployee 创建新员工（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewEmployee(code, email, hashedPassword, name string, role Role) *Employee {
	now := time.Now()
	return &Employee{
		Code:         code,
		Email:        email,
		PasswordHash: hashedPassword,
		Name:         name,
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsAdmin 是否管理员
func (e *Employee) IsAdmin() bool {
	return e.Role == RoleAdmin
}

// Deactivate 停用员工（离职等），停用后不能登录也不能扫码
func (e *Employee) Deactivate() {
	e.Active = false
	e.UpdatedAt = time.Now()
}
