package dto

import appemployee "github.com/xiebiao/stockroom/internal/application/employee"

// RegisterRequest 员工注册请求
// 系统中还没有员工时第一个注册的账号自动成为管理员，之后只有管理员能注册新员工
type RegisterRequest struct {
	Code     string `json:"code" binding:"required,max=32" example:"E001"`
	Email    string `json:"email" binding:"required,email" example:"zhangsan@example.com"`
	Password string `json:"password" binding:"required,min=8,max=20" example:"Passw0rd"`
	Name     string `json:"name" binding:"required,max=50" example:"张三"`
	Role     string `json:"role" binding:"omitempty,oneof=admin staff" example:"staff"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"zhangsan@example.com"`
	Password string `json:"password" binding:"required" example:"Passw0rd"`
}

// EmployeeResponse 员工信息
type EmployeeResponse struct {
	ID     uint64 `json:"id,string" example:"1"`
	Code   string `json:"code" example:"E001"`
	Email  string `json:"email" example:"zhangsan@example.com"`
	Name   string `json:"name" example:"张三"`
	Role   string `json:"role" example:"staff"`
	Active bool   `json:"active" example:"true"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Employee     EmployeeResponse `json:"employee"`
	AccessToken  string           `json:"accessToken"`
	RefreshToken string           `json:"refreshToken"`
	ExpiresIn    int64            `json:"expiresIn" example:"7200"` // 秒
}

func ToEmployeeResponse(info *appemployee.EmployeeInfo) *EmployeeResponse {
	return &EmployeeResponse{
		ID:     info.ID,
		Code:   info.Code,
		Email:  info.Email,
		Name:   info.Name,
		Role:   info.Role,
		Active: info.Active,
	}
}
