package employee

import (
	"context"
	"errors"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/stockroom/pkg/errors"
)

// Service 员工领域服务
// 负责密码加密与校验、注册时的业务规则，不处理HTTP请求
type Service interface {
	// Register 员工注册
	Register(ctx context.Context, code, email, password, name string, role Role) (*Employee, error)

	// Authenticate 邮箱+密码认证
	Authenticate(ctx context.Context, email, password string) (*Employee, error)

	// ValidatePassword 验证密码
	ValidatePassword(hashedPassword, plainPassword string) error
}

// bcryptCost bcrypt计算成本，cost每+1耗时翻倍
const bcryptCost = 12

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	codePattern  = regexp.MustCompile(`^[A-Z][0-9]{3,9}$`)
	letterRe     = regexp.MustCompile(`[a-zA-Z]`)
	digitRe      = regexp.MustCompile(`[0-9]`)
)

type service struct {
	repo Repository
	cost int
}

// NewService 创建员工服务
func NewService(repo Repository) Service {
	return &service{repo: repo, cost: bcryptCost}
}

// NewServiceWithCost 指定bcrypt成本（测试中使用bcrypt.MinCost加速）
func NewServiceWithCost(repo Repository, cost int) Service {
	return &service{repo: repo, cost: cost}
}

// Register 员工注册
// 业务规则：
// 1. 编号格式：大写字母+3~9位数字（如E001）
// 2. 邮箱格式校验，密码8-20位且包含字母和数字
// 3. 邮箱/编号唯一性由数据库UNIQUE索引保证
func (s *service) Register(ctx context.Context, code, email, password, name string, role Role) (*Employee, error) {
	if !codePattern.MatchString(code) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "员工编号格式不正确（如E001）")
	}
	if !emailPattern.MatchString(email) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱格式不正确")
	}
	if err := validatePasswordStrength(password); err != nil {
		return nil, err
	}
	if n := len([]rune(name)); n < 2 || n > 50 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "姓名长度应为2-50个字符")
	}
	if role == "" {
		role = RoleStaff
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	e := NewEmployee(code, email, string(hashed), name, role)
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Authenticate 邮箱不存在与密码错误返回同一个错误，避免探测已注册邮箱
func (s *service) Authenticate(ctx context.Context, email, password string) (*Employee, error) {
	e, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrEmployeeNotFound) {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, err
	}

	if err := s.ValidatePassword(e.PasswordHash, password); err != nil {
		return nil, err
	}
	if !e.Active {
		return nil, ErrInactive
	}
	return e, nil
}

// ValidatePassword 验证明文密码与哈希值是否匹配
func (s *service) ValidatePassword(hashedPassword, plainPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return apperrors.ErrInvalidPassword
		}
		return apperrors.Wrap(err, "密码验证失败")
	}
	return nil
}

// validatePasswordStrength 8-20位，必须包含字母和数字
func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return apperrors.ErrWeakPassword
	}
	if !letterRe.MatchString(password) || !digitRe.MatchString(password) {
		return apperrors.ErrWeakPassword
	}
	return nil
}
