package employee

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/stockroom/internal/domain/employee"
	"github.com/xiebiao/stockroom/pkg/jwt"
)

// SessionStore 会话存储（Redis实现见persistence/redis）
type SessionStore interface {
	SaveSession(ctx context.Context, employeeID uint64, data map[string]interface{}, ttl time.Duration) error
	DeleteSession(ctx context.Context, employeeID uint64) error
	AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error
}

// LoginUseCase 员工登录用例
// 1. 验证邮箱密码
// 2. 生成JWT Token对
// 3. 保存会话到Redis（失败只记录日志，不影响登录）
type LoginUseCase struct {
	service  employee.Service
	jwt      *jwt.Manager
	sessions SessionStore
	log      *zap.Logger
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(service employee.Service, jwtManager *jwt.Manager, sessions SessionStore, log *zap.Logger) *LoginUseCase {
	return &LoginUseCase{
		service:  service,
		jwt:      jwtManager,
		sessions: sessions,
		log:      log,
	}
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	e, err := uc.service.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	pair, err := uc.jwt.GenerateToken(jwt.Identity{
		EmployeeID:   e.ID,
		EmployeeCode: e.Code,
		Email:        e.Email,
		Role:         string(e.Role),
	})
	if err != nil {
		return nil, err
	}

	session := map[string]interface{}{
		"employee_id":   e.ID,
		"employee_code": e.Code,
		"role":          string(e.Role),
		"login_at":      time.Now().Unix(),
		"ip":            req.ClientIP,
	}
	// 会话有效期 = Refresh Token有效期
	if err := uc.sessions.SaveSession(ctx, e.ID, session, uc.jwt.RefreshTokenTTL()); err != nil {
		uc.log.Warn("保存会话失败", zap.Uint64("employee_id", e.ID), zap.Error(err))
	}

	uc.log.Info("员工登录", zap.Uint64("employee_id", e.ID), zap.String("code", e.Code), zap.String("ip", req.ClientIP))

	return &LoginResponse{
		Employee:     *toInfo(e),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

// LogoutUseCase 员工登出用例
type LogoutUseCase struct {
	sessions SessionStore
	ttl      time.Duration
}

// NewLogoutUseCase 创建登出用例，黑名单有效期等于Access Token有效期
func NewLogoutUseCase(sessions SessionStore, jwtManager *jwt.Manager) *LogoutUseCase {
	return &LogoutUseCase{sessions: sessions, ttl: jwtManager.AccessTokenTTL()}
}

// Execute 删除会话并拉黑当前Access Token
func (uc *LogoutUseCase) Execute(ctx context.Context, employeeID uint64, accessToken string) error {
	if err := uc.sessions.DeleteSession(ctx, employeeID); err != nil {
		return err
	}
	return uc.sessions.AddToBlacklist(ctx, accessToken, uc.ttl)
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string
	Password string
	ClientIP string
}

// LoginResponse 登录结果
type LoginResponse struct {
	Employee     EmployeeInfo
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}
