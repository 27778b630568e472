package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/stockroom/pkg/errors"
	"github.com/xiebiao/stockroom/pkg/jwt"
	"github.com/xiebiao/stockroom/pkg/response"
)

const (
	ctxEmployeeID   = "employee_id"
	ctxEmployeeCode = "employee_code"
	ctxRole         = "role"
	ctxAccessToken  = "access_token"
)

// TokenBlacklist 已登出Token的黑名单（Redis实现见persistence/redis.SessionStore）
type TokenBlacklist interface {
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware JWT认证中间件
// 1. 从Authorization头提取Bearer Token
// 2. 检查黑名单（登出后的Token立即失效）
// 3. 校验签名和过期时间，把员工身份写入gin.Context
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	blacklist  TokenBlacklist
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, blacklist TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		blacklist:  blacklist,
	}
}

// RequireAuth 要求登录
//
//	authorized := r.Group("/api/v1/inventory")
//	authorized.Use(auth.RequireAuth())
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		if err := m.authenticate(c, token); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Next()
	}
}

// OptionalAuth 有Token则校验并注入身份，没有则按匿名继续
// 员工注册接口使用：系统初始化时第一个账号无需登录
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}

		token, err := bearerToken(c)
		if err == nil {
			err = m.authenticate(c, token)
		}
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireRole 要求指定角色，必须放在RequireAuth之后
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetRole(c)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		response.Error(c, apperrors.ErrForbidden)
		c.Abort()
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context, token string) error {
	blacklisted, err := m.blacklist.IsInBlacklist(c.Request.Context(), token)
	if err != nil {
		return apperrors.Wrap(err, "验证Token失败")
	}
	if blacklisted {
		return apperrors.New(apperrors.ErrCodeTokenExpired, "Token已失效，请重新登录")
	}

	claims, err := m.jwtManager.ParseToken(token)
	if err != nil {
		return err
	}

	c.Set(ctxEmployeeID, claims.EmployeeID)
	c.Set(ctxEmployeeCode, claims.EmployeeCode)
	c.Set(ctxRole, claims.Role)
	c.Set(ctxAccessToken, token)
	return nil
}

func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", apperrors.ErrUnauthorized
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", apperrors.New(apperrors.ErrCodeInvalidToken, "Token格式错误")
	}
	return parts[1], nil
}

// GetEmployeeID 当前登录员工ID，未登录返回0
func GetEmployeeID(c *gin.Context) uint64 {
	return c.GetUint64(ctxEmployeeID)
}

// GetEmployeeCode 当前登录员工编号
func GetEmployeeCode(c *gin.Context) string {
	return c.GetString(ctxEmployeeCode)
}

// GetRole 当前登录员工角色
func GetRole(c *gin.Context) string {
	return c.GetString(ctxRole)
}

// GetAccessToken 当前请求携带的Access Token（登出时加入黑名单）
func GetAccessToken(c *gin.Context) string {
	return c.GetString(ctxAccessToken)
}
