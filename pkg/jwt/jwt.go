package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/xiebiao/stockroom/pkg/errors"
)

const issuer = "stockroom"

// Manager JWT管理器
// 设计说明：
// 1. 双Token机制：Access Token（短期）+ Refresh Token（长期）
// 2. Claims携带员工编号与角色，鉴权中间件据此做管理员校验
type Manager struct {
	secret             string
	accessTokenExpire  time.Duration
	refreshTokenExpire time.Duration
}

// NewManager 创建JWT管理器
func NewManager(secret string, accessTokenExpire, refreshTokenExpire time.Duration) *Manager {
	return &Manager{
		secret:             secret,
		accessTokenExpire:  accessTokenExpire,
		refreshTokenExpire: refreshTokenExpire,
	}
}

// Claims 自定义JWT Claims
type Claims struct {
	EmployeeID   uint64 `json:"employee_id,string"`
	EmployeeCode string `json:"employee_code"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	jwt.RegisteredClaims
}

// TokenPair Token对（Access + Refresh）
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"` // Access Token过期时间（秒）
}

// Identity 签发Token所需的员工身份
type Identity struct {
	EmployeeID   uint64
	EmployeeCode string
	Email        string
	Role         string
}

// GenerateToken 生成Token对
func (m *Manager) GenerateToken(id Identity) (*TokenPair, error) {
	now := time.Now()

	access, err := m.sign(Claims{
		EmployeeID:       id.EmployeeID,
		EmployeeCode:     id.EmployeeCode,
		Email:            id.Email,
		Role:             id.Role,
		RegisteredClaims: m.registered(id.EmployeeID, now, m.accessTokenExpire),
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "生成Access Token失败")
	}

	// Refresh Token只带员工ID，减少payload
	refresh, err := m.sign(Claims{
		EmployeeID:       id.EmployeeID,
		RegisteredClaims: m.registered(id.EmployeeID, now, m.refreshTokenExpire),
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "生成Refresh Token失败")
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(m.accessTokenExpire.Seconds()),
	}, nil
}

// ParseToken 解析并验证Token（签名、exp、nbf）
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非法的签名算法: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, apperrors.ErrInvalidToken
}

// AccessTokenTTL Access Token有效期（登出时黑名单TTL与之一致）
func (m *Manager) AccessTokenTTL() time.Duration {
	return m.accessTokenExpire
}

// RefreshTokenTTL Refresh Token有效期（会话TTL与之一致）
func (m *Manager) RefreshTokenTTL() time.Duration {
	return m.refreshTokenExpire
}

func (m *Manager) sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.secret))
}

func (m *Manager) registered(employeeID uint64, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    issuer,
		Subject:   strconv.FormatUint(employeeID, 10),
	}
}
