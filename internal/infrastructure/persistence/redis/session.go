package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/stockroom/pkg/errors"
)

// SessionStore 会话存储
// Key设计：session:{employee_id}、blacklist:{token}
// session过期时间 = Refresh Token有效期，blacklist过期时间 = Access Token有效期
type SessionStore struct {
	client redis.Cmdable
}

// NewSessionStore 创建会话存储
func NewSessionStore(client redis.Cmdable) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(employeeID uint64) string {
	return fmt.Sprintf("session:%d", employeeID)
}

func blacklistKey(token string) string {
	return "blacklist:" + token
}

// SaveSession 保存员工会话（登录时间、IP、设备等）
// HSet和Expire放在同一个MULTI里，避免只写入字段没有过期时间
func (s *SessionStore) SaveSession(ctx context.Context, employeeID uint64, data map[string]interface{}, ttl time.Duration) error {
	key := sessionKey(employeeID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, data)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return apperrors.Wrap(err, "保存会话失败")
	}
	return nil
}

// GetSession 获取员工会话，不存在时返回ErrUnauthorized
func (s *SessionStore) GetSession(ctx context.Context, employeeID uint64) (map[string]string, error) {
	result, err := s.client.HGetAll(ctx, sessionKey(employeeID)).Result()
	if err != nil {
		return nil, apperrors.Wrap(err, "获取会话失败")
	}
	if len(result) == 0 {
		return nil, apperrors.ErrUnauthorized
	}
	return result, nil
}

// DeleteSession 删除员工会话（登出）
func (s *SessionStore) DeleteSession(ctx context.Context, employeeID uint64) error {
	if err := s.client.Del(ctx, sessionKey(employeeID)).Err(); err != nil {
		return apperrors.Wrap(err, "删除会话失败")
	}
	return nil
}

// AddToBlacklist 将Token加入黑名单（登出、强制下线）
func (s *SessionStore) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, blacklistKey(token), "revoked", ttl).Err(); err != nil {
		return apperrors.Wrap(err, "添加Token到黑名单失败")
	}
	return nil
}

// IsInBlacklist 检查Token是否在黑名单中
func (s *SessionStore) IsInBlacklist(ctx context.Context, token string) (bool, error) {
	exists, err := s.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, apperrors.Wrap(err, "检查黑名单失败")
	}
	return exists > 0, nil
}
