package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/stockroom/internal/domain/inventory"
	"github.com/xiebiao/stockroom/pkg/circuitbreaker"
)

// releaseScript 只有值等于token时才删除，防止删掉TTL过期后别的请求新加的锁
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ScanGuard 基于Redis的扫码防重锁
// 所有命令经过熔断器：Redis持续不可用时快速失败（返回circuitbreaker.ErrOpenState），
// 由调用方降级放行
type ScanGuard struct {
	client  redis.Cmdable
	breaker *circuitbreaker.CircuitBreaker
}

var _ inventory.ScanGuard = (*ScanGuard)(nil)

// NewScanGuard 创建防重锁
func NewScanGuard(client redis.Cmdable, breaker *circuitbreaker.CircuitBreaker) *ScanGuard {
	return &ScanGuard{client: client, breaker: breaker}
}

// TryAcquire SET key token NX PX ttl
func (g *ScanGuard) TryAcquire(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	var ok bool
	err := g.do(func() error {
		var err error
		ok, err = g.client.SetNX(ctx, key, token, ttl).Result()
		return err
	})
	return ok, err
}

// Release compare-and-delete
func (g *ScanGuard) Release(ctx context.Context, key, token string) (bool, error) {
	var deleted int64
	err := g.do(func() error {
		var err error
		deleted, err = releaseScript.Run(ctx, g.client, []string{key}, token).Int64()
		return err
	})
	return deleted > 0, err
}

// Remaining 剩余TTL，key不存在或没有过期时间时返回0
func (g *ScanGuard) Remaining(ctx context.Context, key string) (time.Duration, error) {
	var ttl time.Duration
	err := g.do(func() error {
		var err error
		ttl, err = g.client.PTTL(ctx, key).Result()
		return err
	})
	if err != nil || ttl < 0 {
		return 0, err
	}
	return ttl, nil
}

// Block 设置冷却key（覆盖已有值并刷新TTL）
func (g *ScanGuard) Block(ctx context.Context, key string, ttl time.Duration) error {
	return g.do(func() error {
		return g.client.Set(ctx, key, "1", ttl).Err()
	})
}

func (g *ScanGuard) do(fn func() error) error {
	if g.breaker == nil {
		return fn()
	}
	return g.breaker.Execute(func() error {
		err := fn()
		// redis.Nil不是故障，不计入熔断统计
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	})
}
