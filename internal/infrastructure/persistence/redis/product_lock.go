package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/stockroom/internal/domain/inventory"
)

// ProductLocker 商品级分布式锁（低库存检查"先查后建"串行化）
// Key：lowstock:{product_id}
type ProductLocker struct {
	locker  *redislock.Client
	backoff time.Duration
	retries int
}

var _ inventory.ProductLocker = (*ProductLocker)(nil)

// NewProductLocker 创建商品锁，拿锁失败时按50ms线性退避重试
func NewProductLocker(client redis.UniversalClient) *ProductLocker {
	return &ProductLocker{
		locker:  redislock.New(client),
		backoff: 50 * time.Millisecond,
		retries: 20,
	}
}

// Lock 获取锁，返回释放函数
func (l *ProductLocker) Lock(ctx context.Context, productID uint64, ttl time.Duration) (func(context.Context) error, error) {
	key := fmt.Sprintf("lowstock:%d", productID)
	lock, err := l.locker.Obtain(ctx, key, ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(l.backoff), l.retries),
	})
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return nil, inventory.ErrLockNotObtained
		}
		return nil, fmt.Errorf("获取商品锁失败: %w", err)
	}

	return func(ctx context.Context) error {
		if err := lock.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			return err
		}
		return nil
	}, nil
}
