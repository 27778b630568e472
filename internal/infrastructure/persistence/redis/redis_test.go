package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/stockroom/internal/domain/inventory"
	"github.com/xiebiao/stockroom/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/stockroom/pkg/errors"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestScanGuard_AcquireAndRemaining(t *testing.T) {
	mr, client := newTestRedis(t)
	guard := NewScanGuard(client, nil)
	ctx := context.Background()
	key := inventory.GuardKey(inventory.TypeReturn, 1, "BC1")

	ok, err := guard.TryAcquire(ctx, key, "token-1", 300*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = guard.TryAcquire(ctx, key, "token-2", 300*time.Second)
	require.NoError(t, err)
	assert.False(t, ok, "窗口内同一动作被拒绝")

	first, err := guard.Remaining(ctx, key)
	require.NoError(t, err)
	mr.FastForward(10 * time.Second)
	second, err := guard.Remaining(ctx, key)
	require.NoError(t, err)
	assert.Greater(t, first, second, "剩余时间递减")
	assert.Greater(t, second, time.Duration(0))

	other := inventory.GuardKey(inventory.TypeCheckout, 1, "BC1")
	ok, err = guard.TryAcquire(ctx, other, "token-3", 300*time.Second)
	require.NoError(t, err)
	assert.True(t, ok, "借出和归还互不阻塞")

	mr.FastForward(300 * time.Second)
	ok, err = guard.TryAcquire(ctx, key, "token-4", 300*time.Second)
	require.NoError(t, err)
	assert.True(t, ok, "过期后可以再次获取")
}

func TestScanGuard_ReleaseCompareAndDelete(t *testing.T) {
	mr, client := newTestRedis(t)
	guard := NewScanGuard(client, nil)
	ctx := context.Background()

	_, err := guard.TryAcquire(ctx, "k", "mine", time.Minute)
	require.NoError(t, err)

	released, err := guard.Release(ctx, "k", "someone-else")
	require.NoError(t, err)
	assert.False(t, released, "token不匹配不删除")
	assert.True(t, mr.Exists("k"))

	released, err = guard.Release(ctx, "k", "mine")
	require.NoError(t, err)
	assert.True(t, released)
	assert.False(t, mr.Exists("k"))

	remaining, err := guard.Remaining(ctx, "k")
	require.NoError(t, err)
	assert.Zero(t, remaining)
}

func TestScanGuard_Block(t *testing.T) {
	mr, client := newTestRedis(t)
	guard := NewScanGuard(client, nil)
	ctx := context.Background()

	require.NoError(t, guard.Block(ctx, inventory.PostReturnKey("BC1"), time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("post_return:BC1"))
}

func TestScanGuard_BreakerOpensWhenRedisDown(t *testing.T) {
	mr, client := newTestRedis(t)
	breaker := circuitbreaker.NewCircuitBreaker("scan-guard", circuitbreaker.Config{
		Timeout:     time.Minute,
		ReadyToTrip: func(c circuitbreaker.Counts) bool { return c.ConsecutiveFailures >= 2 },
	})
	guard := NewScanGuard(client, breaker)
	ctx := context.Background()

	mr.Close()
	for i := 0; i < 2; i++ {
		_, err := guard.TryAcquire(ctx, "k", "t", time.Minute)
		require.Error(t, err)
	}

	_, err := guard.TryAcquire(ctx, "k", "t", time.Minute)
	assert.True(t, errors.Is(err, circuitbreaker.ErrOpenState))
}

func TestProductLocker(t *testing.T) {
	_, client := newTestRedis(t)
	locker := NewProductLocker(client)
	locker.retries = 1
	locker.backoff = time.Millisecond
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, 9, time.Second)
	require.NoError(t, err)

	_, err = locker.Lock(ctx, 9, time.Second)
	assert.ErrorIs(t, err, inventory.ErrLockNotObtained)

	unlockOther, err := locker.Lock(ctx, 10, time.Second)
	require.NoError(t, err, "不同商品互不影响")
	require.NoError(t, unlockOther(ctx))

	require.NoError(t, unlock(ctx))
	unlock, err = locker.Lock(ctx, 9, time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
}

func TestSessionStore(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.SaveSession(ctx, 7, map[string]interface{}{"code": "E001", "ip": "10.0.0.1"}, time.Hour))
	assert.Equal(t, time.Hour, mr.TTL("session:7"))

	session, err := store.GetSession(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "E001", session["code"])

	require.NoError(t, store.DeleteSession(ctx, 7))
	_, err = store.GetSession(ctx, 7)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	blocked, err := store.IsInBlacklist(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, blocked)

	require.NoError(t, store.AddToBlacklist(ctx, "tok", time.Minute))
	blocked, err = store.IsInBlacklist(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, blocked)
}
