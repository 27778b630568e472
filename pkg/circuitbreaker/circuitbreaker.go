// Package circuitbreaker 熔断器
//
// 扫码防重依赖Redis，Redis故障时每个请求都要等到读写超时才降级。
// 熔断器在连续失败后直接返回ErrOpenState，调用方立即走降级路径；
// 超时后进入半开状态放行少量探测请求，成功即恢复。
//
// 状态：CLOSED（正常）→ OPEN（熔断）→ HALF_OPEN（探测）→ CLOSED / OPEN
package circuitbreaker

import (
	"errors"
	"sync"
	"time"

	"github.com/xiebiao/stockroom/pkg/metrics"
)

// State 熔断器状态
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// Config 熔断器配置
type Config struct {
	// MaxRequests 半开状态允许的探测请求数，0按1处理
	MaxRequests uint32
	// Interval CLOSED状态下统计窗口长度，0表示不按时间重置
	Interval time.Duration
	// Timeout OPEN状态持续时间
	Timeout time.Duration
	// ReadyToTrip 判断是否熔断，nil时连续失败5次熔断
	ReadyToTrip func(counts Counts) bool
}

// Counts 统计数据
type Counts struct {
	Requests             uint32
	TotalSuccesses       uint32
	TotalFailures        uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

// FailureRate 失败率
func (c Counts) FailureRate() float64 {
	if c.Requests == 0 {
		return 0
	}
	return float64(c.TotalFailures) / float64(c.Requests)
}

func (c *Counts) success() {
	c.TotalSuccesses++
	c.ConsecutiveSuccesses++
	c.ConsecutiveFailures = 0
}

func (c *Counts) failure() {
	c.TotalFailures++
	c.ConsecutiveFailures++
	c.ConsecutiveSuccesses = 0
}

// ErrOpenState 熔断器打开时返回
var ErrOpenState = errors.New("circuit breaker is open")

// CircuitBreaker 熔断器
type CircuitBreaker struct {
	name        string
	maxRequests uint32
	interval    time.Duration
	timeout     time.Duration
	readyToTrip func(counts Counts) bool

	mu            sync.Mutex
	state         State
	generation    uint64 // 每次状态切换递增，丢弃跨代的请求结果
	counts        Counts
	expiry        time.Time
	onStateChange func(name string, from, to State)
	now           func() time.Time
}

// NewCircuitBreaker 创建熔断器
func NewCircuitBreaker(name string, cfg Config) *CircuitBreaker {
	cb := &CircuitBreaker{
		name:        name,
		maxRequests: cfg.MaxRequests,
		interval:    cfg.Interval,
		timeout:     cfg.Timeout,
		readyToTrip: cfg.ReadyToTrip,
		now:         time.Now,
	}
	if cb.maxRequests == 0 {
		cb.maxRequests = 1
	}
	if cb.readyToTrip == nil {
		cb.readyToTrip = func(c Counts) bool { return c.ConsecutiveFailures >= 5 }
	}
	if cb.interval > 0 {
		cb.expiry = cb.now().Add(cb.interval)
	}
	return cb
}

// Name 熔断器名称
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// SetStateChangeCallback 设置状态变化回调（记录日志、告警）
func (cb *CircuitBreaker) SetStateChangeCallback(fn func(name string, from, to State)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.onStateChange = fn
}

// Execute 在熔断器保护下执行req；熔断时不执行req，直接返回ErrOpenState
func (cb *CircuitBreaker) Execute(req func() error) error {
	generation, err := cb.beforeRequest()
	if err != nil {
		return err
	}

	err = req()
	cb.afterRequest(generation, err == nil)
	return err
}

// State 当前状态
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	state, _ := cb.currentState(cb.now())
	return state
}

// Counts 当前统计窗口内的计数
func (cb *CircuitBreaker) Counts() Counts {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.counts
}

func (cb *CircuitBreaker) beforeRequest() (uint64, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state, generation := cb.currentState(cb.now())
	switch {
	case state == StateOpen:
		return generation, ErrOpenState
	case state == StateHalfOpen && cb.counts.Requests >= cb.maxRequests:
		return generation, ErrOpenState
	}

	cb.counts.Requests++
	return generation, nil
}

func (cb *CircuitBreaker) afterRequest(before uint64, success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := cb.now()
	state, generation := cb.currentState(now)
	if generation != before {
		return
	}

	if success {
		cb.counts.success()
		if state == StateHalfOpen {
			cb.setState(StateClosed, now)
		}
		return
	}

	cb.counts.failure()
	switch state {
	case StateClosed:
		if cb.readyToTrip(cb.counts) {
			cb.setState(StateOpen, now)
		}
	case StateHalfOpen:
		cb.setState(StateOpen, now)
	}
}

func (cb *CircuitBreaker) currentState(now time.Time) (State, uint64) {
	switch cb.state {
	case StateClosed:
		if !cb.expiry.IsZero() && cb.expiry.Before(now) {
			cb.toNewGeneration(now)
		}
	case StateOpen:
		if cb.expiry.Before(now) {
			cb.setState(StateHalfOpen, now)
		}
	}
	return cb.state, cb.generation
}

func (cb *CircuitBreaker) setState(state State, now time.Time) {
	if cb.state == state {
		return
	}

	prev := cb.state
	cb.state = state
	cb.toNewGeneration(now)

	metrics.SetGaugeVec(metrics.CircuitBreakerState, float64(state), cb.name)
	if cb.onStateChange != nil {
		cb.onStateChange(cb.name, prev, state)
	}
}

func (cb *CircuitBreaker) toNewGeneration(now time.Time) {
	cb.generation++
	cb.counts = Counts{}

	switch cb.state {
	case StateClosed:
		if cb.interval > 0 {
			cb.expiry = now.Add(cb.interval)
		} else {
			cb.expiry = time.Time{}
		}
	case StateOpen:
		cb.expiry = now.Add(cb.timeout)
	default:
		cb.expiry = time.Time{}
	}
}
