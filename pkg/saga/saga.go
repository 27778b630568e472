// Package saga 顺序执行的补偿式事务
//
// 每个步骤由正向操作和补偿操作组成；某步失败时按逆序补偿已完成的步骤。
// 库存处理流程用它把"获取防重锁"和"记录库存交易"串起来：
// 交易记录失败时，补偿操作以比较删除的方式释放刚拿到的锁，使请求可立即重试。
package saga

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/stockroom/pkg/metrics"
)

// Step Saga中的一个步骤，Action和Compensate都必须幂等
type Step struct {
	Name       string
	Action     func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Saga 一次补偿式事务
type Saga struct {
	steps    []Step
	executed []Step
	timeout  time.Duration
	log      *zap.Logger
}

// NewSaga 创建Saga，timeout<=0表示不设整体超时
func NewSaga(timeout time.Duration) *Saga {
	return &Saga{
		timeout: timeout,
		log:     zap.NewNop(),
	}
}

// WithLogger 设置补偿失败时使用的logger
func (s *Saga) WithLogger(l *zap.Logger) *Saga {
	if l != nil {
		s.log = l
	}
	return s
}

// AddStep 添加步骤，按添加顺序执行、逆序补偿
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) *Saga {
	s.steps = append(s.steps, Step{
		Name:       name,
		Action:     action,
		Compensate: compensate,
	})
	return s
}

// Execute 执行所有步骤
//
// 某步失败时先补偿再返回，返回的错误包装了该步的原始错误（可用errors.As提取AppError）。
// 补偿失败只记录日志：补偿对象（如防重锁）自带TTL，最终会自然过期。
func (s *Saga) Execute(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	for i, step := range s.steps {
		if err := ctx.Err(); err != nil {
			s.compensate(context.WithoutCancel(ctx))
			return fmt.Errorf("saga超时: %w", err)
		}

		if step.Action != nil {
			if err := step.Action(ctx); err != nil {
				// 补偿使用不受超时影响的Context
				s.compensate(context.WithoutCancel(ctx))
				return fmt.Errorf("步骤[%d:%s]执行失败: %w", i, step.Name, err)
			}
		}

		s.executed = append(s.executed, step)
	}

	return nil
}

// compensate 逆序补偿，单个补偿失败不影响后续补偿
func (s *Saga) compensate(ctx context.Context) error {
	var errs []error
	for i := len(s.executed) - 1; i >= 0; i-- {
		step := s.executed[i]
		if step.Compensate == nil {
			continue
		}
		metrics.IncCounterVec(metrics.SagaCompensationsTotal, step.Name)
		if err := step.Compensate(ctx); err != nil {
			s.log.Warn("saga补偿失败", zap.String("step", step.Name), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", step.Name, err))
		}
	}
	s.executed = nil
	return errors.Join(errs...)
}
