package inventory

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/stockroom/internal/domain/inventory"
)

// AuditLogger 审计日志
// Record由库存处理流程在主事务提交后调用，失败只返回错误由调用方记录，不影响已提交的交易
type AuditLogger struct {
	repo inventory.AuditRepository
	log  *zap.Logger
}

// NewAuditLogger 创建审计日志
func NewAuditLogger(repo inventory.AuditRepository, log *zap.Logger) *AuditLogger {
	return &AuditLogger{repo: repo, log: log}
}

// Record 追加审计记录
func (a *AuditLogger) Record(ctx context.Context, entry *inventory.AuditEntry) error {
	if err := a.repo.Append(ctx, entry); err != nil {
		return err
	}
	a.log.Debug("审计日志已记录",
		zap.Uint64("transaction_id", entry.TransactionID),
		zap.String("type", string(entry.Type)),
		zap.Int("prev_available", entry.PrevAvailable),
		zap.Int("new_available", entry.NewAvailable),
	)
	return nil
}

// List 按商品/操作人/时间范围分页查询
func (a *AuditLogger) List(ctx context.Context, filter inventory.AuditFilter) ([]*inventory.AuditEntry, int64, error) {
	return a.repo.List(ctx, filter)
}
