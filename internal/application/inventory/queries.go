package inventory

import (
	"context"

	"github.com/xiebiao/stockroom/internal/domain/employee"
	"github.com/xiebiao/stockroom/internal/domain/inventory"
	"github.com/xiebiao/stockroom/internal/domain/product"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// QueryService 库存查询（只读）
type QueryService struct {
	repo      inventory.Repository
	alerts    inventory.AlertRepository
	products  product.Repository
	employees employee.Repository
	monitor   *LowStockMonitor
	audit     *AuditLogger
}

// NewQueryService 创建库存查询服务
func NewQueryService(
	repo inventory.Repository,
	alerts inventory.AlertRepository,
	products product.Repository,
	employees employee.Repository,
	monitor *LowStockMonitor,
	audit *AuditLogger,
) *QueryService {
	return &QueryService{
		repo:      repo,
		alerts:    alerts,
		products:  products,
		employees: employees,
		monitor:   monitor,
		audit:     audit,
	}
}

// AlertView 告警及商品当前可用库存
type AlertView struct {
	Alert          *inventory.LowStockAlert
	SKU            string
	ProductName    string
	AvailableUnits int
}

// ListTransactions 分页查询流水
func (s *QueryService) ListTransactions(ctx context.Context, filter inventory.TransactionFilter) ([]*inventory.Transaction, int64, error) {
	filter.Page, filter.PageSize = normalizePage(filter.Page, filter.PageSize)
	return s.repo.ListTransactions(ctx, filter)
}

// Available 商品当前可用库存
func (s *QueryService) Available(ctx context.Context, productID uint64) (int, error) {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	return p.AvailableUnits(), nil
}

// ListAlerts 分页查询告警，可用库存按商品当前值重新计算
func (s *QueryService) ListAlerts(ctx context.Context, page, pageSize int) ([]*AlertView, int64, error) {
	page, pageSize = normalizePage(page, pageSize)
	alerts, total, err := s.alerts.List(ctx, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	cache := make(map[uint64]*product.Product)
	views := make([]*AlertView, 0, len(alerts))
	for _, a := range alerts {
		p, ok := cache[a.ProductID]
		if !ok {
			if p, err = s.products.FindByID(ctx, a.ProductID); err != nil {
				return nil, 0, err
			}
			cache[a.ProductID] = p
		}
		views = append(views, &AlertView{
			Alert:          a,
			SKU:            p.SKU,
			ProductName:    p.Name,
			AvailableUnits: p.AvailableUnits(),
		})
	}
	return views, total, nil
}

// CheckLowStock 手动触发低库存检查
func (s *QueryService) CheckLowStock(ctx context.Context, productID uint64) (*inventory.LowStockResult, error) {
	return s.monitor.Check(ctx, productID)
}

// ListAllocations 查询员工分配
func (s *QueryService) ListAllocations(ctx context.Context, filter inventory.AllocationFilter) ([]*inventory.Allocation, error) {
	return s.repo.ListAllocations(ctx, filter)
}

// ListAudit 分页查询审计日志
func (s *QueryService) ListAudit(ctx context.Context, filter inventory.AuditFilter) ([]*inventory.AuditEntry, int64, error) {
	filter.Page, filter.PageSize = normalizePage(filter.Page, filter.PageSize)
	return s.audit.List(ctx, filter)
}

// EmployeeCheckouts 员工的借出记录，all=false时只返回未归还的
func (s *QueryService) EmployeeCheckouts(ctx context.Context, employeeID uint64, all bool) ([]*inventory.Checkout, error) {
	if _, err := s.employees.FindByID(ctx, employeeID); err != nil {
		return nil, err
	}
	return s.repo.ListCheckouts(ctx, employeeID, all)
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	return page, pageSize
}
