package product

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

// Service 商品领域服务
type Service interface {
	// CreateProduct 新建商品
	// 业务规则：
	// - SKU格式合法且不重复
	// - 每箱数量>0，初始库存>=0，补货阈值>=0
	CreateProduct(ctx context.Context, sku, name string, boxQty, initialUnits, reorderThreshold int) (*Product, error)

	// GetProduct 根据ID获取商品
	GetProduct(ctx context.Context, id uint64) (*Product, error)

	// ListProducts 分页查询
	ListProducts(ctx context.Context, params ListParams) ([]*Product, int64, error)
}

var skuPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9-]{1,31}$`)

type service struct {
	repo Repository
}

// NewService 创建商品领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateProduct(ctx context.Context, sku, name string, boxQty, initialUnits, reorderThreshold int) (*Product, error) {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if !skuPattern.MatchString(sku) {
		return nil, ErrInvalidSKU
	}
	if boxQty <= 0 {
		return nil, ErrInvalidBoxQty
	}
	if initialUnits < 0 {
		return nil, ErrInvalidQuantity
	}
	if reorderThreshold < 0 {
		return nil, ErrInvalidThreshold
	}

	// 先查一次给出友好提示，并发情况下由唯一索引兜底
	existing, err := s.repo.FindBySKU(ctx, sku)
	if err == nil && existing != nil {
		return nil, ErrSKUDuplicate
	}
	if err != nil && !errors.Is(err, ErrProductNotFound) {
		return nil, err
	}

	p := NewProduct(sku, strings.TrimSpace(name), boxQty, initialUnits, reorderThreshold)
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetProduct(ctx context.Context, id uint64) (*Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListProducts(ctx context.Context, params ListParams) ([]*Product, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}
	return s.repo.List(ctx, params)
}
