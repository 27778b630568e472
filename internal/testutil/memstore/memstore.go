// Package memstore 内存版仓储与防重锁，供各层单元测试使用
//
// 所有仓储共享同一个Store，TxManager在事务失败时把Store恢复到事务开始前的快照。
package memstore

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/xiebiao/stockroom/internal/domain/employee"
	"github.com/xiebiao/stockroom/internal/domain/inventory"
	"github.com/xiebiao/stockroom/internal/domain/product"
)

// Store 内存版存储
type Store struct {
	FailCreateTx error // 设置后CreateTransaction返回该错误
	FailAudit    error // 设置后审计Append返回该错误

	mu          sync.Mutex
	nextID      uint64
	employees   map[uint64]*employee.Employee
	products    map[uint64]product.Product
	barcodes    map[uint64]product.Barcode
	txs         []*inventory.Transaction
	checkouts   []inventory.Checkout
	allocations map[[2]uint64]int
	alerts      []*inventory.LowStockAlert
	audits      []*inventory.AuditEntry
}

// NewStore 创建空存储
func NewStore() *Store {
	return &Store{
		employees:   make(map[uint64]*employee.Employee),
		products:    make(map[uint64]product.Product),
		barcodes:    make(map[uint64]product.Barcode),
		allocations: make(map[[2]uint64]int),
	}
}

func (s *Store) id() uint64 {
	s.nextID++
	return s.nextID
}

// AddEmployee 添加普通员工，邮箱为{code}@example.com
func (s *Store) AddEmployee(code string, active bool) *employee.Employee {
	return s.addEmployee(code, employee.RoleStaff, active)
}

// AddAdmin 添加管理员
func (s *Store) AddAdmin(code string) *employee.Employee {
	return s.addEmployee(code, employee.RoleAdmin, true)
}

func (s *Store) addEmployee(code string, role employee.Role, active bool) *employee.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := employee.NewEmployee(code, code+"@example.com", "x", "测试员工", role)
	e.ID = s.id()
	e.Active = active
	s.employees[e.ID] = e
	return e
}

// AddProduct 添加商品
func (s *Store) AddProduct(sku string, boxQty, units, threshold int) *product.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := product.NewProduct(sku, sku+"手套", boxQty, units, threshold)
	p.ID = s.id()
	s.products[p.ID] = *p
	return p
}

// AddBarcode 为商品添加一个可用条码，序列号为SN-{value}
func (s *Store) AddBarcode(p *product.Product, value string) *product.Barcode {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := product.Barcode{
		ID:           s.id(),
		ProductID:    p.ID,
		Value:        value,
		SerialNumber: "SN-" + value,
		BoxQty:       p.BoxQty,
		Status:       product.BarcodeAvailable,
	}
	s.barcodes[b.ID] = b
	return &b
}

func (s *Store) Product(id uint64) product.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id]
}

// SetUnits 直接修改商品可用库存
func (s *Store) SetUnits(productID uint64, units int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.products[productID]
	p.CurrentUnits = units
	s.products[productID] = p
}

func (s *Store) Barcode(id uint64) product.Barcode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.barcodes[id]
}

// Allocation 员工名下某商品的分配数量
func (s *Store) Allocation(employeeID, productID uint64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allocations[[2]uint64{employeeID, productID}]
}

func (s *Store) Transactions() []*inventory.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*inventory.Transaction(nil), s.txs...)
}

func (s *Store) Alerts() []*inventory.LowStockAlert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*inventory.LowStockAlert(nil), s.alerts...)
}

func (s *Store) Audits() []*inventory.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*inventory.AuditEntry(nil), s.audits...)
}

type snapshot struct {
	nextID      uint64
	products    map[uint64]product.Product
	barcodes    map[uint64]product.Barcode
	txs         []*inventory.Transaction
	checkouts   []inventory.Checkout
	allocations map[[2]uint64]int
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		nextID:      s.nextID,
		products:    make(map[uint64]product.Product, len(s.products)),
		barcodes:    make(map[uint64]product.Barcode, len(s.barcodes)),
		txs:         append([]*inventory.Transaction(nil), s.txs...),
		checkouts:   append([]inventory.Checkout(nil), s.checkouts...),
		allocations: make(map[[2]uint64]int, len(s.allocations)),
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.barcodes {
		snap.barcodes[k] = v
	}
	for k, v := range s.allocations {
		snap.allocations[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID = snap.nextID
	s.products = snap.products
	s.barcodes = snap.barcodes
	s.txs = snap.txs
	s.checkouts = snap.checkouts
	s.allocations = snap.allocations
}

// TxManager fn返回错误时回滚到快照
type TxManager struct{ *Store }

func (m TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := m.snapshot()
	if err := fn(ctx); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

type EmployeeRepo struct{ *Store }

func (r EmployeeRepo) Create(_ context.Context, e *employee.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.employees {
		if it.Email == e.Email {
			return employee.ErrEmailDuplicate
		}
		if it.Code == e.Code {
			return employee.ErrCodeDuplicate
		}
	}
	e.ID = r.id()
	r.employees[e.ID] = e
	return nil
}

func (r EmployeeRepo) FindByID(_ context.Context, id uint64) (*employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.employees[id]; ok {
		return e, nil
	}
	return nil, employee.ErrEmployeeNotFound
}

func (r EmployeeRepo) FindByEmail(_ context.Context, email string) (*employee.Employee, error) {
	return r.find(func(e *employee.Employee) bool { return e.Email == email })
}

func (r EmployeeRepo) FindByCode(_ context.Context, code string) (*employee.Employee, error) {
	return r.find(func(e *employee.Employee) bool { return e.Code == code })
}

func (r EmployeeRepo) find(match func(*employee.Employee) bool) (*employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.employees {
		if match(e) {
			return e, nil
		}
	}
	return nil, employee.ErrEmployeeNotFound
}

func (r EmployeeRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.employees)), nil
}

type ProductRepo struct{ *Store }

func (r ProductRepo) Create(_ context.Context, p *product.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.products {
		if it.SKU == p.SKU {
			return product.ErrSKUDuplicate
		}
	}
	p.ID = r.id()
	r.products[p.ID] = *p
	return nil
}

func (r ProductRepo) FindByID(_ context.Context, id uint64) (*product.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, product.ErrProductNotFound
	}
	return &p, nil
}

func (r ProductRepo) FindBySKU(_ context.Context, sku string) (*product.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.SKU == sku {
			return &p, nil
		}
	}
	return nil, product.ErrProductNotFound
}

func (r ProductRepo) List(_ context.Context, _ product.ListParams) ([]*product.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*product.Product, 0, len(r.products))
	for _, p := range r.products {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r ProductRepo) LockByID(ctx context.Context, id uint64) (*product.Product, error) {
	return r.FindByID(ctx, id)
}

func (r ProductRepo) SaveUnits(_ context.Context, p *product.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur := r.products[p.ID]
	cur.TotalUnits = p.TotalUnits
	cur.CurrentUnits = p.CurrentUnits
	r.products[p.ID] = cur
	return nil
}

type BarcodeRepo struct{ *Store }

func (r BarcodeRepo) CreateBatch(_ context.Context, barcodes []*product.Barcode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range barcodes {
		b.ID = r.id()
		r.barcodes[b.ID] = *b
	}
	return nil
}

func (r BarcodeRepo) FindByID(_ context.Context, id uint64) (*product.Barcode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.barcodes[id]
	if !ok {
		return nil, product.ErrBarcodeNotFound
	}
	return &b, nil
}

// FindByCode 按条码值或序列号查找
func (r BarcodeRepo) FindByCode(_ context.Context, code string) (*product.Barcode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.barcodes {
		if b.Value == code || b.SerialNumber == code {
			return &b, nil
		}
	}
	return nil, product.ErrBarcodeNotFound
}

func (r BarcodeRepo) LockByID(ctx context.Context, id uint64) (*product.Barcode, error) {
	return r.FindByID(ctx, id)
}

func (r BarcodeRepo) UpdateStatus(_ context.Context, id uint64, status product.BarcodeStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := r.barcodes[id]
	b.Status = status
	r.barcodes[id] = b
	return nil
}

func (r BarcodeRepo) ListByProduct(_ context.Context, productID uint64, _, _ int) ([]*product.Barcode, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*product.Barcode
	for _, b := range r.barcodes {
		if b.ProductID == productID {
			b := b
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

type InventoryRepo struct{ *Store }

func (r InventoryRepo) CreateTransaction(_ context.Context, tx *inventory.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailCreateTx != nil {
		return r.FailCreateTx
	}
	tx.ID = r.id()
	r.txs = append(r.txs, tx)
	return nil
}

func (r InventoryRepo) CreateCheckout(_ context.Context, c *inventory.Checkout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.checkouts {
		if it.BarcodeID == c.BarcodeID && !it.IsReturned {
			return inventory.ErrOpenCheckoutExists
		}
	}
	c.ID = r.id()
	r.checkouts = append(r.checkouts, *c)
	return nil
}

func (r InventoryRepo) FindOpenCheckout(_ context.Context, barcodeID uint64) (*inventory.Checkout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.checkouts {
		if it.BarcodeID == barcodeID && !it.IsReturned {
			return &it, nil
		}
	}
	return nil, inventory.ErrCheckoutNotFound
}

func (r InventoryRepo) CloseOpenCheckouts(_ context.Context, barcodeID uint64, returnedAt time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for i := range r.checkouts {
		c := &r.checkouts[i]
		if c.BarcodeID == barcodeID && !c.IsReturned {
			at := returnedAt
			c.ReturnedAt = &at
			c.IsReturned = true
			n++
		}
	}
	return n, nil
}

func (r InventoryRepo) AdjustAllocation(_ context.Context, employeeID, productID uint64, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]uint64{employeeID, productID}
	next := r.allocations[key] + delta
	if next <= 0 {
		delete(r.allocations, key)
		return nil
	}
	r.allocations[key] = next
	return nil
}

func (r InventoryRepo) ListTransactions(_ context.Context, f inventory.TransactionFilter) ([]*inventory.Transaction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*inventory.Transaction
	for _, tx := range r.txs {
		if f.EmployeeID != 0 && tx.EmployeeID != f.EmployeeID {
			continue
		}
		if f.ProductID != 0 && tx.ProductID != f.ProductID {
			continue
		}
		if f.Type != "" && tx.Type != f.Type {
			continue
		}
		out = append(out, tx)
	}
	return out, int64(len(out)), nil
}

func (r InventoryRepo) ListAllocations(_ context.Context, f inventory.AllocationFilter) ([]*inventory.Allocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*inventory.Allocation
	for k, v := range r.allocations {
		if f.EmployeeID != 0 && k[0] != f.EmployeeID {
			continue
		}
		if f.ProductID != 0 && k[1] != f.ProductID {
			continue
		}
		out = append(out, &inventory.Allocation{EmployeeID: k[0], ProductID: k[1], AllocatedUnits: v})
	}
	return out, nil
}

func (r InventoryRepo) ListCheckouts(_ context.Context, employeeID uint64, includeReturned bool) ([]*inventory.Checkout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*inventory.Checkout
	for _, c := range r.checkouts {
		if c.EmployeeID != employeeID || (c.IsReturned && !includeReturned) {
			continue
		}
		c := c
		out = append(out, &c)
	}
	return out, nil
}

type AlertRepo struct{ *Store }

func (r AlertRepo) Latest(_ context.Context, productID uint64) (*inventory.LowStockAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *inventory.LowStockAlert
	for _, a := range r.alerts {
		if a.ProductID == productID && (latest == nil || a.CreatedAt.After(latest.CreatedAt)) {
			latest = a
		}
	}
	if latest == nil {
		return nil, inventory.ErrAlertNotFound
	}
	return latest, nil
}

func (r AlertRepo) Create(_ context.Context, a *inventory.LowStockAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = r.id()
	r.alerts = append(r.alerts, a)
	return nil
}

func (r AlertRepo) List(_ context.Context, _, _ int) ([]*inventory.LowStockAlert, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]*inventory.LowStockAlert(nil), r.alerts...)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

type AuditRepo struct{ *Store }

func (r AuditRepo) Append(_ context.Context, e *inventory.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailAudit != nil {
		return r.FailAudit
	}
	e.ID = r.id()
	r.audits = append(r.audits, e)
	return nil
}

func (r AuditRepo) List(_ context.Context, f inventory.AuditFilter) ([]*inventory.AuditEntry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*inventory.AuditEntry
	for _, e := range r.audits {
		if f.ProductID != 0 && e.ProductID != f.ProductID {
			continue
		}
		if f.PerformedBy != 0 && e.PerformedBy != f.PerformedBy {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

// Clock 可手动推进的时钟
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// ErrCacheDown Guard.Fail为true时各方法返回的错误
var ErrCacheDown = errors.New("redis: connection refused")

// Guard 内存版防重锁，过期时间按Clock计算
type Guard struct {
	Fail bool

	mu       sync.Mutex
	clock    *Clock
	entries  map[string]guardEntry
	released []string
}

type guardEntry struct {
	token   string
	expires time.Time
}

func NewGuard(c *Clock) *Guard {
	return &Guard{clock: c, entries: make(map[string]guardEntry)}
}

func (g *Guard) live(key string) (guardEntry, bool) {
	e, ok := g.entries[key]
	if !ok || !g.clock.Now().Before(e.expires) {
		return guardEntry{}, false
	}
	return e, true
}

func (g *Guard) TryAcquire(_ context.Context, key, token string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Fail {
		return false, ErrCacheDown
	}
	if _, ok := g.live(key); ok {
		return false, nil
	}
	g.entries[key] = guardEntry{token: token, expires: g.clock.Now().Add(ttl)}
	return true, nil
}

func (g *Guard) Release(_ context.Context, key, token string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.released = append(g.released, key)
	if g.Fail {
		return false, ErrCacheDown
	}
	e, ok := g.live(key)
	if !ok || e.token != token {
		return false, nil
	}
	delete(g.entries, key)
	return true, nil
}

func (g *Guard) Remaining(_ context.Context, key string) (time.Duration, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Fail {
		return 0, ErrCacheDown
	}
	e, ok := g.live(key)
	if !ok {
		return 0, nil
	}
	return e.expires.Sub(g.clock.Now()), nil
}

func (g *Guard) Block(_ context.Context, key string, ttl time.Duration) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Fail {
		return ErrCacheDown
	}
	g.entries[key] = guardEntry{token: "blocked", expires: g.clock.Now().Add(ttl)}
	return nil
}

// Held key是否仍在有效期内
func (g *Guard) Held(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.live(key)
	return ok
}

// Len 未过期的key数量
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for k := range g.entries {
		if _, ok := g.live(k); ok {
			n++
		}
	}
	return n
}

// Released Release调用过的key（不论是否真正删除）
func (g *Guard) Released() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.released...)
}

// Publisher 记录发布的低库存事件
type Publisher struct {
	Err error

	mu     sync.Mutex
	events []inventory.LowStockEvent
}

func (p *Publisher) PublishLowStock(_ context.Context, ev inventory.LowStockEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *Publisher) Events() []inventory.LowStockEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]inventory.LowStockEvent(nil), p.events...)
}

// BusyLocker 永远拿不到锁
type BusyLocker struct{}

func (BusyLocker) Lock(context.Context, uint64, time.Duration) (func(context.Context) error, error) {
	return nil, inventory.ErrLockNotObtained
}
