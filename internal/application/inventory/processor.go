package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiebiao/stockroom/internal/domain/employee"
	"github.com/xiebiao/stockroom/internal/domain/inventory"
	"github.com/xiebiao/stockroom/internal/domain/product"
	apperrors "github.com/xiebiao/stockroom/pkg/errors"
	"github.com/xiebiao/stockroom/pkg/logger"
	"github.com/xiebiao/stockroom/pkg/metrics"
	"github.com/xiebiao/stockroom/pkg/saga"
	"github.com/xiebiao/stockroom/pkg/tracing"
)

const tracerName = "stockroom.inventory"

// Config 库存处理参数
type Config struct {
	DuplicateWindow time.Duration // 防重窗口
	MinReturnWait   time.Duration // 借出后最短归还等待
	PostReturnBlock time.Duration // 归还后冷却期
	Timeout         time.Duration // 防重锁+主事务的整体超时，<=0不限制
}

// Processor 库存交易处理（借出/归还/调整）
//
// 处理流程：
//  1. 参数校验（任何副作用之前）
//  2. 解析条码（条码值或序列号）、员工、商品
//  3. 归还冷却期检查；防重预检，相同动作的防重锁仍在时直接拒绝
//  4. 确定实际动作（扫码流程中已借出且超过最短等待的条码自动转为归还）
//  5. Saga：获取防重锁 → 单个数据库事务内记录交易；事务失败时补偿释放防重锁
//  6. 提交后的附带操作（重新计算可用库存、低库存检查、审计日志、归还冷却），
//     失败只记录日志并体现在Outcome中，不回滚已提交的交易
//
// 防重锁成功后不主动释放，靠TTL过期，窗口内相同动作会被拒绝。
// Redis不可用时防重降级放行，账本正确性由数据库事务和行锁保证。
type Processor struct {
	employees employee.Repository
	products  product.Repository
	barcodes  product.BarcodeRepository
	repo      inventory.Repository
	txManager inventory.TxManager
	guard     inventory.ScanGuard
	monitor   *LowStockMonitor
	audit     *AuditLogger
	cfg       Config
	log       *zap.Logger
	now       func() time.Time
	newToken  func() string
}

// NewProcessor 创建库存交易处理器
func NewProcessor(
	employees employee.Repository,
	products product.Repository,
	barcodes product.BarcodeRepository,
	repo inventory.Repository,
	txManager inventory.TxManager,
	guard inventory.ScanGuard,
	monitor *LowStockMonitor,
	audit *AuditLogger,
	cfg Config,
	log *zap.Logger,
) *Processor {
	if cfg.PostReturnBlock <= 0 {
		cfg.PostReturnBlock = cfg.DuplicateWindow
	}
	return &Processor{
		employees: employees,
		products:  products,
		barcodes:  barcodes,
		repo:      repo,
		txManager: txManager,
		guard:     guard,
		monitor:   monitor,
		audit:     audit,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
		newToken:  uuid.NewString,
	}
}

// RecordRequest 直接记录交易（POST /inventory/transactions）
type RecordRequest struct {
	ProductID   uint64
	EmployeeID  uint64
	Type        string
	BarcodeID   uint64
	Barcode     string // 条码值或序列号，ADJUST可为空；与BarcodeID二选一
	CheckoutQty *int
	ReturnedQty *int
	UsedQty     *int
	Remarks     string
}

// ScanRequest 扫码枪交易（POST /products/transactions）
type ScanRequest struct {
	Barcode     string
	EmployeeID  uint64
	Type        string // 为空时按CHECKOUT处理
	CheckoutQty *int
	UsedQty     *int
	Remarks     string
}

// command 两种入口统一后的内部命令
type command struct {
	productID   uint64
	employeeID  uint64
	typ         inventory.TransactionType
	barcodeID   uint64
	code        string
	checkoutQty *int
	returnedQty *int
	usedQty     *int
	remarks     string
	scanner     bool
}

// resolved 解析后的实体
type resolved struct {
	employee *employee.Employee
	product  *product.Product
	barcode  *product.Barcode
}

// RecordTransaction 直接记录交易
// 已借出的条码再次借出返回冲突；未到最短等待时间的归还被拒绝
func (p *Processor) RecordTransaction(ctx context.Context, req RecordRequest) (*inventory.Outcome, error) {
	typ, err := inventory.ParseTransactionType(req.Type)
	if err != nil {
		return nil, err
	}
	return p.process(ctx, command{
		productID:   req.ProductID,
		employeeID:  req.EmployeeID,
		typ:         typ,
		barcodeID:   req.BarcodeID,
		code:        req.Barcode,
		checkoutQty: req.CheckoutQty,
		returnedQty: req.ReturnedQty,
		usedQty:     req.UsedQty,
		remarks:     req.Remarks,
	})
}

// Scan 扫码枪交易
// 同一个扫码键既借又还：条码已借出且超过最短等待时间时，无论请求什么动作都按归还处理
func (p *Processor) Scan(ctx context.Context, req ScanRequest) (*inventory.Outcome, error) {
	typ := inventory.TypeCheckout
	if req.Type != "" {
		var err error
		if typ, err = inventory.ParseTransactionType(req.Type); err != nil {
			return nil, err
		}
	}
	if req.Barcode == "" {
		return nil, inventory.ErrBarcodeRequired
	}
	return p.process(ctx, command{
		employeeID:  req.EmployeeID,
		typ:         typ,
		code:        req.Barcode,
		checkoutQty: req.CheckoutQty,
		usedQty:     req.UsedQty,
		remarks:     req.Remarks,
		scanner:     true,
	})
}

func (p *Processor) process(ctx context.Context, cmd command) (out *inventory.Outcome, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "Processor.process")
	start := p.now()
	defer func() {
		tracing.EndSpan(span, err)
		metrics.IncCounterVec(metrics.InventoryTransactionsTotal, string(cmd.typ), resultLabel(err))
		metrics.ObserveHistogram(metrics.InventoryTransactionDuration, p.now().Sub(start).Seconds())
	}()
	log := logger.FromContext(ctx, p.log)

	if err = validate(cmd); err != nil {
		return nil, err
	}

	r, err := p.resolve(ctx, cmd)
	if err != nil {
		return nil, err
	}

	effects := inventory.SideEffects{
		Guard:           inventory.EffectSkipped,
		LowStock:        inventory.EffectSkipped,
		Audit:           inventory.EffectSkipped,
		PostReturnBlock: inventory.EffectSkipped,
	}

	if r.barcode != nil {
		if err = p.checkPostReturnBlock(ctx, r.barcode, &effects, log); err != nil {
			return nil, err
		}
		if err = p.checkDuplicate(ctx, cmd, r, &effects, log); err != nil {
			return nil, err
		}
	}

	eff, upgraded, err := p.effectiveType(ctx, cmd, r.barcode)
	if err != nil {
		return nil, err
	}
	if upgraded {
		log.Info("已借出条码扫码，自动转为归还",
			zap.String("barcode", r.barcode.Value),
			zap.String("requested", string(cmd.typ)),
		)
	}

	var (
		tx       *inventory.Transaction
		prev     int
		next     int
		key      string
		acquired bool
		token    = p.newToken()
	)

	sg := saga.NewSaga(p.cfg.Timeout).WithLogger(log)
	sg.AddStep("acquire_guard",
		func(ctx context.Context) error {
			if r.barcode == nil {
				return nil
			}
			key = inventory.GuardKey(eff, r.employee.ID, r.barcode.Value)
			ok, gerr := p.guard.TryAcquire(ctx, key, token, p.cfg.DuplicateWindow)
			if gerr != nil {
				p.degrade(&effects, &effects.Guard, "guard", gerr, log)
				return nil
			}
			if !ok {
				metrics.IncCounterVec(metrics.DuplicateScansTotal, "guard")
				return apperrors.ErrDuplicateScan.WithRetryAfter(p.remaining(ctx, key, p.cfg.DuplicateWindow))
			}
			acquired = true
			effects.Guard = inventory.EffectOK
			return nil
		},
		func(ctx context.Context) error {
			if !acquired {
				return nil
			}
			released, rerr := p.guard.Release(ctx, key, token)
			if rerr != nil {
				return rerr
			}
			if !released {
				log.Warn("防重锁已被替换，跳过释放", zap.String("key", key))
			}
			return nil
		},
	)
	sg.AddStep("record", func(ctx context.Context) error {
		var rerr error
		tx, prev, next, rerr = p.record(ctx, cmd, eff, r)
		return rerr
	}, nil)

	if err = sg.Execute(ctx); err != nil {
		return nil, err
	}

	log.Info("库存交易已提交",
		zap.Uint64("transaction_id", tx.ID),
		zap.String("type", string(eff)),
		zap.Uint64("product_id", r.product.ID),
		zap.Uint64("employee_id", r.employee.ID),
		zap.Int("prev_available", prev),
		zap.Int("new_available", next),
	)

	available := p.afterCommit(ctx, eff, tx, r, prev, next, &effects, log)

	kind := inventory.CommittedFull
	if effects.Degraded() {
		kind = inventory.CommittedDegraded
	}
	return &inventory.Outcome{
		Kind:           kind,
		Transaction:    tx,
		EffectiveType:  eff,
		Upgraded:       upgraded,
		AvailableUnits: available,
		SideEffects:    effects,
	}, nil
}

func validate(cmd command) error {
	if !cmd.scanner && cmd.productID == 0 {
		return inventory.ErrProductRequired
	}
	if cmd.employeeID == 0 {
		return inventory.ErrEmployeeRequired
	}
	if !cmd.typ.IsValid() {
		return inventory.ErrInvalidTransactionType
	}
	if cmd.typ.RequiresBarcode() && cmd.code == "" && cmd.barcodeID == 0 {
		return inventory.ErrBarcodeRequired
	}
	for _, q := range []*int{cmd.checkoutQty, cmd.returnedQty, cmd.usedQty} {
		if q != nil && *q < 0 {
			return inventory.ErrNegativeQuantity
		}
	}
	return nil
}

func (p *Processor) resolve(ctx context.Context, cmd command) (*resolved, error) {
	r := &resolved{}
	productID := cmd.productID

	if cmd.code != "" || cmd.barcodeID != 0 {
		var (
			b   *product.Barcode
			err error
		)
		if cmd.barcodeID != 0 {
			b, err = p.barcodes.FindByID(ctx, cmd.barcodeID)
		} else {
			b, err = p.barcodes.FindByCode(ctx, cmd.code)
		}
		if err != nil {
			return nil, err
		}
		if productID == 0 {
			productID = b.ProductID
		} else if productID != b.ProductID {
			return nil, product.ErrBarcodeProductMismatch
		}
		r.barcode = b
	}

	e, err := p.employees.FindByID(ctx, cmd.employeeID)
	if err != nil {
		return nil, err
	}
	if !e.Active {
		return nil, employee.ErrInactive
	}
	r.employee = e

	if r.product, err = p.products.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	return r, nil
}

// checkDuplicate 按请求的动作检查防重锁，先于条码状态检查
// 扫码流程中条码已借出且超过最短等待时，本次会转为归还，由归还的防重锁把关
// 行锁内的状态复查仍在record中进行
func (p *Processor) checkDuplicate(ctx context.Context, cmd command, r *resolved, effects *inventory.SideEffects, log *zap.Logger) error {
	key := inventory.GuardKey(cmd.typ, r.employee.ID, r.barcode.Value)
	remaining, err := p.guard.Remaining(ctx, key)
	if err != nil {
		p.degrade(effects, &effects.Guard, "guard", err, log)
		return nil
	}
	if remaining <= 0 {
		return nil
	}
	if cmd.scanner && cmd.typ != inventory.TypeReturn && r.barcode.IsCheckedOut() {
		wait, err := p.remainingWait(ctx, r.barcode)
		if err != nil {
			return err
		}
		if wait <= 0 {
			return nil
		}
	}
	metrics.IncCounterVec(metrics.DuplicateScansTotal, "guard")
	return apperrors.ErrDuplicateScan.WithRetryAfter(remaining)
}

// checkPostReturnBlock 归还冷却期内拒绝该条码的任何动作；Redis故障时降级放行
func (p *Processor) checkPostReturnBlock(ctx context.Context, b *product.Barcode, effects *inventory.SideEffects, log *zap.Logger) error {
	remaining, err := p.guard.Remaining(ctx, inventory.PostReturnKey(b.Value))
	if err != nil {
		p.degrade(effects, &effects.Guard, "guard", err, log)
		return nil
	}
	if remaining > 0 {
		metrics.IncCounterVec(metrics.DuplicateScansTotal, "post_return")
		return apperrors.ErrDuplicateScan.WithRetryAfter(remaining)
	}
	return nil
}

// effectiveType 根据条码当前状态确定实际动作
func (p *Processor) effectiveType(ctx context.Context, cmd command, b *product.Barcode) (inventory.TransactionType, bool, error) {
	if b == nil || cmd.typ == inventory.TypeAdjust {
		return cmd.typ, false, nil
	}

	if !b.IsCheckedOut() {
		if cmd.typ == inventory.TypeReturn {
			return "", false, product.ErrBarcodeNotCheckedOut
		}
		return cmd.typ, false, nil
	}

	wait, err := p.remainingWait(ctx, b)
	if err != nil {
		return "", false, err
	}

	switch {
	case wait > 0 && (cmd.scanner || cmd.typ == inventory.TypeReturn):
		return "", false, apperrors.ErrReturnTooEarly.WithRetryAfter(wait)
	case cmd.scanner:
		return inventory.TypeReturn, cmd.typ != inventory.TypeReturn, nil
	case cmd.typ == inventory.TypeCheckout:
		return "", false, product.ErrBarcodeNotAvailable
	}
	return inventory.TypeReturn, false, nil
}

// remainingWait 距最短归还时间还差多少；找不到未归还记录时以条码状态更新时间为准
func (p *Processor) remainingWait(ctx context.Context, b *product.Barcode) (time.Duration, error) {
	checkedOutAt := b.UpdatedAt
	open, err := p.repo.FindOpenCheckout(ctx, b.ID)
	switch {
	case err == nil:
		checkedOutAt = open.CheckedOutAt
	case !errors.Is(err, inventory.ErrCheckoutNotFound):
		return 0, err
	}
	return inventory.RemainingWait(checkedOutAt, p.now(), p.cfg.MinReturnWait), nil
}

// remaining 查询锁剩余时间，查不到时用兜底值，保证返回正数
func (p *Processor) remaining(ctx context.Context, key string, fallback time.Duration) time.Duration {
	d, err := p.guard.Remaining(ctx, key)
	if err != nil || d <= 0 {
		if fallback <= 0 {
			return time.Second
		}
		return fallback
	}
	return d
}

// record 单个数据库事务内记录交易并更新条码/借出记录/库存/分配
func (p *Processor) record(ctx context.Context, cmd command, eff inventory.TransactionType, r *resolved) (tx *inventory.Transaction, prev, next int, err error) {
	now := p.now()
	prev = r.product.AvailableUnits()
	next = prev

	err = p.txManager.Transaction(ctx, func(ctx context.Context) error {
		tx = &inventory.Transaction{
			Type:       eff,
			ProductID:  r.product.ID,
			EmployeeID: r.employee.ID,
			Remarks:    cmd.remarks,
			CreatedAt:  now,
		}
		if r.barcode != nil {
			id := r.barcode.ID
			tx.BarcodeID = &id
		}

		switch eff {
		case inventory.TypeCheckout:
			return p.applyCheckout(ctx, cmd, tx, r, now)
		case inventory.TypeReturn:
			var rerr error
			prev, next, rerr = p.applyReturn(ctx, cmd, tx, r, now)
			return rerr
		default:
			tx.CheckoutQty = deref(cmd.checkoutQty)
			tx.ReturnedQty = deref(cmd.returnedQty)
			tx.UsedQty = deref(cmd.usedQty)
			return p.repo.CreateTransaction(ctx, tx)
		}
	})
	return tx, prev, next, err
}

// applyCheckout 借出：流水 + 条码CHECKED_OUT + 借出记录 + 分配增加，不动库存
func (p *Processor) applyCheckout(ctx context.Context, cmd command, tx *inventory.Transaction, r *resolved, now time.Time) error {
	b, err := p.barcodes.LockByID(ctx, r.barcode.ID)
	if err != nil {
		return err
	}
	// 拿到行锁后重新检查状态，并发借出只有一个能成功
	if err := b.MarkCheckedOut(); err != nil {
		return err
	}

	tx.CheckoutQty = b.BoxQty
	if cmd.checkoutQty != nil {
		tx.CheckoutQty = *cmd.checkoutQty
	}

	if err := p.repo.CreateTransaction(ctx, tx); err != nil {
		return err
	}
	if err := p.barcodes.UpdateStatus(ctx, b.ID, b.Status); err != nil {
		return err
	}
	checkout := &inventory.Checkout{
		BarcodeID:    b.ID,
		EmployeeID:   r.employee.ID,
		ProductID:    r.product.ID,
		CheckedOutAt: now,
	}
	if err := p.repo.CreateCheckout(ctx, checkout); err != nil {
		return err
	}
	return p.repo.AdjustAllocation(ctx, r.employee.ID, r.product.ID, tx.CheckoutQty)
}

// applyReturn 归还：
// actualUsed = clamp(usedQty, 0, boxQty)，returnToInventory = boxQty - actualUsed；
// 可用库存扣减actualUsed，借出人的分配扣减returnToInventory
func (p *Processor) applyReturn(ctx context.Context, cmd command, tx *inventory.Transaction, r *resolved, now time.Time) (prev, next int, err error) {
	b, err := p.barcodes.LockByID(ctx, r.barcode.ID)
	if err != nil {
		return 0, 0, err
	}
	if err := b.MarkReturned(); err != nil {
		return 0, 0, err
	}

	// 分配记在借出人名下；找不到借出记录时按当前操作人处理
	holder := r.employee.ID
	open, err := p.repo.FindOpenCheckout(ctx, b.ID)
	switch {
	case err == nil:
		holder = open.EmployeeID
	case !errors.Is(err, inventory.ErrCheckoutNotFound):
		return 0, 0, err
	}

	actualUsed, back := inventory.SplitReturn(deref(cmd.usedQty), b.BoxQty)
	tx.UsedQty = actualUsed
	tx.ReturnedQty = back

	if err := p.repo.CreateTransaction(ctx, tx); err != nil {
		return 0, 0, err
	}
	if err := p.barcodes.UpdateStatus(ctx, b.ID, b.Status); err != nil {
		return 0, 0, err
	}
	if _, err := p.repo.CloseOpenCheckouts(ctx, b.ID, now); err != nil {
		return 0, 0, err
	}

	prod, err := p.products.LockByID(ctx, r.product.ID)
	if err != nil {
		return 0, 0, err
	}
	prev, next = prod.ConsumeUnits(actualUsed)
	if actualUsed > 0 {
		if err := p.products.SaveUnits(ctx, prod); err != nil {
			return 0, 0, err
		}
	}

	if err := p.repo.AdjustAllocation(ctx, holder, r.product.ID, -back); err != nil {
		return 0, 0, err
	}
	return prev, next, nil
}

// afterCommit 主事务提交后的附带操作，返回重新计算的可用库存
func (p *Processor) afterCommit(
	ctx context.Context,
	eff inventory.TransactionType,
	tx *inventory.Transaction,
	r *resolved,
	prev, next int,
	effects *inventory.SideEffects,
	log *zap.Logger,
) int {
	// 主交易已提交，附带操作不受请求取消影响
	ctx = context.WithoutCancel(ctx)

	available := next
	if fresh, err := p.products.FindByID(ctx, r.product.ID); err != nil {
		log.Warn("重新计算可用库存失败", zap.Uint64("product_id", r.product.ID), zap.Error(err))
		effects.Errors = append(effects.Errors, fmt.Sprintf("available: %v", err))
	} else {
		available = fresh.AvailableUnits()
	}

	if eff == inventory.TypeReturn {
		err := p.guard.Block(ctx, inventory.PostReturnKey(r.barcode.Value), p.cfg.PostReturnBlock)
		if err != nil {
			p.degrade(effects, &effects.PostReturnBlock, "post_return_block", err, log)
		} else {
			effects.PostReturnBlock = inventory.EffectOK
		}
	}

	if p.monitor != nil {
		result, err := p.monitor.Check(ctx, r.product.ID)
		if err != nil {
			p.degrade(effects, &effects.LowStock, "low_stock", err, log)
		} else {
			effects.LowStock = inventory.EffectOK
			effects.LowStockResult = result
		}
	}

	if p.audit != nil {
		if err := p.audit.Record(ctx, inventory.NewAuditEntry(tx, prev, next)); err != nil {
			p.degrade(effects, &effects.Audit, "audit", err, log)
		} else {
			effects.Audit = inventory.EffectOK
		}
	}

	return available
}

// degrade 记录附带操作降级
func (p *Processor) degrade(effects *inventory.SideEffects, status *inventory.EffectStatus, name string, err error, log *zap.Logger) {
	*status = inventory.EffectDegraded
	effects.Errors = append(effects.Errors, fmt.Sprintf("%s: %v", name, err))
	metrics.IncCounterVec(metrics.SideEffectDegradedTotal, name)
	log.Warn("附带操作失败，已降级", zap.String("effect", name), zap.Error(err))
}

func resultLabel(err error) string {
	if err == nil {
		return "committed"
	}
	if apperrors.GetAppError(err).HTTPStatus() < 500 {
		return "rejected"
	}
	return "failed"
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
