package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/stockroom/internal/domain/employee"
	"github.com/xiebiao/stockroom/internal/domain/inventory"
	"github.com/xiebiao/stockroom/internal/domain/product"
	"github.com/xiebiao/stockroom/internal/testutil/memstore"
	apperrors "github.com/xiebiao/stockroom/pkg/errors"
)

const (
	duplicateWindow = 300 * time.Second
	minReturnWait   = 60 * time.Second
)

type fixture struct {
	store     *memstore.Store
	clock     *memstore.Clock
	guard     *memstore.Guard
	publisher *memstore.Publisher
	monitor   *LowStockMonitor
	proc      *Processor
	queries   *QueryService
	emp       *employee.Employee
	prod      *product.Product
	bc        *product.Barcode
}

// newFixture 商品每箱10件、可用50、补货阈值45，一个条码，一个员工E001
func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memstore.NewStore()
	c := memstore.NewClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local))
	g := memstore.NewGuard(c)
	pub := &memstore.Publisher{}
	log := zap.NewNop()

	monitor := NewLowStockMonitor(memstore.ProductRepo{Store: s}, memstore.AlertRepo{Store: s}, nil, pub, LowStockConfig{Debounce: 24 * time.Hour}, log)
	monitor.now = c.Now
	audit := NewAuditLogger(memstore.AuditRepo{Store: s}, log)

	proc := NewProcessor(
		memstore.EmployeeRepo{Store: s}, memstore.ProductRepo{Store: s}, memstore.BarcodeRepo{Store: s}, memstore.InventoryRepo{Store: s}, memstore.TxManager{Store: s},
		g, monitor, audit,
		Config{DuplicateWindow: duplicateWindow, MinReturnWait: minReturnWait},
		log,
	)
	proc.now = c.Now

	f := &fixture{
		store:     s,
		clock:     c,
		guard:     g,
		publisher: pub,
		monitor:   monitor,
		proc:      proc,
		queries:   NewQueryService(memstore.InventoryRepo{Store: s}, memstore.AlertRepo{Store: s}, memstore.ProductRepo{Store: s}, memstore.EmployeeRepo{Store: s}, monitor, audit),
		emp:       s.AddEmployee("E001", true),
	}
	f.prod = s.AddProduct("GLV-100", 10, 50, 45)
	f.bc = s.AddBarcode(f.prod, "BC0001")
	return f
}

func (f *fixture) record(typ string, used *int) (*inventory.Outcome, error) {
	return f.proc.RecordTransaction(context.Background(), RecordRequest{
		ProductID:  f.prod.ID,
		EmployeeID: f.emp.ID,
		Type:       typ,
		Barcode:    f.bc.Value,
		UsedQty:    used,
	})
}

func (f *fixture) mustRecord(t *testing.T, typ string, used *int) *inventory.Outcome {
	t.Helper()
	out, err := f.record(typ, used)
	require.NoError(t, err)
	return out
}

// cycle 借出 → 等待最短时间 → 归还
func (f *fixture) cycle(t *testing.T, used int) *inventory.Outcome {
	t.Helper()
	f.mustRecord(t, "CHECKOUT", nil)
	f.clock.Advance(minReturnWait + time.Second)
	return f.mustRecord(t, "RETURN", intPtr(used))
}

func intPtr(v int) *int { return &v }

func appErr(t *testing.T, err error) *apperrors.AppError {
	t.Helper()
	require.Error(t, err)
	var ae *apperrors.AppError
	require.True(t, errors.As(err, &ae), "应为AppError: %v", err)
	return ae
}

func TestProcessor_CheckoutLeavesUnitsUnchanged(t *testing.T) {
	f := newFixture(t)

	out := f.mustRecord(t, "CHECKOUT", nil)

	assert.Equal(t, inventory.CommittedFull, out.Kind)
	assert.Equal(t, inventory.TypeCheckout, out.EffectiveType)
	assert.Equal(t, 10, out.Transaction.CheckoutQty, "未指定数量时按条码每箱数量")
	assert.Equal(t, 50, out.AvailableUnits)
	assert.Equal(t, inventory.EffectOK, out.SideEffects.Guard)
	assert.Equal(t, inventory.EffectSkipped, out.SideEffects.PostReturnBlock)
	require.NotNil(t, out.SideEffects.LowStockResult)
	assert.Equal(t, inventory.ReasonAboveThreshold, out.SideEffects.LowStockResult.Reason)

	assert.Equal(t, 50, f.store.Product(f.prod.ID).CurrentUnits)
	assert.Equal(t, product.BarcodeCheckedOut, f.store.Barcode(f.bc.ID).Status)
	assert.Equal(t, 10, f.store.Allocation(f.emp.ID, f.prod.ID))

	open, err := memstore.InventoryRepo{Store: f.store}.FindOpenCheckout(context.Background(), f.bc.ID)
	require.NoError(t, err)
	assert.Equal(t, f.emp.ID, open.EmployeeID)

	require.Len(t, f.store.Audits(), 1)
	assert.Equal(t, 50, f.store.Audits()[0].PrevAvailable)
	assert.Equal(t, 50, f.store.Audits()[0].NewAvailable)
}

func TestProcessor_ReturnConsumesUsedUnits(t *testing.T) {
	f := newFixture(t)

	out := f.cycle(t, 3)

	assert.Equal(t, inventory.CommittedFull, out.Kind)
	assert.Equal(t, inventory.TypeReturn, out.EffectiveType)
	assert.Equal(t, 3, out.Transaction.UsedQty)
	assert.Equal(t, 7, out.Transaction.ReturnedQty)
	assert.Equal(t, 47, out.AvailableUnits)
	assert.Equal(t, inventory.EffectOK, out.SideEffects.PostReturnBlock)
	require.NotNil(t, out.SideEffects.LowStockResult)
	assert.False(t, out.SideEffects.LowStockResult.Triggered, "47 > 45 不触发告警")

	assert.Equal(t, 47, f.store.Product(f.prod.ID).CurrentUnits)
	assert.Equal(t, 50, f.store.Product(f.prod.ID).TotalUnits)
	assert.Equal(t, product.BarcodeAvailable, f.store.Barcode(f.bc.ID).Status)
	assert.Equal(t, 3, f.store.Allocation(f.emp.ID, f.prod.ID), "分配只扣减归还入库的7件")

	_, err := memstore.InventoryRepo{Store: f.store}.FindOpenCheckout(context.Background(), f.bc.ID)
	assert.ErrorIs(t, err, inventory.ErrCheckoutNotFound)

	t.Run("冷却期内再次归还被拒绝", func(t *testing.T) {
		before := len(f.store.Transactions())
		_, err := f.record("RETURN", intPtr(3))

		ae := appErr(t, err)
		assert.True(t, ae.IsDuplicate())
		assert.Equal(t, int64(300), ae.RemainingSeconds())
		assert.Len(t, f.store.Transactions(), before)
		assert.Equal(t, 47, f.store.Product(f.prod.ID).CurrentUnits)
	})

	t.Run("冷却期内借出同样被拒绝", func(t *testing.T) {
		f.clock.Advance(100 * time.Second)
		_, err := f.record("CHECKOUT", nil)
		assert.Equal(t, int64(200), appErr(t, err).RemainingSeconds())
	})
}

func TestProcessor_UsedQtyClampedToBox(t *testing.T) {
	f := newFixture(t)

	out := f.cycle(t, 25)

	assert.Equal(t, 10, out.Transaction.UsedQty)
	assert.Zero(t, out.Transaction.ReturnedQty)
	assert.Equal(t, 40, f.store.Product(f.prod.ID).CurrentUnits)
	assert.Equal(t, 10, f.store.Allocation(f.emp.ID, f.prod.ID))
}

func TestProcessor_LowStockAlertDebounce(t *testing.T) {
	f := newFixture(t)

	f.cycle(t, 3) // 47
	f.clock.Advance(duplicateWindow)

	out := f.cycle(t, 3) // 44
	first := out.SideEffects.LowStockResult
	require.NotNil(t, first)
	assert.True(t, first.Triggered)
	assert.Equal(t, 44, first.AvailableUnits)
	require.Len(t, f.store.Alerts(), 1)
	assert.Equal(t, 44, f.store.Alerts()[0].StockAtTrigger)
	require.Len(t, f.publisher.Events(), 1)
	assert.Equal(t, "GLV-100", f.publisher.Events()[0].SKU)

	// 1小时后再次低于阈值
	f.clock.Advance(time.Hour - minReturnWait - time.Second)
	out = f.cycle(t, 1) // 43
	assert.False(t, out.SideEffects.LowStockResult.Triggered)
	assert.Equal(t, inventory.ReasonDebounced, out.SideEffects.LowStockResult.Reason)
	assert.Len(t, f.store.Alerts(), 1)

	// 首次告警25小时后
	f.clock.Advance(24*time.Hour - minReturnWait - time.Second)
	out = f.cycle(t, 1) // 42
	assert.True(t, out.SideEffects.LowStockResult.Triggered)
	require.Len(t, f.store.Alerts(), 2)
	assert.Equal(t, 42, f.store.Alerts()[1].StockAtTrigger)
	assert.Len(t, f.publisher.Events(), 2)
}

func TestProcessor_PrematureReturnRejected(t *testing.T) {
	f := newFixture(t)
	f.mustRecord(t, "CHECKOUT", nil)
	f.clock.Advance(30 * time.Second)

	_, err := f.record("RETURN", intPtr(3))

	ae := appErr(t, err)
	assert.ErrorIs(t, err, apperrors.ErrReturnTooEarly)
	assert.Equal(t, int64(30), ae.RemainingSeconds())
	assert.Len(t, f.store.Transactions(), 1)
	assert.Equal(t, product.BarcodeCheckedOut, f.store.Barcode(f.bc.ID).Status)
	assert.Equal(t, 50, f.store.Product(f.prod.ID).CurrentUnits)
	assert.False(t, f.guard.Held(inventory.GuardKey(inventory.TypeReturn, f.emp.ID, f.bc.Value)))
}

func TestProcessor_StateConflicts(t *testing.T) {
	t.Run("未借出的条码不能归还", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.record("RETURN", nil)
		assert.ErrorIs(t, err, product.ErrBarcodeNotCheckedOut)
		assert.Equal(t, 409, appErr(t, err).HTTPStatus())
		assert.Empty(t, f.store.Transactions())
	})

	t.Run("防重窗口过后已借出的条码仍不能再次借出", func(t *testing.T) {
		f := newFixture(t)
		f.mustRecord(t, "CHECKOUT", nil)
		f.clock.Advance(duplicateWindow)

		_, err := f.record("CHECKOUT", nil)
		assert.ErrorIs(t, err, product.ErrBarcodeNotAvailable)
		assert.Len(t, f.store.Transactions(), 1)
		assert.Equal(t, 10, f.store.Allocation(f.emp.ID, f.prod.ID))
	})
}

func TestProcessor_DuplicateGuard(t *testing.T) {
	t.Run("锁被占用时拒绝并返回剩余时间", func(t *testing.T) {
		f := newFixture(t)
		key := inventory.GuardKey(inventory.TypeCheckout, f.emp.ID, f.bc.Value)
		ok, err := f.guard.TryAcquire(context.Background(), key, "other", duplicateWindow)
		require.NoError(t, err)
		require.True(t, ok)
		f.clock.Advance(20 * time.Second)

		_, err = f.record("CHECKOUT", nil)

		ae := appErr(t, err)
		assert.True(t, ae.IsDuplicate())
		assert.Equal(t, int64(280), ae.RemainingSeconds())
		assert.Empty(t, f.store.Transactions())
		assert.Equal(t, product.BarcodeAvailable, f.store.Barcode(f.bc.ID).Status)
		assert.True(t, f.guard.Held(key), "别人的锁不能被释放")
	})

	t.Run("窗口内重复调整被拒绝", func(t *testing.T) {
		f := newFixture(t)
		f.mustRecord(t, "ADJUST", nil)
		f.clock.Advance(time.Minute)

		_, err := f.record("ADJUST", nil)
		assert.ErrorIs(t, err, apperrors.ErrDuplicateScan)
		assert.Len(t, f.store.Transactions(), 1)

		f.clock.Advance(duplicateWindow)
		f.mustRecord(t, "ADJUST", nil)
		assert.Len(t, f.store.Transactions(), 2)
	})

	t.Run("不同员工互不阻塞", func(t *testing.T) {
		f := newFixture(t)
		other := f.store.AddEmployee("E002", true)
		f.mustRecord(t, "ADJUST", nil)

		_, err := f.proc.RecordTransaction(context.Background(), RecordRequest{
			ProductID: f.prod.ID, EmployeeID: other.ID, Type: "ADJUST", Barcode: f.bc.Value,
		})
		assert.NoError(t, err)
	})
}

func TestProcessor_RepeatedCheckoutIsDuplicate(t *testing.T) {
	t.Run("直接记录", func(t *testing.T) {
		f := newFixture(t)
		f.mustRecord(t, "CHECKOUT", nil)
		key := inventory.GuardKey(inventory.TypeCheckout, f.emp.ID, f.bc.Value)

		f.clock.Advance(10 * time.Second)
		_, err := f.record("CHECKOUT", nil)
		first := appErr(t, err)
		assert.True(t, first.IsDuplicate())
		assert.Equal(t, int64(290), first.RemainingSeconds())

		f.clock.Advance(10 * time.Second)
		_, err = f.record("CHECKOUT", nil)
		second := appErr(t, err)
		assert.True(t, second.IsDuplicate())
		assert.Less(t, second.RemainingSeconds(), first.RemainingSeconds(), "锁的TTL递减")

		assert.Len(t, f.store.Transactions(), 1)
		assert.Equal(t, 10, f.store.Allocation(f.emp.ID, f.prod.ID))
		assert.True(t, f.guard.Held(key), "拒绝不释放原锁")
	})

	t.Run("扫码", func(t *testing.T) {
		f := newFixture(t)
		scan := func() (*inventory.Outcome, error) {
			return f.proc.Scan(context.Background(), ScanRequest{
				Barcode: f.bc.Value, EmployeeID: f.emp.ID, Type: "CHECKOUT",
			})
		}
		_, err := scan()
		require.NoError(t, err)

		f.clock.Advance(10 * time.Second)
		_, err = scan()
		ae := appErr(t, err)
		assert.True(t, ae.IsDuplicate())
		assert.Equal(t, int64(290), ae.RemainingSeconds())
		assert.Len(t, f.store.Transactions(), 1)
		assert.Equal(t, product.BarcodeCheckedOut, f.store.Barcode(f.bc.ID).Status)
	})

	t.Run("重复归还", func(t *testing.T) {
		f := newFixture(t)
		f.cycle(t, 3)
		f.clock.Advance(time.Minute)

		_, err := f.record("RETURN", intPtr(3))
		assert.True(t, appErr(t, err).IsDuplicate())
		assert.Equal(t, 47, f.store.Product(f.prod.ID).CurrentUnits)
	})
}

func TestProcessor_GuardDegraded(t *testing.T) {
	f := newFixture(t)
	f.guard.Fail = true

	out := f.mustRecord(t, "CHECKOUT", nil)

	assert.Equal(t, inventory.CommittedDegraded, out.Kind)
	assert.Equal(t, inventory.EffectDegraded, out.SideEffects.Guard)
	assert.NotEmpty(t, out.SideEffects.Errors)
	assert.Equal(t, product.BarcodeCheckedOut, f.store.Barcode(f.bc.ID).Status, "缓存不可用时交易照常提交")

	t.Run("归还冷却设置失败同样降级", func(t *testing.T) {
		f.clock.Advance(minReturnWait)
		out := f.mustRecord(t, "RETURN", intPtr(2))
		assert.Equal(t, inventory.CommittedDegraded, out.Kind)
		assert.Equal(t, inventory.EffectDegraded, out.SideEffects.PostReturnBlock)
		assert.Equal(t, 48, f.store.Product(f.prod.ID).CurrentUnits)
	})
}

func TestProcessor_CompensationReleasesGuard(t *testing.T) {
	f := newFixture(t)
	dbErr := errors.New("deadlock found")
	f.store.FailCreateTx = dbErr
	key := inventory.GuardKey(inventory.TypeCheckout, f.emp.ID, f.bc.Value)

	_, err := f.record("CHECKOUT", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
	assert.False(t, f.guard.Held(key), "主事务失败后防重锁被释放")
	assert.Contains(t, f.guard.Released(), key)
	assert.Equal(t, product.BarcodeAvailable, f.store.Barcode(f.bc.ID).Status)
	assert.Zero(t, f.store.Allocation(f.emp.ID, f.prod.ID))
	assert.Empty(t, f.store.Audits())

	f.store.FailCreateTx = nil
	out := f.mustRecord(t, "CHECKOUT", nil)
	assert.Equal(t, inventory.CommittedFull, out.Kind, "锁释放后可立即重试")
}

func TestProcessor_AuditFailureDegrades(t *testing.T) {
	f := newFixture(t)
	f.store.FailAudit = errors.New("audit table locked")

	out := f.mustRecord(t, "CHECKOUT", nil)

	assert.Equal(t, inventory.CommittedDegraded, out.Kind)
	assert.Equal(t, inventory.EffectDegraded, out.SideEffects.Audit)
	assert.Equal(t, inventory.EffectOK, out.SideEffects.LowStock)
	assert.Len(t, f.store.Transactions(), 1)
}

func TestProcessor_AdjustWithoutBarcode(t *testing.T) {
	f := newFixture(t)

	out, err := f.proc.RecordTransaction(context.Background(), RecordRequest{
		ProductID:   f.prod.ID,
		EmployeeID:  f.emp.ID,
		Type:        "adjust",
		ReturnedQty: intPtr(5),
		Remarks:     "盘点",
	})

	require.NoError(t, err)
	assert.Equal(t, inventory.CommittedFull, out.Kind)
	assert.Equal(t, inventory.EffectSkipped, out.SideEffects.Guard)
	assert.Nil(t, out.Transaction.BarcodeID)
	assert.Equal(t, 5, out.Transaction.ReturnedQty)
	assert.Equal(t, "盘点", out.Transaction.Remarks)
	assert.Equal(t, 50, f.store.Product(f.prod.ID).CurrentUnits)
}

func TestProcessor_ResolveBarcodeByID(t *testing.T) {
	f := newFixture(t)

	out, err := f.proc.RecordTransaction(context.Background(), RecordRequest{
		ProductID: f.prod.ID, EmployeeID: f.emp.ID, Type: "CHECKOUT", BarcodeID: f.bc.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, out.Transaction.BarcodeID)
	assert.Equal(t, f.bc.ID, *out.Transaction.BarcodeID)
	assert.Equal(t, product.BarcodeCheckedOut, f.store.Barcode(f.bc.ID).Status)

	_, err = f.proc.RecordTransaction(context.Background(), RecordRequest{
		ProductID: f.prod.ID, EmployeeID: f.emp.ID, Type: "CHECKOUT", BarcodeID: 9999,
	})
	assert.ErrorIs(t, err, product.ErrBarcodeNotFound)
}

func TestProcessor_ReturnReconcilesHolderAllocation(t *testing.T) {
	f := newFixture(t)
	other := f.store.AddEmployee("E002", true)
	f.mustRecord(t, "CHECKOUT", nil)
	f.clock.Advance(minReturnWait)

	_, err := f.proc.RecordTransaction(context.Background(), RecordRequest{
		ProductID: f.prod.ID, EmployeeID: other.ID, Type: "RETURN", Barcode: f.bc.SerialNumber, UsedQty: intPtr(4),
	})

	require.NoError(t, err)
	assert.Equal(t, 4, f.store.Allocation(f.emp.ID, f.prod.ID), "扣减借出人名下的分配")
	assert.Zero(t, f.store.Allocation(other.ID, f.prod.ID))
	assert.Equal(t, 46, f.store.Product(f.prod.ID).CurrentUnits)
}

func TestProcessor_Validation(t *testing.T) {
	f := newFixture(t)
	inactive := f.store.AddEmployee("E009", false)
	otherProduct := f.store.AddProduct("TAPE-01", 5, 20, 0)

	tests := []struct {
		name string
		req  RecordRequest
		want error
	}{
		{"缺少商品", RecordRequest{EmployeeID: f.emp.ID, Type: "CHECKOUT", Barcode: f.bc.Value}, inventory.ErrProductRequired},
		{"缺少员工", RecordRequest{ProductID: f.prod.ID, Type: "CHECKOUT", Barcode: f.bc.Value}, inventory.ErrEmployeeRequired},
		{"类型非法", RecordRequest{ProductID: f.prod.ID, EmployeeID: f.emp.ID, Type: "BORROW", Barcode: f.bc.Value}, inventory.ErrInvalidTransactionType},
		{"借出缺少条码", RecordRequest{ProductID: f.prod.ID, EmployeeID: f.emp.ID, Type: "CHECKOUT"}, inventory.ErrBarcodeRequired},
		{"数量为负", RecordRequest{ProductID: f.prod.ID, EmployeeID: f.emp.ID, Type: "CHECKOUT", Barcode: f.bc.Value, CheckoutQty: intPtr(-1)}, inventory.ErrNegativeQuantity},
		{"条码不存在", RecordRequest{ProductID: f.prod.ID, EmployeeID: f.emp.ID, Type: "CHECKOUT", Barcode: "NOPE"}, product.ErrBarcodeNotFound},
		{"条码不属于商品", RecordRequest{ProductID: otherProduct.ID, EmployeeID: f.emp.ID, Type: "CHECKOUT", Barcode: f.bc.Value}, product.ErrBarcodeProductMismatch},
		{"员工不存在", RecordRequest{ProductID: f.prod.ID, EmployeeID: 9999, Type: "CHECKOUT", Barcode: f.bc.Value}, employee.ErrEmployeeNotFound},
		{"员工已停用", RecordRequest{ProductID: f.prod.ID, EmployeeID: inactive.ID, Type: "CHECKOUT", Barcode: f.bc.Value}, employee.ErrInactive},
		{"商品不存在", RecordRequest{ProductID: 9999, EmployeeID: f.emp.ID, Type: "ADJUST"}, product.ErrProductNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.proc.RecordTransaction(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Empty(t, f.store.Transactions(), "校验失败不产生任何写入")
	assert.Zero(t, f.guard.Len())
}

func TestProcessor_Scan(t *testing.T) {
	f := newFixture(t)
	scan := func(code, typ string, used *int) (*inventory.Outcome, error) {
		return f.proc.Scan(context.Background(), ScanRequest{
			Barcode: code, EmployeeID: f.emp.ID, Type: typ, UsedQty: used,
		})
	}

	out, err := scan(f.bc.Value, "", nil)
	require.NoError(t, err)
	assert.Equal(t, inventory.TypeCheckout, out.EffectiveType, "未指定类型按借出")
	assert.False(t, out.Upgraded)

	t.Run("未到最短时间再次扫码按重复拒绝", func(t *testing.T) {
		f.clock.Advance(45 * time.Second)
		_, err := scan(f.bc.Value, "", nil)
		ae := appErr(t, err)
		assert.True(t, ae.IsDuplicate())
		assert.Equal(t, int64(255), ae.RemainingSeconds())
	})

	t.Run("未到最短时间扫码归还被拒绝", func(t *testing.T) {
		_, err := scan(f.bc.Value, "RETURN", nil)
		assert.ErrorIs(t, err, apperrors.ErrReturnTooEarly)
		assert.Equal(t, int64(15), appErr(t, err).RemainingSeconds())
	})

	t.Run("超过最短时间自动转为归还", func(t *testing.T) {
		f.clock.Advance(15 * time.Second)
		out, err := scan(f.bc.SerialNumber, "CHECKOUT", intPtr(2))
		require.NoError(t, err)
		assert.Equal(t, inventory.TypeReturn, out.EffectiveType)
		assert.True(t, out.Upgraded)
		assert.Equal(t, 2, out.Transaction.UsedQty)
		assert.Equal(t, 8, out.Transaction.ReturnedQty)
		assert.Equal(t, 48, out.AvailableUnits)
		assert.Equal(t, product.BarcodeAvailable, f.store.Barcode(f.bc.ID).Status)
	})

	t.Run("缺少条码", func(t *testing.T) {
		_, err := scan("", "", nil)
		assert.ErrorIs(t, err, inventory.ErrBarcodeRequired)
	})
}
