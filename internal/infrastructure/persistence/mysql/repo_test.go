package mysql

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/stockroom/internal/domain/employee"
	"github.com/xiebiao/stockroom/internal/domain/inventory"
	"github.com/xiebiao/stockroom/internal/domain/product"
)

// 需要可写的测试库：
//
//	STOCKROOM_TEST_MYSQL_DSN="root:root@tcp(127.0.0.1:3306)/stockroom_test?charset=utf8mb4&parseTime=true&loc=Local" go test ./internal/infrastructure/persistence/mysql/...
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("STOCKROOM_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("未设置STOCKROOM_TEST_MYSQL_DSN，跳过MySQL集成测试")
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	tables := []string{
		"inventory_audit_logs", "low_stock_alerts", "inventory_allocations",
		"inventory_transactions", "barcode_checkouts", "barcodes", "products", "employees",
	}
	for _, table := range tables {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB) (*product.Product, *product.Barcode) {
	t.Helper()
	ctx := context.Background()

	p := product.NewProduct("GLV-M", "手套", 10, 50, 45)
	require.NoError(t, NewProductRepository(db).Create(ctx, p))

	barcodes, err := product.NewBarcodes(p, 1, 0, time.Now())
	require.NoError(t, err)
	require.NoError(t, NewBarcodeRepository(db).CreateBatch(ctx, barcodes))
	return p, barcodes[0]
}

func TestEmployeeRepository_Duplicates(t *testing.T) {
	db := openTestDB(t)
	repo := NewEmployeeRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, employee.NewEmployee("E001", "a@example.com", "hash", "Alice", employee.RoleAdmin)))

	err := repo.Create(ctx, employee.NewEmployee("E001", "b@example.com", "hash", "Bob", employee.RoleStaff))
	assert.ErrorIs(t, err, employee.ErrCodeDuplicate)

	err = repo.Create(ctx, employee.NewEmployee("E002", "a@example.com", "hash", "Bob", employee.RoleStaff))
	assert.ErrorIs(t, err, employee.ErrEmailDuplicate)

	found, err := repo.FindByCode(ctx, "E001")
	require.NoError(t, err)
	assert.Equal(t, employee.RoleAdmin, found.Role)
}

func TestBarcodeRepository_FindByCode(t *testing.T) {
	db := openTestDB(t)
	_, bc := seedProduct(t, db)
	repo := NewBarcodeRepository(db)
	ctx := context.Background()

	byValue, err := repo.FindByCode(ctx, bc.Value)
	require.NoError(t, err)
	bySerial, err := repo.FindByCode(ctx, bc.SerialNumber)
	require.NoError(t, err)
	assert.Equal(t, byValue.ID, bySerial.ID)

	_, err = repo.FindByCode(ctx, "nope")
	assert.ErrorIs(t, err, product.ErrBarcodeNotFound)
}

func TestInventoryRepository_OpenCheckoutUnique(t *testing.T) {
	db := openTestDB(t)
	p, bc := seedProduct(t, db)
	repo := NewInventoryRepository(db)
	ctx := context.Background()

	first := &inventory.Checkout{BarcodeID: bc.ID, EmployeeID: 1, ProductID: p.ID, CheckedOutAt: time.Now()}
	require.NoError(t, repo.CreateCheckout(ctx, first))

	second := &inventory.Checkout{BarcodeID: bc.ID, EmployeeID: 2, ProductID: p.ID, CheckedOutAt: time.Now()}
	assert.ErrorIs(t, repo.CreateCheckout(ctx, second), inventory.ErrOpenCheckoutExists)

	closed, err := repo.CloseOpenCheckouts(ctx, bc.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), closed)

	require.NoError(t, repo.CreateCheckout(ctx, second), "归还后可以再次借出")

	open, err := repo.FindOpenCheckout(ctx, bc.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), open.EmployeeID)

	history, err := repo.ListCheckouts(ctx, 1, true)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].IsReturned)
	assert.NotNil(t, history[0].ReturnedAt)
}

func TestInventoryRepository_AdjustAllocation(t *testing.T) {
	db := openTestDB(t)
	repo := NewInventoryRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.AdjustAllocation(ctx, 1, 9, 10))
	require.NoError(t, repo.AdjustAllocation(ctx, 1, 9, 10))

	allocs, err := repo.ListAllocations(ctx, inventory.AllocationFilter{EmployeeID: 1})
	require.NoError(t, err)
	require.Len(t, allocs, 1)
	assert.Equal(t, 20, allocs[0].AllocatedUnits)

	require.NoError(t, repo.AdjustAllocation(ctx, 1, 9, -20))
	allocs, err = repo.ListAllocations(ctx, inventory.AllocationFilter{EmployeeID: 1})
	require.NoError(t, err)
	assert.Empty(t, allocs, "归零后删除分配行")
}

func TestAlertRepository_Latest(t *testing.T) {
	db := openTestDB(t)
	repo := NewAlertRepository(db)
	ctx := context.Background()

	_, err := repo.Latest(ctx, 9)
	assert.ErrorIs(t, err, inventory.ErrAlertNotFound)

	base := time.Now().Add(-48 * time.Hour).Truncate(time.Second)
	require.NoError(t, repo.Create(ctx, &inventory.LowStockAlert{ProductID: 9, StockAtTrigger: 44, Threshold: 45, CreatedAt: base}))
	require.NoError(t, repo.Create(ctx, &inventory.LowStockAlert{ProductID: 9, StockAtTrigger: 40, Threshold: 45, CreatedAt: base.Add(25 * time.Hour)}))

	latest, err := repo.Latest(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, 40, latest.StockAtTrigger)
}

func TestAuditRepository_ListFilters(t *testing.T) {
	db := openTestDB(t)
	repo := NewAuditRepository(db)
	ctx := context.Background()

	now := time.Now().Truncate(time.Second)
	for i, performer := range []uint64{1, 1, 2} {
		require.NoError(t, repo.Append(ctx, &inventory.AuditEntry{
			TransactionID: uint64(i + 1),
			Type:          inventory.TypeReturn,
			ProductID:     9,
			PerformedBy:   performer,
			PrevAvailable: 50,
			NewAvailable:  47,
			CreatedAt:     now.Add(time.Duration(i) * time.Minute),
		}))
	}

	entries, total, err := repo.List(ctx, inventory.AuditFilter{ProductID: 9, PerformedBy: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, uint64(2), entries[0].TransactionID, "最新在前")

	start := now.Add(90 * time.Second)
	_, total, err = repo.List(ctx, inventory.AuditFilter{StartDate: &start})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
