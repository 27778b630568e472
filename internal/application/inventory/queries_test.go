package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/stockroom/internal/domain/employee"
	"github.com/xiebiao/stockroom/internal/domain/inventory"
)

func TestQueryService_Available(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.queries.Available(ctx, f.prod.ID)
	require.NoError(t, err)
	second, err := f.queries.Available(ctx, f.prod.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, first)
	assert.Equal(t, first, second, "无交易时多次查询结果一致")

	f.cycle(t, 4)
	after, err := f.queries.Available(ctx, f.prod.ID)
	require.NoError(t, err)
	assert.Equal(t, 46, after)
}

func TestQueryService_ListAlertsUsesLiveUnits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.cycle(t, 6) // 44，触发告警
	f.clock.Advance(duplicateWindow)
	f.cycle(t, 4) // 40，去抖

	views, total, err := f.queries.ListAlerts(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, views, 1)
	assert.Equal(t, 44, views[0].Alert.StockAtTrigger)
	assert.Equal(t, 40, views[0].AvailableUnits)
	assert.Equal(t, "GLV-100", views[0].SKU)
}

func TestQueryService_EmployeeCheckouts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.cycle(t, 0)
	f.clock.Advance(duplicateWindow)
	f.mustRecord(t, "CHECKOUT", nil)

	open, err := f.queries.EmployeeCheckouts(ctx, f.emp.ID, false)
	require.NoError(t, err)
	assert.Len(t, open, 1)

	all, err := f.queries.EmployeeCheckouts(ctx, f.emp.ID, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.queries.EmployeeCheckouts(ctx, 9999, true)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestQueryService_TransactionsAndAudit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.cycle(t, 2)

	txs, total, err := f.queries.ListTransactions(ctx, inventory.TransactionFilter{Type: inventory.TypeReturn})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, 2, txs[0].UsedQty)

	entries, total, err := f.queries.ListAudit(ctx, inventory.AuditFilter{ProductID: f.prod.ID, PerformedBy: f.emp.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, 50, entries[1].PrevAvailable)
	assert.Equal(t, 48, entries[1].NewAvailable)

	allocs, err := f.queries.ListAllocations(ctx, inventory.AllocationFilter{EmployeeID: f.emp.ID})
	require.NoError(t, err)
	require.Len(t, allocs, 1)
	assert.Equal(t, 2, allocs[0].AllocatedUnits)

	res, err := f.queries.CheckLowStock(ctx, f.prod.ID)
	require.NoError(t, err)
	assert.Equal(t, inventory.ReasonAboveThreshold, res.Reason)
}

func TestNormalizePage(t *testing.T) {
	page, size := normalizePage(0, 1000)
	assert.Equal(t, 1, page)
	assert.Equal(t, defaultPageSize, size)

	page, size = normalizePage(3, 50)
	assert.Equal(t, 3, page)
	assert.Equal(t, 50, size)
}
