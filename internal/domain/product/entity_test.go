package product

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_ConsumeUnits(t *testing.T) {
	p := NewProduct("GLV-M", "手套", 10, 50, 45)

	prev, next := p.ConsumeUnits(3)
	assert.Equal(t, 50, prev)
	assert.Equal(t, 47, next)
	assert.Equal(t, 50, p.TotalUnits, "用量只影响可用库存")
	assert.False(t, p.IsLowStock())

	_, next = p.ConsumeUnits(100)
	assert.Equal(t, 0, next, "可用库存不能为负")

	_, next = p.ConsumeUnits(-5)
	assert.Equal(t, 0, next)
}

func TestProduct_Receive(t *testing.T) {
	p := NewProduct("GLV-M", "手套", 10, 0, 0)
	assert.True(t, p.IsLowStock())

	prev, next, err := p.Receive(30)
	require.NoError(t, err)
	assert.Equal(t, 0, prev)
	assert.Equal(t, 30, next)
	assert.Equal(t, 30, p.TotalUnits)

	_, _, err = p.Receive(0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestBarcode_StatusTransitions(t *testing.T) {
	b := &Barcode{Status: BarcodeAvailable}

	require.NoError(t, b.MarkCheckedOut())
	assert.True(t, b.IsCheckedOut())
	assert.ErrorIs(t, b.MarkCheckedOut(), ErrBarcodeNotAvailable)

	require.NoError(t, b.MarkReturned())
	assert.ErrorIs(t, b.MarkReturned(), ErrBarcodeNotCheckedOut)
}

func TestNewBarcodes(t *testing.T) {
	p := &Product{ID: 7, SKU: "GLV-M", BoxQty: 10}
	now := time.Date(2024, 11, 5, 9, 0, 0, 0, time.UTC)

	barcodes, err := NewBarcodes(p, 20, 0, now)
	require.NoError(t, err)
	require.Len(t, barcodes, 20)

	values := map[string]bool{}
	serials := map[string]bool{}
	for _, b := range barcodes {
		assert.Equal(t, uint64(7), b.ProductID)
		assert.Equal(t, 10, b.BoxQty)
		assert.Equal(t, BarcodeAvailable, b.Status)
		assert.Regexp(t, `^BC\d{16}$`, b.Value)
		values[b.Value] = true
		serials[b.SerialNumber] = true
	}
	assert.Len(t, values, 20, "批次内条码不重复")
	assert.Len(t, serials, 20)
	assert.Contains(t, barcodes[0].SerialNumber, "GLV-M-20241105-0001-")

	_, err = NewBarcodes(p, 0, 0, now)
	assert.ErrorIs(t, err, ErrInvalidBatchSize)

	custom, err := NewBarcodes(p, 1, 5, now)
	require.NoError(t, err)
	assert.Equal(t, 5, custom[0].BoxQty)
}
