package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitReturn(t *testing.T) {
	tests := []struct {
		used, box          int
		wantUsed, wantBack int
	}{
		{3, 10, 3, 7},
		{0, 10, 0, 10},
		{-2, 10, 0, 10},
		{15, 10, 10, 0},
		{10, 10, 10, 0},
	}
	for _, tt := range tests {
		used, back := SplitReturn(tt.used, tt.box)
		assert.Equal(t, tt.wantUsed, used, "used=%d box=%d", tt.used, tt.box)
		assert.Equal(t, tt.wantBack, back, "used=%d box=%d", tt.used, tt.box)
		assert.Equal(t, tt.box, used+back)
	}
}

func TestRemainingWait(t *testing.T) {
	out := time.Date(2024, 11, 5, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, 30*time.Second, RemainingWait(out, out.Add(30*time.Second), time.Minute))
	assert.LessOrEqual(t, RemainingWait(out, out.Add(61*time.Second), time.Minute), time.Duration(0))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "CHECKOUT:12:BC1", GuardKey(TypeCheckout, 12, "BC1"))
	assert.NotEqual(t, GuardKey(TypeCheckout, 12, "BC1"), GuardKey(TypeReturn, 12, "BC1"))
	assert.Equal(t, "post_return:BC1", PostReturnKey("BC1"))
}

func TestParseTransactionType(t *testing.T) {
	tt, err := ParseTransactionType(" checkout ")
	require.NoError(t, err)
	assert.Equal(t, TypeCheckout, tt)
	assert.True(t, tt.RequiresBarcode())
	assert.False(t, TypeAdjust.RequiresBarcode())

	_, err = ParseTransactionType("LOAN")
	assert.ErrorIs(t, err, ErrInvalidTransactionType)
}

func TestSideEffects_Degraded(t *testing.T) {
	s := SideEffects{Guard: EffectOK, LowStock: EffectOK, Audit: EffectOK, PostReturnBlock: EffectSkipped}
	assert.False(t, s.Degraded())
	s.Audit = EffectDegraded
	assert.True(t, s.Degraded())
}
