package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppError_HTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  *AppError
		want int
	}{
		{"参数错误", ErrInvalidParams, http.StatusBadRequest},
		{"密码强度", ErrWeakPassword, http.StatusBadRequest},
		{"未登录", ErrUnauthorized, http.StatusUnauthorized},
		{"无权限", ErrForbidden, http.StatusForbidden},
		{"条码不存在", New(ErrCodeBarcodeNotFound, "条码不存在"), http.StatusNotFound},
		{"重复扫码", ErrDuplicateScan, http.StatusConflict},
		{"归还过早", ErrReturnTooEarly, http.StatusConflict},
		{"内部错误", Wrap(errors.New("boom"), "记录失败"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.err.HTTPStatus())
		})
	}
}

func TestAppError_WithRetryAfter(t *testing.T) {
	err := ErrDuplicateScan.WithRetryAfter(1500 * time.Millisecond)

	assert.Equal(t, int64(2), err.RemainingSeconds(), "剩余秒数应向上取整")
	assert.Zero(t, ErrDuplicateScan.RetryAfter, "预定义错误不应被修改")
	assert.True(t, errors.Is(err, ErrDuplicateScan))
	assert.True(t, err.IsDuplicate())
	assert.False(t, ErrReturnTooEarly.IsDuplicate())
}

func TestGetAppError(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", ErrBarcodeState)
	assert.Same(t, ErrBarcodeState, GetAppError(wrapped))

	plain := errors.New("connection refused")
	got := GetAppError(plain)
	assert.Equal(t, ErrCodeInternal, got.Code)
	assert.ErrorIs(t, got, plain)
}
