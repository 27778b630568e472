package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/stockroom/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	handler(c)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSuccess(t *testing.T) {
	w := perform(func(c *gin.Context) { Success(c, gin.H{"id": "1"}) })

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, body, "remainingSeconds")
}

func TestError_Duplicate(t *testing.T) {
	w := perform(func(c *gin.Context) {
		Error(c, apperrors.ErrDuplicateScan.WithRetryAfter(240*time.Second))
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "240", w.Header().Get("Retry-After"))

	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, true, body["duplicate"])
	assert.EqualValues(t, 240, body["remainingSeconds"])
}

func TestError_Internal(t *testing.T) {
	w := perform(func(c *gin.Context) {
		Error(c, errors.New("db gone"))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "系统内部错误", body["message"])
	assert.Equal(t, "db gone", body["error"])
}

func TestNewPageData(t *testing.T) {
	p := NewPageData([]int{1, 2}, 21, 1, 10)
	assert.Equal(t, 3, p.TotalPages)
}
