package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/stockroom/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/stockroom/pkg/errors"
	"github.com/xiebiao/stockroom/pkg/response"
)

// pathID 解析路径中的ID参数，失败时直接写400响应
func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, apperrors.InvalidParams("%s格式错误", name))
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, middleware.BindError(err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.Error(c, middleware.BindError(err))
		return false
	}
	return true
}
