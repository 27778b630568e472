package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/stockroom/pkg/metrics"
)

// Metrics HTTP指标中间件
// path使用路由模板（/api/v1/products/:id），避免按实际ID产生无限多的标签
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.IncGauge(metrics.HTTPRequestsInProgress)
		start := time.Now()

		c.Next()

		metrics.DecGauge(metrics.HTTPRequestsInProgress)
		metrics.IncCounterVec(metrics.HTTPRequestsTotal, c.Request.Method, path, strconv.Itoa(c.Writer.Status()))
		metrics.ObserveHistogramVec(metrics.HTTPRequestDuration, time.Since(start).Seconds(), c.Request.Method, path)
	}
}
