package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiebiao/stockroom/pkg/logger"
	"github.com/xiebiao/stockroom/pkg/tracing"
)

const (
	headerRequestID = "X-Request-ID"
	slowRequest     = 3 * time.Second
)

// RequestLogger 请求日志中间件
// 每个请求生成request_id（客户端已带X-Request-ID时沿用），写入响应头，
// 并把带request_id的logger放进请求Context，用例里logger.FromContext取到的日志自动带上该字段。
// 不记录请求体和Authorization头。
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(headerRequestID, requestID)

		fields := []zap.Field{zap.String("request_id", requestID)}
		if traceID := tracing.ExtractTraceID(c.Request.Context()); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}
		reqLog := log.With(fields...)
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), reqLog))

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()
		entry := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}
		if id := GetEmployeeID(c); id != 0 {
			entry = append(entry, zap.Uint64("employee_id", id))
		}
		if len(c.Errors) > 0 {
			entry = append(entry, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			reqLog.Error("request", entry...)
		case latency > slowRequest:
			reqLog.Warn("slow request", entry...)
		default:
			reqLog.Info("request", entry...)
		}
	}
}
