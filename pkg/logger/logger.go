// Package logger 基于zap的结构化日志
//
// 用法：
//
//	log, err := logger.New(logger.Config{Level: "info", Format: "json"})
//	defer log.Sync()
//	log.Info("库存交易已记录", zap.Uint64("transaction_id", id))
//
// 请求级日志通过Context传递（见WithContext/FromContext），
// 中间件写入request_id后，下游用例取出的logger自动带上该字段。
package logger

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config 日志配置
type Config struct {
	Level        string // debug | info | warn | error
	Format       string // console | json
	Output       string // stdout | stderr | /path/to/file
	EnableCaller bool
	Development  bool
}

// New 根据配置构建zap.Logger，并替换zap全局logger
func New(cfg Config) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(strings.ToLower(defaultString(cfg.Level, "info")))); err != nil {
		return nil, fmt.Errorf("无效的日志级别 %q: %w", cfg.Level, err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	if cfg.Development {
		encoderCfg = zap.NewDevelopmentEncoderConfig()
	}
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	encoding := defaultString(cfg.Format, "json")
	if encoding != "json" && encoding != "console" {
		return nil, fmt.Errorf("无效的日志格式: %s", cfg.Format)
	}

	output := defaultString(cfg.Output, "stdout")

	zcfg := zap.Config{
		Level:             level,
		Development:       cfg.Development,
		DisableCaller:     !cfg.EnableCaller,
		DisableStacktrace: !cfg.Development,
		Encoding:          encoding,
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{output},
		ErrorOutputPaths:  []string{"stderr"},
	}

	l, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}

	zap.ReplaceGlobals(l)
	return l, nil
}

type ctxKey struct{}

// WithContext 把logger放入Context
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext 取出请求级logger，没有则返回fallback（fallback为nil时用全局logger）
func FromContext(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && l != nil {
			return l
		}
	}
	if fallback != nil {
		return fallback
	}
	return zap.L()
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
