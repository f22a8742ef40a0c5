package logx

import (
	"context"

	"go.uber.org/zap"
)

// Logger 各层共用的结构化日志接口，WithContext 带上 ctx 里的 trace_id/span_id。
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	With(fields ...zap.Field) Logger
	WithContext(ctx context.Context) Logger
}

func Nop() Logger {
	return NewZapLogger(nil)
}
