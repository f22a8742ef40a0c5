package logx

import (
	"context"

	"Coordinator/modules/kit/tracex"

	"go.uber.org/zap"
)

// ZapLogger Logger 的 zap 实现，nil *zap.Logger 视为 Nop。
type ZapLogger struct {
	z *zap.Logger
}

func NewZapLogger(l *zap.Logger) *ZapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapLogger{z: l}
}

func (l *ZapLogger) Debug(msg string, fields ...zap.Field) {
	l.z.Debug(msg, fields...)
}

func (l *ZapLogger) Info(msg string, fields ...zap.Field) {
	l.z.Info(msg, fields...)
}

func (l *ZapLogger) Warn(msg string, fields ...zap.Field) {
	l.z.Warn(msg, fields...)
}

func (l *ZapLogger) Error(msg string, fields ...zap.Field) {
	l.z.Error(msg, fields...)
}

func (l *ZapLogger) With(fields ...zap.Field) Logger {
	if len(fields) == 0 {
		return l
	}
	return &ZapLogger{z: l.z.With(fields...)}
}

func (l *ZapLogger) WithContext(ctx context.Context) Logger {
	if l == nil {
		return Nop()
	}
	if ctx == nil {
		return l
	}
	var fields []zap.Field
	if tid, ok := tracex.TraceIDFrom(ctx); ok {
		fields = append(fields, zap.String("trace_id", tid))
	}
	if sid, ok := tracex.SpanIDFrom(ctx); ok {
		fields = append(fields, zap.String("span_id", sid))
	}
	return l.With(fields...)
}

// Named 按模块派生，例如 "selection"、"catalog"。
func (l *ZapLogger) Named(name string) *ZapLogger {
	return &ZapLogger{z: l.z.Named(name)}
}

// Zap 给需要 *zap.Logger 的三方库用。
func (l *ZapLogger) Zap() *zap.Logger {
	return l.z
}
