package logs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Coordinator/modules/kit/logx"

	"go.uber.org/zap"
	glogger "gorm.io/gorm/logger"
)

// GormLogger 把 GORM 的 SQL 日志接到全局 zap，trace_id 随 ctx 带上。
type GormLogger struct {
	level glogger.LogLevel
	slow  time.Duration
}

func NewGormLogger(level glogger.LogLevel, slow time.Duration) glogger.Interface {
	return &GormLogger{level: level, slow: slow}
}

func (l *GormLogger) LogMode(level glogger.LogLevel) glogger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= glogger.Info {
		l.with(ctx).Info(fmt.Sprintf("gorm: "+msg, data...))
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= glogger.Warn {
		l.with(ctx).Warn(fmt.Sprintf("gorm: "+msg, data...))
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= glogger.Error {
		l.with(ctx).Error(fmt.Sprintf("gorm: "+msg, data...))
	}
}

// Trace 出错记 ERROR，慢查询记 WARN，show_sql 打开时其余 SQL 记 DEBUG。
// 记录不存在属于正常查询结果，不算错误。
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= glogger.Silent {
		return
	}
	cost := time.Since(begin)
	failed := err != nil && !errors.Is(err, glogger.ErrRecordNotFound)
	slow := l.slow > 0 && cost > l.slow
	if !failed && !slow && l.level < glogger.Info {
		return
	}

	sql, rows := fc()
	fields := []zap.Field{zap.Duration("cost", cost), zap.Int64("rows", rows), zap.String("sql", sql)}
	log := l.with(ctx)
	switch {
	case failed:
		log.Error("gorm sql failed", append(fields, zap.Error(err))...)
	case slow:
		log.Warn("gorm slow sql", append(fields, zap.Duration("threshold", l.slow))...)
	default:
		log.Debug("gorm sql", fields...)
	}
}

func (l *GormLogger) with(ctx context.Context) logx.Logger {
	return logx.NewZapLogger(Logger().Named("gorm")).WithContext(ctx)
}
