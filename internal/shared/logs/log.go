package logs

import (
	"os"
	"strings"
	"sync"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"Coordinator/internal/shared/config"
)

var (
	mu          sync.RWMutex
	logger      = zap.NewNop()
	atomicLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Init 初始化全局 logger：控制台彩色输出，配置了 file_dir 时再 tee 一路 JSON 到滚动文件。
func Init(appName string, cfg config.LogConfig) error {
	atomicLevel.SetLevel(parseLevel(cfg.Level))

	// 2026-01-28T10:00:00 INFO  coordinator  server start  coordinator_main.go:12
	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	consoleCfg := encoderCfg
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleCore := zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stderr), atomicLevel)

	core := consoleCore
	if cfg.FileDir != "" {
		// 文件只写 JSON，避免把 ANSI 颜色转义写进日志文件
		fileCfg := encoderCfg
		fileCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		fileWriter := &lumberjack.Logger{
			Filename:   cfg.FileDir,
			MaxSize:    max(1, cfg.MaxSize),
			MaxBackups: max(0, cfg.MaxBackups),
			MaxAge:     max(0, cfg.MaxAge),
			Compress:   cfg.Compress,
		}
		core = zapcore.NewTee(
			consoleCore,
			zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(fileWriter), atomicLevel),
		)
	}

	opts := []zap.Option{zap.AddCaller()}
	if cfg.Dev {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	}
	l := zap.New(core, opts...).Named(appName)

	mu.Lock()
	old := logger
	logger = l
	mu.Unlock()
	_ = old.Sync()
	return nil
}

// SetLevel 动态调整级别（配置热更新时调用），非法值回退 info。
func SetLevel(level string) {
	next := parseLevel(level)
	if atomicLevel.Level() == next {
		return
	}
	atomicLevel.SetLevel(next)
	Info("log level changed", zap.String("level", next.String()))
}

// Level 当前生效的日志级别。
func Level() zapcore.Level {
	return atomicLevel.Level()
}

// Logger 返回全局 logger，未 Init 时是 Nop。
func Logger() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Sync() {
	_ = Logger().Sync()
}

func parseLevel(level string) zapcore.Level {
	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

func Debug(msg string, fields ...zap.Field) {
	Logger().Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	Logger().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	Logger().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	Logger().Error(msg, fields...)
}

// Fatal 打印后 os.Exit(1)。
func Fatal(msg string, fields ...zap.Field) {
	Logger().Fatal(msg, fields...)
}
