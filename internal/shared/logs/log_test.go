package logs

import (
	"os"
	"path/filepath"
	"testing"

	"Coordinator/internal/shared/config"

	"go.uber.org/zap/zapcore"
	glogger "gorm.io/gorm/logger"
)

func TestInit_写入滚动文件(t *testing.T) {
	file := filepath.Join(t.TempDir(), "coordinator.log")
	if err := Init("test", config.LogConfig{FileDir: file, Level: "debug"}); err != nil {
		t.Fatalf("Init err=%v", err)
	}
	Info("hello file")
	Sync()

	raw, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("读取日志文件失败: %v", err)
	}
	if len(raw) == 0 {
		t.Fatalf("期望日志文件非空")
	}
}

func TestSetLevel_非法值回退info(t *testing.T) {
	if err := Init("test", config.LogConfig{Level: "error"}); err != nil {
		t.Fatalf("Init err=%v", err)
	}
	if Level() != zapcore.ErrorLevel {
		t.Fatalf("期望初始级别 error, got=%v", Level())
	}
	SetLevel("debug")
	if Level() != zapcore.DebugLevel {
		t.Fatalf("期望热更新为 debug, got=%v", Level())
	}
	SetLevel("not-a-level")
	if Level() != zapcore.InfoLevel {
		t.Fatalf("期望非法值回退 info, got=%v", Level())
	}
}

func TestGormLogger_LogMode不修改原对象(t *testing.T) {
	base := NewGormLogger(glogger.Warn, 0)
	silent := base.LogMode(glogger.Silent)
	if base.(*GormLogger).level != glogger.Warn {
		t.Fatalf("期望原 logger 级别不变")
	}
	if silent.(*GormLogger).level != glogger.Silent {
		t.Fatalf("期望派生 logger 为 Silent")
	}
}
