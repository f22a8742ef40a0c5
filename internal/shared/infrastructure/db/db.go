package db

import (
	"context"
	"fmt"
	"time"

	"Coordinator/internal/shared/config"
	"Coordinator/internal/shared/logs"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	slowSQL         = 200 * time.Millisecond
	connMaxLifetime = time.Hour
	pingTimeout     = 3 * time.Second
)

// DSN parseTime 必须打开，created_at 才能扫进 time.Time。
func DSN(cfg config.MySQLConfig) string {
	charset := cfg.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=UTC",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, charset)
}

// Open 打开 MySQL 连接池并 ping 一次，SQL 日志经 zap 输出。
func Open(ctx context.Context, cfg config.MySQLConfig) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.ShowSQL {
		level = logger.Info
	}
	gdb, err := gorm.Open(mysql.Open(DSN(cfg)), &gorm.Config{
		Logger:                 logs.NewGormLogger(level, slowSQL),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxConn)
	sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	logs.Info("open mysql success",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.String("db", cfg.DBName),
	)
	return gdb, nil
}
