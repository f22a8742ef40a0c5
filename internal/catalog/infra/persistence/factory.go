package persistence

import (
	"context"
	"fmt"
	"strings"

	"Coordinator/internal/catalog/app"
	"Coordinator/internal/catalog/infra/persistence/memory"
	"Coordinator/internal/catalog/infra/persistence/mongodb"
	"Coordinator/internal/catalog/infra/persistence/mysql"
	catalogsqlite "Coordinator/internal/catalog/infra/persistence/sqlite"
	"Coordinator/internal/shared/config"
	"Coordinator/internal/shared/infrastructure/db"
	"Coordinator/internal/shared/infrastructure/mongo"
	"Coordinator/internal/shared/infrastructure/sqlite"
	"Coordinator/internal/shared/utils"

	"go.uber.org/zap"
)

const (
	DriverSQLite  = "sqlite"
	DriverMySQL   = "mysql"
	DriverMongoDB = "mongodb"
	DriverMemory  = "memory"
)

// Store 仓储加上底层连接的释放。
type Store interface {
	app.Repository
	Close() error
}

// Open 按 storage.driver 打开对应存储并完成建表/索引。
func Open(ctx context.Context, cfg config.Config, l *zap.Logger) (Store, error) {
	if l == nil {
		l = zap.NewNop()
	}
	driver := strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	switch driver {
	case "", DriverSQLite:
		sqlDB, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLite.Path, err)
		}
		l.Info("open sqlite success", zap.String("path", cfg.SQLite.Path))
		return catalogsqlite.NewCatalogRepo(sqlDB), nil

	case DriverMySQL:
		gdb, err := db.Open(ctx, cfg.MySQL)
		if err != nil {
			return nil, fmt.Errorf("open mysql: %w", err)
		}
		repo := mysql.NewCatalogRepo(gdb)
		if err := repo.Migrate(ctx); err != nil {
			_ = repo.Close()
			return nil, err
		}
		return repo, nil

	case DriverMongoDB:
		client, err := mongo.Open(ctx, cfg.MongoDB, l)
		if err != nil {
			return nil, fmt.Errorf("open mongodb: %w", err)
		}
		gen, err := utils.NewSnowflake(cfg.Session.NodeID)
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		repo := mongodb.NewCatalogRepo(client, cfg.MongoDB.Database, gen.NextID)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = repo.Close()
			return nil, fmt.Errorf("ensure mongodb indexes: %w", err)
		}
		return repo, nil

	case DriverMemory:
		l.Warn("catalog uses in-memory storage, data is lost on restart")
		return memory.NewCatalogRepo(), nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
