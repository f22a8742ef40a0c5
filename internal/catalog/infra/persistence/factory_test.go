package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"Coordinator/internal/catalog/infra/persistence/memory"
	catalogsqlite "Coordinator/internal/catalog/infra/persistence/sqlite"
	"Coordinator/internal/shared/config"
)

func TestOpen_按driver选择实现(t *testing.T) {
	ctx := context.Background()

	var cfg config.Config
	cfg.Storage.Driver = "SQLite"
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "main.db")
	store, err := Open(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("Open sqlite err=%v", err)
	}
	if _, ok := store.(*catalogsqlite.CatalogRepo); !ok {
		t.Fatalf("期望 sqlite 实现, got=%T", store)
	}
	_ = store.Close()

	cfg.Storage.Driver = "memory"
	store, err = Open(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("Open memory err=%v", err)
	}
	if _, ok := store.(*memory.CatalogRepo); !ok {
		t.Fatalf("期望 memory 实现, got=%T", store)
	}
}

func TestOpen_未知driver(t *testing.T) {
	var cfg config.Config
	cfg.Storage.Driver = "redis"
	if _, err := Open(context.Background(), cfg, nil); err == nil {
		t.Fatalf("期望未知 driver 报错")
	}
}
