package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"Coordinator/internal/catalog/app"
	"Coordinator/internal/catalog/domain"
	"Coordinator/internal/catalog/infra/persistence/repotest"
	"Coordinator/internal/shared/infrastructure/sqlite"
)

func newRepo(t *testing.T) *CatalogRepo {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open sqlite err=%v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewCatalogRepo(db)
}

func TestCatalogRepo_Contract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) app.Repository {
		return newRepo(t)
	})
}

func TestCatalogRepo_连接关闭后返回系统错误(t *testing.T) {
	r := newRepo(t)
	_ = r.Close()

	_, err := r.ListMaps(context.Background())
	if !errors.Is(err, domain.ErrSystemUnavailable) {
		t.Fatalf("期望 ErrSystemUnavailable, got=%v", err)
	}
}
