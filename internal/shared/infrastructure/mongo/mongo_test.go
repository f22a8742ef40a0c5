package mongo

import (
	"context"
	"errors"
	"testing"

	"Coordinator/internal/shared/config"
)

func TestOpen_配置缺失直接报错(t *testing.T) {
	ctx := context.Background()
	if _, err := Open(ctx, config.MongoDBConfig{Database: "coordinator"}, nil); !errors.Is(err, ErrURIEmpty) {
		t.Fatalf("期望 ErrURIEmpty, got=%v", err)
	}
	if _, err := Open(ctx, config.MongoDBConfig{URI: "mongodb://127.0.0.1:27017"}, nil); !errors.Is(err, ErrDatabaseEmpty) {
		t.Fatalf("期望 ErrDatabaseEmpty, got=%v", err)
	}
}
