package mongo

import (
	"context"
	"errors"
	"time"

	"Coordinator/internal/shared/config"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"
)

const (
	appName        = "coordinator"
	defaultTimeout = 3 * time.Second
)

var (
	ErrURIEmpty      = errors.New("mongodb uri is empty")
	ErrDatabaseEmpty = errors.New("mongodb database is empty")
)

// Open 连接并 ping primary，失败时断开已建立的连接。
func Open(ctx context.Context, cfg config.MongoDBConfig, l *zap.Logger) (*mongo.Client, error) {
	switch {
	case cfg.URI == "":
		return nil, ErrURIEmpty
	case cfg.Database == "":
		return nil, ErrDatabaseEmpty
	}
	if l == nil {
		l = zap.NewNop()
	}
	timeout := defaultTimeout
	if cfg.ConnectTimeoutS > 0 {
		timeout = time.Duration(cfg.ConnectTimeoutS) * time.Second
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	l.Info("open mongodb success",
		zap.Strings("hosts", opts.Hosts),
		zap.String("database", cfg.Database),
	)
	return client, nil
}
