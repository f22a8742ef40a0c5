package app

import (
	"context"

	"Coordinator/internal/selection/domain"
)

// SelectionRuntime 托管会话 Store 的单写者运行时。
// 会话不存在时返回的错误需满足 errors.Is(err, domain.ErrSessionNotFound)。
type SelectionRuntime interface {
	Open(ctx context.Context, sid int64) (int64, error)
	Current(ctx context.Context, sid int64) (int64, error)
	Change(ctx context.Context, sid int64, selectedMap int64) (previous int64, err error)
	Subscribe(ctx context.Context, sid int64, key string, observer domain.Observer) error
	Unsubscribe(ctx context.Context, sid int64, key string) error
	Release(ctx context.Context, sid int64) error
}

// TokenService 签发与校验会话 token。
type TokenService interface {
	Issue(sid int64) (string, error)
	Parse(token string) (int64, error)
}

// SessionTracker 记录会话活跃时间，供空闲回收使用。
type SessionTracker interface {
	Track(sid int64)
	Touch(sid int64)
	Forget(sid int64)
}

// Pusher 服务端主动推送，ws 连接实现。
type Pusher interface {
	Push(name string, data any) bool
}

type IDGenerator func() int64
