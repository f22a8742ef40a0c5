package handler

import (
	"context"

	"Coordinator/internal/selection/app"
	"Coordinator/internal/shared/session"
	"Coordinator/internal/shared/transport/ws"
	"Coordinator/internal/shared/utils"
	"Coordinator/modules/kit/logx"

	"go.uber.org/zap"
)

// Selection ws 与 http 两侧共享的依赖。
type Selection struct {
	service  *app.SelectionService
	sessions session.Manager
	log      logx.Logger
}

func NewSelection(service *app.SelectionService, sessions session.Manager, log logx.Logger) *Selection {
	if log == nil {
		log = logx.Nop()
	}
	return &Selection{service: service, sessions: sessions, log: log}
}

// OnConnUnbound 连接断开或切换会话后取消它在旧会话上的订阅。
func (s *Selection) OnConnUnbound(sid int64, conn ws.WSConn) {
	if conn == nil {
		return
	}
	if err := s.service.Unwatch(context.Background(), sid, conn.Addr()); err != nil {
		logx.ReportSysError(context.Background(), s.log, logx.NewSysLog("selection unwatch", err))
	}
}

// Release 空闲回收入口。
func (s *Selection) Release(ctx context.Context, sid int64) {
	if err := s.service.Release(ctx, sid); err != nil {
		logx.ReportSysError(ctx, s.log, logx.NewSysLog("selection release", err))
		return
	}
	s.log.WithContext(ctx).Info("session released",
		zap.Int64("sid", sid),
		zap.Time("opened_at", utils.SnowflakeTime(sid)),
	)
}
