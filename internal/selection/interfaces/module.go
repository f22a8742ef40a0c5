package interfaces

import (
	"context"

	"Coordinator/internal/selection/app"
	"Coordinator/internal/selection/interfaces/handler"
	"Coordinator/internal/shared/session"
	transporthttp "Coordinator/internal/shared/transport/http"
	"Coordinator/internal/shared/transport/ws"
	"Coordinator/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

type Module struct {
	sel         *handler.Selection
	wsHandler   *handler.WsHandler
	httpHandler *handler.HttpHandler
}

func New(service *app.SelectionService, sessions session.Manager, log logx.Logger) *Module {
	sel := handler.NewSelection(service, sessions, log)
	return &Module{
		sel:         sel,
		wsHandler:   handler.NewWsHandler(sel),
		httpHandler: handler.NewHttpHandler(sel),
	}
}

func (m *Module) WsRegister(r *ws.Router) {
	m.wsHandler.RegisterRoutes(r)
}

func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.httpHandler.RegisterRoutes(g)
}

// OnConnUnbound 作为 session.UnboundHook 注入会话管理器。
func (m *Module) OnConnUnbound(sid int64, conn ws.WSConn) {
	m.sel.OnConnUnbound(sid, conn)
}

// Release 作为空闲回收的释放函数。
func (m *Module) Release(ctx context.Context, sid int64) {
	m.sel.Release(ctx, sid)
}

var (
	_ ws.Registrar            = (*Module)(nil)
	_ transporthttp.Registrar = (*Module)(nil)
)
