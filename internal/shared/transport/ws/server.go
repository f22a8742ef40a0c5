package ws

import (
	"net/http"
	"net/url"
	"slices"

	"Coordinator/modules/kit/logx"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Registrar 由各上下文的 interfaces.Module 实现，把 ws 路由挂到 Router 上。
type Registrar interface {
	WsRegister(r *Router)
}

type Server struct {
	router   *Router
	codec    Codec
	upgrader websocket.Upgrader
	log      logx.Logger
}

// NewServer allowOrigins 为空或包含 "*" 时放行所有来源。
func NewServer(r *Router, needSecret bool, allowOrigins []string, l logx.Logger) *Server {
	if l == nil {
		l = logx.Nop()
	}
	return &Server{
		router: r,
		codec:  NewCodec(needSecret),
		upgrader: websocket.Upgrader{
			CheckOrigin: checkOrigin(allowOrigins),
		},
		log: l,
	}
}

func checkOrigin(allowOrigins []string) func(r *http.Request) bool {
	if len(allowOrigins) == 0 || slices.Contains(allowOrigins, "*") {
		return func(r *http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			// 非浏览器客户端（wsprobe 等）不带 Origin
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return slices.Contains(allowOrigins, origin) || slices.Contains(allowOrigins, u.Host)
	}
}

func (s *Server) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	wsConn, err := s.upgrader.Upgrade(resp, req, nil)
	if err != nil {
		s.log.Warn("websocket upgrade error", zap.Error(err))
		return
	}

	s.log.Info("websocket upgrade success", zap.String("addr", wsConn.RemoteAddr().String()))

	wsServer := NewWsServer(wsConn, s.codec, s.log)
	wsServer.Router(s.router)
	// 先握手再起读写协程，保证握手是第一帧
	wsServer.handshake()
	wsServer.Run()
}
