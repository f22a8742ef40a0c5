package http

import (
	"context"
	nethttp "net/http"
	"time"

	"Coordinator/internal/shared/transport/http/middleware"
	"Coordinator/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

// Registrar 由各上下文的 interfaces.Module 实现，把路由挂到根 group 上。
type Registrar interface {
	HttpRegister(g *gin.RouterGroup)
}

type Server struct {
	engine *gin.Engine
	group  *gin.RouterGroup
	srv    *nethttp.Server
}

func NewHttpServer(addr string, engine *gin.Engine, logger logx.Logger, allowOrigins ...string) *Server {
	if engine == nil {
		engine = gin.New()
		engine.Use(gin.Recovery())
	}
	if logger == nil {
		logger = logx.Nop()
	}
	engine.Use(middleware.Cors(allowOrigins...))
	engine.Use(middleware.AccessLog(logger))
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(nethttp.StatusOK, gin.H{"status": "ok"})
	})

	return &Server{
		engine: engine,
		group:  engine.Group(""),
		srv: &nethttp.Server{
			Addr:              addr,
			Handler:           engine,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Register 挂载各模块路由。
func (s *Server) Register(rs ...Registrar) {
	for _, r := range rs {
		r.HttpRegister(s.group)
	}
}

// Mount 挂载非 gin 的 handler，例如 /ws 升级入口。
func (s *Server) Mount(path string, h nethttp.Handler) {
	s.engine.GET(path, gin.WrapH(h))
}

// Start 启动 HTTP 服务（阻塞）。关闭时会返回 http.ErrServerClosed。
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) Group() *gin.RouterGroup {
	return s.group
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) Handler() nethttp.Handler {
	return s.engine
}
