package ws

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"Coordinator/internal/shared/transport"
	"Coordinator/modules/kit/logx"

	"go.uber.org/zap"
)

// HandlerFunc 处理一条请求。没有改写 resp.Body.Code 时按 SystemError 回包。
type HandlerFunc func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp)

// Group 同一前缀下的一组路由，完整路由名为 "<prefix>.<name>"。
type Group struct {
	prefix string
	router *Router
}

func (g *Group) Handle(name string, h HandlerFunc) {
	g.router.handle(g.prefix+"."+name, h)
}

// Router 路由表在启动阶段注册完毕，之后只读。
type Router struct {
	routes map[string]HandlerFunc
	log    logx.Logger
}

func NewRouter(l logx.Logger) *Router {
	if l == nil {
		l = logx.Nop()
	}
	return &Router{routes: make(map[string]HandlerFunc), log: l}
}

func (r *Router) Register(rs ...Registrar) {
	for _, reg := range rs {
		reg.WsRegister(r)
	}
}

func (r *Router) Group(prefix string) *Group {
	return &Group{prefix: prefix, router: r}
}

// Routes 已注册的路由名，按字典序。
func (r *Router) Routes() []string {
	names := make([]string, 0, len(r.routes))
	for name := range r.routes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Router) handle(route string, h HandlerFunc) {
	if !validRoute(route) || h == nil {
		panic(fmt.Sprintf("ws: invalid route %q", route))
	}
	if _, dup := r.routes[route]; dup {
		panic(fmt.Sprintf("ws: duplicate route %q", route))
	}
	r.routes[route] = h
}

// Dispatch 按 req.Body.Name 找 handler，每次调用输出一条 access 日志。
func (r *Router) Dispatch(req *WsMsgReq, resp *WsMsgResp) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = transport.SystemError
	resp.Body.Msg = nil

	if req == nil || req.Body == nil {
		ctx := transport.NewContext("WS unknown")
		reject(ctx, resp, "参数有误")
		r.finish(ctx, resp)
		return
	}

	ctx := transport.NewContext("WS " + req.Body.Name)
	transport.AddFields(ctx, zap.Int64("seq", req.Body.Seq))
	if req.Conn != nil {
		transport.AddFields(ctx, zap.String("remote", req.Conn.Addr()))
	}
	defer r.finish(ctx, resp)
	defer r.recoverHandler(ctx, req.Body.Name, resp)

	h, msg := r.lookup(req.Body.Name)
	if h == nil {
		reject(ctx, resp, msg)
		return
	}
	h(ctx, req, resp)
}

func (r *Router) lookup(route string) (HandlerFunc, string) {
	if !validRoute(route) {
		return nil, "路由参数有误"
	}
	if h := r.routes[route]; h != nil {
		return h, ""
	}
	return nil, "路由不存在"
}

func (r *Router) recoverHandler(ctx context.Context, route string, resp *WsMsgResp) {
	p := recover()
	if p == nil {
		return
	}
	r.log.WithContext(ctx).Error("ws handler panic", zap.String("route", route), zap.Any("panic", p))
	transport.SetErrorReason(ctx, "HANDLER_PANIC")
	resp.Body.Code = transport.SystemError
	resp.Body.Msg = nil
}

func (r *Router) finish(ctx context.Context, resp *WsMsgResp) {
	transport.SetBizCode(ctx, transport.BizCode(resp.Body.Code))
	transport.WriteAccessLog(ctx, r.log)
}

func reject(ctx context.Context, resp *WsMsgResp, msg string) {
	transport.SetErrorReason(ctx, "BAD_ROUTE")
	resp.Body.Code = transport.InvalidParam
	resp.Body.Msg = msg
}

// validRoute 路由名必须是 "组.处理器" 两段。
func validRoute(name string) bool {
	prefix, handler, ok := strings.Cut(name, ".")
	return ok && prefix != "" && handler != "" && !strings.Contains(handler, ".")
}
