package handler

import (
	"context"

	"Coordinator/internal/selection/interfaces/handler/dto"
	"Coordinator/internal/shared/transport"
	"Coordinator/internal/shared/transport/ws"

	"go.uber.org/zap"
)

type WsHandler struct {
	sel *Selection
}

func NewWsHandler(sel *Selection) *WsHandler {
	return &WsHandler{sel: sel}
}

func (h *WsHandler) RegisterRoutes(r *ws.Router) {
	sessionGroup := r.Group("session")
	sessionGroup.Handle("open", h.Open)

	selectionGroup := r.Group("selection")
	selectionGroup.Handle("current", h.Current)
	selectionGroup.Handle("change", h.Change)
}

// Open 打开或恢复会话，并把当前连接注册为会话观察者。
func (h *WsHandler) Open(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	if wsReq == nil || wsReq.Body == nil || wsReq.Conn == nil || wsResp == nil || wsResp.Body == nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}

	var req dto.OpenSessionReq
	if wsReq.Body.Msg != nil {
		if err := wsReq.Bind(&req); err != nil {
			h.fail(wsResp, transport.InvalidParam, "参数有误")
			return
		}
	}

	sess, err := h.sel.service.Open(ctx, req.Token)
	if err != nil {
		h.error(ctx, wsResp, "session open", err)
		return
	}

	transport.AddFields(ctx, zap.Int64("sid", sess.SID), zap.Bool("resumed", sess.Resumed))
	wsReq.Conn.SetProperty(ws.ConnKeySID, sess.SID)
	h.sel.sessions.Bind(sess.SID, wsReq.Conn)
	if err := h.sel.service.Watch(ctx, sess.SID, wsReq.Conn.Addr(), wsReq.Conn); err != nil {
		h.error(ctx, wsResp, "session watch", err)
		return
	}

	h.ok(wsResp, dto.OpenSessionResp{
		Token:       sess.Token,
		SelectedMap: sess.SelectedMap,
		Resumed:     sess.Resumed,
	})
}

func (h *WsHandler) Current(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	sid, ok := h.sessionID(ctx, wsReq, wsResp)
	if !ok {
		return
	}
	v, err := h.sel.service.Current(ctx, sid)
	if err != nil {
		h.error(ctx, wsResp, "selection current", err)
		return
	}
	h.ok(wsResp, dto.SelectionResp{SelectedMap: v})
}

func (h *WsHandler) Change(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	sid, ok := h.sessionID(ctx, wsReq, wsResp)
	if !ok {
		return
	}

	var req dto.ChangeSelectionReq
	if err := wsReq.Bind(&req); err != nil || req.SelectedMap == nil {
		h.fail(wsResp, transport.InvalidParam, "selectedMap 不能为空")
		return
	}

	prev, err := h.sel.service.Change(ctx, sid, *req.SelectedMap)
	if err != nil {
		h.error(ctx, wsResp, "selection change", err)
		return
	}
	h.ok(wsResp, dto.ChangeSelectionResp{SelectedMap: *req.SelectedMap, Previous: prev})
}

func (h *WsHandler) sessionID(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) (int64, bool) {
	if wsReq == nil || wsReq.Body == nil || wsReq.Conn == nil || wsResp == nil || wsResp.Body == nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return 0, false
	}
	sid, ok := h.sel.sessions.GetSID(wsReq.Conn)
	if !ok {
		h.fail(wsResp, transport.SessionInvalid, "session 无效")
		return 0, false
	}
	transport.AddFields(ctx, zap.Int64("sid", sid))
	return sid, true
}

func (h *WsHandler) ok(resp *ws.WsMsgResp, data any) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = transport.OK
	resp.Body.Msg = data
}

func (h *WsHandler) fail(resp *ws.WsMsgResp, code int, msg string) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = code
	if msg != "" {
		resp.Body.Msg = msg
	}
}

func (h *WsHandler) error(ctx context.Context, resp *ws.WsMsgResp, action string, err error) {
	code, msg := HandleError(ctx, h.sel.log, action, err)
	h.fail(resp, code, msg)
}
