package handler

import (
	"context"
	"errors"
	"io"
	nethttp "net/http"
	"strings"

	"Coordinator/internal/selection/interfaces/handler/dto"
	"Coordinator/internal/shared/transport"
	transportdto "Coordinator/internal/shared/transport/dto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HttpHandler struct {
	sel *Selection
}

func NewHttpHandler(sel *Selection) *HttpHandler {
	return &HttpHandler{sel: sel}
}

func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/sessions", h.OpenSession)
	group.GET("/selection", h.Current)
	group.PUT("/selection", h.Change)
}

// OpenSession body 可为空；带 token 时恢复已有会话。
func (h *HttpHandler) OpenSession(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.OpenSessionReq
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			h.fail(c, transport.InvalidParam, "参数有误")
			return
		}
	}
	if req.Token == "" {
		req.Token = bearerToken(c)
	}

	sess, err := h.sel.service.Open(ctx, req.Token)
	if err != nil {
		h.error(ctx, c, "session open", err)
		return
	}
	transport.AddFields(ctx, zap.Int64("sid", sess.SID), zap.Bool("resumed", sess.Resumed))
	h.ok(c, dto.OpenSessionResp{
		Token:       sess.Token,
		SelectedMap: sess.SelectedMap,
		Resumed:     sess.Resumed,
	})
}

func (h *HttpHandler) Current(c *gin.Context) {
	ctx := c.Request.Context()
	sid, ok := h.authenticate(ctx, c)
	if !ok {
		return
	}
	v, err := h.sel.service.Current(ctx, sid)
	if err != nil {
		h.error(ctx, c, "selection current", err)
		return
	}
	h.ok(c, dto.SelectionResp{SelectedMap: v})
}

func (h *HttpHandler) Change(c *gin.Context) {
	ctx := c.Request.Context()
	sid, ok := h.authenticate(ctx, c)
	if !ok {
		return
	}

	var req dto.ChangeSelectionReq
	if err := c.ShouldBindJSON(&req); err != nil || req.SelectedMap == nil {
		h.fail(c, transport.InvalidParam, "selectedMap 不能为空")
		return
	}

	prev, err := h.sel.service.Change(ctx, sid, *req.SelectedMap)
	if err != nil {
		h.error(ctx, c, "selection change", err)
		return
	}
	h.ok(c, dto.ChangeSelectionResp{SelectedMap: *req.SelectedMap, Previous: prev})
}

func (h *HttpHandler) authenticate(ctx context.Context, c *gin.Context) (int64, bool) {
	token := bearerToken(c)
	if token == "" {
		h.fail(c, transport.SessionInvalid, "缺少 Authorization")
		return 0, false
	}
	sid, err := h.sel.service.Authenticate(ctx, token)
	if err != nil {
		h.error(ctx, c, "session authenticate", err)
		return 0, false
	}
	transport.AddFields(ctx, zap.Int64("sid", sid))
	return sid, true
}

func bearerToken(c *gin.Context) string {
	auth := strings.TrimSpace(c.GetHeader("Authorization"))
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

func (h *HttpHandler) ok(c *gin.Context, data any) {
	transport.SetBizCode(c.Request.Context(), transport.OK)
	c.JSON(nethttp.StatusOK, transportdto.Success(transport.OK, data))
}

func (h *HttpHandler) fail(c *gin.Context, code int, msg string) {
	transport.SetBizCode(c.Request.Context(), transport.BizCode(code))
	c.JSON(nethttp.StatusOK, transportdto.Error(code, msg))
}

func (h *HttpHandler) error(ctx context.Context, c *gin.Context, action string, err error) {
	code, msg := HandleError(ctx, h.sel.log, action, err)
	h.fail(c, code, msg)
}
