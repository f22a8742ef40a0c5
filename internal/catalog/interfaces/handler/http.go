package handler

import (
	"context"
	nethttp "net/http"
	"strconv"

	"Coordinator/internal/catalog/app"
	"Coordinator/internal/catalog/interfaces/handler/dto"
	"Coordinator/internal/shared/transport"
	transportdto "Coordinator/internal/shared/transport/dto"
	"Coordinator/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

type HttpHandler struct {
	catalog *app.CatalogService
	log     logx.Logger
}

func NewHttpHandler(catalog *app.CatalogService, log logx.Logger) *HttpHandler {
	if log == nil {
		log = logx.Nop()
	}
	return &HttpHandler{catalog: catalog, log: log}
}

func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/ping", h.Ping)

	maps := group.Group("/maps")
	maps.GET("", h.ListMaps)
	maps.POST("", h.CreateMap)
	maps.GET("/:mapid", h.GetMap)
	maps.PUT("/:mapid", h.EditMap)
	maps.DELETE("/:mapid", h.DeleteMap)
	maps.GET("/:mapid/coordinates", h.ListCoordinates)
	maps.POST("/:mapid/coordinates", h.AddCoordinate)

	coords := group.Group("/coordinates")
	coords.PUT("/:coordid", h.EditCoordinate)
	coords.DELETE("/:coordid", h.DeleteCoordinate)
}

func (h *HttpHandler) Ping(c *gin.Context) {
	h.ok(c, "pong")
}

func (h *HttpHandler) ListMaps(c *gin.Context) {
	ctx := c.Request.Context()
	maps, err := h.catalog.ListMaps(ctx)
	if err != nil {
		h.error(ctx, c, "catalog list maps", err)
		return
	}
	h.ok(c, dto.ToMapResps(maps))
}

func (h *HttpHandler) CreateMap(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.MapReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	id, err := h.catalog.CreateMap(ctx, req.Name, req.Version)
	if err != nil {
		h.error(ctx, c, "catalog create map", err)
		return
	}
	h.ok(c, dto.IDResp{ID: id})
}

func (h *HttpHandler) GetMap(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := h.paramID(c, "mapid")
	if !ok {
		return
	}
	m, err := h.catalog.GetMap(ctx, id)
	if err != nil {
		h.error(ctx, c, "catalog get map", err)
		return
	}
	h.ok(c, dto.ToMapResp(m))
}

func (h *HttpHandler) EditMap(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := h.paramID(c, "mapid")
	if !ok {
		return
	}
	var req dto.MapReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	if err := h.catalog.EditMap(ctx, id, req.Name, req.Version); err != nil {
		h.error(ctx, c, "catalog edit map", err)
		return
	}
	h.ok(c, nil)
}

func (h *HttpHandler) DeleteMap(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := h.paramID(c, "mapid")
	if !ok {
		return
	}
	if err := h.catalog.DeleteMap(ctx, id); err != nil {
		h.error(ctx, c, "catalog delete map", err)
		return
	}
	h.ok(c, nil)
}

func (h *HttpHandler) ListCoordinates(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := h.paramID(c, "mapid")
	if !ok {
		return
	}
	coords, err := h.catalog.ListCoordinates(ctx, id)
	if err != nil {
		h.error(ctx, c, "catalog list coordinates", err)
		return
	}
	h.ok(c, dto.ToCoordinateResps(coords))
}

func (h *HttpHandler) AddCoordinate(c *gin.Context) {
	ctx := c.Request.Context()
	mapID, ok := h.paramID(c, "mapid")
	if !ok {
		return
	}
	var req dto.CoordinateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	id, err := h.catalog.AddCoordinate(ctx, mapID, req.Name, req.XValue, req.YValue, req.ZValue)
	if err != nil {
		h.error(ctx, c, "catalog add coordinate", err)
		return
	}
	h.ok(c, dto.IDResp{ID: id})
}

func (h *HttpHandler) EditCoordinate(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := h.paramID(c, "coordid")
	if !ok {
		return
	}
	var req dto.CoordinateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	if err := h.catalog.EditCoordinate(ctx, id, req.Name, req.XValue, req.YValue, req.ZValue); err != nil {
		h.error(ctx, c, "catalog edit coordinate", err)
		return
	}
	h.ok(c, nil)
}

func (h *HttpHandler) DeleteCoordinate(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := h.paramID(c, "coordid")
	if !ok {
		return
	}
	if err := h.catalog.DeleteCoordinate(ctx, id); err != nil {
		h.error(ctx, c, "catalog delete coordinate", err)
		return
	}
	h.ok(c, nil)
}

func (h *HttpHandler) paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		h.fail(c, transport.InvalidParam, name+" 必须是整数")
		return 0, false
	}
	return id, true
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
	code, msg := HandleError(ctx, h.log, action, err)
	h.fail(c, code, msg)
}
