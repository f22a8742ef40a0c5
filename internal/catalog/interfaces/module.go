package interfaces

import (
	"Coordinator/internal/catalog/app"
	"Coordinator/internal/catalog/interfaces/handler"
	transporthttp "Coordinator/internal/shared/transport/http"
	"Coordinator/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

type Module struct {
	httpHandler *handler.HttpHandler
}

func New(catalog *app.CatalogService, log logx.Logger) *Module {
	return &Module{httpHandler: handler.NewHttpHandler(catalog, log)}
}

func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.httpHandler.RegisterRoutes(g)
}

var _ transporthttp.Registrar = (*Module)(nil)
